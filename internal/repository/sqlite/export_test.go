package sqlite

import (
	"database/sql"
	"io"
	"log/slog"
)

// NewForTest wraps an existing connection, skipping schema setup.
func NewForTest(db *sql.DB) *Repository {
	return &Repository{db: db, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
