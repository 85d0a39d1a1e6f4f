package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Houeta/pulsemarket/internal/models"
	"github.com/Houeta/pulsemarket/internal/repository"
)

// SaveSession stores (or replaces) the token and account of a chat.
func (r *Repository) SaveSession(ctx context.Context, session *models.Session) error {
	const opn = "repository.sqlite.SaveSession"

	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("%s: failed to encode user: %w", opn, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (chat_id, token, user_json) VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET token = excluded.token, user_json = excluded.user_json,
		updated_at = CURRENT_TIMESTAMP`,
		session.ChatID, session.Token, string(userJSON),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// GetSession returns the session of a chat or repository.ErrSessionNotFound.
func (r *Repository) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	const opn = "repository.sqlite.GetSession"

	var token, userJSON string
	err := r.db.QueryRowContext(ctx,
		"SELECT token, user_json FROM sessions WHERE chat_id = ?", chatID,
	).Scan(&token, &userJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	session := &models.Session{ChatID: chatID, Token: token}
	if err = json.Unmarshal([]byte(userJSON), &session.User); err != nil {
		return nil, fmt.Errorf("%s: failed to decode user: %w", opn, err)
	}

	return session, nil
}

// DeleteSession signs the chat out. Deleting a missing session is a no-op.
func (r *Repository) DeleteSession(ctx context.Context, chatID int64) error {
	const opn = "repository.sqlite.DeleteSession"
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE chat_id = ?", chatID)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}
