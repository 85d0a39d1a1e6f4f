package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Houeta/pulsemarket/internal/models"
	"github.com/Houeta/pulsemarket/internal/repository"
	"github.com/shopspring/decimal"
)

// GetState returns the featured slide stored by the last UpdateState.
func (r *Repository) GetState(ctx context.Context) (*models.State, error) {
	const opn = "repository.sqlite.GetState"

	// 1. Get hash of the slide
	var hash string
	err := r.db.QueryRowContext(ctx, "SELECT hash FROM featured_state WHERE id = 1").Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrStateNotFound
		}
		return nil, fmt.Errorf("%s: failed to get featured hash: %w", opn, err)
	}

	// 2. Get the products in slide order
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, price, currency FROM featured_products ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get featured products: %w", opn, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var (
			p        models.Product
			id       string
			price    string
			name     sql.NullString
			currency sql.NullString
		)
		if err = rows.Scan(&id, &name, &price, &currency); err != nil {
			return nil, fmt.Errorf("%s: failed to scan product: %w", opn, err)
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("%s: invalid price %q of product %s: %w", opn, price, id, err)
		}
		p.ID = models.ID(id)
		p.Name = name.String
		p.Currency = currency.String
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return &models.State{
		Hash:     hash,
		Products: products,
	}, nil
}

// UpdateState atomically replaces the stored slide.
func (r *Repository) UpdateState(ctx context.Context, state *models.State) error {
	const opn = "repository.sqlite.UpdateState"

	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // returns sql.ErrTxDone after a successful commit

	_, err = tx.ExecContext(ctx, "INSERT OR REPLACE INTO featured_state (id, hash) VALUES (1, ?)", state.Hash)
	if err != nil {
		return fmt.Errorf("%s: failed to update featured hash: %w", opn, err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM featured_products")
	if err != nil {
		return fmt.Errorf("%s: failed to delete old products: %w", opn, err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		"INSERT INTO featured_products (id, position, name, price, currency) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare insert statement: %w", opn, err)
	}
	defer stmt.Close()

	for i, p := range state.Products {
		if _, err = stmt.ExecContext(ctx, p.ID.String(), i, p.Name, p.Price.String(), p.Currency); err != nil {
			return fmt.Errorf("%s: failed to insert product %s: %w", opn, p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}
