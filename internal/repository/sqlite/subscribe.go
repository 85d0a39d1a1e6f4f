package sqlite

import (
	"context"
	"fmt"
)

// SubscribeChat signs the chat up for featured alerts. Subscribing twice is a no-op.
func (r *Repository) SubscribeChat(ctx context.Context, chatID int64) error {
	const op = "repository.sqlite.SubscribeChat"
	_, err := r.db.ExecContext(ctx, "INSERT OR IGNORE INTO subscriptions (chat_id) VALUES (?)", chatID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UnsubscribeChat removes the chat from featured alerts.
func (r *Repository) UnsubscribeChat(ctx context.Context, chatID int64) error {
	const op = "repository.sqlite.UnsubscribeChat"
	_, err := r.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE chat_id = ?", chatID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetSubscribedChats returns every chat subscribed to featured alerts.
func (r *Repository) GetSubscribedChats(ctx context.Context) ([]int64, error) {
	const opn = "repository.sqlite.GetSubscribedChats"
	rows, err := r.db.QueryContext(ctx, "SELECT chat_id FROM subscriptions ORDER BY chat_id")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: failed to scan chat_id: %w", opn, err)
		}
		chatIDs = append(chatIDs, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return chatIDs, nil
}
