package sqlite

import (
	"context"

	"github.com/Houeta/pulsemarket/internal/models"
)

// StateRepository stores the last seen featured slide.
type StateRepository interface {
	GetState(ctx context.Context) (*models.State, error)
	UpdateState(ctx context.Context, state *models.State) error
}

// SubscriptionRepository stores which chats want featured alerts.
type SubscriptionRepository interface {
	SubscribeChat(ctx context.Context, chatID int64) error
	UnsubscribeChat(ctx context.Context, chatID int64) error
	GetSubscribedChats(ctx context.Context) ([]int64, error)
}

// SessionRepository stores the bearer token of each chat.
type SessionRepository interface {
	SaveSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	DeleteSession(ctx context.Context, chatID int64) error
}
