package bot

import (
	"context"
	"net/url"

	"github.com/Houeta/pulsemarket/internal/api"
	"github.com/Houeta/pulsemarket/internal/models"
	"gopkg.in/telebot.v4"
)

type API interface {
	// Handle lets you set the handler for some command name or one of the supported endpoints. It also applies middleware if such passed to the function.
	Handle(endpoint interface{}, h telebot.HandlerFunc, m ...telebot.MiddlewareFunc)
	// Start brings bot into motion by consuming incoming updates (see Bot.Updates channel).
	Start()
	// Stop gracefully shuts the poller down.
	Stop()

	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)

	Edit(msg telebot.Editable, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Market is the remote marketplace API.
type Market interface {
	ListProducts(ctx context.Context, query url.Values) (*models.ProductPage, error)
	FeaturedAds(ctx context.Context) ([]models.Product, error)
	AdPackages(ctx context.Context, token string) ([]models.AdPackage, error)
	PurchaseAd(ctx context.Context, token string, purchase api.PurchaseRequest) error
	SetRoles(ctx context.Context, token string, update api.RoleUpdate) error
	ToggleUser(ctx context.Context, token, userID string) error
	ClaimReward(ctx context.Context, claim api.RewardClaim) (*models.RewardResult, error)
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResult, error)
	Register(ctx context.Context, reg api.Registration) (*api.AuthResult, error)
}

// Repository keeps signed-in sessions and featured subscriptions.
type Repository interface {
	SaveSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	DeleteSession(ctx context.Context, chatID int64) error
	SubscribeChat(ctx context.Context, chatID int64) error
	UnsubscribeChat(ctx context.Context, chatID int64) error
}
