package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Houeta/pulsemarket/internal/metrics"
	"github.com/Houeta/pulsemarket/internal/models"
	"github.com/go-playground/validator/v10"
	"gopkg.in/telebot.v4"
)

// Settings configure the bot.
type Settings struct {
	Token  string
	Poller time.Duration
	// MaxPrice is the price ceiling meaning "no limit".
	MaxPrice int
	// FeedTimeout bounds every feed request.
	FeedTimeout time.Duration
	Metrics     *metrics.FeedMetrics
}

// Bot contains the bot API instance and other information.
type Bot struct {
	bot      API
	log      *slog.Logger
	market   Market
	repo     Repository
	settings Settings
	validate *validator.Validate

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[int64]*chatSession
}

func NewBot(log *slog.Logger, settings Settings, market Market, repo Repository) (*Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  settings.Token,
		Poller: &telebot.LongPoller{Timeout: settings.Poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", bot.Me.Username)

	botInstance := newBot(log, bot, market, repo, settings)
	botInstance.registerRoutes()

	return botInstance, nil
}

func newBot(log *slog.Logger, api API, market Market, repo Repository, settings Settings) *Bot {
	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		bot:      api,
		log:      log,
		market:   market,
		repo:     repo,
		settings: settings,
		validate: newValidator(),
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[int64]*chatSession),
	}
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot, cancels pending feed requests and
// logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
	b.cancel()
	b.closeSessions()
}

// NotifyFeatured sends featured slide changes to one chat.
func (b *Bot) NotifyFeatured(_ context.Context, chatID int64, changes *models.Changes) error {
	if _, err := b.bot.Send(&telebot.Chat{ID: chatID}, renderChanges(changes)); err != nil {
		return fmt.Errorf("failed to send featured update to chat %d: %w", chatID, err)
	}
	return nil
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	// Public routes.
	b.bot.Handle("/start", b.startHandler)
	b.bot.Handle("/help", b.helpHandler)

	// Feed and filters.
	b.bot.Handle("/feed", b.feedHandler)
	b.bot.Handle("/search", b.searchHandler)
	b.bot.Handle("/maxprice", b.maxPriceHandler)
	b.bot.Handle("/status", b.selectorHandler(selectStatus))
	b.bot.Handle("/category", b.selectorHandler(selectCategory))
	b.bot.Handle("/store", b.selectorHandler(selectStore))
	b.bot.Handle("/currency", b.selectorHandler(selectCurrency))
	b.bot.Handle("/ghost", b.ghostHandler)
	b.bot.Handle("/limit", b.limitHandler)
	b.bot.Handle("/page", b.pageHandler)
	b.bot.Handle("/reset", b.resetHandler)
	b.bot.Handle(&telebot.Btn{Unique: btnPage}, b.pageCallback)
	b.bot.Handle(&telebot.Btn{Unique: btnLimit}, b.limitCallback)
	b.bot.Handle(&telebot.Btn{Unique: btnNoop}, b.noopCallback)
	b.bot.Handle(telebot.OnLocation, b.locationHandler)

	// Featured slide.
	b.bot.Handle("/featured", b.featuredHandler)
	b.bot.Handle("/subscribe", b.subscribeHandler)
	b.bot.Handle("/unsubscribe", b.unsubscribeHandler)

	// Account.
	b.bot.Handle("/login", b.loginHandler)
	b.bot.Handle("/register", b.registerHandler)
	b.bot.Handle("/logout", b.logoutHandler)
	b.bot.Handle("/me", b.meHandler)
	b.bot.Handle("/claim", b.claimHandler)

	// Sellers and admins.
	b.bot.Handle("/packages", b.packagesHandler)
	b.bot.Handle("/buyad", b.buyAdHandler)
	b.bot.Handle("/roles", b.rolesHandler)
	b.bot.Handle("/toggleuser", b.toggleUserHandler)
}
