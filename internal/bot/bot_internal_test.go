package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Houeta/pulsemarket/internal/api"
	"github.com/Houeta/pulsemarket/internal/models"
	"github.com/Houeta/pulsemarket/internal/repository"
	"github.com/Houeta/pulsemarket/test/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"
)

// fakeContext implements the parts of telebot.Context the handlers use.
type fakeContext struct {
	telebot.Context

	chat      *telebot.Chat
	args      []string
	message   *telebot.Message
	callback  *telebot.Callback
	sent      []string
	deleted   bool
	responses int
}

func newContext(chatID int64, args ...string) *fakeContext {
	return &fakeContext{chat: &telebot.Chat{ID: chatID}, args: args, message: &telebot.Message{}}
}

func (f *fakeContext) Chat() *telebot.Chat         { return f.chat }
func (f *fakeContext) Sender() *telebot.User       { return &telebot.User{Username: "student"} }
func (f *fakeContext) Args() []string              { return f.args }
func (f *fakeContext) Message() *telebot.Message   { return f.message }
func (f *fakeContext) Callback() *telebot.Callback { return f.callback }

func (f *fakeContext) Delete() error {
	f.deleted = true
	return nil
}

func (f *fakeContext) Respond(...*telebot.CallbackResponse) error {
	f.responses++
	return nil
}

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, fmt.Sprint(what))
	return nil
}

func (f *fakeContext) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type testBot struct {
	*Bot
	api    *mocks.API
	market *mocks.Market
	repo   *mocks.BotRepository
}

func newTestBot(t *testing.T) testBot {
	t.Helper()

	tb := testBot{
		api:    mocks.NewAPI(t),
		market: mocks.NewMarket(t),
		repo:   mocks.NewBotRepository(t),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tb.Bot = newBot(logger, tb.api, tb.market, tb.repo, Settings{MaxPrice: 5000, FeedTimeout: time.Second})

	t.Cleanup(func() {
		tb.cancel()
		tb.closeSessions()
	})

	return tb
}

func product(id, name string, price int64) models.Product {
	return models.Product{
		ID:          models.ID(id),
		Name:        name,
		Price:       decimal.NewFromInt(price),
		Stock:       2,
		Description: "<p>Fast <b>machine</b></p>",
	}
}

func queryWith(key, value string) interface{} {
	return mock.MatchedBy(func(q url.Values) bool {
		return q.Get(key) == value
	})
}

func textContaining(parts ...string) interface{} {
	return mock.MatchedBy(func(s string) bool {
		for _, p := range parts {
			if !strings.Contains(s, p) {
				return false
			}
		}
		return true
	})
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the feed to render")
	}
}

func TestStart(t *testing.T) {
	t.Parallel()

	mockBot := mocks.NewAPI(t)
	mockBot.On("Start").Once()

	logger := slog.Default()
	testBot := Bot{bot: mockBot, log: logger}

	testBot.Start()

	mockBot.AssertExpectations(t)
}

func TestStop(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	tb.api.On("Stop").Once()

	tb.Stop()

	require.Error(t, tb.ctx.Err(), "pending feed requests are cancelled")
	assert.Empty(t, tb.sessions)
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	mockBot := mocks.NewAPI(t)

	// 25 commands and the location endpoint.
	mockBot.On("Handle", mock.AnythingOfType("string"), mock.AnythingOfType("telebot.HandlerFunc")).Times(26)
	mockBot.On("Handle", mock.AnythingOfType("*telebot.Btn"), mock.AnythingOfType("telebot.HandlerFunc")).Times(3)

	logger := slog.Default()
	testBot := Bot{bot: mockBot, log: logger}

	testBot.registerRoutes()

	mockBot.AssertExpectations(t)
}

func TestFeedHandler(t *testing.T) {
	t.Parallel()

	t.Run("populated", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(1)

		tb.market.On("ListProducts", mock.Anything, queryWith("page", "1")).
			Return(&models.ProductPage{Items: []models.Product{product("1", "Laptop", 300)}, TotalPages: 3}, nil).Once()
		tb.api.On("Send", c.chat, textContaining("Page 1 of 3", "1. Laptop · 300.00 PL · 2 in stock", "Fast machine"),
			mock.AnythingOfType("*telebot.ReplyMarkup")).
			Return(&telebot.Message{ID: 10}, nil).Once()

		require.NoError(t, tb.feedHandler(c))

		assert.Equal(t, 10, tb.session(c.chat).view.ID)
	})

	t.Run("empty and failed read differently", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(2)

		tb.market.On("ListProducts", mock.Anything, mock.Anything).
			Return(&models.ProductPage{}, nil).Once()
		tb.api.On("Send", c.chat, textContaining(textEmpty), mock.Anything).
			Return(&telebot.Message{ID: 11}, nil).Once()
		require.NoError(t, tb.feedHandler(c))

		tb.market.On("ListProducts", mock.Anything, mock.Anything).
			Return(nil, &api.StatusError{StatusCode: 503, Message: "down for maintenance"}).Once()
		tb.api.On("Send", c.chat, textContaining("Could not load products: down for maintenance"), mock.Anything).
			Return(&telebot.Message{ID: 12}, nil).Once()
		require.NoError(t, tb.feedHandler(c))
	})
}

func TestFilterCommands_RenderThroughWatcher(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	c := newContext(3, "gaming", "laptop")
	done := make(chan struct{})

	tb.market.On("ListProducts", mock.Anything, queryWith("search", "gaming laptop")).
		Return(&models.ProductPage{Items: []models.Product{product("1", "Laptop", 300)}, TotalPages: 1}, nil).Once()
	tb.api.On("Send", c.chat, textContaining(`search "gaming laptop"`), mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(&telebot.Message{ID: 20}, nil).Once()

	require.NoError(t, tb.searchHandler(c))
	waitFor(t, done)

	assert.Empty(t, c.sent, "the feed message is the reply")
}

func TestFilterCommands_Replies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler func(b *Bot) telebot.HandlerFunc
		args    []string
		want    string
	}{
		{
			name:    "unchanged selector",
			handler: func(b *Bot) telebot.HandlerFunc { return b.selectorHandler(selectStatus) },
			args:    []string{"all"},
			want:    "Nothing changed. Filters: none · 12 per page",
		},
		{
			name:    "invalid limit",
			handler: func(b *Bot) telebot.HandlerFunc { return b.limitHandler },
			args:    []string{"7"},
			want:    "Page size must be one of 6, 12, 24, 50, 100.",
		},
		{
			name:    "limit usage",
			handler: func(b *Bot) telebot.HandlerFunc { return b.limitHandler },
			want:    "Usage: /limit <6|12|24|50|100>",
		},
		{
			name:    "invalid page",
			handler: func(b *Bot) telebot.HandlerFunc { return b.pageHandler },
			args:    []string{"0"},
			want:    "Pages start at 1.",
		},
		{
			name:    "negative price",
			handler: func(b *Bot) telebot.HandlerFunc { return b.maxPriceHandler },
			args:    []string{"-5"},
			want:    "The price cannot be negative.",
		},
		{
			name:    "price above the ceiling on defaults",
			handler: func(b *Bot) telebot.HandlerFunc { return b.maxPriceHandler },
			args:    []string{"9000"},
			want:    "Nothing changed. Filters: none · 12 per page",
		},
		{
			name:    "price not a number",
			handler: func(b *Bot) telebot.HandlerFunc { return b.maxPriceHandler },
			args:    []string{"cheap"},
			want:    "The price must be a whole number, e.g. /maxprice 300",
		},
		{
			name:    "reset on defaults",
			handler: func(b *Bot) telebot.HandlerFunc { return b.resetHandler },
			want:    "Nothing changed. Filters: none · 12 per page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTestBot(t)
			c := newContext(4, tt.args...)

			require.NoError(t, tt.handler(tb.Bot)(c))

			assert.Equal(t, tt.want, c.last())
		})
	}
}

func TestPageCallback_EditsFeedMessage(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	c := newContext(5)
	feedMsg := &telebot.Message{ID: 30}
	c.callback = &telebot.Callback{Data: "2", Message: feedMsg}
	done := make(chan struct{})

	tb.market.On("ListProducts", mock.Anything, queryWith("page", "2")).
		Return(&models.ProductPage{Items: []models.Product{product("13", "Desk", 40)}, TotalPages: 2}, nil).Once()
	tb.api.On("Edit", feedMsg, textContaining("Page 2 of 2", "13. Desk"), mock.AnythingOfType("*telebot.ReplyMarkup")).
		Run(func(mock.Arguments) { close(done) }).
		Return(feedMsg, nil).Once()

	require.NoError(t, tb.pageCallback(c))
	waitFor(t, done)

	assert.Equal(t, 1, c.responses)
	assert.Equal(t, 2, tb.session(c.chat).store.Snapshot().Page)
}

func TestLimitCallback_ResetsPage(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	c := newContext(6)
	s := tb.session(c.chat)
	feedMsg := &telebot.Message{ID: 31}
	done := make(chan struct{}, 2)

	tb.market.On("ListProducts", mock.Anything, mock.Anything).
		Return(&models.ProductPage{Items: []models.Product{product("1", "Laptop", 300)}, TotalPages: 4}, nil)
	tb.api.On("Send", c.chat, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { done <- struct{}{} }).
		Return(feedMsg, nil).Once()
	tb.api.On("Edit", feedMsg, textContaining("24 per page"), mock.Anything).
		Run(func(mock.Arguments) { done <- struct{}{} }).
		Return(feedMsg, nil).Once()

	_, err := s.store.SetPage(3)
	require.NoError(t, err)
	waitFor(t, done)

	c.callback = &telebot.Callback{Data: "24", Message: feedMsg}
	require.NoError(t, tb.limitCallback(c))
	waitFor(t, done)

	got := s.store.Snapshot()
	assert.Equal(t, 24, got.Limit)
	assert.Equal(t, 1, got.Page)
}

func TestLocationHandler(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	c := newContext(7)

	drop := product("5", "Hoodie", 25)
	drop.GhostDrop = &models.GhostDrop{Lat: 52.0, Lng: 4.0, Radius: 100, Clue: "under the library stairs"}
	far := product("6", "Mug", 5)
	far.GhostDrop = &models.GhostDrop{Lat: 52.1, Lng: 4.0, Radius: 50}

	tb.market.On("ListProducts", mock.Anything, mock.Anything).
		Return(&models.ProductPage{Items: []models.Product{drop, far, product("7", "Pen", 1)}, TotalPages: 1}, nil).Once()
	tb.api.On("Send", c.chat, textContaining("ghost drop"), mock.Anything).
		Return(&telebot.Message{ID: 40}, nil).Once()
	require.NoError(t, tb.feedHandler(c))

	c.message = &telebot.Message{Location: &telebot.Location{Lat: 52.0, Lng: 4.0}}
	require.NoError(t, tb.locationHandler(c))

	got := c.last()
	assert.Contains(t, got, "✓ Hoodie · you found it! Clue: under the library stairs")
	assert.Contains(t, got, "· Mug ·")
	assert.NotContains(t, got, "Pen")
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(8, "ann@uni.edu", "secret")
		user := models.User{ID: "u1", Name: "Ann", Email: "ann@uni.edu", Balance: decimal.NewFromInt(120)}

		tb.market.On("Login", mock.Anything, api.Credentials{Email: "ann@uni.edu", Password: "secret"}).
			Return(&api.AuthResult{Token: "tok", User: user}, nil).Once()
		tb.repo.On("SaveSession", mock.Anything, &models.Session{ChatID: 8, Token: "tok", User: user}).
			Return(nil).Once()

		require.NoError(t, tb.loginHandler(c))

		assert.True(t, c.deleted, "the password message is removed")
		assert.Equal(t, "Signed in as Ann. Balance: 120.00 PL.", c.last())
	})

	t.Run("invalid email", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(8, "ann", "secret")

		require.NoError(t, tb.loginHandler(c))

		assert.Equal(t, "Cannot sign in: email must be a valid email", c.last())
	})

	t.Run("rejected", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(8, "ann@uni.edu", "wrong")

		tb.market.On("Login", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("api.Login: %w", &api.StatusError{StatusCode: 401, Message: "Invalid credentials"})).Once()

		require.NoError(t, tb.loginHandler(c))

		assert.Equal(t, "Invalid credentials", c.last())
	})
}

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	c := newContext(9, "Ann", "Lee", "ann@uni.edu", "123")

	require.NoError(t, tb.registerHandler(c))

	assert.Equal(t, "Cannot register: password must be at least 6 characters", c.last())
}

func TestMeHandler(t *testing.T) {
	t.Parallel()

	t.Run("not signed in", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(10)

		tb.repo.On("GetSession", mock.Anything, int64(10)).
			Return(nil, fmt.Errorf("repository.sqlite.GetSession: %w", repository.ErrSessionNotFound)).Once()

		require.NoError(t, tb.meHandler(c))

		assert.Equal(t, "Please /login first.", c.last())
	})

	t.Run("signed in", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(10)

		tb.repo.On("GetSession", mock.Anything, int64(10)).
			Return(&models.Session{ChatID: 10, Token: "opaque", User: models.User{Name: "Ann", Email: "ann@uni.edu", Roles: []string{models.RoleSeller}}}, nil).Once()

		require.NoError(t, tb.meHandler(c))

		assert.Equal(t, "Ann <ann@uni.edu>\nBalance: 0.00 PL\nRoles: SELLER\n", c.last())
	})
}

func TestBuyAdHandler(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	c := newContext(11, "p1", "gold")

	tb.repo.On("GetSession", mock.Anything, int64(11)).
		Return(&models.Session{ChatID: 11, Token: "tok"}, nil).Once()
	tb.market.On("PurchaseAd", mock.Anything, "tok", api.PurchaseRequest{ProductID: "p1", PackageID: "gold"}).
		Return(&api.StatusError{StatusCode: 402, Message: "Insufficient balance"}).Once()

	require.NoError(t, tb.buyAdHandler(c))

	assert.Equal(t, "Insufficient balance", c.last())
}

func TestRolesHandler(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(12, "u7", "admin, seller")

		tb.repo.On("GetSession", mock.Anything, int64(12)).
			Return(&models.Session{ChatID: 12, Token: "tok"}, nil).Once()
		tb.market.On("SetRoles", mock.Anything, "tok", api.RoleUpdate{UserID: "u7", Roles: []string{"ADMIN", "SELLER"}}).
			Return(nil).Once()

		require.NoError(t, tb.rolesHandler(c))

		assert.Equal(t, "Roles of u7 set to ADMIN, SELLER.", c.last())
	})

	t.Run("no roles", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(12, "u7", ",")

		require.NoError(t, tb.rolesHandler(c))

		assert.Equal(t, "Cannot update roles: roles is required", c.last())
	})
}

func TestToggleUserHandler(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	c := newContext(13, "u7")

	tb.repo.On("GetSession", mock.Anything, int64(13)).
		Return(&models.Session{ChatID: 13, Token: ""}, nil).Once()
	tb.market.On("ToggleUser", mock.Anything, "", "u7").Return(nil).Once()

	require.NoError(t, tb.toggleUserHandler(c))

	assert.Equal(t, "Account u7 toggled.", c.last())
}

func TestClaimHandler(t *testing.T) {
	t.Parallel()

	t.Run("link", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(14, "https://pulse.example/claim?event=ev1&t=abc")

		tb.market.On("ClaimReward", mock.Anything, api.RewardClaim{EventID: "ev1", Token: "abc"}).
			Return(&models.RewardResult{Message: "Welcome to the fair!", Amount: decimal.NewFromInt(5)}, nil).Once()

		require.NoError(t, tb.claimHandler(c))

		assert.Equal(t, "Welcome to the fair! +5.00 PL", c.last())
	})

	t.Run("not a claim link", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(14, "https://pulse.example/claim")

		require.NoError(t, tb.claimHandler(c))

		assert.Equal(t, "That link is not a reward code.", c.last())
	})
}

func TestPackagesHandler(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	c := newContext(15)

	tb.repo.On("GetSession", mock.Anything, int64(15)).
		Return(&models.Session{ChatID: 15, Token: "tok"}, nil).Once()
	tb.market.On("AdPackages", mock.Anything, "tok").
		Return([]models.AdPackage{{ID: "gold", Name: "Gold", Price: decimal.NewFromInt(50), DurationHours: 24}}, nil).Once()

	require.NoError(t, tb.packagesHandler(c))

	assert.Contains(t, c.last(), "Gold (id gold) · 50.00 PL · 24h")
}

func TestSubscriptionHandlers(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	c := newContext(16)

	tb.repo.On("SubscribeChat", mock.Anything, int64(16)).Return(nil).Once()
	tb.repo.On("UnsubscribeChat", mock.Anything, int64(16)).Return(assert.AnError).Once()

	require.NoError(t, tb.subscribeHandler(c))
	assert.Contains(t, c.last(), "You will be told")

	require.NoError(t, tb.unsubscribeHandler(c))
	assert.Equal(t, "Could not unsubscribe, try again.", c.last())
}

func TestNotifyFeatured(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	changes := &models.Changes{Added: []models.Product{product("1", "Laptop", 300)}}

	tb.api.On("Send", &telebot.Chat{ID: 42}, textContaining("+ Laptop · 300.00 PL")).
		Return(&telebot.Message{}, nil).Once()
	tb.api.On("Send", &telebot.Chat{ID: 43}, mock.Anything).
		Return(nil, assert.AnError).Once()

	require.NoError(t, tb.NotifyFeatured(context.Background(), 42, changes))
	require.ErrorIs(t, tb.NotifyFeatured(context.Background(), 43, changes), assert.AnError)
}

func TestPageHandler_Range(t *testing.T) {
	t.Parallel()

	t.Run("beyond the last page", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(17)

		tb.market.On("ListProducts", mock.Anything, queryWith("page", "1")).
			Return(&models.ProductPage{Items: []models.Product{product("1", "Laptop", 300)}, TotalPages: 3}, nil).Once()
		tb.api.On("Send", c.chat, mock.Anything, mock.Anything).
			Return(&telebot.Message{ID: 50}, nil).Once()
		require.NoError(t, tb.feedHandler(c))

		c.args = []string{"99"}
		require.NoError(t, tb.pageHandler(c))

		assert.Equal(t, "Pick a page between 1 and 3.", c.last())
		assert.Equal(t, 1, tb.session(c.chat).store.Snapshot().Page)
	})

	t.Run("within range", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(18)
		done := make(chan struct{})

		tb.market.On("ListProducts", mock.Anything, queryWith("page", "1")).
			Return(&models.ProductPage{Items: []models.Product{product("1", "Laptop", 300)}, TotalPages: 3}, nil).Once()
		tb.market.On("ListProducts", mock.Anything, queryWith("page", "3")).
			Return(&models.ProductPage{Items: []models.Product{product("25", "Desk", 40)}, TotalPages: 3}, nil).Once()
		tb.api.On("Send", c.chat, textContaining("Page 1 of 3"), mock.Anything).
			Return(&telebot.Message{ID: 51}, nil).Once()
		tb.api.On("Send", c.chat, textContaining("Page 3 of 3"), mock.Anything).
			Run(func(mock.Arguments) { close(done) }).
			Return(&telebot.Message{ID: 52}, nil).Once()
		require.NoError(t, tb.feedHandler(c))

		c.args = []string{"3"}
		require.NoError(t, tb.pageHandler(c))
		waitFor(t, done)

		assert.Empty(t, c.sent)
	})

	t.Run("before any feed", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(19, "2")

		require.NoError(t, tb.pageHandler(c))

		assert.Equal(t, "Only page 1 is available, open the feed with /feed first.", c.last())
	})
}

func TestAuthorizedCommands_WithoutSession(t *testing.T) {
	t.Parallel()

	noSession := fmt.Errorf("repository.sqlite.GetSession: %w", repository.ErrSessionNotFound)

	t.Run("request goes out and a 401 asks to sign in", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(20)

		tb.repo.On("GetSession", mock.Anything, int64(20)).Return(nil, noSession).Once()
		tb.market.On("AdPackages", mock.Anything, "").
			Return(nil, fmt.Errorf("api.AdPackages: %w", &api.StatusError{StatusCode: 401, Message: "Unauthorized"})).Once()

		require.NoError(t, tb.packagesHandler(c))

		assert.Equal(t, "Please /login first.", c.last())
	})

	t.Run("the server decides", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(21, "p1", "gold")

		tb.repo.On("GetSession", mock.Anything, int64(21)).Return(nil, noSession).Once()
		tb.market.On("PurchaseAd", mock.Anything, "", api.PurchaseRequest{ProductID: "p1", PackageID: "gold"}).
			Return(nil).Once()

		require.NoError(t, tb.buyAdHandler(c))

		assert.Equal(t, "Ad purchased. Your product will show up in the featured slide.", c.last())
	})

	t.Run("storage failure", func(t *testing.T) {
		tb := newTestBot(t)
		c := newContext(22, "u7")

		tb.repo.On("GetSession", mock.Anything, int64(22)).Return(nil, assert.AnError).Once()

		require.NoError(t, tb.toggleUserHandler(c))

		assert.Equal(t, "Could not change the account.", c.last())
	})
}
