package bot

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Houeta/pulsemarket/internal/api"
	"github.com/Houeta/pulsemarket/internal/auth"
	"github.com/Houeta/pulsemarket/internal/models"
	"github.com/Houeta/pulsemarket/internal/parser"
	"github.com/Houeta/pulsemarket/internal/repository"
	"gopkg.in/telebot.v4"
)

var errNotSignedIn = errors.New("chat is not signed in")

// signedIn returns the session of the chat.
func (b *Bot) signedIn(c telebot.Context) (*models.Session, error) {
	sess, err := b.repo.GetSession(b.ctx, c.Chat().ID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, errNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

// token returns the bearer token of the chat. Without a session the token
// is empty and the request still goes out; the API decides.
func (b *Bot) token(c telebot.Context) (string, error) {
	sess, err := b.repo.GetSession(b.ctx, c.Chat().ID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	return sess.Token, nil
}

// replyAuthorized is replyError for endpoints behind a bearer token: a 401
// asks the user to sign in.
func (b *Bot) replyAuthorized(c telebot.Context, op string, err error, fallback string) error {
	if api.IsStatus(err, http.StatusUnauthorized) {
		b.log.Info("Request rejected as unauthorized", "op", op, "chat", c.Chat().ID)
		return c.Send("Please /login first.")
	}
	return b.replyError(c, op, err, fallback)
}

// replyError logs err and answers with the server message, or fallback when
// there is none.
func (b *Bot) replyError(c telebot.Context, op string, err error, fallback string) error {
	if errors.Is(err, errNotSignedIn) {
		return c.Send("Please /login first.")
	}

	b.log.Warn("Command failed", "op", op, "chat", c.Chat().ID, "error", err)

	return c.Send(api.UserMessage(err, fallback))
}

func (b *Bot) loginHandler(c telebot.Context) error {
	const op = "bot.login"

	args := c.Args()
	if len(args) != 2 {
		return c.Send("Usage: /login <email> <password>")
	}
	// The password must not stay in the chat history.
	if err := c.Delete(); err != nil {
		b.log.Debug("Failed to delete login message", "op", op, "error", err)
	}

	creds := api.Credentials{Email: args[0], Password: args[1]}
	if err := b.validateArgs(creds); err != nil {
		return c.Send("Cannot sign in: " + err.Error())
	}

	res, err := b.market.Login(b.ctx, creds)
	if err != nil {
		return b.replyError(c, op, err, "Sign in failed, check your email and password.")
	}

	return b.saveSession(c, op, res)
}

func (b *Bot) registerHandler(c telebot.Context) error {
	const op = "bot.register"

	args := c.Args()
	if len(args) < 3 {
		return c.Send("Usage: /register <name> <email> <password>")
	}
	if err := c.Delete(); err != nil {
		b.log.Debug("Failed to delete register message", "op", op, "error", err)
	}

	n := len(args)
	reg := api.Registration{
		Name:     strings.Join(args[:n-2], " "),
		Email:    args[n-2],
		Password: args[n-1],
	}
	if err := b.validateArgs(reg); err != nil {
		return c.Send("Cannot register: " + err.Error())
	}

	res, err := b.market.Register(b.ctx, reg)
	if err != nil {
		return b.replyError(c, op, err, "Registration failed, try again later.")
	}

	return b.saveSession(c, op, res)
}

func (b *Bot) saveSession(c telebot.Context, op string, res *api.AuthResult) error {
	sess := &models.Session{ChatID: c.Chat().ID, Token: res.Token, User: res.User}
	if err := b.repo.SaveSession(b.ctx, sess); err != nil {
		return b.replyError(c, op, err, "Signed in, but the session could not be saved. Try again.")
	}

	name := res.User.Name
	if name == "" {
		name = res.User.Email
	}
	return c.Send(fmt.Sprintf("Signed in as %s. Balance: %s %s.", name, res.User.Balance.StringFixed(2), models.CurrencyPulses))
}

func (b *Bot) logoutHandler(c telebot.Context) error {
	if err := b.repo.DeleteSession(b.ctx, c.Chat().ID); err != nil {
		return b.replyError(c, "bot.logout", err, "Could not sign out, try again.")
	}
	return c.Send("Signed out.")
}

func (b *Bot) meHandler(c telebot.Context) error {
	sess, err := b.signedIn(c)
	if err != nil {
		return b.replyError(c, "bot.me", err, "Could not load your account.")
	}
	return c.Send(renderAccount(sess, time.Now()))
}

func renderAccount(sess *models.Session, now time.Time) string {
	var sb strings.Builder

	u := sess.User
	fmt.Fprintf(&sb, "%s <%s>\n", u.Name, u.Email)
	fmt.Fprintf(&sb, "Balance: %s %s\n", u.Balance.StringFixed(2), models.CurrencyPulses)

	roles := u.Roles
	claims, err := auth.Inspect(sess.Token)
	if err == nil && len(roles) == 0 {
		roles = claims.AllRoles()
	}
	if len(roles) > 0 {
		fmt.Fprintf(&sb, "Roles: %s\n", strings.Join(roles, ", "))
	}
	if u.Active != nil && !*u.Active {
		sb.WriteString("Account disabled\n")
	}

	if err != nil {
		return sb.String()
	}
	if claims.Expired(now) {
		sb.WriteString("Session expired, please /login again.\n")
	} else if left, ok := claims.ExpiresIn(now); ok {
		fmt.Fprintf(&sb, "Session valid for %s\n", left.Round(time.Minute))
	}

	return sb.String()
}

// claimHandler redeems a reward QR code, given either as the decoded link
// or as its event id and token.
func (b *Bot) claimHandler(c telebot.Context) error {
	const op = "bot.claim"

	var claim api.RewardClaim
	switch args := c.Args(); len(args) {
	case 1:
		parsed, err := parser.ClaimLink(args[0])
		if err != nil {
			return c.Send("That link is not a reward code.")
		}
		claim = api.RewardClaim{EventID: parsed.EventID, Token: parsed.Token}
	case 2:
		claim = api.RewardClaim{EventID: args[0], Token: args[1]}
	default:
		return c.Send("Usage: /claim <link> or /claim <event> <token>")
	}
	if err := b.validateArgs(claim); err != nil {
		return c.Send("Cannot claim: " + err.Error())
	}

	res, err := b.market.ClaimReward(b.ctx, claim)
	if err != nil {
		return b.replyError(c, op, err, "The reward could not be claimed.")
	}

	msg := res.Message
	if msg == "" {
		msg = "Reward claimed!"
	}
	if res.Amount.IsPositive() {
		msg += fmt.Sprintf(" +%s %s", res.Amount.StringFixed(2), models.CurrencyPulses)
	}
	return c.Send(msg)
}
