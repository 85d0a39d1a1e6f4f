package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Houeta/pulsemarket/internal/feed"
	"github.com/Houeta/pulsemarket/internal/filter"
	"github.com/Houeta/pulsemarket/internal/pagination"
	"gopkg.in/telebot.v4"
)

const helpText = `Browse the campus marketplace.

Feed
/feed - show products for the current filters
/search <words> - search by name, empty to clear
/maxprice <amount|off> - price ceiling
/status, /category, /store, /currency <value|all> - narrow the feed
/ghost - only ghost drops on or off
/limit <6|12|24|50|100> - products per page
/page <n> - jump to a page
/reset - clear all filters
Send your location to see ghost drops near you.

Featured
/featured - the featured slide
/subscribe, /unsubscribe - alerts for new featured products

Account
/login <email> <password>
/register <name> <email> <password>
/logout, /me
/claim <link> or /claim <event> <token> - claim a reward QR code

Sellers and admins
/packages - ad packages
/buyad <product> <package> - promote a product
/roles <user> <ROLE,ROLE> - replace user roles
/toggleuser <user> - enable or disable an account`

// startHandler process command /start.
func (b *Bot) startHandler(c telebot.Context) error {
	b.log.Info("User started the bot", "username", c.Sender().Username)

	if err := c.Send("Hello! " + helpText); err != nil {
		return fmt.Errorf("failed to send greeting message: %w", err)
	}

	return nil
}

func (b *Bot) helpHandler(c telebot.Context) error {
	return c.Send(helpText)
}

// feedHandler renders the feed for the current filters into a new message.
func (b *Bot) feedHandler(c telebot.Context) error {
	s := b.session(c.Chat())
	s.attach(nil)
	b.refresh(s)

	return nil
}

// refresh loads the feed and renders it. A superseded load renders nothing,
// the newer one does.
func (b *Bot) refresh(s *chatSession) {
	res, err := s.feed.Load(b.ctx)
	if err != nil {
		return
	}
	b.deliver(s, res)
}

// changeFilters applies change to the chat's filters. The feed watcher
// renders the outcome into a new message.
func (b *Bot) changeFilters(c telebot.Context, change func(*filter.Store) (filter.State, error)) error {
	s := b.session(c.Chat())
	before := s.store.Snapshot()

	s.attach(nil)
	after, err := change(s.store)
	if err != nil {
		return c.Send(filterErrorText(err))
	}
	if after == before {
		return c.Send("Nothing changed. " + renderFilters(after, s.store.Ceiling()))
	}

	return nil
}

func filterErrorText(err error) string {
	switch {
	case errors.Is(err, filter.ErrInvalidLimit):
		return fmt.Sprintf("Page size must be one of %s.", joinInts(filter.Limits))
	case errors.Is(err, filter.ErrInvalidPage):
		return "Pages start at 1."
	case errors.Is(err, filter.ErrInvalidPrice):
		return "The price cannot be negative."
	default:
		return "Could not change the filters."
	}
}

func (b *Bot) searchHandler(c telebot.Context) error {
	term := strings.Join(c.Args(), " ")
	return b.changeFilters(c, func(s *filter.Store) (filter.State, error) {
		return s.SetSearch(term)
	})
}

func (b *Bot) maxPriceHandler(c telebot.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /maxprice <amount|off>")
	}

	switch strings.ToLower(args[0]) {
	case "off", "any", "none":
		return b.changeFilters(c, (*filter.Store).ClearMaxPrice)
	}

	price, err := strconv.Atoi(args[0])
	if err != nil {
		return c.Send("The price must be a whole number, e.g. /maxprice 300")
	}

	return b.changeFilters(c, func(s *filter.Store) (filter.State, error) {
		return s.SetMaxPrice(price)
	})
}

type selector struct {
	name string
	set  func(*filter.Store, string) (filter.State, error)
}

var (
	selectStatus   = selector{name: "status", set: (*filter.Store).SetStatus}
	selectCategory = selector{name: "category", set: (*filter.Store).SetCategory}
	selectStore    = selector{name: "store", set: (*filter.Store).SetStore}
	selectCurrency = selector{name: "currency", set: (*filter.Store).SetCurrency}
)

// selectorHandler builds the handler of a single-value filter. "all" or no
// argument selects every value.
func (b *Bot) selectorHandler(sel selector) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		args := c.Args()
		if len(args) > 1 {
			return c.Send(fmt.Sprintf("Usage: /%s <value|all>", sel.name))
		}

		value := ""
		if len(args) == 1 && !strings.EqualFold(args[0], filter.All) {
			value = args[0]
		}

		return b.changeFilters(c, func(s *filter.Store) (filter.State, error) {
			return sel.set(s, value)
		})
	}
}

func (b *Bot) ghostHandler(c telebot.Context) error {
	return b.changeFilters(c, (*filter.Store).ToggleGhost)
}

func (b *Bot) limitHandler(c telebot.Context) error {
	n, ok := intArg(c.Args())
	if !ok {
		return c.Send(fmt.Sprintf("Usage: /limit <%s>", strings.ReplaceAll(joinInts(filter.Limits), ", ", "|")))
	}
	return b.changeFilters(c, func(s *filter.Store) (filter.State, error) {
		return s.SetLimit(n)
	})
}

func (b *Bot) pageHandler(c telebot.Context) error {
	n, ok := intArg(c.Args())
	if !ok {
		return c.Send("Usage: /page <n>")
	}
	if msg, ok := pageInRange(b.session(c.Chat()).feed.Current(), n); !ok {
		return c.Send(msg)
	}
	return b.changeFilters(c, func(s *filter.Store) (filter.State, error) {
		return s.SetPage(n)
	})
}

// pageInRange checks n against the page count of the last result. Before
// any feed has loaded only page 1 exists. Pages below 1 are left to the store.
func pageInRange(cur feed.Result, n int) (string, bool) {
	if n <= 1 {
		return "", true
	}

	view := pagination.New(cur.Filters.Page, cur.TotalPages(), cur.Filters.Limit)
	if view.CanJump(n) {
		return "", true
	}
	if !view.Visible() {
		return "Only page 1 is available, open the feed with /feed first.", false
	}
	return fmt.Sprintf("Pick a page between 1 and %d.", view.TotalPages), false
}

func (b *Bot) resetHandler(c telebot.Context) error {
	return b.changeFilters(c, func(s *filter.Store) (filter.State, error) {
		return s.Reset(), nil
	})
}

// pageCallback handles the pager buttons. The feed message the button
// belongs to is edited in place.
func (b *Bot) pageCallback(c telebot.Context) error {
	return b.callbackFilters(c, (*filter.Store).SetPage)
}

// limitCallback handles the page size buttons.
func (b *Bot) limitCallback(c telebot.Context) error {
	return b.callbackFilters(c, (*filter.Store).SetLimit)
}

func (b *Bot) callbackFilters(c telebot.Context, set func(*filter.Store, int) (filter.State, error)) error {
	n, err := strconv.Atoi(c.Callback().Data)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown button."})
	}

	s := b.session(c.Chat())
	s.attach(c.Callback().Message)

	before := s.store.Snapshot()
	after, err := set(s.store, n)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{Text: filterErrorText(err)})
	}
	if after == before {
		// The message may predate the last change, render it again.
		b.refresh(s)
	}

	return c.Respond()
}

func (b *Bot) noopCallback(c telebot.Context) error {
	return c.Respond()
}

// locationHandler lists the ghost drops of the current page and reveals the
// clue of those the sender stands in.
func (b *Bot) locationHandler(c telebot.Context) error {
	loc := c.Message().Location
	if loc == nil {
		return nil
	}

	s := b.session(c.Chat())
	return c.Send(renderGhostDrops(s.feed.Current().Items(), float64(loc.Lat), float64(loc.Lng)))
}

func intArg(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
