package bot

import (
	"strings"
	"sync"

	"github.com/Houeta/pulsemarket/internal/feed"
	"github.com/Houeta/pulsemarket/internal/filter"
	"gopkg.in/telebot.v4"
)

// chatSession is the feed view of one chat: its filters, its coordinator and
// the message the feed is rendered into.
type chatSession struct {
	chat  *telebot.Chat
	store *filter.Store
	feed  *feed.Coordinator
	stop  func()

	mu    sync.Mutex
	view  *telebot.Message
	shown uint64
}

// session returns the feed session of the chat, creating it on first use.
func (b *Bot) session(chat *telebot.Chat) *chatSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.sessions[chat.ID]; ok {
		return s
	}

	store := filter.NewStore(filter.WithCeiling(b.settings.MaxPrice))
	s := &chatSession{
		chat:  chat,
		store: store,
		feed: feed.NewCoordinator(b.log.With("chat", chat.ID), b.market, store,
			feed.WithTimeout(b.settings.FeedTimeout),
			feed.WithMetrics(b.settings.Metrics),
		),
	}
	s.stop = s.feed.Watch(b.ctx, func(res feed.Result) {
		b.deliver(s, res)
	})
	b.sessions[chat.ID] = s

	return s
}

// closeSessions stops every watcher and waits for loads in flight.
func (b *Bot) closeSessions() {
	b.mu.Lock()
	sessions := make([]*chatSession, 0, len(b.sessions))
	for id, s := range b.sessions {
		sessions = append(sessions, s)
		delete(b.sessions, id)
	}
	b.mu.Unlock()

	for _, s := range sessions {
		s.stop()
	}
}

// deliver renders res into the session's feed message. A result older than
// the one already shown is dropped.
func (b *Bot) deliver(s *chatSession, res feed.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Seq < s.shown {
		return
	}
	s.shown = res.Seq

	text := renderFeed(res, s.store.Ceiling())
	markup := pagerMarkup(res)

	if s.view != nil {
		msg, err := b.bot.Edit(s.view, text, markup)
		if err == nil {
			s.view = msg
			return
		}
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		b.log.Warn("Failed to edit feed message, sending a new one", "chat", s.chat.ID, "error", err)
	}

	msg, err := b.bot.Send(s.chat, text, markup)
	if err != nil {
		b.log.Error("Failed to send feed message", "chat", s.chat.ID, "error", err)
		return
	}
	s.view = msg
}

// attach makes msg the message the next results are rendered into.
func (s *chatSession) attach(msg *telebot.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = msg
}
