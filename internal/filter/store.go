package filter

import (
	"net/url"
	"sync"
)

// Listener is notified after every effective state change.
type Listener func(prev, next State)

type subscription struct {
	id int
	fn Listener
}

// Store owns the filter state of one chat session. Views read snapshots and
// subscribe to changes; only Update mutates the state.
type Store struct {
	mu        sync.Mutex
	state     State
	ceiling   int
	listeners []subscription
	nextID    int
}

// Option configures a Store.
type Option func(*Store)

// WithCeiling sets the price ceiling treated as "no limit".
func WithCeiling(ceiling int) Option {
	return func(s *Store) {
		if ceiling > 0 {
			s.ceiling = ceiling
		}
	}
}

// NewStore creates a store holding the default state.
func NewStore(opts ...Option) *Store {
	s := &Store{ceiling: NoPriceLimit}
	for _, opt := range opts {
		opt(s)
	}
	s.state = Default(s.ceiling)

	return s
}

// Ceiling returns the price ceiling of the store.
func (s *Store) Ceiling() int {
	return s.ceiling
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Query builds the listing query for the current state.
func (s *Store) Query() url.Values {
	return Query(s.Snapshot(), s.ceiling)
}

// Update applies the patch atomically. The page is reset to 1 unless the
// page is the only field that changes. Listeners run after the lock is
// released and only when the state actually changed.
func (s *Store) Update(patch Patch) (State, error) {
	return s.updateWith(func(State) Patch { return patch })
}

// updateWith builds the patch from the current state under the lock, so
// read-modify-write changes cannot interleave.
func (s *Store) updateWith(build func(cur State) Patch) (State, error) {
	s.mu.Lock()
	prev := s.state
	patch := build(prev)
	if err := patch.validate(); err != nil {
		s.mu.Unlock()
		return prev, err
	}
	next := patch.apply(prev)
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, sub := range s.listeners {
		listeners = append(listeners, sub.fn)
	}
	s.mu.Unlock()

	if next != prev {
		for _, fn := range listeners {
			fn(prev, next)
		}
	}

	return next, nil
}

// Reset restores the default state.
func (s *Store) Reset() State {
	d := Default(s.ceiling)
	next, _ := s.Update(Patch{
		SearchTerm: &d.SearchTerm,
		PriceRange: &d.PriceRange,
		Status:     &d.Status,
		Category:   &d.Category,
		StoreID:    &d.StoreID,
		Currency:   &d.Currency,
		GhostOnly:  &d.GhostOnly,
		Limit:      &d.Limit,
		Page:       &d.Page,
	})

	return next
}

// Subscribe registers fn and returns a function removing it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// SetSearch sets the search term.
func (s *Store) SetSearch(term string) (State, error) {
	return s.Update(Patch{SearchTerm: &term})
}

// SetMaxPrice sets the price range. Values at or above the ceiling are
// stored as the ceiling.
func (s *Store) SetMaxPrice(price int) (State, error) {
	if price > s.ceiling {
		price = s.ceiling
	}
	return s.Update(Patch{PriceRange: &price})
}

// ClearMaxPrice removes the price filter.
func (s *Store) ClearMaxPrice() (State, error) {
	return s.SetMaxPrice(s.ceiling)
}

// SetStatus sets the status selector. Empty input selects All.
func (s *Store) SetStatus(v string) (State, error) {
	return s.Update(Patch{Status: &v})
}

// SetCategory sets the category selector. Empty input selects All.
func (s *Store) SetCategory(v string) (State, error) {
	return s.Update(Patch{Category: &v})
}

// SetStore sets the store selector. Empty input selects All.
func (s *Store) SetStore(v string) (State, error) {
	return s.Update(Patch{StoreID: &v})
}

// SetCurrency sets the currency selector. Empty input selects All.
func (s *Store) SetCurrency(v string) (State, error) {
	return s.Update(Patch{Currency: &v})
}

// ToggleGhost flips the ghost-drop-only switch.
func (s *Store) ToggleGhost() (State, error) {
	return s.updateWith(func(cur State) Patch {
		return Patch{GhostOnly: Ptr(!cur.GhostOnly)}
	})
}

// SetPage moves to page n without touching any other filter.
func (s *Store) SetPage(n int) (State, error) {
	return s.Update(Patch{Page: &n})
}

// SetLimit changes the page size and goes back to the first page.
func (s *Store) SetLimit(n int) (State, error) {
	return s.Update(Patch{Limit: &n})
}
