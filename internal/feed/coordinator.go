// Package feed drives the product feed: it turns filter state into listing
// requests and decides which response the views get to see.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/Houeta/pulsemarket/internal/filter"
	"github.com/Houeta/pulsemarket/internal/metrics"
	"github.com/Houeta/pulsemarket/internal/models"
)

// ErrSuperseded is returned by Load when a newer request was issued before
// the response arrived. The response is discarded.
var ErrSuperseded = errors.New("feed request superseded by a newer one")

// ProductLister fetches one page of the product feed.
type ProductLister interface {
	ListProducts(ctx context.Context, query url.Values) (*models.ProductPage, error)
}

// Coordinator owns the fetch lifecycle of one feed view. Every Load gets a
// sequence number; only the response of the latest one is applied and the
// in-flight request it replaces is cancelled.
type Coordinator struct {
	log     *slog.Logger
	lister  ProductLister
	store   *filter.Store
	metrics *metrics.FeedMetrics
	timeout time.Duration

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	current Result
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout bounds every listing request.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

// WithMetrics records fetch outcomes.
func WithMetrics(m *metrics.FeedMetrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// NewCoordinator creates a coordinator reading filters from store.
func NewCoordinator(log *slog.Logger, lister ProductLister, store *filter.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		log:     log,
		lister:  lister,
		store:   store,
		current: Result{Status: Idle, Filters: store.Snapshot()},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Store returns the filter store the coordinator reads from.
func (c *Coordinator) Store() *filter.Store {
	return c.store
}

// Current returns the last applied result, or a Loading result while a
// request is in flight.
func (c *Coordinator) Current() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

// Load fetches the feed for the current filters. Fetch failures are reported
// through a Failed result, not through the error, which is only ErrSuperseded.
func (c *Coordinator) Load(ctx context.Context) (Result, error) {
	const opn = "feed.Load"

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	// The snapshot is taken under the lock so that a higher sequence number
	// never carries older filters.
	c.mu.Lock()
	filters := c.store.Snapshot()
	query := filter.Query(filters, c.store.Ceiling())
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.current = Result{Status: Loading, Seq: seq, Filters: filters}
	c.mu.Unlock()

	log := c.log.With("op", opn, "seq", seq)
	log.DebugContext(ctx, "Fetching feed page", "query", query.Encode())

	start := time.Now()
	page, err := c.lister.ListProducts(reqCtx, query)
	took := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.metrics.IncStale()
		log.DebugContext(ctx, "Discarding stale feed response", "latest", c.seq)
		return Result{}, fmt.Errorf("%s: %w", opn, ErrSuperseded)
	}
	c.cancel = nil

	res := settle(seq, filters, page, err)
	c.current = res
	c.metrics.ObserveResult(res.Status.String(), took)

	if res.Status == Failed {
		log.WarnContext(ctx, "Failed to load feed page", "error", err)
	} else {
		log.InfoContext(ctx, "Feed page loaded",
			"status", res.Status.String(),
			"items", len(res.Page.Items),
			"total_pages", res.Page.TotalPages,
		)
	}

	return res, nil
}

func (c *Coordinator) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// Watch loads the feed after every filter change and hands each applied
// result to fn. Superseded responses never reach fn, neither do results that
// arrive once ctx is done. The returned function stops watching and waits for
// loads already started; fn is never called after it returns.
func (c *Coordinator) Watch(ctx context.Context, fn func(Result)) func() {
	var (
		mu      sync.Mutex
		stopped bool
		wg      sync.WaitGroup
	)

	unsubscribe := c.store.Subscribe(func(_, _ filter.State) {
		// Listeners run outside the store lock, so one may fire after stop
		// unsubscribed it. Add happens under mu so it never races Wait.
		mu.Lock()
		defer mu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}
			res, err := c.Load(ctx)
			if err != nil || ctx.Err() != nil {
				return
			}
			fn(res)
		}()
	})

	return func() {
		mu.Lock()
		stopped = true
		mu.Unlock()

		unsubscribe()
		wg.Wait()
	}
}
