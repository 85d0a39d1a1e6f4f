// Package featured watches the featured slide and tells subscribed chats
// when new products are promoted.
package featured

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Houeta/pulsemarket/internal/metrics"
	"github.com/Houeta/pulsemarket/internal/models"
	"github.com/Houeta/pulsemarket/internal/repository"
	"github.com/Houeta/pulsemarket/internal/repository/sqlite"
	"golang.org/x/sync/errgroup"
)

// maxParallelNotifications bounds concurrent sends to subscribers.
const maxParallelNotifications = 8

// Source returns the products currently on the featured slide.
type Source interface {
	FeaturedAds(ctx context.Context) ([]models.Product, error)
}

// Repository is the storage the checker needs.
type Repository interface {
	sqlite.StateRepository
	GetSubscribedChats(ctx context.Context) ([]int64, error)
}

// Notifier delivers changes to one chat.
type Notifier func(ctx context.Context, chatID int64, changes *models.Changes) error

// Checker is an orchestrator that performs a full verification cycle.
type Checker struct {
	log     *slog.Logger
	source  Source
	repo    Repository
	metrics *metrics.FeaturedMetrics
}

// NewChecker creates a new Checker instance.
func NewChecker(log *slog.Logger, source Source, repo Repository, m *metrics.FeaturedMetrics) *Checker {
	return &Checker{log: log, source: source, repo: repo, metrics: m}
}

// CheckForUpdates fetches the slide, compares it with the stored one and
// stores the new slide when it differs.
func (c *Checker) CheckForUpdates(ctx context.Context) (*models.Changes, error) {
	const opn = "featured.CheckForUpdates"
	log := c.log.With("op", opn)

	// 1. Fetch the slide and hash it
	products, err := c.source.FeaturedAds(ctx)
	if err != nil {
		c.metrics.IncCheck("error")
		return nil, fmt.Errorf("%s: failed to fetch featured slide: %w", opn, err)
	}

	newHash, err := calculateHash(products)
	if err != nil {
		c.metrics.IncCheck("error")
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	log.DebugContext(ctx, "Calculated featured hash", "hash", newHash)

	// 2. Load the previous slide
	oldState, err := c.repo.GetState(ctx)
	if err != nil && !errors.Is(err, repository.ErrStateNotFound) {
		c.metrics.IncCheck("error")
		return nil, fmt.Errorf("%s: failed to get old state: %w", opn, err)
	}

	// First run: remember the slide without announcing all of it.
	if errors.Is(err, repository.ErrStateNotFound) {
		if err = c.repo.UpdateState(ctx, &models.State{Hash: newHash, Products: products}); err != nil {
			c.metrics.IncCheck("error")
			return nil, fmt.Errorf("%s: failed to store initial state: %w", opn, err)
		}
		log.InfoContext(ctx, "Stored initial featured slide", "products", len(products))
		c.metrics.IncCheck("initialized")
		return &models.Changes{}, nil
	}

	// 3. Hash comparison
	if oldState.Hash == newHash {
		log.DebugContext(ctx, "Featured slide has not changed")
		c.metrics.IncCheck("unchanged")
		return &models.Changes{}, nil
	}

	// 4. Diff
	changes := detectChanges(oldState.Products, products)
	log.InfoContext(ctx, "Featured slide changed",
		"added", len(changes.Added),
		"removed", len(changes.Removed),
		"changed", len(changes.Changed),
	)

	// 5. Store the new slide
	if err = c.repo.UpdateState(ctx, &models.State{Hash: newHash, Products: products}); err != nil {
		c.metrics.IncCheck("error")
		return nil, fmt.Errorf("%s: failed to update state in repository: %w", opn, err)
	}
	c.metrics.IncCheck("changed")

	return &changes, nil
}

// Notify sends the changes to every subscribed chat. A failing chat does not
// stop the others; the number of failed deliveries is returned.
func (c *Checker) Notify(ctx context.Context, changes *models.Changes, notify Notifier) (int, error) {
	const opn = "featured.Notify"

	chats, err := c.repo.GetSubscribedChats(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get subscribers: %w", opn, err)
	}

	var (
		g      errgroup.Group
		failed = make(chan int64, len(chats))
	)
	g.SetLimit(maxParallelNotifications)

	for _, chatID := range chats {
		g.Go(func() error {
			if err := notify(ctx, chatID, changes); err != nil {
				c.log.WarnContext(ctx, "Failed to notify chat", "op", opn, "chat", chatID, "error", err)
				c.metrics.IncNotification("error")
				failed <- chatID
				return nil
			}
			c.metrics.IncNotification("sent")
			return nil
		})
	}
	_ = g.Wait()
	close(failed)

	return len(failed), nil
}

// Run checks the slide every interval until ctx is done. Only newly added
// products trigger notifications.
func (c *Checker) Run(ctx context.Context, interval time.Duration, notify Notifier) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		c.tick(ctx, notify)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *Checker) tick(ctx context.Context, notify Notifier) {
	changes, err := c.CheckForUpdates(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "Featured check failed", "error", err)
		return
	}
	if len(changes.Added) == 0 {
		return
	}

	alert := &models.Changes{Added: changes.Added}
	if _, err = c.Notify(ctx, alert, notify); err != nil {
		c.log.ErrorContext(ctx, "Featured notification failed", "error", err)
	}
}

// calculateHash hashes the canonical JSON of the slide.
func calculateHash(products []models.Product) (string, error) {
	data, err := json.Marshal(products)
	if err != nil {
		return "", fmt.Errorf("failed to encode featured slide: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// detectChanges compares two slides by product ID. Added keeps the order of
// the new slide.
func detectChanges(oldProducts, newProducts []models.Product) models.Changes {
	oldMap := make(map[models.ID]models.Product, len(oldProducts))
	for _, p := range oldProducts {
		oldMap[p.ID] = p
	}

	var changes models.Changes
	seen := make(map[models.ID]bool, len(newProducts))
	for _, newProduct := range newProducts {
		seen[newProduct.ID] = true
		oldProduct, found := oldMap[newProduct.ID]
		if !found {
			changes.Added = append(changes.Added, newProduct)
			continue
		}
		if !newProduct.Price.Equal(oldProduct.Price) || newProduct.Name != oldProduct.Name {
			changes.Changed = append(changes.Changed, models.ChangeInfo{Old: oldProduct, New: newProduct})
		}
	}

	for _, p := range oldProducts {
		if !seen[p.ID] {
			changes.Removed = append(changes.Removed, p)
		}
	}

	return changes
}
