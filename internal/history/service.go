// Package history maintains the application's view of the scan history
// namespace: an in-memory mirror with write-through mutators and reactive
// refresh when the namespace changes underneath it.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/models"
	"github.com/dmitrijs2005/fakeye/internal/notify"
	"github.com/dmitrijs2005/fakeye/internal/storage"
)

// Service is the history cache. Every mutator performs its own
// read-modify-write against the current persisted list, never against the
// in-memory mirror, so concurrent writers in other contexts lose no items
// beyond the store's documented last-writer-wins window.
type Service struct {
	store storage.Store
	bus   *notify.Bus
	log   logging.Logger

	mu    sync.RWMutex
	items []models.HistoryItem
}

func NewService(store storage.Store, bus *notify.Bus, log logging.Logger) *Service {
	return &Service{store: store, bus: bus, log: log.With("component", "history")}
}

// Start loads the namespace and begins reacting to change signals: the
// merge notification from the reconciler and the store's own change watch
// (writes from other tabs/processes). Both trigger a wholesale refresh.
// The watcher stops when ctx is canceled.
func (s *Service) Start(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	sub := s.bus.Subscribe(notify.TopicExtensionSynced)
	watchCh, cancelWatch := s.store.Watch(storage.NamespaceHistory)

	go func() {
		defer s.bus.Unsubscribe(sub)
		defer cancelWatch()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-sub.C:
				s.log.Info(ctx, "extension sync observed", "new_items", ev.NewItems)
				s.refreshQuietly(ctx)
			case <-watchCh:
				s.refreshQuietly(ctx)
			}
		}
	}()

	return nil
}

// Add assigns the item a fresh id and timestamp, prepends it to the current
// persisted list and writes the result through. The stored item is returned.
func (s *Service) Add(ctx context.Context, item models.HistoryItem) (models.HistoryItem, error) {
	item.ID = models.NewWebID()
	item.Timestamp = models.NowMillis()

	existing, err := storage.LoadRecords[models.HistoryItem](ctx, s.store, storage.NamespaceHistory)
	if err != nil {
		return models.HistoryItem{}, fmt.Errorf("failed to read history: %w", err)
	}

	merged := append([]models.HistoryItem{item}, existing...)
	if err := storage.SaveRecords(ctx, s.store, storage.NamespaceHistory, merged); err != nil {
		return models.HistoryItem{}, fmt.Errorf("failed to save history: %w", err)
	}

	s.replace(merged)
	return item, nil
}

// Delete removes the item with the given id. Deleting an absent id is a
// no-op, not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := storage.LoadRecords[models.HistoryItem](ctx, s.store, storage.NamespaceHistory)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	filtered := existing[:0:0]
	for _, item := range existing {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(existing) {
		s.replace(existing)
		return nil
	}

	if err := storage.SaveRecords(ctx, s.store, storage.NamespaceHistory, filtered); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	s.replace(filtered)
	return nil
}

// Clear empties the collection.
func (s *Service) Clear(ctx context.Context) error {
	if err := storage.SaveRecords(ctx, s.store, storage.NamespaceHistory, []models.HistoryItem{}); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.replace(nil)
	return nil
}

// Refresh replaces the in-memory mirror with the current persisted list.
func (s *Service) Refresh(ctx context.Context) error {
	items, err := storage.LoadRecords[models.HistoryItem](ctx, s.store, storage.NamespaceHistory)
	if err != nil {
		return fmt.Errorf("failed to refresh history: %w", err)
	}
	s.replace(items)
	return nil
}

// Items returns a snapshot of the mirror, newest first.
func (s *Service) Items() []models.HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.HistoryItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Service) refreshQuietly(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		s.log.Warn(ctx, "refresh failed", "error", err)
	}
}

func (s *Service) replace(items []models.HistoryItem) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}
