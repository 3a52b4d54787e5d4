// Package bridge connects the extension producer to the host store: an
// idempotent reconciliation step importing producer scan records into the
// history namespace, and the message endpoint the producer drives it
// through.
package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/models"
	"github.com/dmitrijs2005/fakeye/internal/notify"
	"github.com/dmitrijs2005/fakeye/internal/storage"
)

// DefaultSyncInterval is the fallback poll period between reconciliations.
const DefaultSyncInterval = 30 * time.Second

// Syncer reconciles the producer's scan collection into the host history
// namespace. SyncOnce is idempotent; Run drives it from three redundant
// triggers (startup, interval, producer change signal) so a missed trigger
// only delays convergence.
type Syncer struct {
	host     storage.Store
	producer storage.Store
	bus      *notify.Bus
	log      logging.Logger
	interval time.Duration
}

func NewSyncer(host, producer storage.Store, bus *notify.Bus, interval time.Duration, log logging.Logger) *Syncer {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Syncer{
		host:     host,
		producer: producer,
		bus:      bus,
		log:      log.With("component", "bridge"),
		interval: interval,
	}
}

// Run reconciles until ctx is canceled. Every failure is logged and
// dropped; the next trigger retries. There is no backoff and no fatal
// state.
func (s *Syncer) Run(ctx context.Context) {
	s.syncQuietly(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	watchCh, cancelWatch := s.producer.Watch(storage.NamespaceExtensionScans)
	defer cancelWatch()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncQuietly(ctx)
		case <-watchCh:
			s.syncQuietly(ctx)
		}
	}
}

// SyncOnce runs one reconciliation pass and returns the number of imported
// records. When nothing is new it performs no write and emits no
// notification, so back-to-back passes are free.
func (s *Syncer) SyncOnce(ctx context.Context) (int, error) {
	scans, err := storage.LoadRecords[models.ExtensionScanRecord](ctx, s.producer, storage.NamespaceExtensionScans)
	if err != nil {
		return 0, fmt.Errorf("failed to read producer scans: %w", err)
	}
	if len(scans) == 0 {
		return 0, nil
	}

	history, err := storage.LoadRecords[models.HistoryItem](ctx, s.host, storage.NamespaceHistory)
	if err != nil {
		return 0, fmt.Errorf("failed to read history: %w", err)
	}

	existing := make(map[string]struct{}, len(history))
	for _, item := range history {
		existing[item.ID] = struct{}{}
	}

	var fresh []models.HistoryItem
	for _, scan := range scans {
		if _, ok := existing[scan.ID]; ok {
			continue
		}
		fresh = append(fresh, scan.ToHistoryItem())
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	merged := append(fresh, history...)
	if err := storage.SaveRecords(ctx, s.host, storage.NamespaceHistory, merged); err != nil {
		return 0, fmt.Errorf("failed to save merged history: %w", err)
	}

	s.bus.Publish(notify.Event{Topic: notify.TopicExtensionSynced, NewItems: len(fresh)})
	s.log.Info(ctx, "imported producer scans", "new_items", len(fresh))
	return len(fresh), nil
}

func (s *Syncer) syncQuietly(ctx context.Context) {
	if _, err := s.SyncOnce(ctx); err != nil && ctx.Err() == nil {
		s.log.Error(ctx, "reconciliation failed", "error", err)
	}
}
