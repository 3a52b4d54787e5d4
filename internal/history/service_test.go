package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/models"
	"github.com/dmitrijs2005/fakeye/internal/notify"
	"github.com/dmitrijs2005/fakeye/internal/storage"
)

func newService(t *testing.T) (*Service, *storage.MemoryStore, *notify.Bus) {
	t.Helper()
	store := storage.NewMemoryStore()
	bus := notify.NewBus()
	return NewService(store, bus, logging.Default()), store, bus
}

func TestAdd_UniqueIDsNewestFirst(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	first, err := s.Add(ctx, models.HistoryItem{Type: models.ItemTypeImage, Confidence: 90})
	require.NoError(t, err)
	second, err := s.Add(ctx, models.HistoryItem{Type: models.ItemTypeText, Confidence: 55})
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotZero(t, first.Timestamp)
}

func TestAdd_WritesThrough(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()

	added, err := s.Add(ctx, models.HistoryItem{Type: models.ItemTypeVideo})
	require.NoError(t, err)

	persisted, err := storage.LoadRecords[models.HistoryItem](ctx, store, storage.NamespaceHistory)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, added, persisted[0])
}

func TestDelete_IsIdempotent(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	added, err := s.Add(ctx, models.HistoryItem{Type: models.ItemTypeImage})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, added.ID))
	assert.Empty(t, s.Items())

	// Second delete of the same id changes nothing.
	require.NoError(t, s.Delete(ctx, added.ID))
	assert.Empty(t, s.Items())
}

func TestDelete_AbsentIDKeepsCollection(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	added, err := s.Add(ctx, models.HistoryItem{Type: models.ItemTypeImage})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "web-nope"))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, added.ID, items[0].ID)
}

func TestClear_EmptiesAndPersists(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()

	_, err := s.Add(ctx, models.HistoryItem{Type: models.ItemTypeImage})
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Items())

	persisted, err := storage.LoadRecords[models.HistoryItem](ctx, store, storage.NamespaceHistory)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestRefresh_ReplacesWholesale(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()

	seed := []models.HistoryItem{{ID: "ext-1", Type: models.ItemTypeEmail}}
	require.NoError(t, storage.SaveRecords(ctx, store, storage.NamespaceHistory, seed))

	require.NoError(t, s.Refresh(ctx))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "ext-1", items[0].ID)
}

func TestTwoWriters_NeitherItemIsLost(t *testing.T) {
	// Two caches over the same store, neither refreshed between writes:
	// each Add re-reads the current persisted list, so both items survive.
	store := storage.NewMemoryStore()
	a := NewService(store, notify.NewBus(), logging.Default())
	b := NewService(store, notify.NewBus(), logging.Default())
	ctx := context.Background()

	itemA, err := a.Add(ctx, models.HistoryItem{Type: models.ItemTypeImage})
	require.NoError(t, err)
	itemB, err := b.Add(ctx, models.HistoryItem{Type: models.ItemTypeText})
	require.NoError(t, err)

	persisted, err := storage.LoadRecords[models.HistoryItem](ctx, store, storage.NamespaceHistory)
	require.NoError(t, err)
	require.Len(t, persisted, 2)

	ids := map[string]bool{persisted[0].ID: true, persisted[1].ID: true}
	assert.True(t, ids[itemA.ID])
	assert.True(t, ids[itemB.ID])
}

func TestStart_RefreshesOnBusEvent(t *testing.T) {
	s, store, bus := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))

	seed := []models.HistoryItem{{ID: "ext-9", Type: models.ItemTypeEmail}}
	require.NoError(t, storage.SaveRecords(ctx, store, storage.NamespaceHistory, seed))

	bus.Publish(notify.Event{Topic: notify.TopicExtensionSynced, NewItems: 1})

	require.Eventually(t, func() bool {
		items := s.Items()
		return len(items) == 1 && items[0].ID == "ext-9"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStart_RefreshesOnStorageChange(t *testing.T) {
	s, store, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))

	// A "different tab" writes the namespace directly.
	seed := []models.HistoryItem{{ID: "web-other-tab", Type: models.ItemTypeText}}
	require.NoError(t, storage.SaveRecords(ctx, store, storage.NamespaceHistory, seed))

	require.Eventually(t, func() bool {
		items := s.Items()
		return len(items) == 1 && items[0].ID == "web-other-tab"
	}, 2*time.Second, 10*time.Millisecond)
}
