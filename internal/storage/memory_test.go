package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []rec{{ID: "a", N: 1}}
	require.NoError(t, SaveRecords(ctx, s, NamespaceHistory, in))

	out, err := LoadRecords[rec](ctx, s, NamespaceHistory)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMemoryStore_ReadReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, NamespaceHistory, []byte("abc")))

	data, err := s.Read(ctx, NamespaceHistory)
	require.NoError(t, err)
	data[0] = 'z'

	again, err := s.Read(ctx, NamespaceHistory)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_WatchAndUnsubscribe(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ch, cancel := s.Watch(NamespaceHistory)

	require.NoError(t, s.Write(ctx, NamespaceHistory, []byte("[]")))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected signal")
	}

	cancel()
	require.NoError(t, s.Write(ctx, NamespaceHistory, []byte("[1]")))
	select {
	case <-ch:
		t.Fatal("unexpected signal after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryStore_DeleteNotifiesOnlyWhenPresent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ch, cancel := s.Watch(NamespaceSession)
	defer cancel()

	require.NoError(t, s.Delete(ctx, NamespaceSession))
	select {
	case <-ch:
		t.Fatal("unexpected signal for absent namespace")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, s.Write(ctx, NamespaceSession, []byte("x")))
	<-ch
	require.NoError(t, s.Delete(ctx, NamespaceSession))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected signal after delete")
	}
}
