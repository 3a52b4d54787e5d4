package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversToSubscriber(t *testing.T) {
	b := NewBus()
	sub := b.Subscribe(TopicExtensionSynced)

	n := b.Publish(Event{Topic: TopicExtensionSynced, NewItems: 3})
	assert.Equal(t, 1, n)

	select {
	case ev := <-sub.C:
		assert.Equal(t, 3, ev.NewItems)
	case <-time.After(time.Second):
		t.Fatal("expected event")
	}
}

func TestBus_TopicsAreIsolated(t *testing.T) {
	b := NewBus()
	sub := b.Subscribe("other-topic")

	b.Publish(Event{Topic: TopicExtensionSynced})

	select {
	case <-sub.C:
		t.Fatal("unexpected event for different topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_PublishNeverBlocks(t *testing.T) {
	b := NewBus()
	sub := b.Subscribe(TopicExtensionSynced)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(Event{Topic: TopicExtensionSynced, NewItems: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// Coalesced: at least one wake-up is pending.
	select {
	case <-sub.C:
	default:
		t.Fatal("expected a pending event")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	sub := b.Subscribe(TopicExtensionSynced)
	b.Unsubscribe(sub)
	b.Unsubscribe(sub) // idempotent

	n := b.Publish(Event{Topic: TopicExtensionSynced})
	assert.Zero(t, n)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	b := NewBus()
	assert.Zero(t, b.Publish(Event{Topic: TopicExtensionSynced}))
}
