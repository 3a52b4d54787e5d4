// Package notify is the in-process half of the cross-context notifier: an
// explicit publish/subscribe bus for "state changed, go re-read" signals.
//
// Delivery is at-least-once with coalescing: a publisher never blocks, and a
// subscriber that has not drained its channel may see several publications
// folded into one pending event. Events carry no authority; subscribers
// re-read persisted state when woken.
package notify

import "sync"

// TopicExtensionSynced is published after a reconciliation pass imported at
// least one producer record into the history namespace.
const TopicExtensionSynced = "extension-data-synced"

// Event is one published notification.
type Event struct {
	Topic string

	// NewItems is the number of records imported by a merge, for
	// TopicExtensionSynced events.
	NewItems int
}

// Subscription receives events for a single topic on C until unsubscribed.
type Subscription struct {
	C     chan Event
	topic string
}

// Bus fans events out to topic subscribers.
type Bus struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers interest in a topic.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{C: make(chan Event, 1), topic: topic}

	b.mu.Lock()
	set, ok := b.subs[topic]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.subs[topic] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscription. Safe to call more than once.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[sub.topic]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, sub.topic)
		}
	}
}

// Publish delivers the event to every current subscriber of its topic
// without blocking. It returns the number of subscribers that had the event
// queued (a full subscriber already has a wake-up pending and is counted as
// delivered).
func (b *Bus) Publish(ev Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for sub := range b.subs[ev.Topic] {
		select {
		case sub.C <- ev:
		default:
		}
		n++
	}
	return n
}
