package storage

import "sync"

// watchSet tracks change subscriptions per namespace. Notification channels
// are buffered with capacity one and sends never block, so rapid writes
// coalesce into a single pending wake-up. That is sufficient for
// level-triggered consumers that re-read state on every signal.
type watchSet struct {
	mu       sync.Mutex
	channels map[string]map[chan struct{}]struct{}
}

func newWatchSet() *watchSet {
	return &watchSet{channels: make(map[string]map[chan struct{}]struct{})}
}

func (w *watchSet) add(namespace string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	w.mu.Lock()
	set, ok := w.channels[namespace]
	if !ok {
		set = make(map[chan struct{}]struct{})
		w.channels[namespace] = set
	}
	set[ch] = struct{}{}
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		if set, ok := w.channels[namespace]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(w.channels, namespace)
			}
		}
		w.mu.Unlock()
	}
	return ch, cancel
}

func (w *watchSet) notify(namespace string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.channels[namespace] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
