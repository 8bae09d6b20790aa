package eventbus

import (
	"sync"
	"time"

	"github.com/drasi-project/drasi-server/internal/component"
)

// LifecycleEvent reports a single component status transition.
type LifecycleEvent struct {
	Class     component.Class
	ID        string
	Old       component.Status
	New       component.Status
	Err       error
	Timestamp time.Time
}

// Bus is a bounded-channel, non-blocking-publish event bus. Each subscriber
// gets its own channel; a slow subscriber drops events rather than stalling
// publication (lifecycle notifications are advisory — the authoritative
// status lives in the owning manager's registry).
type Bus struct {
	mu          sync.RWMutex
	subscribers map[chan LifecycleEvent]struct{}
}

func New() *Bus {
	return &Bus{subscribers: make(map[chan LifecycleEvent]struct{})}
}

// Subscribe returns a receive channel of the given buffer capacity. Callers
// must Unsubscribe with the same channel to stop delivery.
func (b *Bus) Subscribe(buffer int) <-chan LifecycleEvent {
	ch := make(chan LifecycleEvent, buffer)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Bus) Unsubscribe(ch <-chan LifecycleEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subscribers {
		if sub == ch {
			delete(b.subscribers, sub)
			close(sub)
			return
		}
	}
}

// Publish fans ev out to every current subscriber without blocking on a full
// subscriber buffer (mirrors orchestrator.go's
// "select { case subscriber <- event: default: }" pattern); the subscriber
// list is copied before dispatch so Publish never holds the lock during send.
func (b *Bus) Publish(ev LifecycleEvent) {
	b.mu.RLock()
	subs := make([]chan<- LifecycleEvent, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub <- ev:
		default:
		}
	}
}
