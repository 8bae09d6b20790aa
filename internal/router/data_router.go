package router

import (
	"context"
	"sync"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/metrics"
)

// DataRouter fans every change event produced by a source to exactly the set
// of queries currently subscribed to it.
type DataRouter struct {
	mu sync.RWMutex

	// bySource maps a source id to the set of query ids currently
	// subscribed to it, for fast publish-time lookup.
	bySource map[string]map[string]struct{}

	// byQuery maps a query id to its current subscription.
	byQuery map[string]*querySubscription

	defaultCapacity int
}

type querySubscription struct {
	sourceIDs []string
	ch        chan component.ChangeEvent
}

// NewDataRouter constructs a router whose per-query channel capacity
// defaults to defaultCapacity when a caller passes 0 to AddQuerySubscription.
func NewDataRouter(defaultCapacity int) *DataRouter {
	if defaultCapacity <= 0 {
		defaultCapacity = 10000
	}
	return &DataRouter{
		bySource:        make(map[string]map[string]struct{}),
		byQuery:         make(map[string]*querySubscription),
		defaultCapacity: defaultCapacity,
	}
}

// AddQuerySubscription registers queryID as a subscriber of every source in
// sourceIDs and returns the receiving end of its channel. A second call for
// the same queryID replaces the prior subscription; the old channel is
// closed so the old query observes end-of-stream.
func (r *DataRouter) AddQuerySubscription(queryID string, sourceIDs []string, capacity int) <-chan component.ChangeEvent {
	if capacity <= 0 {
		capacity = r.defaultCapacity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byQuery[queryID]; ok {
		r.detachLocked(queryID, old)
		close(old.ch)
	}

	ch := make(chan component.ChangeEvent, capacity)
	sub := &querySubscription{sourceIDs: append([]string(nil), sourceIDs...), ch: ch}
	r.byQuery[queryID] = sub
	for _, sourceID := range sourceIDs {
		subs, ok := r.bySource[sourceID]
		if !ok {
			subs = make(map[string]struct{})
			r.bySource[sourceID] = subs
		}
		subs[queryID] = struct{}{}
	}
	return ch
}

// RemoveQuerySubscription tears down queryID's subscription; after it
// returns, no further events are enqueued to the channel previously
// returned for queryID.
func (r *DataRouter) RemoveQuerySubscription(queryID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byQuery[queryID]
	if !ok {
		return
	}
	r.detachLocked(queryID, sub)
	delete(r.byQuery, queryID)
	close(sub.ch)
}

func (r *DataRouter) detachLocked(queryID string, sub *querySubscription) {
	for _, sourceID := range sub.sourceIDs {
		if subs, ok := r.bySource[sourceID]; ok {
			delete(subs, queryID)
			if len(subs) == 0 {
				delete(r.bySource, sourceID)
			}
		}
	}
}

// QuerySink returns the send side of queryID's current subscription channel,
// used by the BootstrapRouter to merge synthetic replay events into the same
// stream live events arrive on.
func (r *DataRouter) QuerySink(queryID string) (chan<- component.ChangeEvent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byQuery[queryID]
	if !ok {
		return nil, false
	}
	return sub.ch, true
}

// Publish fans ev out to every query currently subscribed to ev.SourceID,
// preserving per-subscriber delivery order. Each send awaits room
// on a full channel (the mandated back-pressure policy) but
// respects ctx cancellation so a shutting-down query cannot wedge the
// source's producer task forever. The read lock is held for the whole
// fan-out, not just the snapshot, so a concurrent RemoveQuerySubscription
// cannot close a channel this call is still sending on.
func (r *DataRouter) Publish(ctx context.Context, ev component.ChangeEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.bySource[ev.SourceID]
	for queryID := range subs {
		ch := r.byQuery[queryID].ch
		select {
		case ch <- ev:
			metrics.RecordRouted("data")
		case <-ctx.Done():
			return
		}
	}
}
