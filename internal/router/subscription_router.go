package router

import (
	"context"
	"sync"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/metrics"
)

// SubscriptionRouter mirrors DataRouter for the (reaction_id, query_ids)
// pair: it fans each query's emitted delta to every reaction subscribed to
// that query. Same ordering and back-pressure guarantees.
type SubscriptionRouter struct {
	mu sync.RWMutex

	byQuery    map[string]map[string]struct{}
	byReaction map[string]*reactionSubscription

	defaultCapacity int
}

type reactionSubscription struct {
	queryIDs []string
	ch       chan component.ResultDelta
}

func NewSubscriptionRouter(defaultCapacity int) *SubscriptionRouter {
	if defaultCapacity <= 0 {
		defaultCapacity = 10000
	}
	return &SubscriptionRouter{
		byQuery:         make(map[string]map[string]struct{}),
		byReaction:      make(map[string]*reactionSubscription),
		defaultCapacity: defaultCapacity,
	}
}

func (r *SubscriptionRouter) AddReactionSubscription(reactionID string, queryIDs []string, capacity int) <-chan component.ResultDelta {
	if capacity <= 0 {
		capacity = r.defaultCapacity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byReaction[reactionID]; ok {
		r.detachLocked(reactionID, old)
		close(old.ch)
	}

	ch := make(chan component.ResultDelta, capacity)
	sub := &reactionSubscription{queryIDs: append([]string(nil), queryIDs...), ch: ch}
	r.byReaction[reactionID] = sub
	for _, queryID := range queryIDs {
		subs, ok := r.byQuery[queryID]
		if !ok {
			subs = make(map[string]struct{})
			r.byQuery[queryID] = subs
		}
		subs[reactionID] = struct{}{}
	}
	return ch
}

func (r *SubscriptionRouter) RemoveReactionSubscription(reactionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byReaction[reactionID]
	if !ok {
		return
	}
	r.detachLocked(reactionID, sub)
	delete(r.byReaction, reactionID)
	close(sub.ch)
}

func (r *SubscriptionRouter) detachLocked(reactionID string, sub *reactionSubscription) {
	for _, queryID := range sub.queryIDs {
		if subs, ok := r.byQuery[queryID]; ok {
			delete(subs, reactionID)
			if len(subs) == 0 {
				delete(r.byQuery, queryID)
			}
		}
	}
}

// Publish holds the read lock for the whole fan-out, not just a snapshot,
// so a concurrent RemoveReactionSubscription cannot close a channel this
// call is still sending on.
func (r *SubscriptionRouter) Publish(ctx context.Context, delta component.ResultDelta) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.byQuery[delta.QueryID]
	for reactionID := range subs {
		ch := r.byReaction[reactionID].ch
		select {
		case ch <- delta:
			metrics.RecordRouted("subscription")
		case <-ctx.Done():
			return
		}
	}
}
