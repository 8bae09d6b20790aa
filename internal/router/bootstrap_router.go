package router

import (
	"context"
	"sync"

	"github.com/drasi-project/drasi-server/internal/component"
)

// BootstrapRouter lets a query, on subscription, receive a synthetic initial
// snapshot from each of its sources' bootstrap providers before live events
// are merged in.
type BootstrapRouter struct {
	mu        sync.RWMutex
	providers map[string]component.BootstrapProvider
}

func NewBootstrapRouter() *BootstrapRouter {
	return &BootstrapRouter{providers: make(map[string]component.BootstrapProvider)}
}

// RegisterProvider attaches provider as sourceID's bootstrap provider. Only
// one provider may be registered per source; a later call replaces the
// former.
func (r *BootstrapRouter) RegisterProvider(sourceID string, provider component.BootstrapProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[sourceID] = provider
}

// UnregisterProvider detaches sourceID's provider, if any.
func (r *BootstrapRouter) UnregisterProvider(sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.providers, sourceID)
}

func (r *BootstrapRouter) provider(sourceID string) (component.BootstrapProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[sourceID]
	return p, ok
}

// Run executes the bootstrap protocol for a query that just subscribed to
// sourceIDs, writing synthetic events (and a terminal event per source) onto
// sink — the same channel DataRouter.AddQuerySubscription returned for this
// query, so bootstrap and live events interleave without reordering within
// either stream.
//
// A source with no registered provider is a silent no-op (zero synthetic
// events), not an error. A provider failure is delivered as a terminal
// error event on sink rather than failing the caller: bootstrap replay
// failures never fail the enclosing query start.
func (r *BootstrapRouter) Run(ctx context.Context, queryID string, sourceIDs []string, sink chan<- component.ChangeEvent) {
	for _, sourceID := range sourceIDs {
		provider, ok := r.provider(sourceID)
		if !ok {
			continue
		}

		err := provider.Bootstrap(ctx, queryID, sink)

		end := component.ChangeEvent{SourceID: sourceID, Bootstrap: true, End: true, EndErr: err}
		select {
		case sink <- end:
		case <-ctx.Done():
			return
		}
	}
}
