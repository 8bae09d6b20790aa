package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

// SnapshotFunc replays an application source's current state as a bootstrap
// stream. Sources register one under their own id from their constructor.
type SnapshotFunc func(ctx context.Context, queryID string, sink chan<- component.ChangeEvent) error

var (
	mu       sync.RWMutex
	registry = map[string]SnapshotFunc{}
)

// Register attaches a snapshot hook to name so a later Application bootstrap
// descriptor naming it can bind to it via Factory.
func Register(name string, fn SnapshotFunc) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = fn
}

// Unregister removes name's snapshot hook.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(registry, name)
}

func lookup(name string) (SnapshotFunc, bool) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := registry[name]
	return fn, ok
}

// Provider replays its bound source's last-registered snapshot hook.
type Provider struct {
	name string
}

func New(name string) *Provider {
	return &Provider{name: name}
}

func (p *Provider) Kind() string { return string(config.BootstrapApplication) }

func (p *Provider) Bootstrap(ctx context.Context, queryID string, sink chan<- component.ChangeEvent) error {
	fn, ok := lookup(p.name)
	if !ok {
		return fmt.Errorf("application bootstrap: no source registered under %q", p.name)
	}
	return fn(ctx, queryID, sink)
}

func identity(s string) (string, error) { return s, nil }

func Factory(r *mapping.Resolver, dto config.BootstrapDescriptorDTO) (component.BootstrapProvider, error) {
	name, err := mapping.RequireParam(r, dto.Params, "name", identity)
	if err != nil {
		return nil, err
	}
	return New(name), nil
}
