package noop

import (
	"context"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

// Provider replays nothing; Bootstrap returns immediately.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Kind() string { return string(config.BootstrapNoOp) }

func (p *Provider) Bootstrap(ctx context.Context, queryID string, sink chan<- component.ChangeEvent) error {
	return nil
}

func Factory(r *mapping.Resolver, dto config.BootstrapDescriptorDTO) (component.BootstrapProvider, error) {
	return New(), nil
}
