package platform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
	"github.com/drasi-project/drasi-server/internal/query"
)

// Provider reads the platform's current-state snapshot from a Valkey hash
// (field = entity id, value = JSON-encoded properties) and replays it as
// insert rows.
type Provider struct {
	addr string
	key  string
}

func New(addr, key string) *Provider {
	return &Provider{addr: addr, key: key}
}

func (p *Provider) Kind() string { return string(config.BootstrapPlatform) }

func (p *Provider) Bootstrap(ctx context.Context, queryID string, sink chan<- component.ChangeEvent) error {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{p.addr}})
	if err != nil {
		return fmt.Errorf("platform bootstrap: connecting: %w", err)
	}
	defer client.Close()

	snapshot, err := client.Do(ctx, client.B().Hgetall().Key(p.key).Build()).AsStrMap()
	if err != nil {
		return fmt.Errorf("platform bootstrap: reading snapshot %q: %w", p.key, err)
	}

	for id, raw := range snapshot {
		var props map[string]any
		if err := json.Unmarshal([]byte(raw), &props); err != nil {
			props = map[string]any{"value": raw}
		}
		ev := component.ChangeEvent{Bootstrap: true, Payload: query.Row{Op: query.OpInsert, ID: id, Properties: props}}
		select {
		case sink <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func identity(s string) (string, error) { return s, nil }

func Factory(r *mapping.Resolver, dto config.BootstrapDescriptorDTO) (component.BootstrapProvider, error) {
	addr, err := mapping.RequireParam(r, dto.Params, "addr", identity)
	if err != nil {
		return nil, err
	}
	key, err := mapping.ResolveParam(r, dto.Params, "key", identity, "drasi.snapshot")
	if err != nil {
		return nil, err
	}
	return New(addr, key), nil
}
