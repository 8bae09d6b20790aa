package platform

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/valkey-io/valkey-go"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

type wireDelta struct {
	QueryID string `json:"query_id"`
	Seq     uint64 `json:"seq"`
	Payload any    `json:"payload"`
}

// Reaction publishes each result delta as a JSON message on a Valkey
// pub-sub channel.
type Reaction struct {
	id      string
	addr    string
	channel string

	client valkey.Client
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(id, addr, channel string) *Reaction {
	return &Reaction{id: id, addr: addr, channel: channel}
}

func (r *Reaction) ID() string   { return r.id }
func (r *Reaction) Kind() string { return string(config.ReactionPlatform) }
func (r *Reaction) Properties() map[string]any {
	return map[string]any{"addr": r.addr, "channel": r.channel}
}

func (r *Reaction) Start(ctx context.Context, deltas <-chan component.ResultDelta) error {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{r.addr}})
	if err != nil {
		return err
	}
	r.client = client

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case d, ok := <-deltas:
				if !ok {
					return
				}
				r.publish(runCtx, d)
			case <-runCtx.Done():
				return
			}
		}
	}()
	return nil
}

func (r *Reaction) publish(ctx context.Context, d component.ResultDelta) {
	body, err := json.Marshal(wireDelta{QueryID: d.QueryID, Seq: d.Seq, Payload: d.Payload})
	if err != nil {
		return
	}
	cmd := r.client.B().Publish().Channel(r.channel).Message(string(body)).Build()
	r.client.Do(ctx, cmd)
}

func (r *Reaction) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	if r.client != nil {
		r.client.Close()
	}
	return nil
}

func identity(s string) (string, error) { return s, nil }

func Factory(r *mapping.Resolver, dto config.ReactionConfigDTO) (config.ReactionConfig, component.Reaction, error) {
	addr, err := mapping.RequireParam(r, dto.Params, "addr", identity)
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}
	channel, err := mapping.ResolveParam(r, dto.Params, "channel", identity, "drasi.results")
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}
	domainCfg := config.ReactionConfig{
		ID: dto.ID, Kind: config.ReactionPlatform, Queries: dto.Queries, AutoStart: dto.AutoStart,
		Params: map[string]any{"addr": addr, "channel": channel},
	}
	return domainCfg, New(dto.ID, addr, channel), nil
}
