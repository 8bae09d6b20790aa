package log

import (
	"context"
	"log/slog"
	"sync"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

// Reaction writes every received ResultDelta to a slog.Logger at the
// configured level.
type Reaction struct {
	id    string
	level slog.Level
	log   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(id string, level slog.Level) *Reaction {
	return &Reaction{id: id, level: level, log: slog.Default().With("reaction", id)}
}

func (r *Reaction) ID() string   { return r.id }
func (r *Reaction) Kind() string { return string(config.ReactionLog) }
func (r *Reaction) Properties() map[string]any {
	return map[string]any{"level": r.level.String()}
}

func (r *Reaction) Start(ctx context.Context, deltas <-chan component.ResultDelta) error {
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
				r.log.Log(runCtx, r.level, "result delta", "query_id", d.QueryID, "seq", d.Seq, "payload", d.Payload)
			case <-runCtx.Done():
				return
			}
		}
	}()
	return nil
}

func (r *Reaction) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, nil
	}
	return level, nil
}

func Factory(r *mapping.Resolver, dto config.ReactionConfigDTO) (config.ReactionConfig, component.Reaction, error) {
	level, err := mapping.ResolveParam(r, dto.Params, "level", parseLevel, slog.LevelInfo)
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}
	domainCfg := config.ReactionConfig{
		ID: dto.ID, Kind: config.ReactionLog, Queries: dto.Queries, AutoStart: dto.AutoStart,
		Params: map[string]any{"level": level.String()},
	}
	return domainCfg, New(dto.ID, level), nil
}
