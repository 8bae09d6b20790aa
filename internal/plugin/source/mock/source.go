package mock

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
	"github.com/drasi-project/drasi-server/internal/plugin/bootstrap/application"
	"github.com/drasi-project/drasi-server/internal/query"
)

// Source emits a synthetic upsert every interval, looping through a fixed
// pool of node ids so queries observe a steady mix of inserts and updates.
type Source struct {
	id       string
	interval time.Duration
	label    string
	poolSize int

	cancel atomic.Pointer[context.CancelFunc]
	wg     sync.WaitGroup
}

// Config is Mock's resolved domain parameters, carried inside
// config.SourceConfig.Params under the "mock" convention this repo's
// factories follow: plugin-specific fields live in the generic Params map,
// parsed once at construction time rather than re-parsed per use.
type Config struct {
	IntervalMS int
	Label      string
	PoolSize   int
}

func New(id string, cfg Config) *Source {
	if cfg.IntervalMS <= 0 {
		cfg.IntervalMS = 100
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 10
	}
	if cfg.Label == "" {
		cfg.Label = "Entity"
	}
	src := &Source{id: id, interval: time.Duration(cfg.IntervalMS) * time.Millisecond, label: cfg.Label, poolSize: cfg.PoolSize}
	application.Register(id, src.snapshot)
	return src
}

func (s *Source) ID() string   { return s.id }
func (s *Source) Kind() string { return string(config.SourceMock) }
func (s *Source) Properties() map[string]any {
	return map[string]any{"interval_ms": int(s.interval / time.Millisecond), "label": s.label, "pool_size": s.poolSize}
}

// BootstrapProvider exposes the source's current pool as an Application
// bootstrap hook: every live Mock source is its own snapshot source, no
// separate bootstrap descriptor configuration required.
func (s *Source) BootstrapProvider() (component.BootstrapProvider, bool) {
	return application.New(s.id), true
}

// snapshot replays the full id pool as insert rows, registered under the
// source's own id so an Application bootstrap descriptor naming it can bind.
func (s *Source) snapshot(ctx context.Context, queryID string, sink chan<- component.ChangeEvent) error {
	for i := 0; i < s.poolSize; i++ {
		row := query.Row{
			Op:     query.OpInsert,
			ID:     fmt.Sprintf("%s-%d", s.label, i),
			Labels: []string{s.label},
		}
		select {
		case sink <- component.ChangeEvent{Bootstrap: true, Payload: row}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Start launches a ticker goroutine emitting one synthetic Row per tick and
// returns immediately; Stop cancels the ticker goroutine.
func (s *Source) Start(ctx context.Context, sink chan<- component.ChangeEvent) error {
	application.Register(s.id, s.snapshot)
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel.Store(&cancel)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		var seq uint64
		for {
			select {
			case <-ticker.C:
				seq++
				id := fmt.Sprintf("%s-%d", s.label, seq%uint64(s.poolSize))
				row := query.Row{
					Op:     opFor(seq, s.poolSize),
					ID:     id,
					Labels: []string{s.label},
					Properties: map[string]any{
						"value":     rand.Intn(1000),
						"sequence":  seq,
						"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
					},
				}
				select {
				case sink <- component.ChangeEvent{Seq: seq, Payload: row}:
				case <-runCtx.Done():
					return
				}
			case <-runCtx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *Source) Stop(ctx context.Context) error {
	if c := s.cancel.Load(); c != nil {
		(*c)()
	}
	s.wg.Wait()
	application.Unregister(s.id)
	return nil
}

// Factory constructs Config and a Source from a SourceConfigDTO's params.
func Factory(r *mapping.Resolver, dto config.SourceConfigDTO) (config.SourceConfig, component.Source, error) {
	interval, err := mapping.ResolveParam(r, dto.Params, "interval_ms", strconv.Atoi, 100)
	if err != nil {
		return config.SourceConfig{}, nil, err
	}
	label, err := mapping.ResolveParam(r, dto.Params, "label", identity, "Entity")
	if err != nil {
		return config.SourceConfig{}, nil, err
	}
	poolSize, err := mapping.ResolveParam(r, dto.Params, "pool_size", strconv.Atoi, 10)
	if err != nil {
		return config.SourceConfig{}, nil, err
	}

	domainCfg := config.SourceConfig{
		ID:        dto.ID,
		Kind:      config.SourceMock,
		AutoStart: dto.AutoStart,
		Params: map[string]any{
			"interval_ms": interval,
			"label":       label,
			"pool_size":   poolSize,
		},
	}
	return domainCfg, New(dto.ID, Config{IntervalMS: interval, Label: label, PoolSize: poolSize}), nil
}

func identity(s string) (string, error) { return s, nil }

// opFor treats each id's first tick as an insert and every later tick that
// reuses the id (once the sequence wraps past the pool size) as an update,
// so a consumer observes a steady mix of both operations.
func opFor(seq uint64, poolSize int) query.Op {
	if seq <= uint64(poolSize) {
		return query.OpInsert
	}
	return query.OpUpdate
}
