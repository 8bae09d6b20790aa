package profiler

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

// Reaction counts received deltas and logs a throughput summary every
// reportInterval, then resets the counter.
type Reaction struct {
	id             string
	reportInterval time.Duration
	log            *slog.Logger

	mu      sync.Mutex
	count   int
	lastLog time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(id string, reportInterval time.Duration) *Reaction {
	if reportInterval <= 0 {
		reportInterval = 10 * time.Second
	}
	return &Reaction{id: id, reportInterval: reportInterval, log: slog.Default().With("reaction", id)}
}

func (r *Reaction) ID() string   { return r.id }
func (r *Reaction) Kind() string { return string(config.ReactionProfiler) }
func (r *Reaction) Properties() map[string]any {
	return map[string]any{"report_interval": r.reportInterval.String()}
}

func (r *Reaction) Start(ctx context.Context, deltas <-chan component.ResultDelta) error {
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.lastLog = time.Now()

	ticker := time.NewTicker(r.reportInterval)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case _, ok := <-deltas:
				if !ok {
					return
				}
				r.mu.Lock()
				r.count++
				r.mu.Unlock()
			case <-ticker.C:
				r.report()
			case <-runCtx.Done():
				return
			}
		}
	}()
	return nil
}

func (r *Reaction) report() {
	r.mu.Lock()
	count := r.count
	elapsed := time.Since(r.lastLog)
	r.count = 0
	r.lastLog = time.Now()
	r.mu.Unlock()

	rate := float64(count) / elapsed.Seconds()
	r.log.Info("delta throughput", "deltas", count, "elapsed", elapsed.String(), "per_second", rate)
}

func (r *Reaction) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	return nil
}

func Factory(r *mapping.Resolver, dto config.ReactionConfigDTO) (config.ReactionConfig, component.Reaction, error) {
	reportMS, err := mapping.ResolveParam(r, dto.Params, "report_interval_ms", strconv.Atoi, 10000)
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}
	domainCfg := config.ReactionConfig{
		ID: dto.ID, Kind: config.ReactionProfiler, Queries: dto.Queries, AutoStart: dto.AutoStart,
		Params: map[string]any{"report_interval_ms": reportMS},
	}
	return domainCfg, New(dto.ID, time.Duration(reportMS)*time.Millisecond), nil
}
