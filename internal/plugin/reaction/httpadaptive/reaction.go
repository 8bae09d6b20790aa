package httpadaptive

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

type wireDelta struct {
	QueryID string `json:"query_id"`
	Seq     uint64 `json:"seq"`
	Payload any    `json:"payload"`
}

// Reaction POSTs each result delta to a fixed endpoint, no faster than
// ratePerSecond requests per second; a burst above that rate waits for a
// token instead of firing immediately.
type Reaction struct {
	id       string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(id, endpoint string, ratePerSecond float64, burst int) *Reaction {
	return &Reaction{
		id: id, endpoint: endpoint,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (r *Reaction) ID() string   { return r.id }
func (r *Reaction) Kind() string { return string(config.ReactionHttpAdaptive) }
func (r *Reaction) Properties() map[string]any {
	return map[string]any{"endpoint": r.endpoint, "rate_limit": r.limiter.Limit()}
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
				if err := r.limiter.Wait(runCtx); err != nil {
					return
				}
				r.post(runCtx, d)
			case <-runCtx.Done():
				return
			}
		}
	}()
	return nil
}

func (r *Reaction) post(ctx context.Context, d component.ResultDelta) {
	body, err := json.Marshal(wireDelta{QueryID: d.QueryID, Seq: d.Seq, Payload: d.Payload})
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

func (r *Reaction) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	return nil
}

func identity(s string) (string, error) { return s, nil }

func Factory(r *mapping.Resolver, dto config.ReactionConfigDTO) (config.ReactionConfig, component.Reaction, error) {
	endpoint, err := mapping.RequireParam(r, dto.Params, "endpoint", identity)
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}
	rps, err := mapping.ResolveParam(r, dto.Params, "rate_per_second", strconv.Atoi, 10)
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}
	burst, err := mapping.ResolveParam(r, dto.Params, "burst", strconv.Atoi, rps)
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}

	domainCfg := config.ReactionConfig{
		ID: dto.ID, Kind: config.ReactionHttpAdaptive, Queries: dto.Queries, AutoStart: dto.AutoStart,
		Params: map[string]any{"endpoint": endpoint, "rate_per_second": rps, "burst": burst},
	}
	return domainCfg, New(dto.ID, endpoint, float64(rps), burst), nil
}
