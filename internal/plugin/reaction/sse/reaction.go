package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

type wireDelta struct {
	QueryID string `json:"query_id"`
	Seq     uint64 `json:"seq"`
	Payload any    `json:"payload"`
}

// Reaction runs an http.Server exposing GET /events: each connection
// registers a subscriber channel and receives every subsequent result delta
// as an SSE "data:" frame until the client disconnects.
type Reaction struct {
	id   string
	addr string

	server *http.Server

	mu   sync.Mutex
	subs map[string]chan component.ResultDelta

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(id, addr string) *Reaction {
	return &Reaction{id: id, addr: addr, subs: make(map[string]chan component.ResultDelta)}
}

func (r *Reaction) ID() string   { return r.id }
func (r *Reaction) Kind() string { return string(config.ReactionSse) }
func (r *Reaction) Properties() map[string]any {
	return map[string]any{"addr": r.addr}
}

func (r *Reaction) addSubscriber() (string, chan component.ResultDelta) {
	id := uuid.NewString()
	ch := make(chan component.ResultDelta, 64)
	r.mu.Lock()
	r.subs[id] = ch
	r.mu.Unlock()
	return id, ch
}

func (r *Reaction) removeSubscriber(id string) {
	r.mu.Lock()
	delete(r.subs, id)
	r.mu.Unlock()
}

func (r *Reaction) handleEvents(w http.ResponseWriter, req *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	subID, ch := r.addSubscriber()
	defer r.removeSubscriber(subID)

	for {
		select {
		case d := <-ch:
			body, err := json.Marshal(wireDelta{QueryID: d.QueryID, Seq: d.Seq, Payload: d.Payload})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", body)
			flusher.Flush()
		case <-req.Context().Done():
			return
		}
	}
}

func (r *Reaction) broadcast(d component.ResultDelta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- d:
		default:
		}
	}
}

func (r *Reaction) Start(ctx context.Context, deltas <-chan component.ResultDelta) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", r.handleEvents)
	r.server = &http.Server{Addr: r.addr, Handler: mux}

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
				r.broadcast(d)
			case <-runCtx.Done():
				return
			}
		}
	}()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = r.server.ListenAndServe()
	}()
	return nil
}

func (r *Reaction) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	if r.server != nil {
		_ = r.server.Shutdown(ctx)
	}
	r.wg.Wait()
	return nil
}

func identity(s string) (string, error) { return s, nil }

func Factory(r *mapping.Resolver, dto config.ReactionConfigDTO) (config.ReactionConfig, component.Reaction, error) {
	addr, err := mapping.ResolveParam(r, dto.Params, "addr", identity, ":0")
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}
	domainCfg := config.ReactionConfig{
		ID: dto.ID, Kind: config.ReactionSse, Queries: dto.Queries, AutoStart: dto.AutoStart,
		Params: map[string]any{"addr": addr},
	}
	return domainCfg, New(dto.ID, addr), nil
}
