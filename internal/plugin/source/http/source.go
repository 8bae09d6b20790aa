package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
	"github.com/drasi-project/drasi-server/internal/query"
)

// wireRow is the JSON body a Http source request carries: op/id/labels/
// properties, mirroring query.Row without importing its internal
// constraints directly into the wire format.
type wireRow struct {
	Op         string         `json:"op"`
	ID         string         `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// Source runs an HTTP server that accepts one change event per
// POST /events request.
type Source struct {
	id   string
	addr string

	server *http.Server
	wg     sync.WaitGroup
}

func New(id, addr string) *Source {
	return &Source{id: id, addr: addr}
}

func (s *Source) ID() string   { return s.id }
func (s *Source) Kind() string { return string(config.SourceHttp) }
func (s *Source) Properties() map[string]any {
	return map[string]any{"addr": s.addr}
}
func (s *Source) BootstrapProvider() (component.BootstrapProvider, bool) { return nil, false }

func (s *Source) Start(ctx context.Context, sink chan<- component.ChangeEvent) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var wr wireRow
		if err := json.NewDecoder(r.Body).Decode(&wr); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"error":%q}`, err.Error())
			return
		}

		requestID := uuid.NewString()
		row := query.Row{Op: query.Op(wr.Op), ID: wr.ID, Labels: wr.Labels, Properties: wr.Properties}
		ev := component.ChangeEvent{Payload: row}

		select {
		case sink <- ev:
			w.Header().Set("X-Request-Id", requestID)
			w.WriteHeader(http.StatusAccepted)
		case <-r.Context().Done():
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	s.server = &http.Server{Addr: s.addr, Handler: mux}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.server.ListenAndServe()
	}()
	return nil
}

func (s *Source) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(shutdownCtx)
	s.wg.Wait()
	return err
}

func Factory(r *mapping.Resolver, dto config.SourceConfigDTO) (config.SourceConfig, component.Source, error) {
	addr, err := mapping.ResolveParam(r, dto.Params, "addr", identity, ":0")
	if err != nil {
		return config.SourceConfig{}, nil, err
	}

	domainCfg := config.SourceConfig{
		ID: dto.ID, Kind: config.SourceHttp, AutoStart: dto.AutoStart,
		Params: map[string]any{"addr": addr},
	}
	return domainCfg, New(dto.ID, addr), nil
}

func identity(s string) (string, error) { return s, nil }
