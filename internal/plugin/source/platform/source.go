package platform

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
	"github.com/drasi-project/drasi-server/internal/query"
)

// Source tails a Valkey stream, blocking between reads, decoding each
// entry's "row" field as JSON-encoded query.Row.
type Source struct {
	id      string
	addr    string
	stream  string
	block   time.Duration

	client valkey.Client
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(id, addr, stream string, block time.Duration) *Source {
	if block <= 0 {
		block = time.Second
	}
	return &Source{id: id, addr: addr, stream: stream, block: block}
}

func (s *Source) ID() string   { return s.id }
func (s *Source) Kind() string { return string(config.SourcePlatform) }
func (s *Source) Properties() map[string]any {
	return map[string]any{"addr": s.addr, "stream": s.stream}
}
func (s *Source) BootstrapProvider() (component.BootstrapProvider, bool) { return nil, false }

func (s *Source) Start(ctx context.Context, sink chan<- component.ChangeEvent) error {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{s.addr}})
	if err != nil {
		return err
	}
	s.client = client

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.tail(runCtx, sink)
	}()
	return nil
}

func (s *Source) tail(ctx context.Context, sink chan<- component.ChangeEvent) {
	lastID := "$"
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cmd := s.client.B().Xread().Block(s.block.Milliseconds()).Streams().Key(s.stream).Id(lastID).Build()
		streams, err := s.client.Do(ctx, cmd).AsXRead()
		if err != nil {
			continue
		}

		for _, entries := range streams {
			for _, entry := range entries {
				lastID = entry.ID
				row, ok := decodeEntry(entry.FieldValues)
				if !ok {
					continue
				}
				select {
				case sink <- component.ChangeEvent{Payload: row}:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func decodeEntry(fields map[string]string) (query.Row, bool) {
	raw, ok := fields["row"]
	if !ok {
		return query.Row{}, false
	}
	var row query.Row
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		return query.Row{}, false
	}
	return row, true
}

func (s *Source) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

func identity(s string) (string, error) { return s, nil }

func Factory(r *mapping.Resolver, dto config.SourceConfigDTO) (config.SourceConfig, component.Source, error) {
	addr, err := mapping.RequireParam(r, dto.Params, "addr", identity)
	if err != nil {
		return config.SourceConfig{}, nil, err
	}
	stream, err := mapping.ResolveParam(r, dto.Params, "stream", identity, "drasi.changes")
	if err != nil {
		return config.SourceConfig{}, nil, err
	}
	blockMS, err := mapping.ResolveParam(r, dto.Params, "block_ms", strconv.Atoi, 1000)
	if err != nil {
		return config.SourceConfig{}, nil, err
	}

	domainCfg := config.SourceConfig{
		ID: dto.ID, Kind: config.SourcePlatform, AutoStart: dto.AutoStart,
		Params: map[string]any{"addr": addr, "stream": stream, "block_ms": blockMS},
	}
	return domainCfg, New(dto.ID, addr, stream, time.Duration(blockMS)*time.Millisecond), nil
}
