package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
	"github.com/drasi-project/drasi-server/internal/query"
)

// Config is Postgres's resolved connection and polling parameters.
type Config struct {
	DSN             string
	Table           string
	IDColumn        string
	WatermarkColumn string
	PollInterval    time.Duration
}

// Source polls Table for rows newer than the last observed watermark,
// emitting each as an update Row.
type Source struct {
	id  string
	cfg Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(id string, cfg Config) *Source {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Source{id: id, cfg: cfg}
}

func (s *Source) ID() string   { return s.id }
func (s *Source) Kind() string { return string(config.SourcePostgres) }
func (s *Source) Properties() map[string]any {
	return map[string]any{"table": s.cfg.Table, "poll_interval": s.cfg.PollInterval.String()}
}
func (s *Source) BootstrapProvider() (component.BootstrapProvider, bool) { return nil, false }

func (s *Source) Start(ctx context.Context, sink chan<- component.ChangeEvent) error {
	db, err := sql.Open("pgx", s.cfg.DSN)
	if err != nil {
		return fmt.Errorf("postgres source %q: opening connection: %w", s.id, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer db.Close()
		s.poll(runCtx, db, sink)
	}()
	return nil
}

func (s *Source) poll(ctx context.Context, db *sql.DB, sink chan<- component.ChangeEvent) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	var watermark string
	sqlQuery := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s > $1 ORDER BY %s",
		s.cfg.IDColumn, s.cfg.WatermarkColumn, s.cfg.Table, s.cfg.WatermarkColumn, s.cfg.WatermarkColumn,
	)

	for {
		select {
		case <-ticker.C:
			rows, err := db.QueryContext(ctx, sqlQuery, watermark)
			if err != nil {
				continue
			}
			s.emitRows(ctx, rows, &watermark, sink)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Source) emitRows(ctx context.Context, rows *sql.Rows, watermark *string, sink chan<- component.ChangeEvent) {
	defer rows.Close()
	for rows.Next() {
		var id, wm string
		if err := rows.Scan(&id, &wm); err != nil {
			continue
		}
		*watermark = wm
		ev := component.ChangeEvent{Payload: query.Row{Op: query.OpUpdate, ID: id, Properties: map[string]any{s.cfg.WatermarkColumn: wm}}}
		select {
		case sink <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Source) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}

// Factory resolves the Postgres source's DSN and polling parameters.
func Factory(r *mapping.Resolver, dto config.SourceConfigDTO) (config.SourceConfig, component.Source, error) {
	dsn, err := ResolveDSN(r, dto.Params)
	if err != nil {
		return config.SourceConfig{}, nil, err
	}
	table, err := mapping.RequireParam(r, dto.Params, "table", identity)
	if err != nil {
		return config.SourceConfig{}, nil, err
	}
	idCol, err := mapping.ResolveParam(r, dto.Params, "id_column", identity, "id")
	if err != nil {
		return config.SourceConfig{}, nil, err
	}
	wmCol, err := mapping.ResolveParam(r, dto.Params, "watermark_column", identity, "updated_at")
	if err != nil {
		return config.SourceConfig{}, nil, err
	}
	pollMS, err := mapping.ResolveParam(r, dto.Params, "poll_interval_ms", strconv.Atoi, 1000)
	if err != nil {
		return config.SourceConfig{}, nil, err
	}

	cfg := Config{DSN: dsn, Table: table, IDColumn: idCol, WatermarkColumn: wmCol, PollInterval: time.Duration(pollMS) * time.Millisecond}
	domainCfg := config.SourceConfig{
		ID: dto.ID, Kind: config.SourcePostgres, AutoStart: dto.AutoStart,
		Params: map[string]any{"table": table, "id_column": idCol, "watermark_column": wmCol, "poll_interval_ms": pollMS},
	}
	return domainCfg, New(dto.ID, cfg), nil
}

func identity(s string) (string, error) { return s, nil }
