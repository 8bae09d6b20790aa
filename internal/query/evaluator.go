package query

import (
	"context"
	"sort"
	"sync"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
)

// Op is the change-event operation kind a Row carries, modeled after the
// minimal vocabulary a bootstrap replay and a live change stream must both
// be able to express.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Row is the event payload shape this evaluator understands. Sources and
// bootstrap providers in this repo populate component.ChangeEvent.Payload
// with a Row.
type Row struct {
	Op         Op
	ID         string
	Labels     []string
	Properties map[string]any
}

// Evaluator is a standing materialized view keyed by Row.ID: it applies
// every incoming change (bootstrap or live, indistinguishably) to its
// table and emits a ResultDelta mirroring the change. Results returns the
// table's current contents.
type Evaluator struct {
	id   string
	cfg  config.QueryConfig

	mu    sync.Mutex
	table map[string]Row
}

func New(cfg config.QueryConfig) *Evaluator {
	return &Evaluator{id: cfg.ID, cfg: cfg, table: make(map[string]Row)}
}

func (e *Evaluator) ID() string { return e.id }

// Start consumes changes until ctx is cancelled or changes is closed,
// applying each Row to the table and publishing a matching ResultDelta. A
// payload that isn't a Row is forwarded unchanged as an opaque delta rather
// than dropped, so a plugin source emitting a different shape still flows
// through the pipeline.
func (e *Evaluator) Start(ctx context.Context, changes <-chan component.ChangeEvent, publish func(component.ResultDelta)) error {
	go func() {
		for {
			select {
			case ev, ok := <-changes:
				if !ok {
					return
				}
				if ev.End {
					continue
				}
				payload := e.apply(ev)
				publish(component.ResultDelta{Payload: payload})
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (e *Evaluator) apply(ev component.ChangeEvent) any {
	row, ok := ev.Payload.(Row)
	if !ok {
		return ev.Payload
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	switch row.Op {
	case OpDelete:
		delete(e.table, row.ID)
	default:
		e.table[row.ID] = row
	}
	return row
}

func (e *Evaluator) Stop(ctx context.Context) error { return nil }

// Results returns the materialized table, ordered by id for deterministic
// output (control API GET /queries/{id}/results).
func (e *Evaluator) Results() []map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.table))
	for id := range e.table {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		row := e.table[id]
		out = append(out, map[string]any{
			"id":         row.ID,
			"labels":     row.Labels,
			"properties": row.Properties,
		})
	}
	return out
}
