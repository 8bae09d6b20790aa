package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

// TestOrchestrator_EndToEnd_DataFlowSourceQueryReaction exercises the full
// pipeline: a source's raw change event reaches a reaction's delta channel
// having passed through the DataRouter, the query evaluator, and the
// SubscriptionRouter, with the orchestrator stamping SourceID and QueryID
// along the way.
func TestOrchestrator_EndToEnd_DataFlowSourceQueryReaction(t *testing.T) {
	sinkCh := make(chan chan<- component.ChangeEvent, 1)
	receivedCh := make(chan component.ResultDelta, 1)

	factories := Factories{
		Sources: map[config.SourcePluginKind]SourceFactory{
			config.SourceMock: func(r *mapping.Resolver, dto config.SourceConfigDTO) (config.SourceConfig, component.Source, error) {
				cfg := config.SourceConfig{ID: dto.ID, Kind: config.SourceMock, AutoStart: dto.AutoStart}
				src := &fakeSource{id: dto.ID, kind: "Mock", startFn: func(ctx context.Context, sink chan<- component.ChangeEvent) error {
					sinkCh <- sink
					return nil
				}}
				return cfg, src, nil
			},
		},
		Reactions: map[config.ReactionPluginKind]ReactionFactory{
			config.ReactionLog: func(r *mapping.Resolver, dto config.ReactionConfigDTO) (config.ReactionConfig, component.Reaction, error) {
				cfg := config.ReactionConfig{ID: dto.ID, Kind: config.ReactionLog, Queries: dto.Queries, AutoStart: dto.AutoStart}
				rxn := &fakeReaction{id: dto.ID, kind: "Log", startFn: func(ctx context.Context, deltas <-chan component.ResultDelta) error {
					go func() {
						for {
							select {
							case d, ok := <-deltas:
								if !ok {
									return
								}
								receivedCh <- d
							case <-ctx.Done():
								return
							}
						}
					}()
					return nil
				}}
				return cfg, rxn, nil
			},
		},
		Query: func(dto config.QueryConfigDTO) (config.QueryConfig, component.QueryEvaluator, error) {
			cfg := config.QueryConfig{ID: dto.ID, Text: dto.Query, Sources: dto.Sources, AutoStart: dto.AutoStart}
			ev := &fakeEvaluator{id: dto.ID, startFn: func(ctx context.Context, changes <-chan component.ChangeEvent, publish func(component.ResultDelta)) error {
				go func() {
					for {
						select {
						case ev, ok := <-changes:
							if !ok {
								return
							}
							publish(component.ResultDelta{Payload: ev.Payload})
						case <-ctx.Done():
							return
						}
					}
				}()
				return nil
			}}
			return cfg, ev, nil
		},
	}

	o := New(factories, mapping.NewResolver(), logr.Discard())
	cfg := baseSettings()
	cfg.Sources = []config.SourceConfigDTO{{ID: "s1", Kind: "Mock", AutoStart: true}}
	cfg.Queries = []config.QueryConfigDTO{{ID: "q1", Query: "MATCH (n) RETURN n", Sources: []string{"s1"}, AutoStart: true}}
	cfg.Reactions = []config.ReactionConfigDTO{{ID: "r1", Kind: "Log", Queries: []string{"q1"}, AutoStart: true}}
	require.NoError(t, o.Build(cfg))
	require.NoError(t, o.Start(context.Background()))

	var sink chan<- component.ChangeEvent
	select {
	case sink = <-sinkCh:
	case <-time.After(time.Second):
		t.Fatal("source never received its sink channel")
	}

	sink <- component.ChangeEvent{Payload: "hello"}

	select {
	case delta := <-receivedCh:
		assert.Equal(t, "hello", delta.Payload)
		assert.Equal(t, "q1", delta.QueryID)
	case <-time.After(time.Second):
		t.Fatal("reaction never observed the delta")
	}

	require.NoError(t, o.Stop(context.Background()))
}
