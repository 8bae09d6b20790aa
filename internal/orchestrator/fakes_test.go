package orchestrator

import (
	"context"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

type fakeSource struct {
	id      string
	kind    string
	startFn func(ctx context.Context, sink chan<- component.ChangeEvent) error
	stopErr error
	bp      component.BootstrapProvider
}

func (f *fakeSource) ID() string                  { return f.id }
func (f *fakeSource) Kind() string                { return f.kind }
func (f *fakeSource) Properties() map[string]any  { return nil }
func (f *fakeSource) Stop(ctx context.Context) error { return f.stopErr }
func (f *fakeSource) Start(ctx context.Context, sink chan<- component.ChangeEvent) error {
	if f.startFn != nil {
		return f.startFn(ctx, sink)
	}
	return nil
}
func (f *fakeSource) BootstrapProvider() (component.BootstrapProvider, bool) {
	if f.bp != nil {
		return f.bp, true
	}
	return nil, false
}

type fakeEvaluator struct {
	id      string
	startFn func(ctx context.Context, changes <-chan component.ChangeEvent, publish func(component.ResultDelta)) error
	stopErr error
	results []map[string]any
}

func (f *fakeEvaluator) ID() string                  { return f.id }
func (f *fakeEvaluator) Stop(ctx context.Context) error { return f.stopErr }
func (f *fakeEvaluator) Results() []map[string]any   { return f.results }
func (f *fakeEvaluator) Start(ctx context.Context, changes <-chan component.ChangeEvent, publish func(component.ResultDelta)) error {
	if f.startFn != nil {
		return f.startFn(ctx, changes, publish)
	}
	return nil
}

type fakeReaction struct {
	id      string
	kind    string
	startFn func(ctx context.Context, deltas <-chan component.ResultDelta) error
	stopErr error
}

func (f *fakeReaction) ID() string                 { return f.id }
func (f *fakeReaction) Kind() string                { return f.kind }
func (f *fakeReaction) Properties() map[string]any { return nil }
func (f *fakeReaction) Stop(ctx context.Context) error { return f.stopErr }
func (f *fakeReaction) Start(ctx context.Context, deltas <-chan component.ResultDelta) error {
	if f.startFn != nil {
		return f.startFn(ctx, deltas)
	}
	return nil
}

// recordingFactories builds a Factories table that records, via order, the
// sequence in which components are started.
func recordingFactories(order *[]string) Factories {
	return Factories{
		Sources: map[config.SourcePluginKind]SourceFactory{
			config.SourceMock: func(r *mapping.Resolver, dto config.SourceConfigDTO) (config.SourceConfig, component.Source, error) {
				cfg := config.SourceConfig{ID: dto.ID, Kind: config.SourceMock, AutoStart: dto.AutoStart}
				src := &fakeSource{id: dto.ID, kind: "Mock", startFn: func(ctx context.Context, sink chan<- component.ChangeEvent) error {
					*order = append(*order, "source:"+dto.ID)
					return nil
				}}
				return cfg, src, nil
			},
		},
		Reactions: map[config.ReactionPluginKind]ReactionFactory{
			config.ReactionLog: func(r *mapping.Resolver, dto config.ReactionConfigDTO) (config.ReactionConfig, component.Reaction, error) {
				cfg := config.ReactionConfig{ID: dto.ID, Kind: config.ReactionLog, Queries: dto.Queries, AutoStart: dto.AutoStart}
				rxn := &fakeReaction{id: dto.ID, kind: "Log", startFn: func(ctx context.Context, deltas <-chan component.ResultDelta) error {
					*order = append(*order, "reaction:"+dto.ID)
					return nil
				}}
				return cfg, rxn, nil
			},
		},
		Query: func(dto config.QueryConfigDTO) (config.QueryConfig, component.QueryEvaluator, error) {
			cfg := config.QueryConfig{ID: dto.ID, Text: dto.Query, Sources: dto.Sources, AutoStart: dto.AutoStart}
			ev := &fakeEvaluator{id: dto.ID, startFn: func(ctx context.Context, changes <-chan component.ChangeEvent, publish func(component.ResultDelta)) error {
				*order = append(*order, "query:"+dto.ID)
				return nil
			}}
			return cfg, ev, nil
		},
	}
}
