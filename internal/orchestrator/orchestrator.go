package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/eventbus"
	"github.com/drasi-project/drasi-server/internal/manager"
	"github.com/drasi-project/drasi-server/internal/metrics"
	"github.com/drasi-project/drasi-server/internal/mapping"
	"github.com/drasi-project/drasi-server/internal/router"
)

// Orchestrator is the single entry point binding the three component
// Managers, the three Routers, and the event bus together. It
// owns every Manager exclusively, so all cross-class operations (a query's
// referential check against registered sources, a reaction's against
// registered queries) are arbitrated here rather than inside a Manager.
type Orchestrator struct {
	mu      sync.RWMutex
	built   bool
	running bool

	// ctx bounds every component's background work; it is independent of any
	// caller-supplied request context so a component's long-lived goroutines
	// outlive the API call that started it, and is cancelled only by Stop.
	ctx    context.Context
	cancel context.CancelFunc

	log logr.Logger

	resolver  *mapping.Resolver
	factories Factories
	settings  settings
	topDTO    config.DrasiServerConfig

	persistence *config.Persistence

	bus             *eventbus.Bus
	dataRouter      *router.DataRouter
	subRouter       *router.SubscriptionRouter
	bootstrapRouter *router.BootstrapRouter

	sources   *manager.Manager[config.SourceConfig, component.Source]
	queries   *manager.Manager[config.QueryConfig, component.QueryEvaluator]
	reactions *manager.Manager[config.ReactionConfig, component.Reaction]

	dtoMu        sync.RWMutex
	sourceDTOs   map[string]config.SourceConfigDTO
	queryDTOs    map[string]config.QueryConfigDTO
	reactionDTOs map[string]config.ReactionConfigDTO

	chMu           sync.Mutex
	sourceChannels map[string]chan component.ChangeEvent
}

// SourceInfo, QueryInfo and ReactionInfo pair a component's wire-form DTO
// with its current lifecycle status, the shape the control API lists.
type SourceInfo struct {
	DTO    config.SourceConfigDTO
	Status component.Status
}

type QueryInfo struct {
	DTO    config.QueryConfigDTO
	Status component.Status
}

type ReactionInfo struct {
	DTO    config.ReactionConfigDTO
	Status component.Status
}

// New constructs an unbuilt Orchestrator. Call Build then Start to apply a
// declarative configuration, or Build alone and drive components solely via
// the runtime mutation operations below.
func New(factories Factories, resolver *mapping.Resolver, log logr.Logger) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	bus := eventbus.New()
	go metrics.Watch(bus, ctx.Done())
	return &Orchestrator{
		ctx:    ctx,
		cancel: cancel,
		log:    log,

		resolver:  resolver,
		factories: factories,

		bus:             bus,
		dataRouter:      router.NewDataRouter(0),
		subRouter:       router.NewSubscriptionRouter(0),
		bootstrapRouter: router.NewBootstrapRouter(),

		sources:   manager.New[config.SourceConfig, component.Source](component.ClassSource, bus),
		queries:   manager.New[config.QueryConfig, component.QueryEvaluator](component.ClassQuery, bus),
		reactions: manager.New[config.ReactionConfig, component.Reaction](component.ClassReaction, bus),

		sourceDTOs:   make(map[string]config.SourceConfigDTO),
		queryDTOs:    make(map[string]config.QueryConfigDTO),
		reactionDTOs: make(map[string]config.ReactionConfigDTO),

		sourceChannels: make(map[string]chan component.ChangeEvent),
	}
}

// Bus exposes the lifecycle event bus for the control API's status/health
// surfaces to subscribe to.
func (o *Orchestrator) Bus() *eventbus.Bus { return o.bus }

// SetPersistence wires the config-file writer consulted after every
// mutating operation. A nil or disabled Persistence makes every
// such write a no-op.
func (o *Orchestrator) SetPersistence(p *config.Persistence) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.persistence = p
}

// ReadOnly reports whether the control API must reject mutating requests
// because the configuration file is not currently writable.
func (o *Orchestrator) ReadOnly() bool {
	o.mu.RLock()
	p := o.persistence
	o.mu.RUnlock()
	if p == nil {
		return false
	}
	return p.Disabled() || !p.IsWritable()
}

func (o *Orchestrator) persist() error {
	o.mu.RLock()
	p := o.persistence
	o.mu.RUnlock()
	if p == nil {
		return nil
	}
	if err := p.Save(o); err != nil {
		return component.WrapError(component.Internal, "failed to persist configuration", err)
	}
	return nil
}

// Build validates cfg and registers every source, query and reaction it
// declares without starting any of them. Call Start
// afterwards to bring up the auto_start components in dependency order.
func (o *Orchestrator) Build(cfg config.DrasiServerConfig) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.built {
		return component.NewError(component.OperationFailed, "orchestrator has already been built")
	}

	st, err := resolveSettings(o.resolver, cfg)
	if err != nil {
		return err
	}
	if verrs := config.ValidateSettings(st.host, st.logLevel, st.port); verrs.HasErrors() {
		return component.WrapError(component.InvalidConfig, "invalid server settings", verrs)
	}

	sourceIDs := make([]string, len(cfg.Sources))
	for i, s := range cfg.Sources {
		sourceIDs[i] = s.ID
	}
	queryIDs := make([]string, len(cfg.Queries))
	for i, q := range cfg.Queries {
		queryIDs[i] = q.ID
	}
	reactionIDs := make([]string, len(cfg.Reactions))
	for i, r := range cfg.Reactions {
		reactionIDs[i] = r.ID
	}
	if verrs := config.ValidateUniqueIDs("source", sourceIDs); verrs.HasErrors() {
		return component.WrapError(component.InvalidConfig, "duplicate source identifiers", verrs)
	}
	if verrs := config.ValidateUniqueIDs("query", queryIDs); verrs.HasErrors() {
		return component.WrapError(component.InvalidConfig, "duplicate query identifiers", verrs)
	}
	if verrs := config.ValidateUniqueIDs("reaction", reactionIDs); verrs.HasErrors() {
		return component.WrapError(component.InvalidConfig, "duplicate reaction identifiers", verrs)
	}

	o.settings = st
	o.topDTO = cfg

	for _, dto := range cfg.Sources {
		if err := o.registerSource(dto); err != nil {
			return err
		}
	}
	for _, dto := range cfg.Queries {
		if err := o.registerQuery(dto); err != nil {
			return err
		}
	}
	for _, dto := range cfg.Reactions {
		if err := o.registerReaction(dto); err != nil {
			return err
		}
	}

	o.built = true
	return nil
}

// registerSource adds dto's source with auto-start deferred to Start,
// regardless of its own auto_start flag.
func (o *Orchestrator) registerSource(dto config.SourceConfigDTO) error {
	domainCfg, plugin, err := o.buildSource(dto)
	if err != nil {
		return err
	}
	if err := o.registerBootstrapProvider(dto.ID, dto.Bootstrap, plugin); err != nil {
		return err
	}
	if _, err := o.sources.Add(o.ctx, dto.ID, domainCfg, plugin, false, o.sourceStartFunc(dto.ID, plugin)); err != nil {
		return err
	}
	o.setSourceDTO(dto.ID, dto)
	return nil
}

func (o *Orchestrator) registerQuery(dto config.QueryConfigDTO) error {
	domainCfg, evaluator, err := o.factories.Query(dto)
	if err != nil {
		return component.WrapError(component.InvalidConfig, fmt.Sprintf("query %q", dto.ID), err)
	}
	o.logJoinWarnings(dto)
	if _, err := o.queries.Add(o.ctx, dto.ID, domainCfg, evaluator, false, o.queryStartFunc(dto.ID, domainCfg, evaluator)); err != nil {
		return err
	}
	o.setQueryDTO(dto.ID, dto)
	return nil
}

func (o *Orchestrator) registerReaction(dto config.ReactionConfigDTO) error {
	domainCfg, plugin, err := o.buildReaction(dto)
	if err != nil {
		return err
	}
	if _, err := o.reactions.Add(o.ctx, dto.ID, domainCfg, plugin, false, o.reactionStartFunc(dto.ID, domainCfg, plugin)); err != nil {
		return err
	}
	o.setReactionDTO(dto.ID, dto)
	return nil
}

// Start brings up every registered component whose domain config carries
// auto_start=true, in the mandated sources -> queries -> reactions order
//. Single-shot: a second call fails.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if !o.built {
		o.mu.Unlock()
		return component.NewError(component.OperationFailed, "orchestrator has not been built")
	}
	if o.running {
		o.mu.Unlock()
		return component.NewError(component.OperationFailed, "orchestrator is already running")
	}
	o.running = true
	o.mu.Unlock()

	var errs []error
	for _, it := range o.sources.List() {
		cfg, _, err := o.sources.Get(it.ID)
		if err != nil {
			continue
		}
		if cfg.AutoStart {
			if err := o.StartSource(ctx, it.ID); err != nil {
				errs = append(errs, fmt.Errorf("auto-starting source %q: %w", it.ID, err))
			}
		}
	}
	for _, it := range o.queries.List() {
		cfg, _, err := o.queries.Get(it.ID)
		if err != nil {
			continue
		}
		if cfg.AutoStart {
			if err := o.StartQuery(ctx, it.ID); err != nil {
				errs = append(errs, fmt.Errorf("auto-starting query %q: %w", it.ID, err))
			}
		}
	}
	for _, it := range o.reactions.List() {
		cfg, _, err := o.reactions.Get(it.ID)
		if err != nil {
			continue
		}
		if cfg.AutoStart {
			if err := o.StartReaction(ctx, it.ID); err != nil {
				errs = append(errs, fmt.Errorf("auto-starting reaction %q: %w", it.ID, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Stop stops every running component in the reverse order Start brought
// them up (reactions -> queries -> sources), then
// releases the orchestrator's background context. Single-shot; idempotent
// no-op if Start was never called or Stop already ran.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return nil
	}
	o.running = false
	o.mu.Unlock()

	var errs []error
	for _, it := range o.reactions.List() {
		if err := o.reactions.Stop(ctx, it.ID); err != nil {
			errs = append(errs, fmt.Errorf("stopping reaction %q: %w", it.ID, err))
		}
	}
	for _, it := range o.queries.List() {
		if err := o.queries.Stop(ctx, it.ID); err != nil {
			errs = append(errs, fmt.Errorf("stopping query %q: %w", it.ID, err))
		}
	}
	for _, it := range o.sources.List() {
		if err := o.StopSource(ctx, it.ID); err != nil {
			errs = append(errs, fmt.Errorf("stopping source %q: %w", it.ID, err))
		}
	}

	o.cancel()
	return errors.Join(errs...)
}

// IsRunning reports whether Start has run without a matching Stop.
func (o *Orchestrator) IsRunning() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.running
}

// Snapshot reconstructs the live configuration from manager state for
// persistence, re-emitting every configvalue reference verbatim from the
// DTOs kept alongside each component's resolved domain config.
func (o *Orchestrator) Snapshot() config.DrasiServerConfig {
	o.mu.RLock()
	out := o.topDTO
	o.mu.RUnlock()

	o.dtoMu.RLock()
	defer o.dtoMu.RUnlock()

	out.Sources = make([]config.SourceConfigDTO, 0, len(o.sourceDTOs))
	for _, d := range o.sourceDTOs {
		out.Sources = append(out.Sources, d)
	}
	out.Queries = make([]config.QueryConfigDTO, 0, len(o.queryDTOs))
	for _, d := range o.queryDTOs {
		out.Queries = append(out.Queries, d)
	}
	out.Reactions = make([]config.ReactionConfigDTO, 0, len(o.reactionDTOs))
	for _, d := range o.reactionDTOs {
		out.Reactions = append(out.Reactions, d)
	}
	return out
}

func (o *Orchestrator) logJoinWarnings(dto config.QueryConfigDTO) {
	for _, w := range config.ValidateJoins(dto.Query, dto.Joins) {
		o.log.Info("query join validation warning", "query", dto.ID, "warning", w)
	}
}
