package orchestrator

import (
	"context"
	"fmt"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/manager"
)

func (o *Orchestrator) buildSource(dto config.SourceConfigDTO) (config.SourceConfig, component.Source, error) {
	factory, ok := o.factories.Sources[config.SourcePluginKind(dto.Kind)]
	if !ok {
		var zero config.SourceConfig
		return zero, nil, component.NewError(component.InvalidConfig, fmt.Sprintf("unknown source kind %q", dto.Kind))
	}
	return factory(o.resolver, dto)
}

func (o *Orchestrator) buildBootstrapProvider(dto config.BootstrapDescriptorDTO) (component.BootstrapProvider, error) {
	factory, ok := o.factories.BootstrapProviders[config.BootstrapProviderKind(dto.Kind)]
	if !ok {
		return nil, component.NewError(component.InvalidConfig, fmt.Sprintf("unknown bootstrap provider kind %q", dto.Kind))
	}
	return factory(o.resolver, dto)
}

// registerBootstrapProvider resolves id's bootstrap provider: an explicit
// descriptor takes precedence; otherwise plugin is asked whether it carries
// its own (e.g. an Application-kind source registering its own snapshot
// hook). A nil descriptor and no self-reported provider clears any prior
// registration.
func (o *Orchestrator) registerBootstrapProvider(id string, descriptor *config.BootstrapDescriptorDTO, plugin component.Source) error {
	if descriptor != nil {
		provider, err := o.buildBootstrapProvider(*descriptor)
		if err != nil {
			return err
		}
		o.bootstrapRouter.RegisterProvider(id, provider)
		return nil
	}
	if provider, ok := plugin.BootstrapProvider(); ok {
		o.bootstrapRouter.RegisterProvider(id, provider)
		return nil
	}
	o.bootstrapRouter.UnregisterProvider(id)
	return nil
}

// sourceStartFunc builds the closure the Manager invokes to start id: it
// creates the raw event channel the source plugin produces into, starts a
// goroutine forwarding those events (stamped with SourceID) into the
// DataRouter, then calls the plugin's own Start.
func (o *Orchestrator) sourceStartFunc(id string, plugin component.Source) manager.StartFunc {
	return func(_ context.Context) error {
		capacity := o.settings.dispatchBufferCapacity
		if capacity <= 0 {
			capacity = 1000
		}
		ch := make(chan component.ChangeEvent, capacity)
		o.setSourceChannel(id, ch)
		go o.forwardSourceEvents(id, ch)
		return plugin.Start(o.ctx, ch)
	}
}

// CreateSource registers a new source. Idempotent: if id is already
// registered, the supplied dto is discarded and alreadyExists is true.
func (o *Orchestrator) CreateSource(ctx context.Context, dto config.SourceConfigDTO) (alreadyExists bool, err error) {
	if o.sources.Exists(dto.ID) {
		return true, nil
	}

	domainCfg, plugin, err := o.buildSource(dto)
	if err != nil {
		return false, err
	}
	if err := o.registerBootstrapProvider(dto.ID, dto.Bootstrap, plugin); err != nil {
		return false, err
	}

	already, err := o.sources.Add(ctx, dto.ID, domainCfg, plugin, domainCfg.AutoStart, o.sourceStartFunc(dto.ID, plugin))
	if err != nil {
		return already, err
	}
	o.setSourceDTO(dto.ID, dto)
	if err := o.persist(); err != nil {
		return already, err
	}
	return already, nil
}

// UpdateSource replaces id's configuration. If id is currently running, it
// is stopped, replaced, and restarted; otherwise it stays
// stopped.
func (o *Orchestrator) UpdateSource(ctx context.Context, dto config.SourceConfigDTO) error {
	if !o.sources.Exists(dto.ID) {
		return component.NewNotFoundError("source", dto.ID)
	}

	domainCfg, plugin, err := o.buildSource(dto)
	if err != nil {
		return err
	}
	if err := o.registerBootstrapProvider(dto.ID, dto.Bootstrap, plugin); err != nil {
		return err
	}

	if err := o.sources.Update(ctx, dto.ID, domainCfg, plugin, o.sourceStartFunc(dto.ID, plugin)); err != nil {
		return err
	}
	o.setSourceDTO(dto.ID, dto)
	return o.persist()
}

// RemoveSource deletes id, stopping it first if running and tearing down
// its bootstrap provider registration and producer channel.
func (o *Orchestrator) RemoveSource(ctx context.Context, id string) error {
	teardown := func() {
		o.bootstrapRouter.UnregisterProvider(id)
		o.closeSourceChannel(id)
	}
	if err := o.sources.Delete(ctx, id, teardown); err != nil {
		return err
	}
	o.deleteSourceDTO(id)
	return o.persist()
}

func (o *Orchestrator) StartSource(ctx context.Context, id string) error {
	plugin, err := o.sources.Plugin(id)
	if err != nil {
		return err
	}
	return o.sources.Start(ctx, id, o.sourceStartFunc(id, plugin))
}

func (o *Orchestrator) StopSource(ctx context.Context, id string) error {
	err := o.sources.Stop(ctx, id)
	o.closeSourceChannel(id)
	return err
}

func (o *Orchestrator) GetSource(id string) (config.SourceConfigDTO, component.Status, error) {
	_, status, err := o.sources.Get(id)
	if err != nil {
		return config.SourceConfigDTO{}, "", err
	}
	return o.getSourceDTO(id), status, nil
}

func (o *Orchestrator) ListSources() []SourceInfo {
	items := o.sources.List()
	out := make([]SourceInfo, 0, len(items))
	for _, it := range items {
		out = append(out, SourceInfo{DTO: o.getSourceDTO(it.ID), Status: it.Status})
	}
	return out
}
