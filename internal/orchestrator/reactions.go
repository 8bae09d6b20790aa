package orchestrator

import (
	"context"
	"fmt"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/manager"
)

func (o *Orchestrator) buildReaction(dto config.ReactionConfigDTO) (config.ReactionConfig, component.Reaction, error) {
	factory, ok := o.factories.Reactions[config.ReactionPluginKind(dto.Kind)]
	if !ok {
		var zero config.ReactionConfig
		return zero, nil, component.NewError(component.InvalidConfig, fmt.Sprintf("unknown reaction kind %q", dto.Kind))
	}
	return factory(o.resolver, dto)
}

// reactionStartFunc mirrors queryStartFunc for the (reaction, queries) leg:
// referential integrity against registered queries is enforced at start
// time, then the reaction subscribes to the SubscriptionRouter.
func (o *Orchestrator) reactionStartFunc(id string, cfg config.ReactionConfig, plugin component.Reaction) manager.StartFunc {
	return func(_ context.Context) error {
		for _, q := range cfg.Queries {
			if !o.queries.Exists(q) {
				return component.NewError(component.InvalidConfig, fmt.Sprintf("reaction %q references unregistered query %q", id, q))
			}
		}
		deltas := o.subRouter.AddReactionSubscription(id, cfg.Queries, o.settings.dispatchBufferCapacity)
		return plugin.Start(o.ctx, deltas)
	}
}

func (o *Orchestrator) CreateReaction(ctx context.Context, dto config.ReactionConfigDTO) (alreadyExists bool, err error) {
	if o.reactions.Exists(dto.ID) {
		return true, nil
	}

	domainCfg, plugin, err := o.buildReaction(dto)
	if err != nil {
		return false, err
	}

	already, err := o.reactions.Add(ctx, dto.ID, domainCfg, plugin, domainCfg.AutoStart, o.reactionStartFunc(dto.ID, domainCfg, plugin))
	if err != nil {
		return already, err
	}
	o.setReactionDTO(dto.ID, dto)
	if err := o.persist(); err != nil {
		return already, err
	}
	return already, nil
}

func (o *Orchestrator) UpdateReaction(ctx context.Context, dto config.ReactionConfigDTO) error {
	if !o.reactions.Exists(dto.ID) {
		return component.NewNotFoundError("reaction", dto.ID)
	}

	domainCfg, plugin, err := o.buildReaction(dto)
	if err != nil {
		return err
	}

	if err := o.reactions.Update(ctx, dto.ID, domainCfg, plugin, o.reactionStartFunc(dto.ID, domainCfg, plugin)); err != nil {
		return err
	}
	o.setReactionDTO(dto.ID, dto)
	return o.persist()
}

func (o *Orchestrator) RemoveReaction(ctx context.Context, id string) error {
	teardown := func() { o.subRouter.RemoveReactionSubscription(id) }
	if err := o.reactions.Delete(ctx, id, teardown); err != nil {
		return err
	}
	o.deleteReactionDTO(id)
	return o.persist()
}

func (o *Orchestrator) StartReaction(ctx context.Context, id string) error {
	cfg, _, err := o.reactions.Get(id)
	if err != nil {
		return err
	}
	plugin, err := o.reactions.Plugin(id)
	if err != nil {
		return err
	}
	return o.reactions.Start(ctx, id, o.reactionStartFunc(id, cfg, plugin))
}

// StopReaction stops id but leaves its SubscriptionRouter subscription in
// place; torn down only on RemoveReaction.
func (o *Orchestrator) StopReaction(ctx context.Context, id string) error {
	return o.reactions.Stop(ctx, id)
}

func (o *Orchestrator) GetReaction(id string) (config.ReactionConfigDTO, component.Status, error) {
	_, status, err := o.reactions.Get(id)
	if err != nil {
		return config.ReactionConfigDTO{}, "", err
	}
	return o.getReactionDTO(id), status, nil
}

func (o *Orchestrator) ListReactions() []ReactionInfo {
	items := o.reactions.List()
	out := make([]ReactionInfo, 0, len(items))
	for _, it := range items {
		out = append(out, ReactionInfo{DTO: o.getReactionDTO(it.ID), Status: it.Status})
	}
	return out
}
