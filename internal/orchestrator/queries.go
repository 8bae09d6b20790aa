package orchestrator

import (
	"context"
	"fmt"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/manager"
)

// queryStartFunc builds the closure the Manager invokes to start id. It
// enforces referential integrity against currently-registered sources at
// start time rather than at registration, subscribes to the
// DataRouter, kicks off bootstrap replay on the same channel, and binds the
// evaluator's result-delta callback to the SubscriptionRouter.
func (o *Orchestrator) queryStartFunc(id string, cfg config.QueryConfig, evaluator component.QueryEvaluator) manager.StartFunc {
	return func(_ context.Context) error {
		for _, s := range cfg.Sources {
			if !o.sources.Exists(s) {
				return component.NewError(component.InvalidConfig, fmt.Sprintf("query %q references unregistered source %q", id, s))
			}
		}

		changes := o.dataRouter.AddQuerySubscription(id, cfg.Sources, o.settings.dispatchBufferCapacity)
		sink, _ := o.dataRouter.QuerySink(id)
		go o.bootstrapRouter.Run(o.ctx, id, cfg.Sources, sink)

		return evaluator.Start(o.ctx, changes, func(d component.ResultDelta) {
			d.QueryID = id
			o.subRouter.Publish(o.ctx, d)
		})
	}
}

func (o *Orchestrator) CreateQuery(ctx context.Context, dto config.QueryConfigDTO) (alreadyExists bool, err error) {
	if o.queries.Exists(dto.ID) {
		return true, nil
	}

	domainCfg, evaluator, err := o.factories.Query(dto)
	if err != nil {
		return false, component.WrapError(component.InvalidConfig, fmt.Sprintf("query %q", dto.ID), err)
	}
	o.logJoinWarnings(dto)

	already, err := o.queries.Add(ctx, dto.ID, domainCfg, evaluator, domainCfg.AutoStart, o.queryStartFunc(dto.ID, domainCfg, evaluator))
	if err != nil {
		return already, err
	}
	o.setQueryDTO(dto.ID, dto)
	if err := o.persist(); err != nil {
		return already, err
	}
	return already, nil
}

func (o *Orchestrator) UpdateQuery(ctx context.Context, dto config.QueryConfigDTO) error {
	if !o.queries.Exists(dto.ID) {
		return component.NewNotFoundError("query", dto.ID)
	}

	domainCfg, evaluator, err := o.factories.Query(dto)
	if err != nil {
		return component.WrapError(component.InvalidConfig, fmt.Sprintf("query %q", dto.ID), err)
	}
	o.logJoinWarnings(dto)

	if err := o.queries.Update(ctx, dto.ID, domainCfg, evaluator, o.queryStartFunc(dto.ID, domainCfg, evaluator)); err != nil {
		return err
	}
	o.setQueryDTO(dto.ID, dto)
	return o.persist()
}

func (o *Orchestrator) RemoveQuery(ctx context.Context, id string) error {
	teardown := func() { o.dataRouter.RemoveQuerySubscription(id) }
	if err := o.queries.Delete(ctx, id, teardown); err != nil {
		return err
	}
	o.deleteQueryDTO(id)
	return o.persist()
}

func (o *Orchestrator) StartQuery(ctx context.Context, id string) error {
	cfg, _, err := o.queries.Get(id)
	if err != nil {
		return err
	}
	evaluator, err := o.queries.Plugin(id)
	if err != nil {
		return err
	}
	return o.queries.Start(ctx, id, o.queryStartFunc(id, cfg, evaluator))
}

// StopQuery stops id but leaves its DataRouter subscription in place; the
// subscription is only torn down on RemoveQuery.
func (o *Orchestrator) StopQuery(ctx context.Context, id string) error {
	return o.queries.Stop(ctx, id)
}

func (o *Orchestrator) GetQuery(id string) (config.QueryConfigDTO, component.Status, error) {
	_, status, err := o.queries.Get(id)
	if err != nil {
		return config.QueryConfigDTO{}, "", err
	}
	return o.getQueryDTO(id), status, nil
}

func (o *Orchestrator) ListQueries() []QueryInfo {
	items := o.queries.List()
	out := make([]QueryInfo, 0, len(items))
	for _, it := range items {
		out = append(out, QueryInfo{DTO: o.getQueryDTO(it.ID), Status: it.Status})
	}
	return out
}

// QueryResults returns id's current materialized result set (control API
// GET /queries/{id}/results).
func (o *Orchestrator) QueryResults(id string) ([]map[string]any, error) {
	evaluator, err := o.queries.Plugin(id)
	if err != nil {
		return nil, err
	}
	return evaluator.Results(), nil
}
