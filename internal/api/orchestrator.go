package api

import (
	"context"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/orchestrator"
)

// Orchestrator is the subset of *orchestrator.Orchestrator the control API
// depends on, so handlers can be exercised against a lightweight fake
// without starting real plugins.
type Orchestrator interface {
	ReadOnly() bool

	CreateSource(ctx context.Context, dto config.SourceConfigDTO) (bool, error)
	UpdateSource(ctx context.Context, dto config.SourceConfigDTO) error
	RemoveSource(ctx context.Context, id string) error
	StartSource(ctx context.Context, id string) error
	StopSource(ctx context.Context, id string) error
	GetSource(id string) (config.SourceConfigDTO, component.Status, error)
	ListSources() []orchestrator.SourceInfo

	CreateQuery(ctx context.Context, dto config.QueryConfigDTO) (bool, error)
	UpdateQuery(ctx context.Context, dto config.QueryConfigDTO) error
	RemoveQuery(ctx context.Context, id string) error
	StartQuery(ctx context.Context, id string) error
	StopQuery(ctx context.Context, id string) error
	GetQuery(id string) (config.QueryConfigDTO, component.Status, error)
	ListQueries() []orchestrator.QueryInfo
	QueryResults(id string) ([]map[string]any, error)

	CreateReaction(ctx context.Context, dto config.ReactionConfigDTO) (bool, error)
	UpdateReaction(ctx context.Context, dto config.ReactionConfigDTO) error
	RemoveReaction(ctx context.Context, id string) error
	StartReaction(ctx context.Context, id string) error
	StopReaction(ctx context.Context, id string) error
	GetReaction(id string) (config.ReactionConfigDTO, component.Status, error)
	ListReactions() []orchestrator.ReactionInfo
}
