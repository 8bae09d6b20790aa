package orchestrator

import (
	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

// SourceFactory maps a source DTO to its resolved domain config plus a
// constructed plugin instance, one per SourcePluginKind.
type SourceFactory func(r *mapping.Resolver, dto config.SourceConfigDTO) (config.SourceConfig, component.Source, error)

// ReactionFactory mirrors SourceFactory for reactions.
type ReactionFactory func(r *mapping.Resolver, dto config.ReactionConfigDTO) (config.ReactionConfig, component.Reaction, error)

// BootstrapFactory constructs a bootstrap provider from its descriptor, one
// per BootstrapProviderKind.
type BootstrapFactory func(r *mapping.Resolver, dto config.BootstrapDescriptorDTO) (component.BootstrapProvider, error)

// QueryFactory constructs the query evaluator for a query DTO. The
// evaluator itself is a black-box collaborator; a single factory
// covers every QueryConfigDTO since query "kind" is not a closed plugin set
// the way sources/reactions are.
type QueryFactory func(dto config.QueryConfigDTO) (config.QueryConfig, component.QueryEvaluator, error)

// Factories is the compile-time dispatch table the orchestrator uses to
// turn a DTO into a live component. Registered once at process startup
// (see cmd/serve.go).
type Factories struct {
	Sources            map[config.SourcePluginKind]SourceFactory
	Reactions          map[config.ReactionPluginKind]ReactionFactory
	BootstrapProviders map[config.BootstrapProviderKind]BootstrapFactory
	Query              QueryFactory
}
