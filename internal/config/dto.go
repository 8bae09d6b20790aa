package config

import "github.com/drasi-project/drasi-server/internal/configvalue"

// SourceConfigDTO is the wire form of a source: every plugin-specific
// parameter is carried as a configvalue.Value so it may be a literal, an
// EnvRef, or a Secret reference. Plugin-specific parameters
// are modeled uniformly as a string-keyed map rather than one typed struct
// per plugin kind (original_source has a distinct *Dto struct per kind,
// e.g. MockSourceConfigDto/HttpSourceConfigDto/PostgresSourceConfigDto) —
// each internal/plugin/source mapper still extracts and parses exactly the
// keys its kind expects, so the Resolver is still exercised per-field; see
// DESIGN.md for the rationale on this simplification.
type SourceConfigDTO struct {
	ID        string                              `yaml:"id" json:"id"`
	Kind      string                              `yaml:"kind" json:"kind"`
	AutoStart bool                                `yaml:"auto_start" json:"auto_start"`
	Bootstrap *BootstrapDescriptorDTO             `yaml:"bootstrap,omitempty" json:"bootstrap,omitempty"`
	Params    map[string]configvalue.Value[string] `yaml:"params,omitempty" json:"params,omitempty"`
}

type BootstrapDescriptorDTO struct {
	Kind   string                              `yaml:"kind" json:"kind"`
	Params map[string]configvalue.Value[string] `yaml:"params,omitempty" json:"params,omitempty"`
}

// QueryConfigDTO is the wire form of a continuous query. Query text and
// language are not reference-able (they are structural, not secrets/env),
// matching original_source's query DTO.
type QueryConfigDTO struct {
	ID        string           `yaml:"id" json:"id"`
	Query     string           `yaml:"query" json:"query"`
	Language  string           `yaml:"language,omitempty" json:"language,omitempty"`
	Sources   []string         `yaml:"sources" json:"sources"`
	AutoStart bool             `yaml:"auto_start" json:"auto_start"`
	Joins     []JoinDescriptor `yaml:"joins,omitempty" json:"joins,omitempty"`
}

// ReactionConfigDTO is the wire form of a reaction.
type ReactionConfigDTO struct {
	ID        string                              `yaml:"id" json:"id"`
	Kind      string                              `yaml:"kind" json:"kind"`
	Queries   []string                            `yaml:"queries" json:"queries"`
	AutoStart bool                                `yaml:"auto_start" json:"auto_start"`
	Params    map[string]configvalue.Value[string] `yaml:"params,omitempty" json:"params,omitempty"`
}

// DrasiServerConfig is the top-level configuration file contents.
// Grounded on original_source/src/config/types.rs's DrasiServerConfig.
type DrasiServerConfig struct {
	ID       configvalue.Value[string] `yaml:"id" json:"id"`
	Host     configvalue.Value[string] `yaml:"host" json:"host"`
	Port     configvalue.Value[int]    `yaml:"port" json:"port"`
	LogLevel configvalue.Value[string] `yaml:"log_level" json:"log_level"`

	DisablePersistence bool `yaml:"disable_persistence" json:"disable_persistence"`

	DefaultPriorityQueueCapacity   *configvalue.Value[int] `yaml:"default_priority_queue_capacity,omitempty" json:"default_priority_queue_capacity,omitempty"`
	DefaultDispatchBufferCapacity *configvalue.Value[int] `yaml:"default_dispatch_buffer_capacity,omitempty" json:"default_dispatch_buffer_capacity,omitempty"`

	Sources   []SourceConfigDTO   `yaml:"sources,omitempty" json:"sources,omitempty"`
	Queries   []QueryConfigDTO    `yaml:"queries,omitempty" json:"queries,omitempty"`
	Reactions []ReactionConfigDTO `yaml:"reactions,omitempty" json:"reactions,omitempty"`
}
