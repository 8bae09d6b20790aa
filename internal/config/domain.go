package config

// SourcePluginKind is the closed set of Source plugin kinds.
type SourcePluginKind string

const (
	SourceMock     SourcePluginKind = "Mock"
	SourceHttp     SourcePluginKind = "Http"
	SourceGrpc     SourcePluginKind = "Grpc"
	SourcePostgres SourcePluginKind = "Postgres"
	SourcePlatform SourcePluginKind = "Platform"
)

// ReactionPluginKind is the closed set of Reaction plugin kinds.
type ReactionPluginKind string

const (
	ReactionLog           ReactionPluginKind = "Log"
	ReactionHttp          ReactionPluginKind = "Http"
	ReactionHttpAdaptive  ReactionPluginKind = "HttpAdaptive"
	ReactionGrpc          ReactionPluginKind = "Grpc"
	ReactionGrpcAdaptive  ReactionPluginKind = "GrpcAdaptive"
	ReactionSse           ReactionPluginKind = "Sse"
	ReactionPlatform      ReactionPluginKind = "Platform"
	ReactionProfiler      ReactionPluginKind = "Profiler"
)

// BootstrapProviderKind is the closed set of bootstrap provider kinds.
type BootstrapProviderKind string

const (
	BootstrapNoOp        BootstrapProviderKind = "NoOp"
	BootstrapScriptFile  BootstrapProviderKind = "ScriptFile"
	BootstrapPostgres    BootstrapProviderKind = "Postgres"
	BootstrapPlatform    BootstrapProviderKind = "Platform"
	BootstrapApplication BootstrapProviderKind = "Application"
)

// JoinDescriptor declares a synthetic relationship the query layer should
// treat as joining nodes from different sources by matching a (label,
// property) pair on each side.
type JoinDescriptor struct {
	Label string             `yaml:"label" json:"label"`
	Keys  []JoinKeyComponent `yaml:"keys" json:"keys"`
}

type JoinKeyComponent struct {
	Label    string `yaml:"label" json:"label"`
	Property string `yaml:"property" json:"property"`
}

// SourceConfig is the resolved domain representation of a source.
type SourceConfig struct {
	ID         string
	Kind       SourcePluginKind
	AutoStart  bool
	Params     map[string]any
	Bootstrap  *BootstrapDescriptor
}

// BootstrapDescriptor names the provider kind attached to a source plus any
// provider-specific parameters (e.g. the DB connection for Postgres).
type BootstrapDescriptor struct {
	Kind   BootstrapProviderKind
	Params map[string]any
}

// QueryConfig is the resolved domain representation of a continuous query.
type QueryConfig struct {
	ID        string
	Text      string
	Language  string
	Sources   []string
	AutoStart bool
	Joins     []JoinDescriptor
}

// ReactionConfig is the resolved domain representation of a reaction.
type ReactionConfig struct {
	ID        string
	Kind      ReactionPluginKind
	Queries   []string
	AutoStart bool
	Params    map[string]any
}
