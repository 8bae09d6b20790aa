package component

import "context"

// ChangeEvent is the envelope a Source emits and the DataRouter fans out to
// subscribed queries. Implementations may hand the same envelope to every
// subscriber.
type ChangeEvent struct {
	SourceID string
	Seq      uint64
	Payload  any
	// Bootstrap marks an event as part of a synthetic bootstrap replay
	// rather than a live change.
	Bootstrap bool
	// End, when true, signals a terminal event on this stream (used by the
	// BootstrapRouter to signal end-of-bootstrap or a provider failure).
	End   bool
	EndErr error
}

// ResultDelta is the envelope a Query emits and the SubscriptionRouter fans
// out to subscribed reactions.
type ResultDelta struct {
	QueryID string
	Seq     uint64
	Payload any
}

// Source is the uniform plugin contract for change producers. Start receives the channel the DataRouter will drain into
// subscribed queries; the Source owns the producer end.
type Source interface {
	ID() string
	Kind() string
	Properties() map[string]any

	Start(ctx context.Context, sink chan<- ChangeEvent) error
	Stop(ctx context.Context) error

	// BootstrapProvider returns this source's attached bootstrap provider,
	// if any, expressed as an optional capability rather than an inherited
	// type.
	BootstrapProvider() (BootstrapProvider, bool)
}

// Reaction is the uniform plugin contract for result-delta consumers.
type Reaction interface {
	ID() string
	Kind() string
	Properties() map[string]any

	Start(ctx context.Context, deltas <-chan ResultDelta) error
	Stop(ctx context.Context) error
}

// BootstrapProvider replays a source's current state as a synthetic change
// stream on demand. Providers are a closed set (NoOp,
// ScriptFile, Postgres, Platform, Application).
type BootstrapProvider interface {
	Kind() string
	// Bootstrap pushes a finite sequence of synthetic ChangeEvents (with
	// Bootstrap=true) for queryID onto sink, then a terminal ChangeEvent
	// with End=true (EndErr set on provider failure).
	Bootstrap(ctx context.Context, queryID string, sink chan<- ChangeEvent) error
}

// QueryEvaluator is the black-box continuous-query component. Only
// the interface it consumes/produces is in scope here. publish is called by
// the evaluator for every result delta it emits; the orchestrator binds it
// to the SubscriptionRouter so the evaluator need not know about routing.
type QueryEvaluator interface {
	ID() string
	Start(ctx context.Context, changes <-chan ChangeEvent, publish func(ResultDelta)) error
	Stop(ctx context.Context) error
	// Results returns the current materialized result set, used by the
	// control API's GET /queries/{id}/results.
	Results() []map[string]any
}
