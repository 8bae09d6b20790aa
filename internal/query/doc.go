// Package query provides the one QueryEvaluator implementation this repo
// ships: a standing, materialized-view evaluator that tracks each source
// row by id and echoes every change as a result delta. Cypher parsing and
// graph-delta indexing are explicitly out of scope; this
// is the minimal evaluator needed to exercise the DataRouter ->
// QueryEvaluator -> SubscriptionRouter pipeline end to end, not a query
// engine. The shape below follows component.QueryEvaluator and the
// Start/publish contract internal/orchestrator's queryStartFunc relies on.
package query
