// Package orchestrator implements the Core Orchestrator: the
// single entry point that owns the three Managers and three Routers,
// applies the declarative initial configuration in dependency order, and
// enforces process-wide start/stop ordering: sources start before queries
// before reactions, and stop in the reverse order.
package orchestrator
