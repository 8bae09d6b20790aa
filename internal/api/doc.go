// Package api implements Drasi Server's control-plane HTTP surface: CRUD
// and lifecycle (start/stop) operations over sources, queries and
// reactions, a health endpoint, a Prometheus metrics endpoint, and a
// query-results endpoint, all routed through a single Orchestrator. Every
// handler marshals its response as JSON through a uniform envelope, and
// every error surfaced by the orchestrator is mapped from its
// component.ErrorKind to an HTTP status via errorStatus, except ReadOnly,
// which is written with status 200 and success:false.
package api
