// Package metrics holds the process's Prometheus collectors: a one-hot
// component-status gauge fed by the event bus, and a routed-event counter
// fed by the DataRouter and SubscriptionRouter fan-out paths.
package metrics
