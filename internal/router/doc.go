// Package router implements the three in-process fan-out fabrics: DataRouter
// (source -> query), SubscriptionRouter (query -> reaction), and
// BootstrapRouter (source -> bootstrap-provider coordination). Each router
// keyed-multiplexes onto per-subscriber channels and blocks on a full
// channel rather than dropping, since dropping a change event (unlike an
// advisory lifecycle notification) would corrupt a query's downstream view.
package router
