package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/eventbus"
)

// Registry holds every collector this process registers. A package-level
// registry (rather than prometheus.DefaultRegisterer) keeps test processes
// that construct multiple orchestrators from double-registering collectors.
var Registry = prometheus.NewRegistry()

var (
	componentStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "drasi",
			Subsystem: "component",
			Name:      "status",
			Help:      "Lifecycle status of a component (one-hot by status label).",
		},
		[]string{"class", "id", "status"},
	)

	routedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drasi",
			Subsystem: "router",
			Name:      "routed_total",
			Help:      "Count of envelopes delivered to a subscriber, by fabric.",
		},
		[]string{"fabric"},
	)

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drasi",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total control-plane API requests handled, by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		componentStatus,
		routedEvents,
		apiRequests,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordRouted increments the routed-event counter for fabric ("data" or
// "subscription"). Called once per subscriber delivery, so a fan-out to N
// subscribers increments the counter N times.
func RecordRouted(fabric string) {
	routedEvents.WithLabelValues(fabric).Inc()
}

// RecordAPIRequest increments the control-plane API request counter.
// route is the matched mux pattern (e.g. "GET /sources/{id}"), not the raw
// path, so per-id cardinality never reaches the counter's label set.
func RecordAPIRequest(method, route string, status int) {
	apiRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
}

// InstrumentMux wraps mux with RecordAPIRequest bookkeeping, mirroring
// r3e-network-service_layer's pkg/metrics.InstrumentHandler but keyed by the
// matched mux pattern (via ServeMux.Handler, which resolves the pattern
// without invoking it) rather than a hand-rolled path canonicalizer.
func InstrumentMux(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pattern := mux.Handler(r)
		if pattern == "" {
			pattern = r.URL.Path
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(rec, r)
		RecordAPIRequest(r.Method, pattern, rec.status)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// ObserveLifecycle updates the one-hot component-status gauge from a bus
// event: the prior status is cleared and the new one set, mirroring
// r3e-network-service_layer's RecordModuleMetrics reset-then-set pattern but
// per-component rather than for a whole snapshot.
func ObserveLifecycle(ev eventbus.LifecycleEvent) {
	id := ev.ID
	class := string(ev.Class)
	if ev.Old != "" {
		componentStatus.WithLabelValues(class, id, string(ev.Old)).Set(0)
	}
	componentStatus.WithLabelValues(class, id, string(ev.New)).Set(1)
}

// Watch subscribes to bus and updates the status gauge for every lifecycle
// event until stop is closed or the subscription channel is closed. Meant
// to be run in its own goroutine for the orchestrator's lifetime.
func Watch(bus *eventbus.Bus, stop <-chan struct{}) {
	ch := bus.Subscribe(64)
	defer bus.Unsubscribe(ch)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			ObserveLifecycle(ev)
		case <-stop:
			return
		}
	}
}

// ResetComponent clears every status gauge series for id, used when a
// component is deleted so a stale one-hot series doesn't linger.
func ResetComponent(class component.Class, id string) {
	for _, s := range []component.Status{
		component.StatusStopped, component.StatusStarting,
		component.StatusRunning, component.StatusStopping, component.StatusError,
	} {
		componentStatus.DeleteLabelValues(string(class), id, string(s))
	}
}
