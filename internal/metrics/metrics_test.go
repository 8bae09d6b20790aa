package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/eventbus"
)

func TestObserveLifecycle_OneHot(t *testing.T) {
	ObserveLifecycle(eventbus.LifecycleEvent{
		Class: component.ClassSource, ID: "s1",
		Old: component.StatusStopped, New: component.StatusStarting,
		Timestamp: time.Now(),
	})
	assert.Equal(t, float64(0), testutil.ToFloat64(componentStatus.WithLabelValues("source", "s1", "Stopped")))
	assert.Equal(t, float64(1), testutil.ToFloat64(componentStatus.WithLabelValues("source", "s1", "Starting")))

	ObserveLifecycle(eventbus.LifecycleEvent{
		Class: component.ClassSource, ID: "s1",
		Old: component.StatusStarting, New: component.StatusRunning,
		Timestamp: time.Now(),
	})
	assert.Equal(t, float64(0), testutil.ToFloat64(componentStatus.WithLabelValues("source", "s1", "Starting")))
	assert.Equal(t, float64(1), testutil.ToFloat64(componentStatus.WithLabelValues("source", "s1", "Running")))
}

func TestRecordRouted_IncrementsPerFabric(t *testing.T) {
	before := testutil.ToFloat64(routedEvents.WithLabelValues("data"))
	RecordRouted("data")
	RecordRouted("data")
	after := testutil.ToFloat64(routedEvents.WithLabelValues("data"))
	assert.Equal(t, before+2, after)
}

func TestWatch_StopsOnClose(t *testing.T) {
	bus := eventbus.New()
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		Watch(bus, stop)
		close(done)
	}()
	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after stop was closed")
	}
}

func TestResetComponent_ClearsAllStatuses(t *testing.T) {
	ObserveLifecycle(eventbus.LifecycleEvent{
		Class: component.ClassQuery, ID: "q1",
		New: component.StatusRunning, Timestamp: time.Now(),
	})
	require.Equal(t, float64(1), testutil.ToFloat64(componentStatus.WithLabelValues("query", "q1", "Running")))

	ResetComponent(component.ClassQuery, "q1")

	// DeleteLabelValues drops the series entirely; re-fetching it via
	// WithLabelValues recreates a fresh zero-valued series rather than
	// returning the stale Running=1 observation.
	assert.Equal(t, float64(0), testutil.ToFloat64(componentStatus.WithLabelValues("query", "q1", "Running")))
}

func TestInstrumentMux_RecordsMatchedPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := InstrumentMux(mux)

	before := testutil.ToFloat64(apiRequests.WithLabelValues("GET", "GET /widgets/{id}", "Not Found"))

	req := httptest.NewRequest(http.MethodGet, "/widgets/42", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	after := testutil.ToFloat64(apiRequests.WithLabelValues("GET", "GET /widgets/{id}", "Not Found"))
	assert.Equal(t, before+1, after)
}
