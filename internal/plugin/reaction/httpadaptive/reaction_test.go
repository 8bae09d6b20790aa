package httpadaptive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/component"
)

func TestReaction_RespectsRateLimit(t *testing.T) {
	var count int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt64(&count, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New("r1", srv.URL, 1000, 1000)
	deltas := make(chan component.ResultDelta, 5)
	require.NoError(t, r.Start(context.Background(), deltas))
	defer r.Stop(context.Background())

	for i := 0; i < 5; i++ {
		deltas <- component.ResultDelta{QueryID: "q1", Seq: uint64(i)}
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) == 5
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, int64(5), atomic.LoadInt64(&count))
}
