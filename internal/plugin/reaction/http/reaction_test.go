package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/component"
)

func TestReaction_PostsDeltaToEndpoint(t *testing.T) {
	received := make(chan wireDelta, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var wd wireDelta
		require.NoError(t, json.NewDecoder(req.Body).Decode(&wd))
		received <- wd
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New("r1", srv.URL)
	deltas := make(chan component.ResultDelta, 1)
	require.NoError(t, r.Start(context.Background(), deltas))
	defer r.Stop(context.Background())

	deltas <- component.ResultDelta{QueryID: "q1", Seq: 3, Payload: map[string]any{"id": "n1"}}

	select {
	case wd := <-received:
		assert.Equal(t, "q1", wd.QueryID)
		assert.Equal(t, uint64(3), wd.Seq)
	case <-time.After(time.Second):
		t.Fatal("reaction never posted")
	}
}
