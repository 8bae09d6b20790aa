package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
)

func TestEvaluator_InsertThenDelete_UpdatesResults(t *testing.T) {
	ev := New(config.QueryConfig{ID: "q1"})
	changes := make(chan component.ChangeEvent, 4)
	deltas := make(chan component.ResultDelta, 4)

	require.NoError(t, ev.Start(context.Background(), changes, func(d component.ResultDelta) { deltas <- d }))

	changes <- component.ChangeEvent{Payload: Row{Op: OpInsert, ID: "n1", Labels: []string{"Person"}, Properties: map[string]any{"name": "Ada"}}}
	select {
	case <-deltas:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for insert delta")
	}
	assert.Len(t, ev.Results(), 1)

	changes <- component.ChangeEvent{Payload: Row{Op: OpDelete, ID: "n1"}}
	select {
	case <-deltas:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delete delta")
	}
	assert.Empty(t, ev.Results())
}

func TestEvaluator_NonRowPayload_ForwardedUnchanged(t *testing.T) {
	ev := New(config.QueryConfig{ID: "q1"})
	changes := make(chan component.ChangeEvent, 1)
	deltas := make(chan component.ResultDelta, 1)

	require.NoError(t, ev.Start(context.Background(), changes, func(d component.ResultDelta) { deltas <- d }))

	changes <- component.ChangeEvent{Payload: "opaque"}
	select {
	case d := <-deltas:
		assert.Equal(t, "opaque", d.Payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delta")
	}
}

func TestEvaluator_EndEvent_Skipped(t *testing.T) {
	ev := New(config.QueryConfig{ID: "q1"})
	changes := make(chan component.ChangeEvent, 1)
	deltas := make(chan component.ResultDelta, 1)
	require.NoError(t, ev.Start(context.Background(), changes, func(d component.ResultDelta) { deltas <- d }))

	changes <- component.ChangeEvent{End: true}
	select {
	case <-deltas:
		t.Fatal("an End event must not produce a result delta")
	case <-time.After(50 * time.Millisecond):
	}
}
