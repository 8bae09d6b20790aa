package router

import (
	"context"
	"testing"
	"time"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDataRouter_FanOutOrdering checks that fan-out preserves
// per-subscriber order from a single source.
func TestDataRouter_FanOutOrdering(t *testing.T) {
	r := NewDataRouter(16)
	ctx := context.Background()

	q1 := r.AddQuerySubscription("Q1", []string{"S"}, 0)
	q2 := r.AddQuerySubscription("Q2", []string{"S"}, 0)

	for i := uint64(0); i < 3; i++ {
		r.Publish(ctx, component.ChangeEvent{SourceID: "S", Seq: i})
	}

	for _, ch := range []<-chan component.ChangeEvent{q1, q2} {
		for i := uint64(0); i < 3; i++ {
			select {
			case ev := <-ch:
				assert.Equal(t, i, ev.Seq)
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for event")
			}
		}
	}
}

// after removing a subscription, no further events are delivered to the
// TestDataRouter_SubscriptionTeardown checks that after removing a
// subscription, no further events are delivered to the previously-returned
// channel (it is closed, so receives return !ok).
func TestDataRouter_SubscriptionTeardown(t *testing.T) {
	r := NewDataRouter(16)
	ctx := context.Background()

	ch := r.AddQuerySubscription("Q", []string{"S"}, 0)
	r.RemoveQuerySubscription("Q")

	r.Publish(ctx, component.ChangeEvent{SourceID: "S", Seq: 1})

	select {
	case ev, ok := <-ch:
		assert.False(t, ok, "expected closed channel, got event %+v", ev)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("channel neither closed nor delivered")
	}
}

func TestDataRouter_ReplaceSubscriptionClosesOldChannel(t *testing.T) {
	r := NewDataRouter(16)

	old := r.AddQuerySubscription("Q", []string{"S"}, 0)
	_ = r.AddQuerySubscription("Q", []string{"S"}, 0)

	_, ok := <-old
	assert.False(t, ok)
}

func TestDataRouter_PublishRespectsContextCancellation(t *testing.T) {
	r := NewDataRouter(1)
	ch := r.AddQuerySubscription("Q", []string{"S"}, 1)
	r.Publish(context.Background(), component.ChangeEvent{SourceID: "S", Seq: 0}) // fills the buffer

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Publish(ctx, component.ChangeEvent{SourceID: "S", Seq: 1}) // would block
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish did not respect cancellation")
	}

	// drain to avoid leaking the goroutine's send target state
	<-ch
}

func TestDataRouter_NoSubscribersIsNoop(t *testing.T) {
	r := NewDataRouter(16)
	require.NotPanics(t, func() {
		r.Publish(context.Background(), component.ChangeEvent{SourceID: "nobody-subscribed"})
	})
}
