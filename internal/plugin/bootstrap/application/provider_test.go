package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/component"
)

func TestProvider_Bootstrap_CallsRegisteredHook(t *testing.T) {
	called := false
	Register("src-a", func(ctx context.Context, queryID string, sink chan<- component.ChangeEvent) error {
		called = true
		sink <- component.ChangeEvent{Bootstrap: true, Payload: "snapshot"}
		return nil
	})
	defer Unregister("src-a")

	p := New("src-a")
	sink := make(chan component.ChangeEvent, 1)
	require.NoError(t, p.Bootstrap(context.Background(), "q1", sink))
	assert.True(t, called)
	assert.Equal(t, "snapshot", (<-sink).Payload)
}

func TestProvider_Bootstrap_UnknownNameErrors(t *testing.T) {
	p := New("does-not-exist")
	sink := make(chan component.ChangeEvent, 1)
	err := p.Bootstrap(context.Background(), "q1", sink)
	require.Error(t, err)
}
