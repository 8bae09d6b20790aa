package orchestrator

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/configvalue"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

func baseSettings() config.DrasiServerConfig {
	return config.DrasiServerConfig{
		ID:       configvalue.NewLiteral("srv-1"),
		Host:     configvalue.NewLiteral("0.0.0.0"),
		Port:     configvalue.NewLiteral(8080),
		LogLevel: configvalue.NewLiteral("info"),
	}
}

func newTestOrchestrator(order *[]string) *Orchestrator {
	return New(recordingFactories(order), mapping.NewResolver(), logr.Discard())
}

// TestOrchestrator_StartQuery_MissingSourceRemainsStopped covers a query
// whose sources are not (yet) registered: it fails to start and remains
// Stopped rather than transitioning to Error.
func TestOrchestrator_StartQuery_MissingSourceRemainsStopped(t *testing.T) {
	o := newTestOrchestrator(&[]string{})
	cfg := baseSettings()
	cfg.Queries = []config.QueryConfigDTO{
		{ID: "q1", Query: "MATCH (n) RETURN n", Sources: []string{"missing-source"}},
	}
	require.NoError(t, o.Build(cfg))

	err := o.StartQuery(context.Background(), "q1")
	require.Error(t, err)
	assert.Equal(t, component.InvalidConfig, component.KindOf(err))

	_, status, err := o.GetQuery("q1")
	require.NoError(t, err)
	assert.Equal(t, component.StatusStopped, status)
}

// TestOrchestrator_StartStop_DependencyOrder checks that Start brings
// components up sources -> queries -> reactions, and Stop tears them down
// in the reverse order.
func TestOrchestrator_StartStop_DependencyOrder(t *testing.T) {
	var order []string
	o := newTestOrchestrator(&order)
	cfg := baseSettings()
	cfg.Sources = []config.SourceConfigDTO{{ID: "s1", Kind: "Mock", AutoStart: true}}
	cfg.Queries = []config.QueryConfigDTO{{ID: "q1", Query: "MATCH (n) RETURN n", Sources: []string{"s1"}, AutoStart: true}}
	cfg.Reactions = []config.ReactionConfigDTO{{ID: "r1", Kind: "Log", Queries: []string{"q1"}, AutoStart: true}}
	require.NoError(t, o.Build(cfg))

	require.NoError(t, o.Start(context.Background()))
	assert.Equal(t, []string{"source:s1", "query:q1", "reaction:r1"}, order)
	assert.True(t, o.IsRunning())

	require.NoError(t, o.Stop(context.Background()))
	assert.False(t, o.IsRunning())
}

// TestOrchestrator_CreateSource_Idempotent checks that creating the same
// source id twice is a no-op on the second call.
func TestOrchestrator_CreateSource_Idempotent(t *testing.T) {
	o := newTestOrchestrator(&[]string{})
	require.NoError(t, o.Build(baseSettings()))

	already, err := o.CreateSource(context.Background(), config.SourceConfigDTO{ID: "s1", Kind: "Mock"})
	require.NoError(t, err)
	assert.False(t, already)

	already, err = o.CreateSource(context.Background(), config.SourceConfigDTO{ID: "s1", Kind: "Mock", AutoStart: true})
	require.NoError(t, err)
	assert.True(t, already)

	dto, _, err := o.GetSource("s1")
	require.NoError(t, err)
	assert.False(t, dto.AutoStart, "second create must not overwrite the original config")
}

// TestOrchestrator_Snapshot_PreservesConfigValueReferences checks that
// Snapshot re-emits each component's configvalue references verbatim
// rather than their resolved values.
func TestOrchestrator_Snapshot_PreservesConfigValueReferences(t *testing.T) {
	o := newTestOrchestrator(&[]string{})
	cfg := baseSettings()
	cfg.LogLevel = configvalue.NewEnvRef[string]("DRASI_LOG_LEVEL", strPtr("warn"))
	require.NoError(t, o.Build(cfg))

	_, err := o.CreateSource(context.Background(), config.SourceConfigDTO{
		ID:   "s1",
		Kind: "Mock",
		Params: map[string]configvalue.Value[string]{
			"endpoint": configvalue.NewEnvRef[string]("ENDPOINT", nil),
		},
	})
	require.NoError(t, err)

	snap := o.Snapshot()
	name, def, ok := snap.LogLevel.EnvRef()
	require.True(t, ok)
	assert.Equal(t, "DRASI_LOG_LEVEL", name)
	require.NotNil(t, def)
	assert.Equal(t, "warn", *def)

	require.Len(t, snap.Sources, 1)
	_, _, ok = snap.Sources[0].Params["endpoint"].EnvRef()
	assert.True(t, ok)
}

func strPtr(s string) *string { return &s }
