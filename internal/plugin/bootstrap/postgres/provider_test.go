package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/configvalue"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

func testResolver() *mapping.Resolver {
	return &mapping.Resolver{LookupEnv: func(string) (string, bool) { return "", false }}
}

func TestFactory_ResolvesDSNTableAndIDColumn(t *testing.T) {
	r := testResolver()
	dto := config.BootstrapDescriptorDTO{Params: map[string]configvalue.Value[string]{
		"dsn":   configvalue.NewLiteral("postgres://u:p@host/db"),
		"table": configvalue.NewLiteral("nodes"),
	}}

	provider, err := Factory(r, dto)
	require.NoError(t, err)

	p, ok := provider.(*Provider)
	require.True(t, ok)
	assert.Equal(t, "postgres://u:p@host/db", p.dsn)
	assert.Equal(t, "nodes", p.table)
	assert.Equal(t, "id", p.idColumn)
	assert.Equal(t, string(config.BootstrapPostgres), p.Kind())
}

func TestFactory_MissingTableErrors(t *testing.T) {
	r := testResolver()
	dto := config.BootstrapDescriptorDTO{Params: map[string]configvalue.Value[string]{
		"dsn": configvalue.NewLiteral("postgres://u:p@host/db"),
	}}

	_, err := Factory(r, dto)
	require.Error(t, err)
}
