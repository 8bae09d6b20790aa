package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/configvalue"
	"github.com/drasi-project/drasi-server/internal/mapping"
	"github.com/drasi-project/drasi-server/internal/query"
)

func TestDecodeEntry_ParsesRowJSON(t *testing.T) {
	row, ok := decodeEntry(map[string]string{"row": `{"op":"insert","id":"n1","properties":{"name":"Ada"}}`})
	require.True(t, ok)
	assert.Equal(t, query.OpInsert, row.Op)
	assert.Equal(t, "n1", row.ID)
	assert.Equal(t, "Ada", row.Properties["name"])
}

func TestDecodeEntry_MissingFieldReturnsFalse(t *testing.T) {
	_, ok := decodeEntry(map[string]string{"other": "x"})
	assert.False(t, ok)
}

func testResolver() *mapping.Resolver {
	return &mapping.Resolver{LookupEnv: func(string) (string, bool) { return "", false }}
}

func TestFactory_ResolvesAddrStreamAndBlock(t *testing.T) {
	r := testResolver()
	dto := config.SourceConfigDTO{ID: "s1", Params: map[string]configvalue.Value[string]{
		"addr": configvalue.NewLiteral("localhost:6379"),
	}}

	domainCfg, src, err := Factory(r, dto)
	require.NoError(t, err)
	assert.Equal(t, config.SourcePlatform, domainCfg.Kind)

	s, ok := src.(*Source)
	require.True(t, ok)
	assert.Equal(t, "drasi.changes", s.stream)
}

func TestFactory_MissingAddrErrors(t *testing.T) {
	r := testResolver()
	dto := config.SourceConfigDTO{ID: "s1", Params: map[string]configvalue.Value[string]{}}

	_, _, err := Factory(r, dto)
	require.Error(t, err)
}
