package postgres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/configvalue"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

func testResolver(env map[string]string) *mapping.Resolver {
	return &mapping.Resolver{LookupEnv: func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}}
}

func TestResolveDSN_LiteralDSNPassesThrough(t *testing.T) {
	r := testResolver(nil)
	dto := config.SourceConfigDTO{Params: map[string]configvalue.Value[string]{
		"dsn": configvalue.NewLiteral("postgres://u:p@host/db"),
	}}

	dsn, err := ResolveDSN(r, dto.Params)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@host/db", dsn)
}

func TestResolveDSN_DiscreteParamsWithPassword(t *testing.T) {
	r := testResolver(nil)
	dto := config.SourceConfigDTO{Params: map[string]configvalue.Value[string]{
		"host":     configvalue.NewLiteral("db.internal"),
		"port":     configvalue.NewLiteral("5433"),
		"user":     configvalue.NewLiteral("drasi"),
		"dbname":   configvalue.NewLiteral("changes"),
		"password": configvalue.NewLiteral("secret"),
	}}

	dsn, err := ResolveDSN(r, dto.Params)
	require.NoError(t, err)
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=changes")
	assert.Contains(t, dsn, "password=secret")
}

func TestResolveDSN_PasswordFileIsTrimmedAndRead(t *testing.T) {
	r := testResolver(nil)
	path := t.TempDir() + "/pgpass"
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

	dto := config.SourceConfigDTO{Params: map[string]configvalue.Value[string]{
		"dbname":        configvalue.NewLiteral("changes"),
		"password_file": configvalue.NewLiteral(path),
	}}

	dsn, err := ResolveDSN(r, dto.Params)
	require.NoError(t, err)
	assert.Contains(t, dsn, "password=from-file")
}

func TestResolveDSN_MissingDBNameErrors(t *testing.T) {
	r := testResolver(nil)
	dto := config.SourceConfigDTO{Params: map[string]configvalue.Value[string]{}}

	_, err := ResolveDSN(r, dto.Params)
	require.Error(t, err)
}
