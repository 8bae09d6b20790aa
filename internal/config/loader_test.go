package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	host, _ := cfg.Host.Literal()
	assert.Equal(t, "0.0.0.0", host)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
id: my-server
host: 127.0.0.1
port: 9000
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	id, _ := cfg.ID.Literal()
	assert.Equal(t, "my-server", id)
	port, _ := cfg.Port.Literal()
	assert.Equal(t, 9000, port)
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"my-server","host":"127.0.0.1","port":9000,"log_level":"debug","disable_persistence":false}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	id, _ := cfg.ID.Literal()
	assert.Equal(t, "my-server", id)
}

func TestLoad_LogLevelEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o644))

	t.Setenv(LogLevelEnvVar, "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	level, _ := cfg.LogLevel.Literal()
	assert.Equal(t, "debug", level)
}
