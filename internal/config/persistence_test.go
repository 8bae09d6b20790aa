package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fixedSnapshot struct{ cfg DrasiServerConfig }

func (f fixedSnapshot) Snapshot() DrasiServerConfig { return f.cfg }

// after a successful save, the file parses to an equivalent config and
// TestPersistence_Save_AtomicNoTempFileLeftBehind checks that after a
// successful save, the file parses to an equivalent config and no .tmp file
// is left behind.
func TestPersistence_Save_AtomicNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	p := NewPersistence(path, false)
	require.NoError(t, p.Save(fixedSnapshot{cfg}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var reloaded DrasiServerConfig
	require.NoError(t, yaml.Unmarshal(data, &reloaded))
	assert.Equal(t, cfg.Host, reloaded.Host)
	assert.Equal(t, cfg.Port, reloaded.Port)
}

func TestPersistence_Save_DisabledSkipsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	p := NewPersistence(path, true)
	require.NoError(t, p.Save(fixedSnapshot{Default()}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestPersistence_IsWritable_UnwritableFileDrivesReadOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: x\n"), 0o400))

	p := NewPersistence(path, false)
	assert.False(t, p.IsWritable())
}

func TestPersistence_IsWritable_WritableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: x\n"), 0o644))

	p := NewPersistence(path, false)
	assert.True(t, p.IsWritable())
}
