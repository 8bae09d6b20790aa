package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Snapshotter produces the current live configuration, reconstructed from
// manager state, with reference forms preserved verbatim. Implemented by internal/orchestrator.
type Snapshotter interface {
	Snapshot() DrasiServerConfig
}

// Persistence snapshots and atomically persists the live configuration to a
// file: a small struct exposing Save and IsWritable, matching the shape of
// original_source/src/persistence.rs's ConfigPersistence.
type Persistence struct {
	path     string
	disabled bool
}

// NewPersistence builds a Persistence targeting path. disabled mirrors the
// config file's disable_persistence flag.
func NewPersistence(path string, disabled bool) *Persistence {
	return &Persistence{path: path, disabled: disabled}
}

// Save snapshots src and writes it atomically: serialize, write to
// "<path>.tmp" in the same directory, rename over the real path; on rename
// failure, remove the temp file.
func (p *Persistence) Save(src Snapshotter) error {
	if p.disabled {
		return nil
	}

	cfg := src.Snapshot()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: serializing snapshot: %w", err)
	}

	tmpPath := p.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, p.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("config: renaming %s to %s: %w", tmpPath, p.path, err)
	}

	return nil
}

// IsWritable probes the target file by attempting to open it for append,
// exactly as original_source/src/persistence.rs's is_writable does. This
// drives both the persistence skip-guard and the control API's read-only
// mode.
func (p *Persistence) IsWritable() bool {
	if p.disabled {
		return false
	}
	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return dirIsWritable(filepath.Dir(p.path))
		}
		return false
	}
	_ = f.Close()
	return true
}

// dirIsWritable approximates writability for a not-yet-created config file
// by checking whether its parent directory would accept a new file.
func dirIsWritable(dir string) bool {
	probe := filepath.Join(dir, ".drasi-write-probe")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false
	}
	_ = f.Close()
	_ = os.Remove(probe)
	return true
}

func (p *Persistence) Disabled() bool { return p.disabled }
