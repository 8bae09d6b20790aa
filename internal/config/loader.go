package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/drasi-project/drasi-server/internal/configvalue"
	"gopkg.in/yaml.v3"
)

// LogLevelEnvVar is the process-level variable that overrides the
// configured log level if present.
const LogLevelEnvVar = "DRASI_LOG_LEVEL"

// Load reads path and parses it as a DrasiServerConfig, trying the
// indentation-based YAML encoding first and falling back to the brace-based
// JSON encoding on parse failure. A missing file yields the default
// configuration rather than an error.
func Load(path string) (DrasiServerConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return DrasiServerConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg DrasiServerConfig
	yamlErr := yaml.Unmarshal(data, &cfg)
	if yamlErr == nil {
		applyLogLevelOverride(&cfg)
		return cfg, nil
	}

	jsonErr := json.Unmarshal(data, &cfg)
	if jsonErr == nil {
		applyLogLevelOverride(&cfg)
		return cfg, nil
	}

	return DrasiServerConfig{}, fmt.Errorf("config: %s parses as neither YAML (%v) nor JSON (%v)", path, yamlErr, jsonErr)
}

// applyLogLevelOverride lets a process-level environment variable override
// the configured log level when present.
func applyLogLevelOverride(cfg *DrasiServerConfig) {
	if v, ok := os.LookupEnv(LogLevelEnvVar); ok && v != "" {
		cfg.LogLevel = configvalue.NewLiteral(v)
	}
}
