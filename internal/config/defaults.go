package config

import (
	"github.com/drasi-project/drasi-server/internal/configvalue"
	"github.com/google/uuid"
)

// Default returns the out-of-the-box configuration, matching
// original_source/src/config/types.rs's Default impl: a random id,
// "0.0.0.0" host, port 8080, "info" log level, persistence enabled.
func Default() DrasiServerConfig {
	return DrasiServerConfig{
		ID:       configvalue.NewLiteral(uuid.NewString()),
		Host:     configvalue.NewLiteral("0.0.0.0"),
		Port:     configvalue.NewLiteral(8080),
		LogLevel: configvalue.NewLiteral("info"),
	}
}
