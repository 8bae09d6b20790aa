package orchestrator

import (
	"strconv"

	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

// settings is the resolved form of DrasiServerConfig's top-level fields,
// kept alongside the DTO so Snapshot can re-emit the original reference
// forms verbatim.
type settings struct {
	id       string
	host     string
	port     int
	logLevel string

	disablePersistence bool

	priorityQueueCapacity  int
	dispatchBufferCapacity int
}

func identity(s string) (string, error) { return s, nil }

func resolveSettings(r *mapping.Resolver, cfg config.DrasiServerConfig) (settings, error) {
	id, err := mapping.ResolveTyped(r, cfg.ID, identity)
	if err != nil {
		return settings{}, err
	}
	host, err := mapping.ResolveTyped(r, cfg.Host, identity)
	if err != nil {
		return settings{}, err
	}
	port, err := mapping.ResolveTyped(r, cfg.Port, strconv.Atoi)
	if err != nil {
		return settings{}, err
	}
	logLevel, err := mapping.ResolveTyped(r, cfg.LogLevel, identity)
	if err != nil {
		return settings{}, err
	}

	priorityCap, _, err := mapping.ResolveOptional(r, cfg.DefaultPriorityQueueCapacity, strconv.Atoi)
	if err != nil {
		return settings{}, err
	}
	dispatchCap, _, err := mapping.ResolveOptional(r, cfg.DefaultDispatchBufferCapacity, strconv.Atoi)
	if err != nil {
		return settings{}, err
	}

	return settings{
		id:                     id,
		host:                   host,
		port:                   port,
		logLevel:               logLevel,
		disablePersistence:     cfg.DisablePersistence,
		priorityQueueCapacity:  priorityCap,
		dispatchBufferCapacity: dispatchCap,
	}, nil
}
