package manager

import (
	"context"
	"sync"
	"time"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/eventbus"
	"github.com/drasi-project/drasi-server/internal/metrics"
)

// Component is the minimal shape every managed plugin instance must offer:
// a class-appropriate Start closure is supplied per-call (see Start below)
// because Source/Query/Reaction Start signatures differ in their extra
// channel argument; Stop is uniform.
type Component interface {
	Stop(ctx context.Context) error
}

// Record is the manager's bookkeeping for one component: its resolved
// config, its plugin instance, and current status.
type Record[TConfig any, C Component] struct {
	ID      string
	Config  TConfig
	Plugin  C
	Status  component.Status
	LastErr error
}

// StartFunc starts a plugin instance; the caller builds a fresh closure per
// call so it can capture a freshly-created router subscription channel.
type StartFunc func(ctx context.Context) error

// Manager owns one component class's registry, enforces the lifecycle state
// machine, and publishes LifecycleEvents on bus.
type Manager[TConfig any, C Component] struct {
	mu      sync.RWMutex
	class   component.Class
	bus     *eventbus.Bus
	records map[string]*Record[TConfig, C]

	// ShutdownTimeout bounds how long Stop waits for a component's Stop
	// method before declaring it Error.
	ShutdownTimeout time.Duration
}

func New[TConfig any, C Component](class component.Class, bus *eventbus.Bus) *Manager[TConfig, C] {
	return &Manager[TConfig, C]{
		class:           class,
		bus:             bus,
		records:         make(map[string]*Record[TConfig, C]),
		ShutdownTimeout: 5 * time.Second,
	}
}

func (m *Manager[TConfig, C]) publish(id string, old, new component.Status, err error) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(eventbus.LifecycleEvent{
		Class: m.class, ID: id, Old: old, New: new, Err: err, Timestamp: time.Now(),
	})
}

// Add registers a new component. If id already exists, the operation is
// idempotent: the existing record is unchanged and alreadyExists is true
//. If autoStart, start is invoked as the last step.
func (m *Manager[TConfig, C]) Add(ctx context.Context, id string, cfg TConfig, plugin C, autoStart bool, start StartFunc) (alreadyExists bool, err error) {
	m.mu.Lock()
	if _, exists := m.records[id]; exists {
		m.mu.Unlock()
		return true, nil
	}
	rec := &Record[TConfig, C]{ID: id, Config: cfg, Plugin: plugin, Status: component.StatusStopped}
	m.records[id] = rec
	m.mu.Unlock()

	if autoStart {
		if err := m.Start(ctx, id, start); err != nil {
			return false, err
		}
	}
	return false, nil
}

// Start transitions id from Stopped to Starting then Running. Fails with
// OperationFailed if currently Running or Starting, or if in Error (Stop
// clears Error first).
func (m *Manager[TConfig, C]) Start(ctx context.Context, id string, start StartFunc) error {
	rec, err := m.lockedRecord(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if rec.Status == component.StatusRunning || rec.Status == component.StatusStarting {
		m.mu.Unlock()
		return component.NewAlreadyRunningError(string(m.class), id)
	}
	if rec.Status == component.StatusError {
		m.mu.Unlock()
		return component.NewError(component.OperationFailed, string(m.class)+" '"+id+"' is in Error; stop it before starting")
	}
	old := rec.Status
	rec.Status = component.StatusStarting
	m.mu.Unlock()
	m.publish(id, old, component.StatusStarting, nil)

	if err := start(ctx); err != nil {
		// A referential-integrity failure (an unregistered source/query
		// named by this component) is rejected before any plugin work runs;
		// it is not a plugin failure, so the component reverts to its
		// pre-start status rather than landing in Error (spec §4.3/§8 P8).
		if component.IsKind(err, component.InvalidConfig) {
			m.mu.Lock()
			rec.Status = old
			m.mu.Unlock()
			m.publish(id, component.StatusStarting, old, err)
			return err
		}

		m.mu.Lock()
		rec.Status = component.StatusError
		rec.LastErr = err
		m.mu.Unlock()
		m.publish(id, component.StatusStarting, component.StatusError, err)
		return component.WrapError(component.PluginError, "start failed", err)
	}

	m.mu.Lock()
	rec.Status = component.StatusRunning
	rec.LastErr = nil
	m.mu.Unlock()
	m.publish(id, component.StatusStarting, component.StatusRunning, nil)
	return nil
}

// Stop transitions id from Running to Stopping then Stopped. Idempotent on
// Stopped. Error is cleared only by an explicit Stop.
func (m *Manager[TConfig, C]) Stop(ctx context.Context, id string) error {
	return m.stop(ctx, id)
}

func (m *Manager[TConfig, C]) stop(ctx context.Context, id string) error {
	rec, err := m.lockedRecord(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if rec.Status == component.StatusStopped {
		m.mu.Unlock()
		return nil
	}
	old := rec.Status
	rec.Status = component.StatusStopping
	m.mu.Unlock()
	m.publish(id, old, component.StatusStopping, nil)

	stopCtx, cancel := context.WithTimeout(ctx, m.ShutdownTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- rec.Plugin.Stop(stopCtx) }()

	var stopErr error
	select {
	case stopErr = <-done:
	case <-stopCtx.Done():
		stopErr = stopCtx.Err()
	}

	m.mu.Lock()
	if stopErr != nil {
		rec.Status = component.StatusError
		rec.LastErr = stopErr
	} else {
		rec.Status = component.StatusStopped
		rec.LastErr = nil
	}
	finalStatus := rec.Status
	m.mu.Unlock()
	m.publish(id, component.StatusStopping, finalStatus, stopErr)

	if stopErr != nil {
		return component.WrapError(component.PluginError, "stop failed", stopErr)
	}
	return nil
}

// Update replaces id's config/plugin. If running, performs stop -> replace
// -> start and must end Running on success; if not running,
// the config/plugin is replaced in place.
func (m *Manager[TConfig, C]) Update(ctx context.Context, id string, cfg TConfig, plugin C, start StartFunc) error {
	rec, err := m.lockedRecord(id)
	if err != nil {
		return err
	}

	m.mu.RLock()
	wasRunning := rec.Status == component.StatusRunning
	m.mu.RUnlock()

	if wasRunning {
		if err := m.stop(ctx, id); err != nil {
			return err
		}
	}

	m.mu.Lock()
	rec.Config = cfg
	rec.Plugin = plugin
	m.mu.Unlock()

	if wasRunning {
		return m.Start(ctx, id, start)
	}
	return nil
}

// Delete removes id's record. If running, stops it first; teardown (router
// unsubscription) runs before the record is removed.
func (m *Manager[TConfig, C]) Delete(ctx context.Context, id string, teardown func()) error {
	rec, err := m.lockedRecord(id)
	if err != nil {
		return err
	}

	m.mu.RLock()
	running := rec.Status == component.StatusRunning || rec.Status == component.StatusStarting
	m.mu.RUnlock()

	if running {
		if err := m.stop(ctx, id); err != nil {
			return err
		}
	}

	if teardown != nil {
		teardown()
	}

	m.mu.Lock()
	delete(m.records, id)
	m.mu.Unlock()
	metrics.ResetComponent(m.class, id)
	return nil
}

// ListItem is one entry of List's result.
type ListItem struct {
	ID     string
	Status component.Status
}

func (m *Manager[TConfig, C]) List() []ListItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ListItem, 0, len(m.records))
	for id, rec := range m.records {
		out = append(out, ListItem{ID: id, Status: rec.Status})
	}
	return out
}

// Get returns the full domain configuration plus current status.
func (m *Manager[TConfig, C]) Get(id string) (TConfig, component.Status, error) {
	rec, err := m.lockedRecord(id)
	if err != nil {
		var zero TConfig
		return zero, "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return rec.Config, rec.Status, nil
}

// Plugin returns the live plugin instance behind id.
func (m *Manager[TConfig, C]) Plugin(id string) (C, error) {
	rec, err := m.lockedRecord(id)
	if err != nil {
		var zero C
		return zero, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return rec.Plugin, nil
}

// Exists reports whether id is currently registered.
func (m *Manager[TConfig, C]) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[id]
	return ok
}

func (m *Manager[TConfig, C]) lockedRecord(id string) (*Record[TConfig, C], error) {
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, component.NewNotFoundError(string(m.class), id)
	}
	return rec, nil
}
