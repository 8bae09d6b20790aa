// Package manager implements the Source/Query/Reaction component managers:
// each owns a keyed registry of components, enforces the lifecycle state
// machine, and publishes lifecycle events on the shared bus. One generic
// manager type is parameterized over each component class's config and
// plugin-instance types; state transitions call back into plugin code
// outside the registry lock, so a slow Start/Stop never blocks other
// registry operations.
package manager
