// Package scriptfile implements the ScriptFile bootstrap provider kind: it
// replays a fixed sequence of rows recorded in a YAML file (via
// gopkg.in/yaml.v3), for deterministic local testing and demos without a
// live upstream system.
package scriptfile
