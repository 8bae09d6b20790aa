package configvalue

import (
	"encoding/json"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Kind tags which variant a Value carries.
type Kind string

const (
	KindLiteral Kind = "Literal"
	KindEnvRef  Kind = "EnvironmentVariable"
	KindSecret  Kind = "Secret"
)

// Value is a tagged carrier for a configuration field that may be given
// directly (Literal), indirected through an environment variable (EnvRef,
// with an optional default), or indirected through an external secret store
// (Secret, which always fails resolution today — a forward-compat hook).
//
// Zero value is the zero Kind (""), which is invalid; always construct via
// NewLiteral, NewEnvRef, or NewSecretRef.
type Value[T any] struct {
	kind Kind
	lit  T

	envName    string
	envDefault *string

	secretName string
}

// NewLiteral wraps a concrete value.
func NewLiteral[T any](v T) Value[T] {
	return Value[T]{kind: KindLiteral, lit: v}
}

// NewEnvRef builds an environment-variable reference, with an optional
// default applied when the variable is unset.
func NewEnvRef[T any](name string, def *string) Value[T] {
	return Value[T]{kind: KindEnvRef, envName: name, envDefault: def}
}

// NewSecretRef builds a secret reference. Resolution of this variant always
// fails today (see package mapping's Resolver).
func NewSecretRef[T any](name string) Value[T] {
	return Value[T]{kind: KindSecret, secretName: name}
}

func (v Value[T]) Kind() Kind { return v.kind }

// Literal returns the wrapped value and true iff this is a Literal variant.
func (v Value[T]) Literal() (T, bool) {
	var zero T
	if v.kind != KindLiteral {
		return zero, false
	}
	return v.lit, true
}

// EnvRef returns the referenced name and default and true iff this is an
// EnvironmentVariable variant.
func (v Value[T]) EnvRef() (name string, def *string, ok bool) {
	if v.kind != KindEnvRef {
		return "", nil, false
	}
	return v.envName, v.envDefault, true
}

// SecretRef returns the referenced name and true iff this is a Secret variant.
func (v Value[T]) SecretRef() (name string, ok bool) {
	if v.kind != KindSecret {
		return "", false
	}
	return v.secretName, true
}

var posixEnvRef = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)(:-(.*))?\}$`)

// parsePOSIXShorthand recognizes "${NAME}" and "${NAME:-default}".
func parsePOSIXShorthand(s string) (name string, def *string, ok bool) {
	m := posixEnvRef.FindStringSubmatch(s)
	if m == nil {
		return "", nil, false
	}
	name = m[1]
	if m[2] != "" {
		d := m[3]
		return name, &d, true
	}
	return name, nil, true
}

type refObject struct {
	Kind    string  `yaml:"kind" json:"kind"`
	Name    string  `yaml:"name" json:"name"`
	Default *string `yaml:"default,omitempty" json:"default,omitempty"`
}

// UnmarshalYAML accepts, in order: the discriminated object form
// {kind,name,default?}, the POSIX shorthand string "${NAME}"/"${NAME:-def}",
// and finally a plain literal of type T.
func (v *Value[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var obj refObject
		if err := node.Decode(&obj); err == nil && obj.Kind != "" {
			switch obj.Kind {
			case string(KindEnvRef):
				*v = NewEnvRef[T](obj.Name, obj.Default)
				return nil
			case string(KindSecret):
				*v = NewSecretRef[T](obj.Name)
				return nil
			default:
				return fmt.Errorf("configvalue: unknown reference kind %q", obj.Kind)
			}
		}
	}

	if node.Kind == yaml.ScalarNode {
		if name, def, ok := parsePOSIXShorthand(node.Value); ok {
			*v = NewEnvRef[T](name, def)
			return nil
		}
	}

	var lit T
	if err := node.Decode(&lit); err != nil {
		return fmt.Errorf("configvalue: cannot decode literal: %w", err)
	}
	*v = NewLiteral(lit)
	return nil
}

// MarshalYAML emits the literal bare, or the discriminated object form for
// references, so that references round-trip through persistence verbatim
// (see internal/config's snapshot/save path).
func (v Value[T]) MarshalYAML() (any, error) {
	switch v.kind {
	case KindLiteral:
		return v.lit, nil
	case KindEnvRef:
		return refObject{Kind: string(KindEnvRef), Name: v.envName, Default: v.envDefault}, nil
	case KindSecret:
		return refObject{Kind: string(KindSecret), Name: v.secretName}, nil
	default:
		return nil, fmt.Errorf("configvalue: empty Value has no representation")
	}
}

// UnmarshalJSON mirrors UnmarshalYAML for the brace-based alternate encoding.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case map[string]any:
		var obj refObject
		if err := json.Unmarshal(data, &obj); err == nil && obj.Kind != "" {
			switch obj.Kind {
			case string(KindEnvRef):
				*v = NewEnvRef[T](obj.Name, obj.Default)
				return nil
			case string(KindSecret):
				*v = NewSecretRef[T](obj.Name)
				return nil
			default:
				return fmt.Errorf("configvalue: unknown reference kind %q", obj.Kind)
			}
		}
		_ = val
	case string:
		if name, def, ok := parsePOSIXShorthand(val); ok {
			*v = NewEnvRef[T](name, def)
			return nil
		}
	}

	var lit T
	if err := json.Unmarshal(data, &lit); err != nil {
		return fmt.Errorf("configvalue: cannot decode literal: %w", err)
	}
	*v = NewLiteral(lit)
	return nil
}

// MarshalJSON mirrors MarshalYAML.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindLiteral:
		return json.Marshal(v.lit)
	case KindEnvRef:
		return json.Marshal(refObject{Kind: string(KindEnvRef), Name: v.envName, Default: v.envDefault})
	case KindSecret:
		return json.Marshal(refObject{Kind: string(KindSecret), Name: v.secretName})
	default:
		return nil, fmt.Errorf("configvalue: empty Value has no representation")
	}
}
