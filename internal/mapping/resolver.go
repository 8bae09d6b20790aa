package mapping

import (
	"errors"
	"fmt"
	"os"

	"github.com/drasi-project/drasi-server/internal/configvalue"
)

// ErrorKind tags the resolver failure taxonomy from original_source's
// ResolverError enum.
type ErrorKind string

const (
	ErrEnvVarNotFound    ErrorKind = "EnvVarNotFound"
	ErrNotImplemented    ErrorKind = "NotImplemented"
	ErrNoResolverFound   ErrorKind = "NoResolverFound"
	ErrWrongResolverKind ErrorKind = "WrongResolverType"
	ErrParse             ErrorKind = "ParseError"
)

// ResolverError is returned by every Resolve* operation; Ref names the
// configvalue reference name involved, when applicable.
type ResolverError struct {
	Kind ErrorKind
	Ref  string
	Msg  string
}

func (e *ResolverError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Ref)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newResolverError(kind ErrorKind, ref, msg string) *ResolverError {
	return &ResolverError{Kind: kind, Ref: ref, Msg: msg}
}

// Resolver turns configvalue.Value references into concrete values. It is
// stateless beyond the environment snapshot it reads at call time, so tests
// can interpose known environment values.
type Resolver struct {
	// LookupEnv defaults to os.LookupEnv; overridable for deterministic tests.
	LookupEnv func(string) (string, bool)
}

// NewResolver constructs a Resolver reading from the real process environment.
func NewResolver() *Resolver {
	return &Resolver{LookupEnv: os.LookupEnv}
}

func (r *Resolver) lookupEnv(name string) (string, bool) {
	if r.LookupEnv != nil {
		return r.LookupEnv(name)
	}
	return os.LookupEnv(name)
}

// resolveRefToString resolves the EnvRef/Secret portion of any Value[T] to
// its raw string form; callers holding a Literal never reach this path.
func (r *Resolver) resolveRefToString(kind configvalue.Kind, envName string, envDefault *string, secretName string) (string, error) {
	switch kind {
	case configvalue.KindEnvRef:
		if val, ok := r.lookupEnv(envName); ok {
			return val, nil
		}
		if envDefault != nil {
			return *envDefault, nil
		}
		return "", newResolverError(ErrEnvVarNotFound, envName, "environment variable not found and no default provided")
	case configvalue.KindSecret:
		return "", newResolverError(ErrNotImplemented, secretName, "secret resolution not yet implemented")
	default:
		return "", newResolverError(ErrNoResolverFound, "", "value has no kind")
	}
}

// ResolveString resolves a Value[string], passing a Literal through
// unconverted and consulting the environment for EnvRef variants.
func ResolveString(r *Resolver, v configvalue.Value[string]) (string, error) {
	if lit, ok := v.Literal(); ok {
		return lit, nil
	}
	if name, def, ok := v.EnvRef(); ok {
		return r.resolveRefToString(configvalue.KindEnvRef, name, def, "")
	}
	if name, ok := v.SecretRef(); ok {
		return r.resolveRefToString(configvalue.KindSecret, "", nil, name)
	}
	return "", newResolverError(ErrNoResolverFound, "", "value has no kind")
}

// ResolveTyped resolves v: a Literal passes through unconverted (no string
// round-trip, preserving precision); an EnvRef/Secret resolves
// to a string first and is then parsed via parse. Go has no FromStr trait,
// so the caller supplies the parse function (e.g. strconv.Atoi) in place of
// a generic trait bound.
func ResolveTyped[T any](r *Resolver, v configvalue.Value[T], parse func(string) (T, error)) (T, error) {
	var zero T
	if lit, ok := v.Literal(); ok {
		return lit, nil
	}

	var (
		s   string
		err error
		ref string
	)
	if name, def, ok := v.EnvRef(); ok {
		ref = name
		s, err = r.resolveRefToString(configvalue.KindEnvRef, name, def, "")
	} else if name, ok := v.SecretRef(); ok {
		ref = name
		s, err = r.resolveRefToString(configvalue.KindSecret, "", nil, name)
	} else {
		return zero, newResolverError(ErrNoResolverFound, "", "value has no kind")
	}
	if err != nil {
		return zero, err
	}

	val, err := parse(s)
	if err != nil {
		return zero, newResolverError(ErrParse, ref, err.Error())
	}
	return val, nil
}

// ResolveOptional resolves *v if present, returning (zero, false, nil) for a
// nil pointer and propagating errors from a present value.
func ResolveOptional[T any](r *Resolver, v *configvalue.Value[T], parse func(string) (T, error)) (T, bool, error) {
	var zero T
	if v == nil {
		return zero, false, nil
	}
	val, err := ResolveTyped(r, *v, parse)
	if err != nil {
		return zero, false, err
	}
	return val, true, nil
}

// IsEnvVarNotFound reports whether err is a ResolverError of kind EnvVarNotFound.
func IsEnvVarNotFound(err error) bool {
	var re *ResolverError
	if errors.As(err, &re) {
		return re.Kind == ErrEnvVarNotFound
	}
	return false
}

// IsParseError reports whether err is a ResolverError of kind ParseError.
func IsParseError(err error) bool {
	var re *ResolverError
	if errors.As(err, &re) {
		return re.Kind == ErrParse
	}
	return false
}

// IsNotImplemented reports whether err is a ResolverError of kind NotImplemented.
func IsNotImplemented(err error) bool {
	var re *ResolverError
	if errors.As(err, &re) {
		return re.Kind == ErrNotImplemented
	}
	return false
}
