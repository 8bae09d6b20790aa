package mapping

import "github.com/drasi-project/drasi-server/internal/configvalue"

// ResolveParam resolves params[key] (every plugin parameter map is
// string-keyed and string-valued) then parses the resolved
// string via parse. A missing key returns def without error, so plugin
// mappers can express defaults declaratively instead of checking presence
// themselves.
func ResolveParam[T any](r *Resolver, params map[string]configvalue.Value[string], key string, parse func(string) (T, error), def T) (T, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	s, err := ResolveString(r, v)
	if err != nil {
		return def, err
	}
	val, err := parse(s)
	if err != nil {
		return def, newResolverError(ErrParse, key, err.Error())
	}
	return val, nil
}

// RequireParam is ResolveParam for a mandatory key: a missing key is a
// parse error naming the field, rather than silently defaulting.
func RequireParam[T any](r *Resolver, params map[string]configvalue.Value[string], key string, parse func(string) (T, error)) (T, error) {
	var zero T
	v, ok := params[key]
	if !ok {
		return zero, newResolverError(ErrParse, key, "required parameter is missing")
	}
	s, err := ResolveString(r, v)
	if err != nil {
		return zero, err
	}
	val, err := parse(s)
	if err != nil {
		return zero, newResolverError(ErrParse, key, err.Error())
	}
	return val, nil
}
