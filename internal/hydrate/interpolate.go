package hydrate

import (
	"fmt"
	"regexp"
)

var (
	envTokenPattern = regexp.MustCompile(`\$\{env:([A-Za-z0-9_]+)\}`)
	envIsPattern    = regexp.MustCompile(`^\$\{envIs:([A-Za-z0-9_-]+)\}$`)
)

// walker carries the read-only hydration state shared across component
// subtrees.
type walker struct {
	targetEnv string
	defaults  map[string]any
	envNames  map[string]bool
}

// walk rewrites one value tree. Strings are interpolated; maps are checked
// for per-environment override unwrapping before recursing.
func (w *walker) walk(v any) any {
	switch val := v.(type) {
	case string:
		return w.interpolate(val)
	case map[string]any:
		if sub, ok := w.unwrapPerEnv(val); ok {
			return w.walk(sub)
		}
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = w.walk(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = w.walk(elem)
		}
		return out
	default:
		return v
	}
}

// walkString rewrites one string-typed field, flattening a boolean envIs
// result back into its string form.
func (w *walker) walkString(s string) string {
	if s == "" {
		return s
	}
	return fmt.Sprint(w.walk(s))
}

// walkStringMap rewrites every value of a string map (tags, labels, bind env
// vars). A nil map stays nil.
func (w *walker) walkStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = w.walkString(v)
	}
	return out
}

// interpolate applies the two token forms. A value that is exactly
// ${envIs:NAME} becomes a boolean, changing the value's type — the schema
// for that field has to accept it. ${env:KEY} tokens substitute inside the
// string; unknown keys leave the literal token untouched.
func (w *walker) interpolate(s string) any {
	if m := envIsPattern.FindStringSubmatch(s); m != nil {
		return w.targetEnv == m[1]
	}
	if w.defaults == nil {
		return s
	}
	return envTokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		key := envTokenPattern.FindStringSubmatch(token)[1]
		if v, ok := w.defaults[key]; ok {
			return fmt.Sprint(v)
		}
		return token
	})
}

// unwrapPerEnv detects a per-environment override map: a non-empty object
// whose keys are all declared environment names, with the target environment
// among them. Such an object collapses to the target environment's sub-value
// instead of being recursed into.
func (w *walker) unwrapPerEnv(m map[string]any) (any, bool) {
	if len(m) == 0 {
		return nil, false
	}
	hasTarget := false
	for k := range m {
		if !w.envNames[k] {
			return nil, false
		}
		if k == w.targetEnv {
			hasTarget = true
		}
	}
	if !hasTarget {
		return nil, false
	}
	return m[w.targetEnv], true
}
