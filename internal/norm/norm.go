// Package norm holds the small config helpers component normalizers share:
// numeric coercion, clamping, and defaulting on untyped config maps.
package norm

import (
	"fmt"
	"strconv"
)

// Int reads cfg[key] as an integer. Numeric strings are coerced, so a
// manifest author writing port: "8080" still resolves to a number.
func Int(cfg map[string]any, key string) (int64, bool) {
	switch v := cfg[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

// CoerceInt rewrites cfg[key] to an int64 when it holds a coercible value.
func CoerceInt(cfg map[string]any, key string) {
	if i, ok := Int(cfg, key); ok {
		cfg[key] = i
	}
}

// ClampInt limits cfg[key] to [min, max] and returns a warning when it had
// to adjust the value. Absent or non-numeric values are left alone.
func ClampInt(cfg map[string]any, key string, min, max int64) []string {
	i, ok := Int(cfg, key)
	if !ok {
		return nil
	}
	clamped := i
	if clamped < min {
		clamped = min
	}
	if clamped > max {
		clamped = max
	}
	cfg[key] = clamped
	if clamped != i {
		return []string{fmt.Sprintf("%s %d is outside the supported range [%d, %d], adjusted to %d", key, i, min, max, clamped)}
	}
	return nil
}

// SetDefault sets cfg[key] to value when the key is absent. An explicit
// null counts as present and is left untouched.
func SetDefault(cfg map[string]any, key string, value any) {
	if _, ok := cfg[key]; !ok {
		cfg[key] = value
	}
}

// Nested returns cfg[key] as a map when it is one.
func Nested(cfg map[string]any, key string) (map[string]any, bool) {
	m, ok := cfg[key].(map[string]any)
	return m, ok
}
