package norm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt(t *testing.T) {
	cfg := map[string]any{
		"int":     8080,
		"int64":   int64(8081),
		"float":   float64(8082),
		"numeric": "8083",
		"word":    "eight",
		"bool":    true,
	}

	for key, want := range map[string]int64{"int": 8080, "int64": 8081, "float": 8082, "numeric": 8083} {
		got, ok := Int(cfg, key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	for _, key := range []string{"word", "bool", "missing"} {
		_, ok := Int(cfg, key)
		assert.False(t, ok, key)
	}
}

func TestCoerceInt(t *testing.T) {
	cfg := map[string]any{"port": "8080", "name": "api"}

	CoerceInt(cfg, "port")
	assert.Equal(t, int64(8080), cfg["port"])

	CoerceInt(cfg, "name")
	assert.Equal(t, "api", cfg["name"])
}

func TestClampInt(t *testing.T) {
	t.Run("below range", func(t *testing.T) {
		cfg := map[string]any{"retentionInDays": 0}
		warnings := ClampInt(cfg, "retentionInDays", 1, 3653)
		assert.Equal(t, int64(1), cfg["retentionInDays"])
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "outside the supported range")
	})

	t.Run("above range", func(t *testing.T) {
		cfg := map[string]any{"backupRetentionDays": 99}
		warnings := ClampInt(cfg, "backupRetentionDays", 0, 35)
		assert.Equal(t, int64(35), cfg["backupRetentionDays"])
		assert.Len(t, warnings, 1)
	})

	t.Run("in range is silent", func(t *testing.T) {
		cfg := map[string]any{"backupRetentionDays": 7}
		warnings := ClampInt(cfg, "backupRetentionDays", 0, 35)
		assert.Equal(t, int64(7), cfg["backupRetentionDays"])
		assert.Empty(t, warnings)
	})

	t.Run("absent key untouched", func(t *testing.T) {
		cfg := map[string]any{}
		assert.Empty(t, ClampInt(cfg, "missing", 0, 35))
		assert.Empty(t, cfg)
	})
}

func TestSetDefault(t *testing.T) {
	cfg := map[string]any{"present": "yes", "null": nil}

	SetDefault(cfg, "present", "no")
	SetDefault(cfg, "null", "no")
	SetDefault(cfg, "absent", "filled")

	assert.Equal(t, "yes", cfg["present"])
	assert.Nil(t, cfg["null"])
	assert.Equal(t, "filled", cfg["absent"])
}

func TestNested(t *testing.T) {
	cfg := map[string]any{"autoscaling": map[string]any{"min": 1}, "flat": 1}

	m, ok := Nested(cfg, "autoscaling")
	require.True(t, ok)
	assert.Equal(t, 1, m["min"])

	_, ok = Nested(cfg, "flat")
	assert.False(t, ok)
	_, ok = Nested(cfg, "missing")
	assert.False(t, ok)
}
