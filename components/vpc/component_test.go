package vpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/platformctl/internal/registry"
	"github.com/vk/platformctl/internal/schemaval"
)

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Component{}).Register(r)

	entry, err := r.Lookup(context.Background(), "vpc")
	require.NoError(t, err)
	assert.True(t, entry.Provides("net:vpc"))
	assert.NoError(t, r.Validate(context.Background(), schemaval.New()))
}

func TestNormalizeReducesNatGateways(t *testing.T) {
	cfg := map[string]any{"natGateways": 4, "maxAzs": 2}
	warnings := normalize(cfg)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "reduced to 2")
	assert.Equal(t, int64(2), cfg["natGateways"])
}

func TestNormalizeKeepsOrderedValues(t *testing.T) {
	cfg := map[string]any{"natGateways": 2, "maxAzs": 3}
	assert.Empty(t, normalize(cfg))
	assert.Equal(t, int64(2), cfg["natGateways"])
	assert.Equal(t, int64(3), cfg["maxAzs"])
}
