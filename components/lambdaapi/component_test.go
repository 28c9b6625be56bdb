package lambdaapi

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

	entry, err := r.Lookup(context.Background(), "lambda-api")
	require.NoError(t, err)
	assert.True(t, entry.Provides("api:rest"))
	assert.NoError(t, r.Validate(context.Background(), schemaval.New()))
}

func TestNormalizeClampsTimeout(t *testing.T) {
	cfg := map[string]any{"timeoutSeconds": 1200}
	warnings := normalize(cfg)

	require.Len(t, warnings, 1)
	assert.Equal(t, int64(900), cfg["timeoutSeconds"])
}
