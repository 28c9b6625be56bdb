package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/platformctl/internal/schemaval"
)

const testSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "size": {"type": "integer", "minimum": 1}
  }
}`

func testEntry(componentType string) *Entry {
	return &Entry{
		Type:         componentType,
		Schema:       testSchema,
		Fallbacks:    map[string]any{"size": 1},
		Capabilities: []string{"cache:redis"},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	r.RegisterEntry(testEntry("cache"))

	entry, err := r.Lookup(context.Background(), "cache")
	require.NoError(t, err)
	assert.Equal(t, "cache", entry.Type)

	_, err = r.Lookup(context.Background(), "missing")
	require.Error(t, err)
	var unknownErr *UnknownComponentTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "missing", unknownErr.ComponentType)
	assert.Contains(t, err.Error(), `unknown component type "missing"`)
}

func TestRegisterEntryPanics(t *testing.T) {
	r := New()
	r.RegisterEntry(testEntry("cache"))

	assert.PanicsWithValue(t, "component type 'cache' already registered", func() {
		r.RegisterEntry(testEntry("cache"))
	})
	assert.Panics(t, func() {
		r.RegisterEntry(&Entry{})
	})
}

func TestTypesSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"vpc", "cache", "queue"} {
		r.RegisterEntry(testEntry(name))
	}
	assert.Equal(t, []string{"cache", "queue", "vpc"}, r.Types())
}

func TestProvides(t *testing.T) {
	entry := testEntry("cache")
	assert.True(t, entry.Provides("cache:redis"))
	assert.False(t, entry.Provides("db:postgres"))
}

func TestValidate(t *testing.T) {
	t.Run("healthy registry passes", func(t *testing.T) {
		r := New()
		r.RegisterEntry(testEntry("cache"))
		assert.NoError(t, r.Validate(context.Background(), schemaval.New()))
	})

	t.Run("uncompilable schema fails", func(t *testing.T) {
		r := New()
		entry := testEntry("cache")
		entry.Schema = `{"type": 42}`
		r.RegisterEntry(entry)

		err := r.Validate(context.Background(), schemaval.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registry validation failed")
	})

	t.Run("fallbacks violating own schema fail", func(t *testing.T) {
		r := New()
		entry := testEntry("cache")
		entry.Fallbacks = map[string]any{"size": 0}
		r.RegisterEntry(entry)

		err := r.Validate(context.Background(), schemaval.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hardcoded fallbacks do not satisfy own schema")
	})
}

// stubSource serves a fixed entry table for layering tests.
type stubSource struct {
	entries map[string]*Entry
	err     error
}

func (s *stubSource) Lookup(_ context.Context, componentType string) (*Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	entry, ok := s.entries[componentType]
	if !ok {
		return nil, &UnknownComponentTypeError{ComponentType: componentType}
	}
	return entry, nil
}

func TestLayeredLookup(t *testing.T) {
	builtin := &stubSource{entries: map[string]*Entry{"cache": testEntry("cache")}}
	remote := &stubSource{entries: map[string]*Entry{"exotic": testEntry("exotic")}}

	t.Run("first source wins", func(t *testing.T) {
		entry, err := Layered{builtin, remote}.Lookup(context.Background(), "cache")
		require.NoError(t, err)
		assert.Equal(t, "cache", entry.Type)
	})

	t.Run("unknown type falls through", func(t *testing.T) {
		entry, err := Layered{builtin, remote}.Lookup(context.Background(), "exotic")
		require.NoError(t, err)
		assert.Equal(t, "exotic", entry.Type)
	})

	t.Run("unknown everywhere", func(t *testing.T) {
		_, err := Layered{builtin, remote}.Lookup(context.Background(), "nope")
		var unknownErr *UnknownComponentTypeError
		assert.ErrorAs(t, err, &unknownErr)
	})

	t.Run("infrastructure error stops the chain", func(t *testing.T) {
		broken := &stubSource{err: assert.AnError}
		_, err := Layered{broken, remote}.Lookup(context.Background(), "exotic")
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("empty chain", func(t *testing.T) {
		_, err := Layered{}.Lookup(context.Background(), "cache")
		var unknownErr *UnknownComponentTypeError
		assert.ErrorAs(t, err, &unknownErr)
	})
}
