package schemaval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/platformctl/internal/manifest"
)

func validTestManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Service: "checkout",
		Owner:   "team-payments",
		Components: []*manifest.ComponentSpec{
			{Name: "api", Type: "ecs-service", Config: map[string]any{"port": 8080}},
			{
				Name: "worker",
				Type: "ecs-service",
				Binds: []*manifest.Binding{
					{To: "api", Capability: "service:http", Access: "read"},
				},
			},
		},
	}
}

func TestValidateManifestAccepts(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateManifest(validTestManifest()))
}

func TestValidateManifestMissingOwner(t *testing.T) {
	v := New()
	m := validTestManifest()
	m.Owner = ""

	err := v.ValidateManifest(m)
	require.Error(t, err)

	var missingErr *MissingRequiredFieldError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"owner"}, missingErr.Fields)
	require.Len(t, missingErr.Violations(), 1)
	assert.Equal(t, "owner", missingErr.Violations()[0].Path)
}

func TestValidateManifestCollectsAllViolations(t *testing.T) {
	v := New()
	m := validTestManifest()
	m.Service = "My_Service"                            // fails the name pattern
	m.Components[1].Binds[0].Access = "root"            // not in the access enum
	m.Components[1].Binds[0].Capability = "no-colon"    // fails the capability pattern
	m.Components = append(m.Components, m.Components[0]) // duplicate name "api"

	err := v.ValidateManifest(m)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "manifest", valErr.Scope)

	paths := make([]string, 0, len(valErr.List))
	for _, violation := range valErr.List {
		paths = append(paths, violation.Path)
	}
	assert.Contains(t, paths, "service")
	assert.Contains(t, paths, "components[1].binds[0].access")
	assert.Contains(t, paths, "components[1].binds[0].capability")
	assert.Contains(t, paths, "components[2].name")
	assert.GreaterOrEqual(t, len(valErr.List), 4, "every violation should be collected in one pass")
	assert.Contains(t, err.Error(), "schema validation of manifest failed")
}

func TestValidateManifestDuplicateNameMessage(t *testing.T) {
	v := New()
	m := validTestManifest()
	m.Components[1].Name = "api"
	m.Components[1].Binds = nil

	err := v.ValidateManifest(m)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	require.Len(t, valErr.List, 1)
	assert.Equal(t, "components[1].name", valErr.List[0].Path)
	assert.Contains(t, valErr.List[0].Message, `duplicate component name "api"`)
	assert.Contains(t, valErr.List[0].Message, "first declared at components[0]")
}

func TestValidateManifestBadComplianceFramework(t *testing.T) {
	v := New()
	m := validTestManifest()
	m.ComplianceFramework = "secret"

	err := v.ValidateManifest(m)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	require.Len(t, valErr.List, 1)
	assert.Equal(t, "complianceFramework", valErr.List[0].Path)
	assert.Equal(t, "secret", valErr.List[0].Value)
}

const portSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "port": {"type": "integer", "minimum": 1, "maximum": 65535}
  },
  "required": ["port"]
}`

func TestValidateConfig(t *testing.T) {
	v := New()

	t.Run("valid config passes", func(t *testing.T) {
		err := v.ValidateConfig(`component "api" (web)`, "web", portSchema, map[string]any{"port": int64(8080)})
		assert.NoError(t, err)
	})

	t.Run("violations carry the component scope", func(t *testing.T) {
		err := v.ValidateConfig(`component "api" (web)`, "web", portSchema, map[string]any{"port": "eighty"})
		require.Error(t, err)

		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, `component "api" (web)`, valErr.Scope)
		require.NotEmpty(t, valErr.List)
		assert.Equal(t, "port", valErr.List[0].Path)
		assert.Equal(t, "eighty", valErr.List[0].Value)
	})

	t.Run("uncompilable schema is reported", func(t *testing.T) {
		err := v.ValidateConfig("x", "broken", `{"type": 42}`, map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `schema for component type "broken" does not compile`)
	})
}

func TestCompileTypeMemoizes(t *testing.T) {
	v := New()

	first, err := v.CompileType("web", portSchema)
	require.NoError(t, err)

	// Second call returns the cached schema, ignoring the new source.
	second, err := v.CompileType("web", `{"type": "garbage"`)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestPointerToPath(t *testing.T) {
	testCases := map[string]string{
		"":                          "",
		"/":                         "",
		"/service":                  "service",
		"/components/2/config/port": "components[2].config.port",
		"/components/0/binds/1/to":  "components[0].binds[1].to",
	}
	for ptr, want := range testCases {
		assert.Equal(t, want, pointerToPath(ptr), ptr)
	}
}
