package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManifest() *Manifest {
	return &Manifest{
		Service: "checkout",
		Owner:   "team-payments",
		Components: []*ComponentSpec{
			{
				Name: "api",
				Type: "ecs-service",
				Config: map[string]any{
					"port": 8080,
					"autoscaling": map[string]any{
						"min": 1,
						"max": 4,
					},
					"placementStrategies": []any{"spread-az"},
				},
				Binds: []*Binding{
					{To: "db", Capability: "db:postgres", Access: "readwrite", Env: map[string]string{"DB_HOST": "db"}},
				},
			},
			{Name: "db", Type: "rds-postgres"},
		},
		Environments: map[string]*EnvironmentDefaults{
			"dev": {Defaults: map[string]any{"REGION": "us-west-2"}},
		},
		Tags: map[string]string{"team": "payments"},
		Governance: &Governance{
			CDKNag: &CDKNag{
				Suppress: []*Suppression{
					{ID: "AwsSolutions-IAM4", Justification: "managed policy is fine here", Owner: "team-payments", ExpiresOn: "2027-01-01"},
				},
			},
		},
	}
}

func TestComponentLookup(t *testing.T) {
	m := newTestManifest()

	require.NotNil(t, m.Component("db"))
	assert.Equal(t, "rds-postgres", m.Component("db").Type)
	assert.Nil(t, m.Component("missing"))
}

func TestSuppressions(t *testing.T) {
	m := newTestManifest()
	require.Len(t, m.Suppressions(), 1)

	assert.Nil(t, (&Manifest{}).Suppressions())
	assert.Nil(t, (&Manifest{Governance: &Governance{}}).Suppressions())
}

func TestDeepCopyIsIndependent(t *testing.T) {
	original := newTestManifest()
	copied := original.DeepCopy()

	require.Equal(t, original, copied)

	// Mutating the copy at every depth must not leak into the original.
	copied.Service = "other"
	copied.Components[0].Config["port"] = 9090
	copied.Components[0].Config["autoscaling"].(map[string]any)["max"] = 99
	copied.Components[0].Binds[0].Env["DB_HOST"] = "elsewhere"
	copied.Environments["dev"].Defaults["REGION"] = "eu-central-1"
	copied.Tags["team"] = "platform"
	copied.Governance.CDKNag.Suppress[0].ExpiresOn = "1999-01-01"

	assert.Equal(t, "checkout", original.Service)
	assert.Equal(t, 8080, original.Components[0].Config["port"])
	assert.Equal(t, 4, original.Components[0].Config["autoscaling"].(map[string]any)["max"])
	assert.Equal(t, "db", original.Components[0].Binds[0].Env["DB_HOST"])
	assert.Equal(t, "us-west-2", original.Environments["dev"].Defaults["REGION"])
	assert.Equal(t, "payments", original.Tags["team"])
	assert.Equal(t, "2027-01-01", original.Governance.CDKNag.Suppress[0].ExpiresOn)
}

func TestCopyValue(t *testing.T) {
	src := map[string]any{
		"list":   []any{1, map[string]any{"k": "v"}},
		"scalar": "s",
		"null":   nil,
	}
	copied, ok := CopyValue(src).(map[string]any)
	require.True(t, ok)
	require.Equal(t, src, copied)

	copied["list"].([]any)[1].(map[string]any)["k"] = "changed"
	assert.Equal(t, "v", src["list"].([]any)[1].(map[string]any)["k"])
}
