// Package rdspostgres registers the rds-postgres component type: a managed
// PostgreSQL instance providing the db:postgres capability.
package rdspostgres

import (
	"github.com/vk/platformctl/internal/norm"
	"github.com/vk/platformctl/internal/registry"
)

// Component implements the registry.Component interface for this package.
type Component struct{}

const schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "instanceClass": {"type": "string", "pattern": "^db\\."},
    "engineVersion": {"type": "string"},
    "storageGiB": {"type": "integer", "minimum": 20},
    "multiAz": {"type": "boolean"},
    "backupRetentionDays": {"type": "integer", "minimum": 0, "maximum": 35},
    "retentionInDays": {"type": "integer", "minimum": 1, "maximum": 3653},
    "deletionProtection": {"type": "boolean"}
  }
}`

func normalize(cfg map[string]any) []string {
	var warnings []string
	norm.CoerceInt(cfg, "storageGiB")
	warnings = append(warnings, norm.ClampInt(cfg, "backupRetentionDays", 0, 35)...)
	warnings = append(warnings, norm.ClampInt(cfg, "retentionInDays", 1, 3653)...)
	return warnings
}

// Register registers the component type with the registry.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterEntry(&registry.Entry{
		Type:   "rds-postgres",
		Schema: schema,
		Fallbacks: map[string]any{
			"instanceClass":       "db.t3.micro",
			"engineVersion":       "15",
			"storageGiB":          20,
			"multiAz":             false,
			"backupRetentionDays": 7,
			"retentionInDays":     30,
			"deletionProtection":  true,
		},
		Capabilities: []string{"db:postgres"},
		Normalize:    normalize,
	})
}
