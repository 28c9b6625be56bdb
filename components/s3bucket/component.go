// Package s3bucket registers the s3-bucket component type: object storage
// with encryption and lifecycle settings.
package s3bucket

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
    "versioned": {"type": "boolean"},
    "encryption": {"enum": ["aes256", "kms"]},
    "publicAccess": {"type": "boolean"},
    "lifecycleDays": {"type": "integer", "minimum": 1}
  }
}`

func normalize(cfg map[string]any) []string {
	var warnings []string
	norm.CoerceInt(cfg, "lifecycleDays")
	if public, ok := cfg["publicAccess"].(bool); ok && public {
		warnings = append(warnings, "publicAccess is enabled; the bucket contents will be world readable")
	}
	return warnings
}

// Register registers the component type with the registry.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterEntry(&registry.Entry{
		Type:   "s3-bucket",
		Schema: schema,
		Fallbacks: map[string]any{
			"versioned":    true,
			"encryption":   "aes256",
			"publicAccess": false,
		},
		Capabilities: []string{"storage:object"},
		Normalize:    normalize,
	})
}
