// Package ecsservice registers the ecs-service component type: a long
// running container service with optional autoscaling.
package ecsservice

import (
	"fmt"
	"strings"

	"github.com/vk/platformctl/internal/norm"
	"github.com/vk/platformctl/internal/registry"
)

// Component implements the registry.Component interface for this package.
type Component struct{}

const schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "image": {"type": "string", "minLength": 1},
    "port": {"type": "integer", "minimum": 1, "maximum": 65535},
    "cpu": {"type": "integer", "minimum": 128},
    "memoryMiB": {"type": "integer", "minimum": 256},
    "desiredCount": {"type": "integer", "minimum": 0},
    "autoscaling": {
      "type": "object",
      "properties": {
        "min": {"type": "integer", "minimum": 0},
        "max": {"type": "integer", "minimum": 0}
      }
    },
    "logRetentionDays": {"type": "integer", "minimum": 1, "maximum": 3653},
    "placementStrategies": {
      "type": "array",
      "items": {"type": "string"}
    },
    "environment": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "rootAccessEnabled": {"type": "boolean"}
  }
}`

// normalize fills the image tag, coerces the port, and keeps the
// autoscaling bounds ordered.
func normalize(cfg map[string]any) []string {
	var warnings []string

	if image, ok := cfg["image"].(string); ok && image != "" && !strings.Contains(image, ":") {
		cfg["image"] = image + ":latest"
	}
	norm.CoerceInt(cfg, "port")
	norm.CoerceInt(cfg, "desiredCount")

	if scaling, ok := norm.Nested(cfg, "autoscaling"); ok {
		min, hasMin := norm.Int(scaling, "min")
		max, hasMax := norm.Int(scaling, "max")
		if hasMin && hasMax && min > max {
			scaling["max"] = min
			warnings = append(warnings, fmt.Sprintf("autoscaling.min %d exceeds autoscaling.max %d, raised max to %d", min, max, min))
		}
	}

	return warnings
}

// Register registers the component type with the registry.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterEntry(&registry.Entry{
		Type:   "ecs-service",
		Schema: schema,
		Fallbacks: map[string]any{
			"cpu":          256,
			"memoryMiB":    512,
			"port":         8080,
			"desiredCount": 1,
			"autoscaling": map[string]any{
				"min": 1,
				"max": 1,
			},
			"logRetentionDays":    30,
			"placementStrategies": []any{"spread-az"},
		},
		Capabilities: []string{"service:http"},
		Normalize:    normalize,
	})
}
