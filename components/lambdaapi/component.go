// Package lambdaapi registers the lambda-api component type: an HTTP API
// backed by a function runtime.
package lambdaapi

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
    "runtime": {"enum": ["nodejs20.x", "nodejs22.x", "python3.12", "python3.13", "go1.x"]},
    "handler": {"type": "string", "minLength": 1},
    "memoryMB": {"type": "integer", "minimum": 128, "maximum": 10240},
    "timeoutSeconds": {"type": "integer", "minimum": 1, "maximum": 900},
    "tracing": {"type": "boolean"},
    "logRetentionDays": {"type": "integer", "minimum": 1, "maximum": 3653},
    "environment": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  }
}`

func normalize(cfg map[string]any) []string {
	var warnings []string
	norm.CoerceInt(cfg, "memoryMB")
	warnings = append(warnings, norm.ClampInt(cfg, "timeoutSeconds", 1, 900)...)
	return warnings
}

// Register registers the component type with the registry.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterEntry(&registry.Entry{
		Type:   "lambda-api",
		Schema: schema,
		Fallbacks: map[string]any{
			"runtime":        "nodejs20.x",
			"handler":        "index.handler",
			"memoryMB":       128,
			"timeoutSeconds": 3,
			"tracing":        false,
		},
		Capabilities: []string{"api:rest"},
		Normalize:    normalize,
	})
}
