// Package sqsqueue registers the sqs-queue component type: a message queue
// providing the queue:sqs capability.
package sqsqueue

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
    "fifo": {"type": "boolean"},
    "contentBasedDeduplication": {"type": "boolean"},
    "visibilityTimeoutSeconds": {"type": "integer", "minimum": 0, "maximum": 43200},
    "messageRetentionSeconds": {"type": "integer", "minimum": 60, "maximum": 1209600},
    "dlq": {
      "type": "object",
      "properties": {
        "maxReceiveCount": {"type": "integer", "minimum": 1}
      }
    }
  }
}`

func normalize(cfg map[string]any) []string {
	var warnings []string
	warnings = append(warnings, norm.ClampInt(cfg, "visibilityTimeoutSeconds", 0, 43200)...)
	if fifo, ok := cfg["fifo"].(bool); ok && fifo {
		// FIFO queues need a deduplication strategy; default to content based.
		norm.SetDefault(cfg, "contentBasedDeduplication", true)
	}
	return warnings
}

// Register registers the component type with the registry.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterEntry(&registry.Entry{
		Type:   "sqs-queue",
		Schema: schema,
		Fallbacks: map[string]any{
			"fifo":                     false,
			"visibilityTimeoutSeconds": 30,
			"messageRetentionSeconds":  345600,
		},
		Capabilities: []string{"queue:sqs"},
		Normalize:    normalize,
	})
}
