// Package vpc registers the vpc component type: the network a service's
// other components are placed into.
package vpc

import (
	"fmt"

	"github.com/vk/platformctl/internal/norm"
	"github.com/vk/platformctl/internal/registry"
)

// Component implements the registry.Component interface for this package.
type Component struct{}

const schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "cidr": {"type": "string", "pattern": "^[0-9]+\\.[0-9]+\\.[0-9]+\\.[0-9]+/[0-9]+$"},
    "natGateways": {"type": "integer", "minimum": 0, "maximum": 6},
    "maxAzs": {"type": "integer", "minimum": 1, "maximum": 6},
    "flowLogs": {"type": "boolean"}
  }
}`

func normalize(cfg map[string]any) []string {
	var warnings []string
	norm.CoerceInt(cfg, "natGateways")
	norm.CoerceInt(cfg, "maxAzs")

	gateways, hasGw := norm.Int(cfg, "natGateways")
	azs, hasAzs := norm.Int(cfg, "maxAzs")
	if hasGw && hasAzs && gateways > azs {
		cfg["natGateways"] = azs
		warnings = append(warnings, fmt.Sprintf("natGateways %d exceeds maxAzs %d, reduced to %d", gateways, azs, azs))
	}
	return warnings
}

// Register registers the component type with the registry.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterEntry(&registry.Entry{
		Type:   "vpc",
		Schema: schema,
		Fallbacks: map[string]any{
			"cidr":        "10.0.0.0/16",
			"natGateways": 1,
			"maxAzs":      2,
			"flowLogs":    false,
		},
		Capabilities: []string{"net:vpc"},
		Normalize:    normalize,
	})
}
