package resolver

import (
	"context"
	"fmt"

	"github.com/vk/platformctl/internal/ctxlog"
	"github.com/vk/platformctl/internal/ctyval"
	"github.com/vk/platformctl/internal/manifest"
	"github.com/vk/platformctl/internal/platformcfg"
	"github.com/vk/platformctl/internal/registry"
	"github.com/vk/platformctl/internal/schemaval"
)

// Resolver merges the five configuration layers for component instances.
// One Resolver serves a whole plan; it holds only read-only state and is
// safe for concurrent use by the pipeline's workers.
type Resolver struct {
	source    registry.Source
	platform  *platformcfg.Platform
	validator *schemaval.Validator
}

// New creates a Resolver.
func New(source registry.Source, platform *platformcfg.Platform, validator *schemaval.Validator) *Resolver {
	return &Resolver{source: source, platform: platform, validator: validator}
}

// Resolve produces the fully merged, normalized, schema-valid config for one
// component spec. The layers, lowest to highest priority:
//
//  1. the component type's hardcoded fallbacks (registry entry)
//  2. platform-wide defaults
//  3. environment-specific defaults
//  4. compliance-framework defaults (exact enum match)
//  5. the user's spec config, which always wins on any key it sets
//
// Returned warnings come from type-specific normalization and never abort
// the plan.
func (r *Resolver) Resolve(ctx context.Context, spec *manifest.ComponentSpec, env, framework string) (map[string]any, []string, error) {
	logger := ctxlog.FromContext(ctx).With("component", spec.Name, "type", spec.Type)

	entry, err := r.source.Lookup(ctx, spec.Type)
	if err != nil {
		if _, notFound := err.(*registry.UnknownComponentTypeError); notFound {
			return nil, nil, &registry.UnknownComponentTypeError{Component: spec.Name, ComponentType: spec.Type}
		}
		return nil, nil, err
	}

	merged, err := ctyval.MergeLayers(
		entry.Fallbacks,
		r.platform.DefaultsFor(spec.Type),
		r.platform.EnvironmentFor(env, spec.Type),
		r.platform.ComplianceFor(framework, spec.Type),
		spec.Config,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("merging config layers for component %q: %w", spec.Name, err)
	}
	logger.Debug("Config layers merged.", "keys", len(merged))

	var warnings []string
	if entry.Normalize != nil {
		for _, w := range entry.Normalize(merged) {
			warnings = append(warnings, fmt.Sprintf("component %q: %s", spec.Name, w))
		}
	}

	scope := fmt.Sprintf("component %q (%s)", spec.Name, spec.Type)
	if err := r.validator.ValidateConfig(scope, spec.Type, entry.Schema, merged); err != nil {
		return nil, warnings, err
	}
	logger.Debug("Resolved config validated against component schema.")

	return merged, warnings, nil
}
