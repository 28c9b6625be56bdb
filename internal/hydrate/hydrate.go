package hydrate

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/platformctl/internal/ctxlog"
	"github.com/vk/platformctl/internal/manifest"
)

// DefaultFramework is assumed when a manifest declares no compliance posture.
const DefaultFramework = "commercial"

var validFrameworks = map[string]bool{
	"commercial":       true,
	"fedramp-moderate": true,
	"fedramp-high":     true,
}

// Hydrate produces the hydrated manifest for the target environment. The
// input is deep-copied first and never mutated. Missing environment defaults
// are not an error: environments are optional, and unresolved ${env:...}
// tokens are left in place for schema validation to judge later.
func Hydrate(ctx context.Context, m *manifest.Manifest, targetEnv string) (*manifest.Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	out := m.DeepCopy()

	if out.ComplianceFramework == "" {
		out.ComplianceFramework = DefaultFramework
	}
	if !validFrameworks[out.ComplianceFramework] {
		return nil, fmt.Errorf("unknown compliance framework %q", out.ComplianceFramework)
	}
	out.Environment = targetEnv

	envNames := make(map[string]bool, len(out.Environments))
	for name := range out.Environments {
		envNames[name] = true
	}

	var defaults map[string]any
	if env, ok := out.Environments[targetEnv]; ok && env != nil {
		defaults = env.Defaults
	} else {
		logger.Debug("No defaults declared for target environment, skipping interpolation.", "environment", targetEnv)
	}

	w := &walker{targetEnv: targetEnv, defaults: defaults, envNames: envNames}

	// Components are disjoint subtrees, so they hydrate in parallel. The
	// walker itself holds only read-only state.
	var wg sync.WaitGroup
	for _, c := range out.Components {
		if c == nil {
			continue
		}
		wg.Add(1)
		go func(spec *manifest.ComponentSpec) {
			defer wg.Done()
			if spec.Config != nil {
				if cfg, ok := w.walk(spec.Config).(map[string]any); ok {
					spec.Config = cfg
				}
			}
			for _, b := range spec.Binds {
				if b == nil {
					continue
				}
				b.Env = w.walkStringMap(b.Env)
			}
		}(c)
	}
	wg.Wait()

	// Every remaining string-valued field interpolates too, not just the
	// component subtrees.
	out.Region = w.walkString(out.Region)
	out.AccountID = w.walkString(out.AccountID)
	out.Tags = w.walkStringMap(out.Tags)
	out.Labels = w.walkStringMap(out.Labels)

	return out, nil
}
