package platformcfg

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/platformctl/internal/ctxlog"
	"github.com/vk/platformctl/internal/ctyval"
)

//go:embed platform.hcl
var builtinPlatform []byte

// Platform holds the three default layers keyed per component type.
type Platform struct {
	// Defaults is the platform-wide layer, independent of environment and
	// compliance framework.
	Defaults map[string]map[string]any
	// Environments holds per-environment defaults: environment name ->
	// component type -> config.
	Environments map[string]map[string]map[string]any
	// Compliance holds per-framework defaults: framework -> component type
	// -> config.
	Compliance map[string]map[string]map[string]any
}

// DefaultsFor returns the platform-wide layer for a component type, or nil.
func (p *Platform) DefaultsFor(componentType string) map[string]any {
	return p.Defaults[componentType]
}

// EnvironmentFor returns the environment layer for a component type, or nil.
func (p *Platform) EnvironmentFor(env, componentType string) map[string]any {
	if byType, ok := p.Environments[env]; ok {
		return byType[componentType]
	}
	return nil
}

// ComplianceFor returns the compliance layer for a component type, selected
// by exact match on the framework value, or nil.
func (p *Platform) ComplianceFor(framework, componentType string) map[string]any {
	if byType, ok := p.Compliance[framework]; ok {
		return byType[componentType]
	}
	return nil
}

var topSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "defaults", LabelNames: []string{"component_type"}},
		{Type: "environment", LabelNames: []string{"name"}},
		{Type: "compliance", LabelNames: []string{"framework"}},
	},
}

var scopedSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "defaults", LabelNames: []string{"component_type"}},
	},
}

// Load parses the embedded built-in platform file and layers any override
// files on top of it, in order, later files winning per key.
func Load(ctx context.Context, overridePaths ...string) (*Platform, error) {
	logger := ctxlog.FromContext(ctx)

	platform := &Platform{
		Defaults:     make(map[string]map[string]any),
		Environments: make(map[string]map[string]map[string]any),
		Compliance:   make(map[string]map[string]map[string]any),
	}

	parser := hclparse.NewParser()
	if err := mergeFile(platform, parser, "builtin/platform.hcl", builtinPlatform); err != nil {
		// The embedded file is part of the binary; failing to parse it is a
		// programmer error.
		panic(err)
	}

	for _, path := range overridePaths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading platform overrides: %w", err)
		}
		if err := mergeFile(platform, parser, path, src); err != nil {
			return nil, err
		}
		logger.Debug("Merged platform override file.", "path", path)
	}

	return platform, nil
}

func mergeFile(platform *Platform, parser *hclparse.Parser, filename string, src []byte) error {
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse platform file %s: %w", filename, diags)
	}

	content, diags := file.Body.Content(topSchema)
	if diags.HasErrors() {
		return fmt.Errorf("invalid platform file %s: %w", filename, diags)
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "defaults":
			cfg, err := decodeDefaults(block.Body)
			if err != nil {
				return fmt.Errorf("%s: defaults %q: %w", filename, block.Labels[0], err)
			}
			merged, err := ctyval.MergeLayers(platform.Defaults[block.Labels[0]], cfg)
			if err != nil {
				return err
			}
			platform.Defaults[block.Labels[0]] = merged

		case "environment":
			if err := mergeScoped(platform.Environments, block, filename); err != nil {
				return err
			}

		case "compliance":
			if err := mergeScoped(platform.Compliance, block, filename); err != nil {
				return err
			}
		}
	}
	return nil
}

func mergeScoped(target map[string]map[string]map[string]any, block *hcl.Block, filename string) error {
	scope := block.Labels[0]
	content, diags := block.Body.Content(scopedSchema)
	if diags.HasErrors() {
		return fmt.Errorf("invalid %s block %q in %s: %w", block.Type, scope, filename, diags)
	}
	if target[scope] == nil {
		target[scope] = make(map[string]map[string]any)
	}
	for _, inner := range content.Blocks {
		cfg, err := decodeDefaults(inner.Body)
		if err != nil {
			return fmt.Errorf("%s: %s %q defaults %q: %w", filename, block.Type, scope, inner.Labels[0], err)
		}
		merged, err := ctyval.MergeLayers(target[scope][inner.Labels[0]], cfg)
		if err != nil {
			return err
		}
		target[scope][inner.Labels[0]] = merged
	}
	return nil
}

// decodeDefaults evaluates every attribute of a defaults block into a plain
// config map. Expressions are constant: there is no variable scope in a
// platform file.
func decodeDefaults(body hcl.Body) (map[string]any, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any, len(attrs))
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		native, err := ctyval.ToNative(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = native
	}
	return out, nil
}
