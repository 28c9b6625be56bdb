package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/platformctl/internal/ctxlog"
	"github.com/vk/platformctl/internal/fsutil"
	"github.com/vk/platformctl/internal/pipeline"
)

// Run executes the requested command against the configured pipeline.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", cfg.Command)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	path, err := fsutil.ResolveManifestPath(cfg.ManifestPath)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	a.logger.Debug("Manifest read.", "path", path, "bytes", len(src))

	var result *pipeline.Result
	switch cfg.Command {
	case "validate":
		result, err = a.pipeline.Validate(ctx, src)
	case "plan":
		result, err = a.pipeline.Plan(ctx, src, cfg.Environment)
	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		a.logger.Warn(warning)
	}

	if cfg.Command == "validate" {
		a.logger.Info("✅ Manifest is valid.", "service", result.Manifest.Service, "components", len(result.Manifest.Components))
		fmt.Fprintf(a.outW, "manifest valid: service %q with %d component(s)\n", result.Manifest.Service, len(result.Manifest.Components))
		return nil
	}

	a.logger.Info("✅ Plan resolved.", "service", result.Manifest.Service, "environment", result.Manifest.Environment)
	return a.writePlan(result, cfg.OutputFormat)
}

// writePlan encodes the resolved manifest to the output writer. YAML is the
// native encoding; JSON goes through a YAML round trip so both formats see
// the same generic document.
func (a *App) writePlan(result *pipeline.Result, format string) error {
	if format == "json" {
		raw, err := yaml.Marshal(result.Manifest)
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		fmt.Fprintln(a.outW, string(out))
		return nil
	}

	enc := yaml.NewEncoder(a.outW)
	enc.SetIndent(2)
	if err := enc.Encode(result.Manifest); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return enc.Close()
}
