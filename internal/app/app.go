package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vk/platformctl/internal/ctxlog"
	"github.com/vk/platformctl/internal/pipeline"
	"github.com/vk/platformctl/internal/platformcfg"
	"github.com/vk/platformctl/internal/refcheck"
	"github.com/vk/platformctl/internal/registry"
	"github.com/vk/platformctl/internal/resolver"
	"github.com/vk/platformctl/internal/schemaval"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Logs go to errW so that plan output on outW stays parseable.
type App struct {
	outW     io.Writer
	errW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	remote   *registry.Remote
	pipeline *pipeline.Pipeline
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW, errW io.Writer, cfg *Config, components ...registry.Component) *App {
	logger := newLogger(cfg, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load the embedded platform defaults, plus any override file.
	var overrides []string
	if cfg.PlatformPath != "" {
		overrides = append(overrides, cfg.PlatformPath)
	}
	platform, err := platformcfg.Load(ctx, overrides...)
	if err != nil {
		// A failure to load platform configuration is a fatal startup error.
		panic(fmt.Errorf("failed to load platform configuration: %w", err))
	}
	logger.Debug("Platform defaults loaded.")

	// Create and populate the registry with the built-in component types.
	reg := registry.New()
	if len(components) == 0 {
		components = coreComponents
	}
	for _, comp := range components {
		comp.Register(reg)
	}
	logger.Debug("All component types registered.", "count", len(components))

	validator := schemaval.New()

	// Validate the integrity of the registry: every built-in schema must
	// compile and every fallback config must satisfy its own schema. A
	// failure here is a programmer error, so we panic.
	if err := reg.Validate(ctx, validator); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.", "types", reg.Types())

	// The remote registry, when configured, is consulted first; a type it
	// does not know falls through to the built-in table.
	var source registry.Source = reg
	var remote *registry.Remote
	if cfg.RegistryURL != "" {
		remote = registry.NewRemote(cfg.RegistryURL)
		source = registry.Layered{remote, reg}
		logger.Debug("Remote schema registry layered in front of built-ins.", "url", cfg.RegistryURL)
	}

	checker := &refcheck.Checker{Source: source, Now: time.Now()}
	res := resolver.New(source, platform, validator)

	return &App{
		outW:     outW,
		errW:     errW,
		logger:   logger,
		registry: reg,
		remote:   remote,
		pipeline: pipeline.New(validator, res, checker, cfg.Workers),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Close releases resources held by the app, such as the remote registry
// client's connection pool.
func (a *App) Close() error {
	if a.remote != nil {
		return a.remote.Close()
	}
	return nil
}
