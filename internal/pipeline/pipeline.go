package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/platformctl/internal/ctxlog"
	"github.com/vk/platformctl/internal/hydrate"
	"github.com/vk/platformctl/internal/manifest"
	"github.com/vk/platformctl/internal/refcheck"
	"github.com/vk/platformctl/internal/registry"
	"github.com/vk/platformctl/internal/resolver"
	"github.com/vk/platformctl/internal/schemaval"
)

// ErrTimedOut marks a plan aborted by a caller-supplied deadline. It is
// deliberately distinct from any validation failure.
var ErrTimedOut = errors.New("plan timed out")

// Result is what both entry points hand back: the manifest (parsed, or
// hydrated with each component's config replaced by its resolved config)
// plus accumulated warnings in stage order.
type Result struct {
	Manifest *manifest.Manifest
	Warnings []string
}

// Pipeline wires the stages together. All held state is read-only during a
// run, so one Pipeline can serve any number of sequential commands.
type Pipeline struct {
	validator *schemaval.Validator
	resolver  *resolver.Resolver
	checker   *refcheck.Checker
	workers   int
}

// New creates a Pipeline. workers bounds the per-component resolution
// fan-out.
func New(validator *schemaval.Validator, res *resolver.Resolver, checker *refcheck.Checker, workers int) *Pipeline {
	if workers <= 0 {
		workers = 4
	}
	return &Pipeline{validator: validator, resolver: res, checker: checker, workers: workers}
}

// Validate parses the manifest text and validates it against the master
// schema. It is the lightweight entry point: no hydration, no resolution.
func (p *Pipeline) Validate(ctx context.Context, src []byte) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	m, err := manifest.Parse(src)
	if err != nil {
		return nil, err
	}
	logger.Debug("Manifest parsed.", "service", m.Service, "components", len(m.Components))

	if err := p.validator.ValidateManifest(m); err != nil {
		return nil, err
	}
	logger.Debug("Manifest schema validation passed.")

	return &Result{Manifest: m}, nil
}

// Plan runs the full pipeline for the target environment. The returned
// manifest is hydrated and every component's config is its resolved config.
func (p *Pipeline) Plan(ctx context.Context, src []byte, env string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	result, err := p.Validate(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := stageErr(ctx); err != nil {
		return nil, err
	}

	hydrated, err := hydrate.Hydrate(ctx, result.Manifest, env)
	if err != nil {
		return nil, err
	}
	logger.Debug("Manifest hydrated.", "environment", env, "complianceFramework", hydrated.ComplianceFramework)
	if err := stageErr(ctx); err != nil {
		return nil, err
	}

	warnings := result.Warnings
	resolved := p.resolveAll(ctx, hydrated, env)
	for i, r := range resolved {
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", ErrTimedOut, r.err)
			}
			return nil, r.err
		}
		hydrated.Components[i].Config = r.cfg
		warnings = append(warnings, r.warnings...)
	}
	logger.Debug("All component configs resolved.", "count", len(resolved))
	if err := stageErr(ctx); err != nil {
		return nil, err
	}

	refWarnings, err := p.checker.Check(ctx, hydrated)
	warnings = append(warnings, refWarnings...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Reference validation passed.")

	return &Result{Manifest: hydrated, Warnings: warnings}, nil
}

type resolveResult struct {
	cfg      map[string]any
	warnings []string
	err      error
}

// resolveAll fans the per-component resolutions out over a bounded worker
// pool. Components are independent — each resolution depends only on its
// own spec, the hydrated context, and the read-only registry — so no
// ordering or locking is needed beyond joining before the reference check.
// Results are index-addressed to keep output order deterministic.
func (p *Pipeline) resolveAll(ctx context.Context, m *manifest.Manifest, env string) []resolveResult {
	logger := ctxlog.FromContext(ctx)

	results := make([]resolveResult, len(m.Components))
	jobs := make(chan int)

	workerCount := p.workers
	if workerCount > len(m.Components) {
		workerCount = len(m.Components)
	}

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = resolveResult{err: err}
					continue
				}
				spec := m.Components[idx]
				logger.Debug("Worker resolving component.", "workerID", workerID, "component", spec.Name)
				cfg, warns, err := p.resolver.Resolve(ctx, spec, env, m.ComplianceFramework)
				results[idx] = resolveResult{cfg: cfg, warnings: warns, err: err}
			}
		}(w)
	}

	for i := range m.Components {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// stageErr translates a cancelled or expired context into the distinct
// timed-out outcome between stages.
func stageErr(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimedOut, err)
	}
	return err
}

// IsValidationFailure reports whether err belongs to the validation error
// taxonomy — the failures the CLI maps to exit code 2, as opposed to
// infrastructure problems or timeouts.
func IsValidationFailure(err error) bool {
	var (
		parseErr   *manifest.ParseError
		missingErr *schemaval.MissingRequiredFieldError
		schemaErr  *schemaval.ValidationError
		typeErr    *registry.UnknownComponentTypeError
		refErr     *refcheck.CheckError
	)
	return errors.As(err, &parseErr) ||
		errors.As(err, &missingErr) ||
		errors.As(err, &schemaErr) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &refErr)
}
