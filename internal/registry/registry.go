package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/platformctl/internal/ctxlog"
	"github.com/vk/platformctl/internal/schemaval"
)

// NormalizeFunc applies type-specific normalization to a merged config,
// mutating it in place. Returned strings are user-facing warnings.
type NormalizeFunc func(cfg map[string]any) []string

// Entry describes one component type.
type Entry struct {
	// Type is the identifier used in manifests, e.g. "ecs-service".
	Type string
	// Schema is the JSON schema source every resolved config of this type
	// must satisfy.
	Schema string
	// Fallbacks is the lowest precedence layer: the safest, most minimal
	// default config. It is always present so a merge never starts empty.
	Fallbacks map[string]any
	// Capabilities lists the namespaced capabilities instances of this type
	// provide to binding components, e.g. "db:postgres".
	Capabilities []string
	// Normalize is optional type-specific post-merge normalization.
	Normalize NormalizeFunc
}

// Provides reports whether the entry offers the given capability.
func (e *Entry) Provides(capability string) bool {
	for _, c := range e.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// UnknownComponentTypeError reports a component whose type has no registry
// entry. Fatal for the whole plan.
type UnknownComponentTypeError struct {
	Component     string
	ComponentType string
}

// Error implements the error interface.
func (e *UnknownComponentTypeError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("component %q has unknown type %q", e.Component, e.ComponentType)
	}
	return fmt.Sprintf("unknown component type %q", e.ComponentType)
}

// Source is anything that can look up a component type entry.
type Source interface {
	Lookup(ctx context.Context, componentType string) (*Entry, error)
}

// Component is the interface every built-in component package implements to
// be registered.
type Component interface {
	Register(r *Registry)
}

// Registry is the static component type table for one application instance.
type Registry struct {
	entries map[string]*Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// RegisterEntry adds a component type. Registering the same type twice is a
// programmer error.
func (r *Registry) RegisterEntry(entry *Entry) {
	if entry.Type == "" {
		panic("registry: entry with empty type")
	}
	if _, exists := r.entries[entry.Type]; exists {
		panic(fmt.Sprintf("component type '%s' already registered", entry.Type))
	}
	slog.Debug("Registering component type.", "type", entry.Type)
	r.entries[entry.Type] = entry
}

// Lookup returns the entry for a component type.
func (r *Registry) Lookup(_ context.Context, componentType string) (*Entry, error) {
	entry, ok := r.entries[componentType]
	if !ok {
		return nil, &UnknownComponentTypeError{ComponentType: componentType}
	}
	return entry, nil
}

// Types returns all registered type names, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Validate performs the startup integrity check: every registered schema
// must compile and every fallback config must satisfy its own schema. This
// catches drift between a component's schema and its defaults at build time
// rather than in a user's plan.
func (r *Registry) Validate(ctx context.Context, validator *schemaval.Validator) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	for _, componentType := range r.Types() {
		entry := r.entries[componentType]
		if _, err := validator.CompileType(componentType, entry.Schema); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if err := validator.ValidateConfig("fallbacks of "+componentType, componentType, entry.Schema, entry.Fallbacks); err != nil {
			errs = append(errs, fmt.Sprintf("component type '%s': hardcoded fallbacks do not satisfy own schema: %v", componentType, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.", "types", len(r.entries))
	return nil
}
