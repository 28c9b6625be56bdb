package schemaval

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/vk/platformctl/internal/manifest"
	"gopkg.in/yaml.v3"
)

// Validator compiles and caches JSON schemas and runs violation-collecting
// validation passes. A single instance is shared by the whole pipeline; the
// cache is guarded so resolver workers can validate concurrently.
type Validator struct {
	master *jsonschema.Schema

	mu     sync.RWMutex
	byType map[string]*jsonschema.Schema
}

// New creates a Validator with the master manifest schema compiled eagerly.
// A master schema that fails to compile is a programmer error.
func New() *Validator {
	return &Validator{
		master: jsonschema.MustCompileString("platformctl://manifest.schema.json", masterSchema),
		byType: make(map[string]*jsonschema.Schema),
	}
}

// CompileType compiles (or returns the memoized) schema for a component type.
func (v *Validator) CompileType(componentType, schemaSrc string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	sch, ok := v.byType[componentType]
	v.mu.RUnlock()
	if ok {
		return sch, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if sch, ok := v.byType[componentType]; ok {
		return sch, nil
	}
	url := fmt.Sprintf("platformctl://components/%s.schema.json", componentType)
	sch, err := jsonschema.CompileString(url, schemaSrc)
	if err != nil {
		return nil, fmt.Errorf("schema for component type %q does not compile: %w", componentType, err)
	}
	v.byType[componentType] = sch
	return sch, nil
}

// ValidateManifest validates the parsed manifest against the master schema
// plus the structural rules that are not expressible per-schema: required
// top-level fields and component name uniqueness. All violations found in
// this one pass are collected before anything is reported.
func (v *Validator) ValidateManifest(m *manifest.Manifest) error {
	doc, err := manifestDoc(m)
	if err != nil {
		return fmt.Errorf("encoding manifest for validation: %w", err)
	}

	var violations []Violation
	var missing []string
	if strings.TrimSpace(m.Service) == "" {
		missing = append(missing, "service")
		violations = append(violations, Violation{Path: "service", Message: "required field is missing", Severity: SeverityError})
	}
	if strings.TrimSpace(m.Owner) == "" {
		missing = append(missing, "owner")
		violations = append(violations, Violation{Path: "owner", Message: "required field is missing", Severity: SeverityError})
	}

	seen := make(map[string]int)
	for i, c := range m.Components {
		if c == nil || c.Name == "" {
			continue
		}
		if first, dup := seen[c.Name]; dup {
			violations = append(violations, Violation{
				Path:     fmt.Sprintf("components[%d].name", i),
				Message:  fmt.Sprintf("duplicate component name %q (first declared at components[%d])", c.Name, first),
				Value:    c.Name,
				Severity: SeverityError,
			})
			continue
		}
		seen[c.Name] = i
	}

	violations = append(violations, v.runSchema(v.master, doc)...)

	if len(violations) == 0 {
		return nil
	}
	if len(missing) == len(violations) {
		return &MissingRequiredFieldError{Fields: missing, List: violations}
	}
	return &ValidationError{Scope: "manifest", List: violations}
}

// ValidateConfig validates one resolved component config against that
// component type's schema. Scope names the component for error reporting.
func (v *Validator) ValidateConfig(scope, componentType, schemaSrc string, cfg map[string]any) error {
	sch, err := v.CompileType(componentType, schemaSrc)
	if err != nil {
		return err
	}
	doc, err := jsonRoundTrip(cfg)
	if err != nil {
		return fmt.Errorf("encoding config of %s for validation: %w", scope, err)
	}
	if violations := v.runSchema(sch, doc); len(violations) > 0 {
		return &ValidationError{Scope: scope, List: violations}
	}
	return nil
}

// runSchema validates doc and flattens the hierarchical cause tree into an
// ordered, leaf-level violation list.
func (v *Validator) runSchema(sch *jsonschema.Schema, doc any) []Violation {
	err := sch.Validate(doc)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []Violation{{Message: err.Error(), Severity: SeverityError}}
	}
	var out []Violation
	flatten(verr, doc, &out)
	return out
}

func flatten(e *jsonschema.ValidationError, doc any, out *[]Violation) {
	if len(e.Causes) == 0 {
		*out = append(*out, Violation{
			Path:     pointerToPath(e.InstanceLocation),
			Message:  e.Message,
			Value:    valueAt(doc, e.InstanceLocation),
			Severity: SeverityError,
		})
		return
	}
	for _, cause := range e.Causes {
		flatten(cause, doc, out)
	}
}

// pointerToPath converts a JSON pointer ("/components/2/config/port") into
// the bracketed field-path notation used in violation reports
// ("components[2].config.port").
func pointerToPath(ptr string) string {
	if ptr == "" || ptr == "/" {
		return ""
	}
	var b strings.Builder
	for _, token := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		if _, err := strconv.Atoi(token); err == nil {
			fmt.Fprintf(&b, "[%s]", token)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}

// valueAt fetches the offending value a JSON pointer refers to, or nil when
// the pointer does not resolve (e.g. for "required" violations).
func valueAt(doc any, ptr string) any {
	if ptr == "" {
		return nil
	}
	current := doc
	for _, token := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[token]
			if !ok {
				return nil
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			current = node[idx]
		default:
			return nil
		}
	}
	return current
}

// manifestDoc converts the typed manifest into the plain document tree the
// schema library validates, honoring the yaml field names.
func manifestDoc(m *manifest.Manifest) (any, error) {
	raw, err := yaml.Marshal(m)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return jsonRoundTrip(tree)
}

// jsonRoundTrip normalizes an arbitrary value tree into json-native types
// (map[string]any, []any, float64, string, bool, nil).
func jsonRoundTrip(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
