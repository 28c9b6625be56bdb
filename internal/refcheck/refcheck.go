// Package refcheck validates the cross-component references of a hydrated
// manifest: bind targets, bind capabilities, and governance suppression
// metadata. It is a pure check — nothing is mutated — and every problem it
// can find is collected before reporting.
package refcheck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/platformctl/internal/bindgraph"
	"github.com/vk/platformctl/internal/ctxlog"
	"github.com/vk/platformctl/internal/manifest"
	"github.com/vk/platformctl/internal/registry"
)

// ReferenceError reports a bind whose target names no declared component.
type ReferenceError struct {
	Component      string
	ComponentIndex int
	BindIndex      int
	Target         string
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("components[%d].binds[%d]: component %q binds to %q, which is not a declared component",
		e.ComponentIndex, e.BindIndex, e.Component, e.Target)
}

// GovernanceSuppressionError reports a malformed governance suppression
// entry.
type GovernanceSuppressionError struct {
	Index   int
	Field   string
	Message string
}

// Error implements the error interface.
func (e *GovernanceSuppressionError) Error() string {
	return fmt.Sprintf("governance.cdkNag.suppress[%d].%s: %s", e.Index, e.Field, e.Message)
}

// CheckError aggregates every reference problem found in one pass.
type CheckError struct {
	List []error
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	lines := make([]string, 0, len(e.List))
	for _, err := range e.List {
		lines = append(lines, "- "+err.Error())
	}
	return fmt.Sprintf("reference validation failed with %d error(s):\n%s", len(e.List), strings.Join(lines, "\n"))
}

// suppressionDateLayout is the calendar date format expiresOn must use.
const suppressionDateLayout = "2006-01-02"

// Checker runs the reference validation pass. Now anchors suppression
// expiry warnings to the moment the command started, keeping the check
// itself clock-free.
type Checker struct {
	Source registry.Source
	Now    time.Time
}

// Check validates all cross-component references. It returns accumulated
// warnings plus either nil or a CheckError carrying every error found.
func (c *Checker) Check(ctx context.Context, m *manifest.Manifest) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	var errs []error
	var warnings []string

	graph := bindgraph.New()
	for _, spec := range m.Components {
		if spec != nil {
			graph.AddNode(spec.Name)
		}
	}

	for i, spec := range m.Components {
		if spec == nil {
			continue
		}
		for j, bind := range spec.Binds {
			if bind == nil {
				continue
			}
			target := m.Component(bind.To)
			if target == nil {
				errs = append(errs, &ReferenceError{
					Component:      spec.Name,
					ComponentIndex: i,
					BindIndex:      j,
					Target:         bind.To,
				})
				continue
			}
			if bind.To == spec.Name {
				warnings = append(warnings, fmt.Sprintf("components[%d].binds[%d]: component %q binds to itself", i, j, spec.Name))
				continue
			}
			warnings = append(warnings, c.checkCapability(ctx, i, j, bind, target)...)
			// Edge direction: the binder depends on its target.
			if err := graph.AddEdge(bind.To, spec.Name); err != nil {
				logger.Debug("Skipping bind edge.", "error", err)
			}
		}
	}

	if err := graph.DetectCycles(); err != nil {
		warnings = append(warnings, fmt.Sprintf("binding %v", err))
	}

	for idx, s := range m.Suppressions() {
		errs = append(errs, checkSuppression(idx, s)...)
		warnings = append(warnings, c.suppressionWarnings(idx, s)...)
	}

	if len(errs) > 0 {
		return warnings, &CheckError{List: errs}
	}
	return warnings, nil
}

// checkCapability warns when the bind asks the target for a capability its
// component type does not provide. Best effort: an unresolvable target type
// is the resolver's error to report, not this stage's.
func (c *Checker) checkCapability(ctx context.Context, componentIndex, bindIndex int, bind *manifest.Binding, target *manifest.ComponentSpec) []string {
	if c.Source == nil || bind.Capability == "" {
		return nil
	}
	entry, err := c.Source.Lookup(ctx, target.Type)
	if err != nil || len(entry.Capabilities) == 0 {
		return nil
	}
	if entry.Provides(bind.Capability) {
		return nil
	}
	return []string{fmt.Sprintf("components[%d].binds[%d]: component %q does not provide capability %q (provides: %s)",
		componentIndex, bindIndex, target.Name, bind.Capability, strings.Join(entry.Capabilities, ", "))}
}

func checkSuppression(idx int, s *manifest.Suppression) []error {
	if s == nil {
		return []error{&GovernanceSuppressionError{Index: idx, Field: "id", Message: "suppression entry is empty"}}
	}

	var errs []error
	required := []struct {
		field string
		value string
	}{
		{"id", s.ID},
		{"justification", s.Justification},
		{"owner", s.Owner},
		{"expiresOn", s.ExpiresOn},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, &GovernanceSuppressionError{Index: idx, Field: r.field, Message: "required field is missing"})
		}
	}

	if s.ExpiresOn != "" {
		if _, err := time.Parse(suppressionDateLayout, s.ExpiresOn); err != nil {
			errs = append(errs, &GovernanceSuppressionError{
				Index:   idx,
				Field:   "expiresOn",
				Message: fmt.Sprintf("%q is not a valid calendar date (expected YYYY-MM-DD)", s.ExpiresOn),
			})
		}
	}
	return errs
}

func (c *Checker) suppressionWarnings(idx int, s *manifest.Suppression) []string {
	if s == nil || s.ExpiresOn == "" || c.Now.IsZero() {
		return nil
	}
	expires, err := time.Parse(suppressionDateLayout, s.ExpiresOn)
	if err != nil {
		return nil
	}
	if expires.Before(c.Now.Truncate(24 * time.Hour)) {
		return []string{fmt.Sprintf("governance.cdkNag.suppress[%d]: suppression %q expired on %s", idx, s.ID, s.ExpiresOn)}
	}
	return nil
}
