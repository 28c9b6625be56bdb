package schemaval

import (
	"fmt"
	"strings"
)

// Severity classifies a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is one schema or structural problem found during a validation
// pass. Path uses bracketed notation, e.g. "components[2].config.port".
type Violation struct {
	Path     string
	Message  string
	Value    any
	Severity Severity
}

// String renders the violation the way the CLI surfaces it.
func (v Violation) String() string {
	path := v.Path
	if path == "" {
		path = "(root)"
	}
	if v.Value != nil {
		return fmt.Sprintf("%s: %s (got %v)", path, v.Message, v.Value)
	}
	return fmt.Sprintf("%s: %s", path, v.Message)
}

// ValidationError aggregates every violation found in one validation pass.
// Scope names what was validated ("manifest" or a component name).
type ValidationError struct {
	Scope string
	List  []Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.List))
	for _, v := range e.List {
		lines = append(lines, "- "+v.String())
	}
	return fmt.Sprintf("schema validation of %s failed with %d violation(s):\n%s",
		e.Scope, len(e.List), strings.Join(lines, "\n"))
}

// Violations returns the collected violation list.
func (e *ValidationError) Violations() []Violation { return e.List }

// MissingRequiredFieldError reports absent top-level manifest fields that are
// structural rather than per-schema (`service`, `owner`). It is returned
// instead of ValidationError when those are the only problems found.
type MissingRequiredFieldError struct {
	Fields []string
	List   []Violation
}

// Error implements the error interface.
func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("manifest is missing required field(s): %s", strings.Join(e.Fields, ", "))
}

// Violations returns the collected violation list.
func (e *MissingRequiredFieldError) Violations() []Violation { return e.List }
