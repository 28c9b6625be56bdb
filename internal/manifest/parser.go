package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseError reports a manifest document that is malformed or has the wrong
// root shape. It is fatal: no later pipeline stage runs after it.
type ParseError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying decode error, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// Parse turns raw manifest text into a typed Manifest skeleton. It is a pure
// function of its input: same bytes, same result, no I/O.
//
// Only the shape needed for later stages is checked here: the root must be a
// mapping, `service` must be a string, and `components` must be a non-empty
// sequence. Everything else is left to schema validation.
func Parse(src []byte) (*Manifest, error) {
	var root map[string]any
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, &ParseError{Message: "manifest is not valid YAML", Err: err}
	}
	if root == nil {
		return nil, &ParseError{Message: "manifest root must be a mapping"}
	}

	serviceRaw, ok := root["service"]
	if !ok {
		return nil, &ParseError{Message: "manifest is missing required field 'service'"}
	}
	if _, ok := serviceRaw.(string); !ok {
		return nil, &ParseError{Message: fmt.Sprintf("manifest field 'service' must be a string, got %T", serviceRaw)}
	}

	componentsRaw, ok := root["components"]
	if !ok {
		return nil, &ParseError{Message: "manifest is missing required field 'components'"}
	}
	components, ok := componentsRaw.([]any)
	if !ok {
		return nil, &ParseError{Message: fmt.Sprintf("manifest field 'components' must be a list, got %T", componentsRaw)}
	}
	if len(components) == 0 {
		return nil, &ParseError{Message: "manifest must declare at least one component"}
	}

	var m Manifest
	if err := yaml.Unmarshal(src, &m); err != nil {
		return nil, &ParseError{Message: "manifest does not match the expected structure", Err: err}
	}
	return &m, nil
}
