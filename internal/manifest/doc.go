// Package manifest defines the typed model of a service manifest and the
// parser that turns raw YAML into it.
//
// Parsing only establishes the structural shape later stages depend on: a
// mapping at the root, a service name, and a non-empty component list. Deep
// validation against the master schema and the per-component-type schemas
// happens in the schemaval package, never here.
package manifest
