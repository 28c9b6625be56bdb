// Package registry is the schema registry: the table mapping a component
// type string to its JSON schema, hardcoded fallback config, provided
// capabilities, and normalization function.
//
// The table is populated statically at startup — each component package
// registers itself through the Component interface — so there is no runtime
// discovery of any kind. After population the registry is validated once:
// every schema must compile and every fallback config must satisfy its own
// schema. A mismatch there is a programmer error and panics.
package registry
