// Package hydrate applies environment selection to a validated manifest:
// compliance framework defaulting, ${env:KEY} / ${envIs:NAME} string
// interpolation, and per-environment override map unwrapping.
//
// Hydration always works on a deep copy — the input manifest is never
// mutated, which keeps repeated plan calls in one process idempotent.
package hydrate
