// Package resolver is the precedence engine: it merges the five
// configuration layers for one component instance and re-validates the
// result against that component type's schema.
//
// The stage is pure. Given byte-identical inputs — spec, environment,
// compliance framework, registry state — it yields byte-identical resolved
// configs: no clocks, no randomness, no I/O.
package resolver
