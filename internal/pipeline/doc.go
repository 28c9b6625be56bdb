// Package pipeline sequences the manifest resolution stages and exposes the
// two entry points: a lightweight Validate (parse + schema) and the full
// Plan (parse + schema + hydrate + resolve + reference check).
//
// Stages run fail-fast relative to each other — a parse error stops schema
// validation from running at all — but each stage internally collects every
// violation it can before reporting, so a user sees all problems from one
// stage in a single pass.
package pipeline
