// Package schemaval validates manifests and resolved component configs
// against JSON schemas.
//
// Unlike the parser, nothing in this package fails fast: each validation
// pass walks the whole document and accumulates every violation it finds,
// so a user can fix all problems in one edit-revalidate cycle. Compiled
// schemas are memoized and safe for concurrent read access by the resolver
// workers.
package schemaval
