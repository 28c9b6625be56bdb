// Package platformcfg loads the platform defaults file: the source of the
// organization-wide, per-environment, and per-compliance-framework
// configuration layers the resolver merges under every user spec.
//
// The file is HCL. A built-in copy ships embedded in the binary; operators
// may layer override files on top of it, later files winning per key.
package platformcfg
