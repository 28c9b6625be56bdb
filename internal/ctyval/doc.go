// Package ctyval bridges untyped configuration trees and cty values, and
// implements the layered merge the config resolver is built on.
//
// cty is the intermediate representation: a tagged union of
// null/bool/number/string/list/map that every precedence layer is converted
// into before merging. The merge rules live in exactly one place here, so
// component types supply only their layers' data, never merge logic.
package ctyval
