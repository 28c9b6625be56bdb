// Package cli turns command-line arguments into a validated app.Config and
// defines the error type carrying process exit codes.
package cli
