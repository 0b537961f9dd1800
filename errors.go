package cbuild

import "errors"

// Sentinel errors, tested with errors.Is.
var (
	// ErrUnknownTarget is returned when a positional CLI argument or
	// subcommand names a target that was never registered.
	ErrUnknownTarget = errors.New("cbuild: unknown target")

	// ErrCycle is returned when the dependency graph contains a cycle.
	ErrCycle = errors.New("cbuild: dependency cycle")

	// ErrBuildFailed is returned by the build step (and makes Run exit
	// non-zero) when one or more commands failed; the individual errors
	// were already logged as they occurred.
	ErrBuildFailed = errors.New("cbuild: build failed")
)
