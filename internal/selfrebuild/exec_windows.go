//go:build windows

package selfrebuild

import "golang.org/x/xerrors"

// Exec is unsupported on Windows: there is no process-image-replacement
// primitive equivalent to exec(2). It always returns an error; the caller
// logs it and continues the current invocation in-process.
func Exec(exe string, argv, env []string) error {
	return xerrors.Errorf("self-rebuild exec is not supported on windows")
}
