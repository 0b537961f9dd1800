//go:build !windows

package selfrebuild

import (
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// Exec replaces the calling process's image with exe, argv, env. On
// success it does not return.
func Exec(exe string, argv, env []string) error {
	if err := unix.Exec(exe, argv, env); err != nil {
		return xerrors.Errorf("exec %s: %w", exe, err)
	}
	return nil
}
