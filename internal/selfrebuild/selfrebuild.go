// Package selfrebuild implements process-image replacement: when the
// orchestrator binary's own sources are newer than the running
// executable, it recompiles itself, swaps the new binary into place,
// and re-execs in place of the old process image.
package selfrebuild

import (
	"os"

	"github.com/google/renameio"
	"golang.org/x/xerrors"

	"github.com/distr1/cbuild/internal/procshim"
)

// NeedsRebuild reports whether exe is older than any of sources, or
// does not exist yet.
func NeedsRebuild(exe string, sources []string) (bool, error) {
	exeTime, ok, err := procshim.Mtime(exe)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	for _, src := range sources {
		srcTime, ok, err := procshim.Mtime(src)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if srcTime.After(exeTime) {
			return true, nil
		}
	}
	return false, nil
}

// Place moves the freshly-built binary at newBinaryPath into exe's
// position, first unlinking any stale exe+".old" left from a previous
// rebuild and renaming the currently-running exe aside rather than
// overwriting it outright — Unix lets a running binary's file be
// unlinked out from under its own process, so this is safe even though
// exe is the image of the process performing the rename.
func Place(exe, newBinaryPath string) error {
	old := exe + ".old"
	if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
		return xerrors.Errorf("removing stale %s: %w", old, err)
	}
	if _, err := os.Stat(exe); err == nil {
		if err := os.Rename(exe, old); err != nil {
			return xerrors.Errorf("renaming running exe aside: %w", err)
		}
	}
	data, err := os.ReadFile(newBinaryPath)
	if err != nil {
		return xerrors.Errorf("reading rebuilt binary: %w", err)
	}
	if err := renameio.WriteFile(exe, data, 0755); err != nil {
		return xerrors.Errorf("placing rebuilt binary at %s: %w", exe, err)
	}
	return nil
}
