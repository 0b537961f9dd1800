// Package freshness implements the build engine's freshness oracle: pure
// functions over filesystem modification times that decide whether a
// source needs recompiling and whether a target needs relinking.
//
// All comparisons use strict ">" on mtimes; ties are treated as fresh.
package freshness

import (
	"os"

	"golang.org/x/xerrors"
)

// statMtime returns the mtime of path, truncated to whole seconds (ties
// at sub-second resolution are treated as fresh), and whether it exists.
func statMtime(path string) (unixSeconds int64, ok bool, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, xerrors.Errorf("stat %s: %w", path, err)
	}
	return fi.ModTime().Unix(), true, nil
}

// NeedsRecompile reports whether src must be recompiled into obj: true if
// obj is missing, or if src's mtime is strictly newer than obj's.
func NeedsRecompile(src, obj string) (bool, error) {
	srcTime, ok, err := statMtime(src)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, xerrors.Errorf("source %s does not exist", src)
	}
	objTime, ok, err := statMtime(obj)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return srcTime > objTime, nil
}

// NeedsRelink reports whether a target must be relinked: true if output
// is missing, if any of objs is newer than output, or if any of
// depOutputs (the outputs of this target's target-deps) is newer than
// output.
func NeedsRelink(output string, objs []string, depOutputs []string) (bool, error) {
	outTime, ok, err := statMtime(output)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	for _, obj := range objs {
		t, ok, err := statMtime(obj)
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
		if t > outTime {
			return true, nil
		}
	}
	for _, dep := range depOutputs {
		t, ok, err := statMtime(dep)
		if err != nil {
			return false, err
		}
		if !ok {
			// A dependency with no output yet is handled by the scheduler's
			// build-order guarantee (deps are built first); treat as stale
			// defensively rather than panicking on a racy stat.
			return true, nil
		}
		if t > outTime {
			return true, nil
		}
	}
	return false, nil
}
