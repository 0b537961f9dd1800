// Package procshim provides OS-neutral process spawning and filesystem
// shims for the build engine: running a shell line and optionally
// capturing its combined output, creating and removing directory trees,
// locating the running executable, and reading file modification times.
package procshim

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/orcaman/writerseeker"
	"golang.org/x/xerrors"
)

// Shell returns the host shell used to evaluate a command line, matching
// the platform convention ("cmd /C" on Windows, "/bin/sh -c" elsewhere).
func Shell() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "/bin/sh", []string{"-c"}
}

// Run spawns line as a single shell invocation, with stdout/stderr
// inherited from the current process. It returns the normalized exit
// code: 0 on success, non-zero otherwise.
func Run(dir string, line string, env []string) (int, error) {
	shell, args := Shell()
	cmd := exec.Command(shell, append(args, line)...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return normalizeExit(cmd.Run())
}

// RunCaptured spawns line as a single shell invocation, capturing its
// combined stdout+stderr into the returned buffer instead of inheriting
// the parent's streams. The caller is responsible for writing the buffer
// to a diagnostic stream on failure.
func RunCaptured(dir string, line string, env []string) (code int, output []byte, err error) {
	shell, args := Shell()
	cmd := exec.Command(shell, append(args, line)...)
	cmd.Dir = dir
	cmd.Env = env

	var buf writerseeker.WriterSeeker
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	runErr := cmd.Run()
	code, err = normalizeExit(runErr)

	r := buf.Reader()
	captured, readErr := io.ReadAll(r)
	if readErr != nil && err == nil {
		err = readErr
	}
	return code, captured, err
}

func normalizeExit(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if xerrors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code == 0 {
			code = 1 // terminated by signal or otherwise abnormal
		}
		return code, nil
	}
	return -1, xerrors.Errorf("spawn: %w", err)
}

// EnsureDir recursively creates dir (mkdir -p semantics).
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return xerrors.Errorf("ensuredir %s: %w", dir, err)
	}
	return nil
}

// RemoveAll recursively removes path. It is not an error for path to be
// already absent.
func RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return xerrors.Errorf("removeall %s: %w", path, err)
	}
	return nil
}

// SelfExePath returns the absolute path of the currently running
// executable.
func SelfExePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", xerrors.Errorf("self exe path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", xerrors.Errorf("self exe path: %w", err)
	}
	return resolved, nil
}

// Mtime returns the modification time of path, and ok=false if path does
// not exist.
func Mtime(path string) (t time.Time, ok bool, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, xerrors.Errorf("mtime %s: %w", path, err)
	}
	return fi.ModTime(), true, nil
}
