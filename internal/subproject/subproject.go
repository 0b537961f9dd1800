// Package subproject implements the child-manifest protocol: a
// plain-text line format a subproject's own orchestrator emits when
// invoked with --manifest, and the parent-side fetch/clean helpers that
// drive that invocation.
package subproject

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/xerrors"

	"github.com/distr1/cbuild/internal/procshim"
)

// Entry is one target line in a manifest.
type Entry struct {
	Kind               string
	Name               string
	RelativeOutputPath string
}

// Manifest is the parsed set of targets a subproject exposes.
type Manifest struct {
	byName map[string]Entry
}

// Target looks up an exposed target by name.
func (m *Manifest) Target(name string) (Entry, bool) {
	e, ok := m.byName[name]
	return e, ok
}

// Parse reads the manifest line format: "KIND NAME RELATIVE_OUTPUT_PATH"
// tokens separated by whitespace, one target per line. Blank lines and
// lines starting with '#' are skipped. A line with fewer than three
// tokens is skipped rather than treated as an error; tokens after the
// third are ignored. KIND is stored as given and is not validated.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{byName: make(map[string]Entry)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		m.byName[fields[1]] = Entry{Kind: fields[0], Name: fields[1], RelativeOutputPath: fields[2]}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

// Write emits one line per entry in the wire format Parse expects.
func Write(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s %s %s\n", e.Kind, e.Name, e.RelativeOutputPath); err != nil {
			return xerrors.Errorf("writing manifest: %w", err)
		}
	}
	return nil
}

// DriverExe defaults an empty driverExe to "./build", the convention a
// subproject's own build script is expected to be invocable as.
func DriverExe(driverExe string) string {
	if driverExe == "" {
		return "./build"
	}
	return driverExe
}

// BuildCommandLine is the shell line that triggers a subproject's own
// default build (no args, no verb) — what a Proxy target's auto-created
// pre-command runs before the parent can assume the child's artifacts
// exist.
func BuildCommandLine(driverExe string) string {
	return DriverExe(driverExe)
}

// FetchManifest spawns driverExe (default "./build" when empty) with
// --manifest in dir and parses its captured output. Stdout and stderr are
// captured together, so anything the child writes to stderr is parsed as
// manifest lines too.
func FetchManifest(dir, driverExe string) (*Manifest, error) {
	code, output, err := procshim.RunCaptured(dir, DriverExe(driverExe)+" --manifest", nil)
	if err != nil {
		return nil, xerrors.Errorf("running subproject manifest command: %w", err)
	}
	if code != 0 {
		return nil, xerrors.Errorf("subproject manifest command exited with status %d: %s", code, output)
	}
	return Parse(strings.NewReader(string(output)))
}

// Clean spawns driverExe (default "./build" when empty) with the clean
// verb in dir.
func Clean(dir, driverExe string) error {
	code, output, err := procshim.RunCaptured(dir, DriverExe(driverExe)+" clean", nil)
	if err != nil {
		return xerrors.Errorf("running subproject clean command: %w", err)
	}
	if code != 0 {
		return xerrors.Errorf("subproject clean command exited with status %d: %s", code, output)
	}
	return nil
}
