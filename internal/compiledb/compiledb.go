// Package compiledb accumulates per-translation-unit compile commands and
// writes them out in the compile_commands.json format clangd and friends
// expect.
package compiledb

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"github.com/google/renameio"
	"golang.org/x/xerrors"
)

// Entry is one translation unit's record. Command is the exact shell
// line the scheduler ran (or would run); Arguments is the same
// invocation split into argv, kept alongside it for consumers that
// prefer the unambiguous array form.
type Entry struct {
	Directory string   `json:"directory"`
	Command   string   `json:"command"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
}

// Index accumulates Entries across a build. Safe for concurrent use by
// the compile worker pool.
type Index struct {
	mu      sync.Mutex
	entries []Entry
}

// Reset discards every previously recorded entry, so a fresh build (or a
// self-rebuild pass that precedes the real one) doesn't leave stale or
// duplicated entries behind.
func (idx *Index) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = nil
}

// Add records one compiled translation unit. directory is the directory
// the compile command should be interpreted relative to; command and
// argv are the exact shell line and argv the scheduler used (or will
// use) to actually run the compile, so the index always matches what was
// executed.
func (idx *Index) Add(directory, file, command string, argv []string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = append(idx.entries, Entry{Directory: directory, Command: command, File: file, Arguments: argv})
}

// WriteFile atomically writes the accumulated index to
// filepath.Join(outputDir, "compile_commands.json").
func (idx *Index) WriteFile(outputDir string) error {
	idx.mu.Lock()
	entries := make([]Entry, len(idx.entries))
	copy(entries, idx.entries)
	idx.mu.Unlock()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return xerrors.Errorf("marshaling compile_commands.json: %w", err)
	}
	path := filepath.Join(outputDir, "compile_commands.json")
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return xerrors.Errorf("writing %s: %w", path, err)
	}
	return nil
}
