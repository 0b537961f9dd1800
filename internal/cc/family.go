// Package cc synthesizes compiler, archiver, and linker command lines from
// a target's attributes and the process-wide global settings, dispatching
// on whether the selected toolchain is MSVC-like or GCC-like.
package cc

import "strings"

// Family identifies a toolchain's command-line dialect.
type Family int

const (
	GNU Family = iota
	MSVC
)

// DetectFamily classifies compilerExe as MSVC-like (its basename contains
// "cl" but not "clang") or GNU-like (everything else).
func DetectFamily(compilerExe string) Family {
	base := compilerExe
	if idx := strings.LastIndexAny(base, `/\`); idx > -1 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(strings.ToLower(base), ".exe")
	if strings.Contains(base, "cl") && !strings.Contains(base, "clang") {
		return MSVC
	}
	return GNU
}

// Quote wraps s in double quotes (escaping any embedded double quote) if
// it contains a space, a tab, or a double quote, so that a
// synthesized argv can be joined into the single shell line the process
// shim expects. The caller remains responsible for quoting overall.
func Quote(s string) string {
	if strings.ContainsAny(s, " \t\"") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

// Join turns an argv slice into a single shell command line.
func Join(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = Quote(a)
	}
	return strings.Join(quoted, " ")
}
