package cc

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind mirrors the target kinds a compile-line/artifact-name decision
// depends on.
type Kind int

const (
	Executable Kind = iota
	StaticLibrary
	SharedLibrary
)

// OutputName returns the artifact filename (not a full path) for kind on
// goos.
func OutputName(kind Kind, name, goos string) string {
	switch kind {
	case Executable:
		if goos == "windows" {
			return name + ".exe"
		}
		return name
	case StaticLibrary:
		if goos == "windows" {
			return name + ".lib"
		}
		return "lib" + name + ".a"
	case SharedLibrary:
		switch goos {
		case "windows":
			return name + ".dll"
		case "darwin":
			return "lib" + name + ".dylib"
		default:
			return "lib" + name + ".so"
		}
	}
	return name
}

// ObjectName derives the object filename for src: its base filename with
// the extension replaced. Two sources of the same base name in different
// directories collide inside one target's object directory; this is left
// undefined behavior rather than guarded against.
func ObjectName(src string, family Family) string {
	ext := ".o"
	if family == MSVC {
		ext = ".obj"
	}
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + ext
}

// ScavengeShowIncludes extracts the headers named in an MSVC
// "/showIncludes" stdout capture and writes them as a minimal
// makefile-format dependency stub: "<obj>: <hdr1> <hdr2> ...". This stub
// is informational only — the engine never
// reads it back.
func ScavengeShowIncludes(obj string, compilerStdout []byte) []byte {
	const prefix = "Note: including file:"
	var headers []string
	for _, line := range strings.Split(string(compilerStdout), "\n") {
		line = strings.TrimRight(line, "\r")
		if idx := strings.Index(line, prefix); idx >= 0 {
			headers = append(headers, strings.TrimSpace(line[idx+len(prefix):]))
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:", obj)
	for _, h := range headers {
		b.WriteString(" ")
		b.WriteString(h)
	}
	b.WriteString("\n")
	return []byte(b.String())
}
