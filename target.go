package cbuild

import (
	"log"
	"path/filepath"
	"strings"
)

// Kind identifies what a Target produces.
type Kind int

const (
	Executable Kind = iota
	StaticLibrary
	SharedLibrary
	// Proxy stands in for a target owned by a subproject. Its
	// output_path is resolved from the subproject's manifest rather than
	// computed locally.
	Proxy
)

func (k Kind) String() string {
	switch k {
	case Executable:
		return "executable"
	case StaticLibrary:
		return "static_library"
	case SharedLibrary:
		return "shared_library"
	case Proxy:
		return "proxy"
	default:
		return "unknown"
	}
}

// Target is a single compile/link unit in the dependency graph's
// data model. Fields are unexported; callers build a Target through its
// mutators, which are deliberately nil-receiver-safe and silently ignore
// illegal uses (missing files, nil dependencies) rather than panicking.
type Target struct {
	o     *Orchestrator
	index int
	kind  Kind
	name  string

	sources     []string
	includeDirs []string
	libraryDirs []string
	linkLibs    []string
	defines     []string

	deps []*Target

	preCommands  []*Command
	postCommands []*Command

	cflags    []string
	cflagsSet bool
	ldflags   []string

	// outputPath and objDir are derived at the start of Run, once
	// Settings.OutputDir is finalized. Proxy targets instead have
	// outputPath assigned by the subproject resolver.
	outputPath string
	objDir     string
}

// Name returns the target's registration name.
func (t *Target) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Kind returns the target's kind.
func (t *Target) Kind() Kind {
	if t == nil {
		return Executable
	}
	return t.kind
}

// OutputPath returns the target's resolved artifact path. Only valid
// after Run has derived defaults; empty before then.
func (t *Target) OutputPath() string {
	if t == nil {
		return ""
	}
	return t.outputPath
}

// AddSource registers one source file. A glob pattern (containing '*',
// '?' or '[') is expanded immediately against the filesystem; a pattern
// matching nothing logs a warning and adds nothing.
func (t *Target) AddSource(path string) *Target {
	if t == nil || path == "" {
		return t
	}
	if strings.ContainsAny(path, "*?[") {
		matches, err := filepath.Glob(path)
		if err != nil || len(matches) == 0 {
			t.logger().Printf("cbuild: target %q: source pattern %q matched nothing", t.name, path)
			return t
		}
		t.sources = append(t.sources, matches...)
		return t
	}
	t.sources = append(t.sources, path)
	return t
}

// AddIncludeDir appends a -I (or MSVC /I) search directory.
func (t *Target) AddIncludeDir(dir string) *Target {
	if t == nil || dir == "" {
		return t
	}
	t.includeDirs = append(t.includeDirs, dir)
	return t
}

// AddLibraryDir appends a -L/-LIBPATH equivalent search directory.
func (t *Target) AddLibraryDir(dir string) *Target {
	if t == nil || dir == "" {
		return t
	}
	t.libraryDirs = append(t.libraryDirs, dir)
	return t
}

// AddLinkLib appends a library name to link against (-lNAME, or NAME.lib
// under MSVC).
func (t *Target) AddLinkLib(name string) *Target {
	if t == nil || name == "" {
		return t
	}
	t.linkLibs = append(t.linkLibs, name)
	return t
}

// AddDefine appends a bare preprocessor define (-DNAME).
func (t *Target) AddDefine(name string) *Target {
	if t == nil || name == "" {
		return t
	}
	t.defines = append(t.defines, name)
	return t
}

// AddDefineVal appends a valued preprocessor define (-DNAME=VALUE).
func (t *Target) AddDefineVal(name, value string) *Target {
	if t == nil || name == "" {
		return t
	}
	t.defines = append(t.defines, name+"="+value)
	return t
}

// SetFlag is a shortcut for the common NAME=0/NAME=1 toggle-define
// pattern used by generated config headers.
func (t *Target) SetFlag(name string, enabled bool) *Target {
	if enabled {
		return t.AddDefineVal(name, "1")
	}
	return t.AddDefineVal(name, "0")
}

// AddCflags appends one compiler flag to the target's flag override. The
// first call on a given Target switches that target from "use the
// global Cflags" to "use only what's added here": once set, a target's
// cflags replace rather than extend the global list.
func (t *Target) AddCflags(flag string) *Target {
	if t == nil || flag == "" {
		return t
	}
	t.cflagsSet = true
	t.cflags = append(t.cflags, flag)
	return t
}

// AddLdflags appends one linker flag, placed ahead of the global ldflags
// on the link line.
func (t *Target) AddLdflags(flag string) *Target {
	if t == nil || flag == "" {
		return t
	}
	t.ldflags = append(t.ldflags, flag)
	return t
}

// LinkTarget records dep as a build (and, for libraries, link) dependency
// of t. A nil dep, or a dep registered against a different Orchestrator,
// is silently ignored.
func (t *Target) LinkTarget(dep *Target) *Target {
	if t == nil || dep == nil {
		return t
	}
	if t.o != nil && dep.o != nil && t.o != dep.o {
		t.logger().Printf("cbuild: target %q: ignoring dependency %q from a different orchestrator", t.name, dep.name)
		return t
	}
	t.deps = append(t.deps, dep)
	return t
}

// AddPreCommand registers cmd to run before t's sources are compiled.
func (t *Target) AddPreCommand(cmd *Command) *Target {
	if t == nil || cmd == nil {
		return t
	}
	t.preCommands = append(t.preCommands, cmd)
	return t
}

// AddPostCommand registers cmd to run after t is linked.
func (t *Target) AddPostCommand(cmd *Command) *Target {
	if t == nil || cmd == nil {
		return t
	}
	t.postCommands = append(t.postCommands, cmd)
	return t
}

func (t *Target) logger() *log.Logger {
	if t.o != nil && t.o.settings.Logger != nil {
		return t.o.settings.Logger
	}
	return log.Default()
}

// effectiveCflags resolves the per-target-override-or-global rule.
func (t *Target) effectiveCflags(global []string) []string {
	if t.cflagsSet {
		return t.cflags
	}
	return global
}
