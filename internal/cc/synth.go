package cc

import "fmt"

// CompileSpec describes one source-to-object compilation.
type CompileSpec struct {
	CompilerExe string
	Family      Family

	Obj string
	Src string

	// Cflags is the already-resolved flag list for this compilation: the
	// target's own cflags if set, else the global cflags. Overrides,
	// never appends.
	Cflags []string

	IncludeDirs []string

	// GlobalDefines come before TargetDefines.
	GlobalDefines []string
	TargetDefines []string
}

// Line synthesizes the compile argv.
func (s CompileSpec) Line() []string {
	argv := []string{s.CompilerExe}
	if s.Family == MSVC {
		argv = append(argv, "/c", "/nologo", fmt.Sprintf(`/Fo"%s"`, s.Obj), "/showIncludes")
	} else {
		argv = append(argv, "-c", "-o", s.Obj)
	}
	argv = append(argv, s.Cflags...)
	for _, dir := range s.IncludeDirs {
		if s.Family == MSVC {
			argv = append(argv, "/I", Quote(dir))
		} else {
			argv = append(argv, "-I"+Quote(dir))
		}
	}
	for _, define := range s.GlobalDefines {
		argv = append(argv, defineFlag(s.Family, define))
	}
	for _, define := range s.TargetDefines {
		argv = append(argv, defineFlag(s.Family, define))
	}
	argv = append(argv, s.Src)
	return argv
}

func defineFlag(f Family, macro string) string {
	if f == MSVC {
		return "/D" + macro
	}
	return "-D" + macro
}

// ArchiveSpec describes a static-library archive step.
type ArchiveSpec struct {
	ArchiverExe string
	Family      Family
	Out         string
	Objs        []string
}

// Line synthesizes the archive argv.
func (s ArchiveSpec) Line() []string {
	if s.Family == MSVC {
		argv := []string{s.ArchiverExe, "/OUT:" + s.Out}
		return append(argv, s.Objs...)
	}
	argv := []string{s.ArchiverExe, "rcs", s.Out}
	return append(argv, s.Objs...)
}

// LinkSpec describes an executable or shared-library link step.
type LinkSpec struct {
	LinkerExe string
	Family    Family

	Out  string
	Objs []string

	LibraryDirs []string
	LinkLibs    []string

	// DepArtifacts are the output paths of this target's non-executable
	// target-deps (static, shared, or subproject proxy), passed to the
	// linker as raw paths.
	DepArtifacts []string

	Ldflags       []string // per-target
	GlobalLdflags []string

	Shared bool
}

// Line synthesizes the link argv. The macOS "-l<name>.dylib" quirk from
// some toolchains is treated as a bug and not reproduced: every Unix
// target emits plain "-l<name>".
func (s LinkSpec) Line() []string {
	argv := []string{s.LinkerExe, "-o", s.Out}
	argv = append(argv, s.Objs...)
	for _, dir := range s.LibraryDirs {
		if s.Family == MSVC {
			argv = append(argv, fmt.Sprintf(`/LIBPATH:"%s"`, dir))
		} else {
			argv = append(argv, "-L"+Quote(dir))
		}
	}
	for _, lib := range s.LinkLibs {
		if s.Family == MSVC {
			argv = append(argv, lib+".lib")
		} else {
			argv = append(argv, "-l"+lib)
		}
	}
	argv = append(argv, s.DepArtifacts...)
	argv = append(argv, s.Ldflags...)
	argv = append(argv, s.GlobalLdflags...)
	if s.Shared {
		if s.Family == MSVC {
			argv = append(argv, "/DLL")
		} else {
			argv = append(argv, "-shared")
		}
	}
	return argv
}
