package cbuild

import (
	"io"
	"log"
	"os"
	"runtime"

	"github.com/distr1/cbuild/internal/cc"
)

// Settings holds the process-wide global configuration: output directory, parallelism, toolchain executables, global flags, and
// the compile-commands / dependency-tracking feature toggles.
type Settings struct {
	OutputDir   string
	Parallelism int

	CompilerExe string
	ArchiverExe string
	LinkerExe   string

	Cflags  []string
	Ldflags []string
	Defines []string

	GenerateCompileCommands bool
	DepTracking             bool // exposed hint only

	// Logger receives diagnostic output.
	// Defaults to log.Default().
	Logger *log.Logger

	// Stdout receives per-step progress lines, which are printed only
	// when it is a terminal. Stderr is stored but not written to.
	// Spawned subprocesses whose output is not captured inherit the
	// process's os.Stdout/os.Stderr, not these writers. Default to
	// os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// defaultCompilers mirrors "Environment and tooling" table.
func defaultCompilers(goos string) (compiler, archiver, linker string) {
	switch goos {
	case "windows":
		return "cl.exe", "lib.exe", "ld"
	default:
		// macOS and Linux default the linker to the compiler itself.
		return "cc", "ar", "cc"
	}
}

// applyDefaults fills in any zero-valued fields. The CC
// environment variable seeds the default compiler the same way distri's
// internal/env resolves DISTRIROOT: read once, here, and never again —
// an explicit SetCompiler call always wins.
func (s *Settings) applyDefaults() {
	if s.OutputDir == "" {
		s.OutputDir = "build"
	}
	if s.Parallelism <= 0 {
		s.Parallelism = runtime.NumCPU()
	}
	defCompiler, defArchiver, defLinker := defaultCompilers(runtime.GOOS)
	if s.CompilerExe == "" {
		if cc := os.Getenv("CC"); cc != "" {
			defCompiler = cc
		}
		s.CompilerExe = defCompiler
	}
	if s.ArchiverExe == "" {
		s.ArchiverExe = defArchiver
	}
	if s.LinkerExe == "" {
		s.LinkerExe = defLinker
	}
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}
}

func (s *Settings) family() cc.Family {
	return cc.DetectFamily(s.CompilerExe)
}
