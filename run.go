package cbuild

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/distr1/cbuild/internal/cc"
	"github.com/distr1/cbuild/internal/procshim"
	"github.com/distr1/cbuild/internal/subproject"
)

// Run is the engine's single external entry point: it dispatches
// args as a CLI verb set, builds whatever that implies, and returns a
// process exit code.
//
//	(no args)         build every registered top-level target
//	clean             remove the output directory and clean subprojects
//	--manifest        print this build's target manifest and exit
//	<registered verb> run a subcommand registered via RegisterSubcommand
//	<target name...>  build only the named targets
func (o *Orchestrator) Run(args []string) (code int) {
	o.settings.applyDefaults()
	defer func() {
		if err := runCleanups(); err != nil {
			o.settings.Logger.Printf("cbuild: cleanup: %v", err)
			if code == 0 {
				code = 1
			}
		}
	}()
	if wd, err := os.Getwd(); err == nil {
		o.workDir = wd
	}
	ctx, cancel := interruptibleContext()
	defer cancel()

	o.finalizeOutputs()
	for _, c := range o.commands {
		c.reset()
	}

	if rebuilt, err := o.maybeSelfRebuild(os.Args, os.Environ()); err != nil {
		o.settings.Logger.Printf("cbuild: self-rebuild: %v", err)
		return 1
	} else if rebuilt {
		return 0
	}

	if len(args) > 0 {
		switch args[0] {
		case "clean":
			return o.runClean()
		case "--manifest":
			return o.runManifest()
		}
		if sc, ok := o.subcommands[args[0]]; ok {
			return o.runSubcommand(ctx, sc)
		}
	}

	if err := o.resolveSubprojects(); err != nil {
		o.settings.Logger.Printf("cbuild: %v", err)
		return 1
	}

	roots, err := o.selectRoots(args)
	if err != nil {
		o.settings.Logger.Printf("cbuild: %v", err)
		return 1
	}

	if buildErr := o.buildAll(ctx, roots); buildErr != nil {
		return 1
	}
	if o.settings.GenerateCompileCommands {
		if err := o.compiledb.WriteFile(o.settings.OutputDir); err != nil {
			o.settings.Logger.Printf("cbuild: writing compile_commands.json: %v", err)
			return 1
		}
	}
	return 0
}

// selectRoots resolves args as positional target names, defaulting to
// every registered target when none are given.
func (o *Orchestrator) selectRoots(args []string) ([]*Target, error) {
	if len(args) == 0 {
		return o.targets, nil
	}
	roots := make([]*Target, 0, len(args))
	for _, name := range args {
		t, err := o.targetNamed(name)
		if err != nil {
			return nil, err
		}
		roots = append(roots, t)
	}
	return roots, nil
}

func (o *Orchestrator) runClean() int {
	for _, s := range o.subprojects {
		s.clean()
	}
	if err := procshim.RemoveAll(o.settings.OutputDir); err != nil {
		o.settings.Logger.Printf("cbuild: clean: %v", err)
		return 1
	}
	return 0
}

func (o *Orchestrator) runManifest() int {
	entries := make([]subproject.Entry, 0, len(o.targets))
	for _, t := range o.targets {
		if t.kind == Proxy {
			continue
		}
		rel, err := filepath.Rel(o.workDir, t.outputPath)
		if err != nil {
			rel = t.outputPath
		}
		entries = append(entries, subproject.Entry{Kind: manifestKind(t.kind), Name: t.name, RelativeOutputPath: rel})
	}
	if err := subproject.Write(os.Stdout, entries); err != nil {
		o.settings.Logger.Printf("cbuild: writing manifest: %v", err)
		return 1
	}
	return 0
}

func (o *Orchestrator) runSubcommand(ctx context.Context, sc subcommand) int {
	if sc.target != nil {
		if err := o.resolveSubprojects(); err != nil {
			o.settings.Logger.Printf("cbuild: %v", err)
			return 1
		}
		if err := o.buildAll(ctx, []*Target{sc.target}); err != nil {
			o.settings.Logger.Printf("cbuild: %v", err)
			return 1
		}
	}
	if sc.callback != nil {
		if err := sc.callback(o); err != nil {
			o.settings.Logger.Printf("cbuild: %s: %v", sc.name, err)
			return 1
		}
		return 0
	}
	if sc.commandLine != "" {
		code, err := procshim.Run(o.workDir, sc.commandLine, nil)
		if err != nil {
			o.settings.Logger.Printf("cbuild: %s: %v", sc.name, err)
			return 1
		}
		return code
	}
	return 0
}

func (o *Orchestrator) resolveSubprojects() error {
	for _, s := range o.subprojects {
		if len(s.proxies) == 0 {
			continue
		}
		if err := s.resolve(); err != nil {
			return err
		}
	}
	return nil
}

// finalizeOutputs derives each non-Proxy target's object directory and
// artifact path from Settings.OutputDir, now that it is guaranteed to be
// set. Safe to call more than once; it never overwrites a
// path a caller set explicitly (zero-value check).
func (o *Orchestrator) finalizeOutputs() {
	for _, t := range o.targets {
		if t.kind == Proxy {
			continue
		}
		if t.objDir == "" {
			t.objDir = filepath.Join(o.settings.OutputDir, "obj_"+t.name)
		}
		if t.outputPath == "" {
			t.outputPath = filepath.Join(o.settings.OutputDir, cc.OutputName(toCCKind(t.kind), t.name, runtime.GOOS))
		}
	}
}

// manifestKind maps a Kind to the short token the subproject manifest
// wire format uses, which is not the same as Kind.String()'s longer,
// log-oriented spelling.
func manifestKind(k Kind) string {
	switch k {
	case StaticLibrary:
		return "static_lib"
	case SharedLibrary:
		return "shared_lib"
	case Executable:
		return "executable"
	default:
		return k.String()
	}
}

func toCCKind(k Kind) cc.Kind {
	switch k {
	case StaticLibrary:
		return cc.StaticLibrary
	case SharedLibrary:
		return cc.SharedLibrary
	default:
		return cc.Executable
	}
}
