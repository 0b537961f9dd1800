package cbuild

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/distr1/cbuild/internal/cc"
	"github.com/distr1/cbuild/internal/freshness"
	"github.com/distr1/cbuild/internal/procshim"
)

// Stats summarizes one Run's work, for tests and diagnostics that want
// to assert on "nothing happened" without mocking exec.Command.
type Stats struct {
	Compiled int
	Linked   int
	Skipped  int
}

// Stats returns a snapshot of the most recent Run's counters.
func (o *Orchestrator) Stats() Stats {
	return Stats{
		Compiled: int(atomic.LoadInt32(&o.stats.compiled)),
		Linked:   int(atomic.LoadInt32(&o.stats.linked)),
		Skipped:  int(atomic.LoadInt32(&o.stats.skipped)),
	}
}

type runStats struct {
	compiled int32
	linked   int32
	skipped  int32
}

// buildAll walks roots in dependency order and builds whatever is stale.
// Freshness for each object is decided once, at the moment its compile
// job starts; a compile failure sets errorFlag, which stops new jobs
// from starting but never cancels one already running.
func (o *Orchestrator) buildAll(ctx context.Context, roots []*Target) error {
	order, err := o.buildOrder(roots)
	if err != nil {
		return err
	}

	o.stats = runStats{}
	var errorFlag int32
	family := o.settings.family()

	// Every target's compile commands are recorded up front, not just the
	// ones actually reached before a failure, so the index stays valid
	// even when the build itself doesn't finish.
	o.populateCompiledb(family)

	for _, t := range order {
		if atomic.LoadInt32(&errorFlag) != 0 {
			break
		}
		if ctx.Err() != nil {
			o.settings.Logger.Printf("cbuild: interrupted before target %q started", t.name)
			break
		}
		if err := o.buildOne(ctx, t, family, &errorFlag); err != nil {
			atomic.StoreInt32(&errorFlag, 1)
			o.settings.Logger.Printf("cbuild: target %q: %v", t.name, err)
		}
	}

	if atomic.LoadInt32(&errorFlag) != 0 {
		return ErrBuildFailed
	}
	return nil
}

func (o *Orchestrator) buildOne(ctx context.Context, t *Target, family cc.Family, errorFlag *int32) error {
	for _, pre := range t.preCommands {
		if err := pre.run(ctx); err != nil {
			return xerrors.Errorf("pre-command %q: %w", pre.name, err)
		}
	}

	if t.kind == Proxy {
		return nil
	}

	if err := procshim.EnsureDir(t.objDir); err != nil {
		return err
	}

	objs := make([]string, len(t.sources))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxInt(o.settings.Parallelism, 1))
	for i, src := range t.sources {
		i, src := i, src
		obj := filepath.Join(t.objDir, cc.ObjectName(src, family))
		objs[i] = obj
		eg.Go(func() error {
			err := o.compileOne(egCtx, t, family, src, obj, errorFlag)
			if err != nil {
				atomic.StoreInt32(errorFlag, 1)
			}
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	depOutputs := make([]string, 0, len(t.deps))
	linkArtifacts := make([]string, 0, len(t.deps))
	for _, dep := range t.deps {
		if dep.outputPath != "" {
			depOutputs = append(depOutputs, dep.outputPath)
			if dep.kind != Executable {
				linkArtifacts = append(linkArtifacts, dep.outputPath)
			}
		}
	}

	stale, err := freshness.NeedsRelink(t.outputPath, objs, depOutputs)
	if err != nil {
		return err
	}
	if stale {
		if err := o.linkOne(t, family, objs, linkArtifacts); err != nil {
			return err
		}
	}

	for _, post := range t.postCommands {
		if err := post.run(ctx); err != nil {
			return xerrors.Errorf("post-command %q: %w", post.name, err)
		}
	}
	return nil
}

func (o *Orchestrator) compileSpecFor(t *Target, family cc.Family, src, obj string) cc.CompileSpec {
	return cc.CompileSpec{
		CompilerExe:   o.settings.CompilerExe,
		Family:        family,
		Obj:           obj,
		Src:           src,
		Cflags:        t.effectiveCflags(o.settings.Cflags),
		IncludeDirs:   t.includeDirs,
		GlobalDefines: o.settings.Defines,
		TargetDefines: t.defines,
	}
}

// populateCompiledb records every non-Proxy target's compile commands,
// regardless of staleness or of which targets buildAll's root set will
// actually reach, so compile_commands.json is complete even when a
// caller only rebuilds a subset by name or when the build fails partway.
func (o *Orchestrator) populateCompiledb(family cc.Family) {
	if o.compiledb == nil {
		return
	}
	o.compiledb.Reset()
	for _, t := range o.targets {
		if t.kind == Proxy {
			continue
		}
		for _, src := range t.sources {
			obj := filepath.Join(t.objDir, cc.ObjectName(src, family))
			argv := o.compileSpecFor(t, family, src, obj).Line()
			o.compiledb.Add(o.workDir, src, cc.Join(argv), argv)
		}
	}
}

func (o *Orchestrator) compileOne(ctx context.Context, t *Target, family cc.Family, src, obj string, errorFlag *int32) error {
	if atomic.LoadInt32(errorFlag) != 0 {
		return nil
	}

	spec := o.compileSpecFor(t, family, src, obj)
	argv := spec.Line()

	stale, err := freshness.NeedsRecompile(src, obj)
	if err != nil {
		return err
	}
	if !stale {
		atomic.AddInt32(&o.stats.skipped, 1)
		return nil
	}

	o.printStatus("CC", src)
	code, output, err := procshim.RunCaptured("", cc.Join(argv), nil)
	if err != nil {
		return xerrors.Errorf("compiling %s: %w", src, err)
	}
	if family == cc.MSVC {
		dep := cc.ScavengeShowIncludes(obj, output)
		_ = dep // informational only; not persisted unless a caller wants it
	}
	if code != 0 {
		return xerrors.Errorf("compiling %s: exit status %d:\n%s", src, code, output)
	}
	atomic.AddInt32(&o.stats.compiled, 1)
	return nil
}

func (o *Orchestrator) linkOne(t *Target, family cc.Family, objs, depOutputs []string) error {
	var argv []string
	verb := "LINK"
	switch t.kind {
	case StaticLibrary:
		verb = "AR"
		argv = cc.ArchiveSpec{ArchiverExe: o.settings.ArchiverExe, Family: family, Out: t.outputPath, Objs: objs}.Line()
	default:
		argv = cc.LinkSpec{
			LinkerExe:     o.settings.LinkerExe,
			Family:        family,
			Out:           t.outputPath,
			Objs:          objs,
			LibraryDirs:   t.libraryDirs,
			LinkLibs:      t.linkLibs,
			DepArtifacts:  depOutputs,
			Ldflags:       t.ldflags,
			GlobalLdflags: o.settings.Ldflags,
			Shared:        t.kind == SharedLibrary,
		}.Line()
	}

	o.printStatus(verb, t.name)
	code, output, err := procshim.RunCaptured("", cc.Join(argv), nil)
	if err != nil {
		return xerrors.Errorf("linking %s: %w", t.name, err)
	}
	if code != 0 {
		return xerrors.Errorf("linking %s: exit status %d:\n%s", t.name, code, output)
	}
	atomic.AddInt32(&o.stats.linked, 1)
	return nil
}

// printStatus writes a one-line progress update when stdout is a
// terminal, matching the teacher's convention of gating decorative
// output on isatty rather than printing it unconditionally.
func (o *Orchestrator) printStatus(verb, what string) {
	if f, ok := o.settings.Stdout.(interface{ Fd() uintptr }); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprintf(o.settings.Stdout, "%-6s%s\n", verb, what)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
