package cbuild

import (
	"context"

	"github.com/distr1/cbuild/internal/procshim"
	"github.com/distr1/cbuild/internal/selfrebuild"
)

// SelfRebuildTarget designates t as the target that produces the binary
// currently running this process. Before building anything else, Run
// compares t's sources against the running executable's modification
// time and, if any source is newer, builds t, swaps the freshly linked
// binary into the running executable's place, and re-execs into it —
// handing the rest of the build off to a newly started, up-to-date
// process.
func (o *Orchestrator) SelfRebuildTarget(t *Target) *Orchestrator {
	o.selfTarget = t
	return o
}

// maybeSelfRebuild rebuilds and re-execs when the self target is stale.
// On a successful exec it never returns. It returns false when no rebuild
// was needed, and also when the rebuilt binary was placed but process-image
// replacement failed (e.g. on Windows), in which case the caller continues
// the original invocation in this process.
func (o *Orchestrator) maybeSelfRebuild(args []string, env []string) (bool, error) {
	if o.selfTarget == nil {
		return false, nil
	}
	exe, err := procshim.SelfExePath()
	if err != nil {
		return false, err
	}
	stale, err := selfrebuild.NeedsRebuild(exe, o.selfTarget.sources)
	if err != nil {
		return false, err
	}
	if !stale {
		return false, nil
	}

	if err := o.buildAll(context.Background(), []*Target{o.selfTarget}); err != nil {
		return false, err
	}
	if err := selfrebuild.Place(exe, o.selfTarget.outputPath); err != nil {
		return false, err
	}
	if err := selfrebuild.Exec(exe, args, env); err != nil {
		// Windows has no process-image-replacement primitive; fall back
		// to letting the (now stale-in-memory, fresh-on-disk) process
		// continue this one invocation rather than failing the build.
		o.settings.Logger.Printf("cbuild: self-rebuild: %v; continuing without re-exec", err)
		return false, nil
	}
	return true, nil // unreachable on platforms where Exec succeeds
}
