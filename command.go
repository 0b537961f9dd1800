package cbuild

import (
	"context"
	"os"

	"golang.org/x/xerrors"

	"github.com/distr1/cbuild/internal/procshim"
)

// Command is a named, memoized unit of work: either a shell line run in a
// working directory, or a Go callback. A given Command runs at most once
// per Run even if reachable through multiple paths.
type Command struct {
	o    *Orchestrator
	name string

	dir         string
	commandLine string
	env         []string
	callback    func(context.Context) error

	deps []*Command

	executed bool
	result   error
}

// Name returns the command's registration name.
func (c *Command) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// DependsOn records that c must not run until dep has completed
// successfully.
func (c *Command) DependsOn(dep *Command) *Command {
	if c == nil || dep == nil {
		return c
	}
	c.deps = append(c.deps, dep)
	return c
}

// SetDir sets the working directory the shell line runs in. Defaults to
// the orchestrator's current working directory.
func (c *Command) SetDir(dir string) *Command {
	if c == nil {
		return c
	}
	c.dir = dir
	return c
}

// SetEnv appends NAME=VALUE environment entries inherited by the shell
// line, on top of the calling process's environment.
func (c *Command) SetEnv(env ...string) *Command {
	if c == nil {
		return c
	}
	c.env = append(c.env, env...)
	return c
}

// reset clears per-run memoization state. Called once at the start of
// every Run so that a long-lived Orchestrator can be driven through
// multiple builds (e.g. the CLI's build-then-clean sequence within one
// process, or repeated test invocations).
func (c *Command) reset() {
	c.executed = false
	c.result = nil
}

// run executes c's dependencies (in registration order) and then c
// itself, exactly once, caching the outcome for subsequent callers
// within the same Run.
func (c *Command) run(ctx context.Context) error {
	if c.executed {
		return c.result
	}
	for _, dep := range c.deps {
		if err := dep.run(ctx); err != nil {
			c.executed = true
			c.result = xerrors.Errorf("command %q: dependency %q: %w", c.name, dep.name, err)
			return c.result
		}
	}

	if c.callback != nil {
		c.result = c.callback(ctx)
	} else if c.commandLine != "" {
		env := c.env
		if len(env) > 0 {
			env = append(os.Environ(), env...)
		}
		code, err := procshim.Run(c.dir, c.commandLine, env)
		if err != nil {
			c.result = xerrors.Errorf("command %q: %w", c.name, err)
		} else if code != 0 {
			c.result = xerrors.Errorf("command %q: exit status %d", c.name, code)
		}
	}
	c.executed = true
	return c.result
}
