package cbuild

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/distr1/cbuild/internal/compiledb"
)

// Orchestrator is the registry and arena for everything registered
// against one build: Targets, Commands, Subprojects, and subcommands.
// Names are unique within each kind; registration order is preserved
// and is significant for deterministic top-level scheduling.
type Orchestrator struct {
	settings Settings

	targets     []*Target
	targetIndex map[string]int

	commands     []*Command
	commandIndex map[string]int

	subprojects []*Subproject
	subIndex    map[string]int

	subcommands map[string]subcommand

	workDir    string
	compiledb  *compiledb.Index
	selfTarget *Target
	stats      runStats
}

type subcommand struct {
	name        string
	target      *Target
	commandLine string
	callback    func(*Orchestrator) error
}

// New creates an Orchestrator. Settings is copied; callers configure it
// further through the Orchestrator's setters before calling Run.
func New(settings Settings) *Orchestrator {
	settings.applyDefaults()
	return &Orchestrator{
		settings:     settings,
		targetIndex:  make(map[string]int),
		commandIndex: make(map[string]int),
		subIndex:     make(map[string]int),
		subcommands:  make(map[string]subcommand),
		compiledb:    &compiledb.Index{},
	}
}

func (o *Orchestrator) addTarget(kind Kind, name string) *Target {
	if name == "" {
		return nil
	}
	if _, dup := o.targetIndex[name]; dup {
		o.settings.Logger.Printf("cbuild: duplicate target name %q ignored", name)
		return o.targets[o.targetIndex[name]]
	}
	t := &Target{o: o, index: len(o.targets), kind: kind, name: name}
	o.targetIndex[name] = len(o.targets)
	o.targets = append(o.targets, t)
	return t
}

// Executable registers a new executable target named name.
func (o *Orchestrator) Executable(name string) *Target { return o.addTarget(Executable, name) }

// StaticLibrary registers a new static library target named name.
func (o *Orchestrator) StaticLibrary(name string) *Target { return o.addTarget(StaticLibrary, name) }

// SharedLibrary registers a new shared library target named name.
func (o *Orchestrator) SharedLibrary(name string) *Target { return o.addTarget(SharedLibrary, name) }

// Target looks up a previously registered target by name, or nil.
func (o *Orchestrator) Target(name string) *Target {
	if i, ok := o.targetIndex[name]; ok {
		return o.targets[i]
	}
	return nil
}

// NewCommand registers a shell-line Command named name, run in dir (or
// the process's working directory, if dir is empty).
func (o *Orchestrator) NewCommand(name, dir, commandLine string) *Command {
	if name == "" {
		return nil
	}
	if _, dup := o.commandIndex[name]; dup {
		o.settings.Logger.Printf("cbuild: duplicate command name %q ignored", name)
		return o.commands[o.commandIndex[name]]
	}
	c := &Command{o: o, name: name, dir: dir, commandLine: commandLine}
	o.commandIndex[name] = len(o.commands)
	o.commands = append(o.commands, c)
	return c
}

// NewCallbackCommand registers a Go-callback Command named name.
func (o *Orchestrator) NewCallbackCommand(name string, fn func(context.Context) error) *Command {
	if name == "" || fn == nil {
		return nil
	}
	_, dup := o.commandIndex[name]
	c := o.NewCommand(name, "", "")
	if !dup {
		c.callback = fn
	}
	return c
}

// NewSubproject registers a child build rooted at directory, driven by
// driverExe (its self-rebuilding orchestrator binary, or empty for
// "./build" relative to directory).
func (o *Orchestrator) NewSubproject(alias, directory, driverExe string) *Subproject {
	if alias == "" {
		return nil
	}
	if _, dup := o.subIndex[alias]; dup {
		o.settings.Logger.Printf("cbuild: duplicate subproject alias %q ignored", alias)
		return o.subprojects[o.subIndex[alias]]
	}
	s := &Subproject{o: o, alias: alias, directory: directory, driverExe: driverExe}
	o.subIndex[alias] = len(o.subprojects)
	o.subprojects = append(o.subprojects, s)
	return s
}

// RegisterSubcommand exposes name as a CLI verb that first builds
// target (if non-nil) and then either runs commandLine as a shell line
// in o's working directory or invokes callback.
func (o *Orchestrator) RegisterSubcommand(name string, target *Target, commandLine string, callback func(*Orchestrator) error) {
	if name == "" {
		return
	}
	o.subcommands[name] = subcommand{name: name, target: target, commandLine: commandLine, callback: callback}
}

// SetOutputDir overrides the default "build" output directory.
func (o *Orchestrator) SetOutputDir(dir string) *Orchestrator { o.settings.OutputDir = dir; return o }

// SetParallelism overrides the default NumCPU() worker count.
func (o *Orchestrator) SetParallelism(n int) *Orchestrator { o.settings.Parallelism = n; return o }

// SetCompiler overrides the default (CC-env-or-platform) compiler.
func (o *Orchestrator) SetCompiler(exe string) *Orchestrator { o.settings.CompilerExe = exe; return o }

// SetArchiver overrides the default archiver.
func (o *Orchestrator) SetArchiver(exe string) *Orchestrator { o.settings.ArchiverExe = exe; return o }

// SetLinker overrides the default linker.
func (o *Orchestrator) SetLinker(exe string) *Orchestrator { o.settings.LinkerExe = exe; return o }

// AddGlobalCflags appends a flag applied to every target's compile
// commands, unless that target overrides its cflags.
func (o *Orchestrator) AddGlobalCflags(flag string) *Orchestrator {
	o.settings.Cflags = append(o.settings.Cflags, flag)
	return o
}

// AddGlobalLdflags appends a flag applied to every link command.
func (o *Orchestrator) AddGlobalLdflags(flag string) *Orchestrator {
	o.settings.Ldflags = append(o.settings.Ldflags, flag)
	return o
}

// AddGlobalDefine appends a preprocessor define applied to every
// target's compile commands.
func (o *Orchestrator) AddGlobalDefine(define string) *Orchestrator {
	o.settings.Defines = append(o.settings.Defines, define)
	return o
}

// SetGenerateCompileCommands toggles compile_commands.json export.
func (o *Orchestrator) SetGenerateCompileCommands(enabled bool) *Orchestrator {
	o.settings.GenerateCompileCommands = enabled
	return o
}

// RegisterCleanup queues fn to run once, when Run returns (whether or not
// the build succeeded), in registration order. Intended for callback Commands that create scratch
// resources (a temporary directory, an extracted archive) that must be
// removed even if a later step in the same Run fails.
func (o *Orchestrator) RegisterCleanup(fn func() error) {
	registerCleanup(fn)
}

func (o *Orchestrator) targetNamed(name string) (*Target, error) {
	t := o.Target(name)
	if t == nil {
		return nil, xerrors.Errorf("unknown target %q: %w", name, ErrUnknownTarget)
	}
	return t, nil
}
