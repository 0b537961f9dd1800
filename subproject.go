package cbuild

import (
	"path/filepath"

	"github.com/distr1/cbuild/internal/subproject"
)

// Subproject wraps a child orchestrator invocation rooted at Directory.
// Its targets are not known until the manifest protocol runs, so
// GetTarget returns a lazily-resolved Proxy Target.
type Subproject struct {
	o         *Orchestrator
	alias     string
	directory string
	driverExe string

	manifest *subproject.Manifest // nil until resolved
	proxies  map[string]*Target
	buildCmd *Command // auto-created, shared by every proxy of this subproject
}

// Alias returns the subproject's registration name.
func (s *Subproject) Alias() string {
	if s == nil {
		return ""
	}
	return s.alias
}

// GetTarget returns (creating on first use) a Proxy Target standing in
// for the subproject target named name. The manifest is not actually
// fetched until Run resolves it; until then the proxy's output path is
// empty. Its sole pre-command is an auto-created build-Command that
// invokes the child driver (no args) in the subproject's directory, so
// that anything depending on the proxy actually triggers the child
// build rather than assuming its artifact already exists on disk.
func (s *Subproject) GetTarget(name string) *Target {
	if s == nil || name == "" {
		return nil
	}
	if t, ok := s.proxies[name]; ok {
		return t
	}
	if s.proxies == nil {
		s.proxies = make(map[string]*Target)
	}
	if s.buildCmd == nil {
		s.buildCmd = s.o.NewCommand(s.alias+":build", s.directory, subproject.BuildCommandLine(s.driverExe))
	}
	t := &Target{o: s.o, index: len(s.o.targets), kind: Proxy, name: s.alias + ":" + name}
	t.preCommands = append(t.preCommands, s.buildCmd)
	s.o.targets = append(s.o.targets, t)
	s.o.targetIndex[t.name] = t.index
	s.proxies[name] = t
	return t
}

// resolve runs the manifest protocol (spawning the child driver with
// --manifest) and fills in every outstanding proxy's output path.
func (s *Subproject) resolve() error {
	m, err := subproject.FetchManifest(s.directory, s.driverExe)
	if err != nil {
		return err
	}
	s.manifest = m
	for name, t := range s.proxies {
		entry, ok := m.Target(name)
		if !ok {
			s.o.settings.Logger.Printf("cbuild: subproject %q: target %q not present in manifest", s.alias, name)
			continue
		}
		t.outputPath = filepath.Join(s.directory, entry.RelativeOutputPath)
	}
	return nil
}

// clean invokes the subproject's clean verb. Failure is logged as a
// warning, never fatal to the parent build.
func (s *Subproject) clean() {
	if err := subproject.Clean(s.directory, s.driverExe); err != nil {
		s.o.settings.Logger.Printf("cbuild: subproject %q: clean: %v", s.alias, err)
	}
}
