package cbuild

import (
	"errors"
	"testing"
)

func TestBuildOrderDependenciesPrecedeDependents(t *testing.T) {
	o := newTestOrchestrator()
	math := o.StaticLibrary("math")
	app := o.Executable("app")
	app.LinkTarget(math)

	order, err := o.buildOrder([]*Target{app})
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0].name != "math" || order[1].name != "app" {
		var names []string
		for _, t := range order {
			names = append(names, t.name)
		}
		t.Errorf("order = %v, want [math app]", names)
	}
}

func TestBuildOrderDetectsCycle(t *testing.T) {
	o := newTestOrchestrator()
	a := o.StaticLibrary("a")
	b := o.StaticLibrary("b")
	a.LinkTarget(b)
	b.LinkTarget(a)

	_, err := o.buildOrder([]*Target{a})
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("buildOrder() error = %v, want wrapping ErrCycle", err)
	}
}

func TestBuildOrderSharedDependencyVisitedOnce(t *testing.T) {
	o := newTestOrchestrator()
	common := o.StaticLibrary("common")
	a := o.Executable("a")
	b := o.Executable("b")
	a.LinkTarget(common)
	b.LinkTarget(common)

	order, err := o.buildOrder([]*Target{a, b})
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, tgt := range order {
		if tgt.name == "common" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("common appears %d times in build order, want 1", count)
	}
	if len(order) != 3 {
		t.Errorf("len(order) = %d, want 3", len(order))
	}
}
