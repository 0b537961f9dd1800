package cbuild

import (
	"context"
	"errors"
	"testing"
)

func TestCommandRunsAtMostOncePerRun(t *testing.T) {
	o := newTestOrchestrator()
	calls := 0
	c := o.NewCallbackCommand("once", func(context.Context) error {
		calls++
		return nil
	})

	if err := c.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}

func TestCommandResetAllowsRerunOnNextRun(t *testing.T) {
	o := newTestOrchestrator()
	calls := 0
	c := o.NewCallbackCommand("once", func(context.Context) error {
		calls++
		return nil
	})

	if err := c.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.reset()
	if err := c.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("callback ran %d times across two runs, want 2", calls)
	}
}

func TestCommandDependencyRunsFirstAndFailurePropagates(t *testing.T) {
	o := newTestOrchestrator()
	var order []string
	dep := o.NewCallbackCommand("dep", func(context.Context) error {
		order = append(order, "dep")
		return errors.New("dep failed")
	})
	main := o.NewCallbackCommand("main", func(context.Context) error {
		order = append(order, "main")
		return nil
	})
	main.DependsOn(dep)

	err := main.run(context.Background())
	if err == nil {
		t.Fatal("expected error from failing dependency")
	}
	if len(order) != 1 || order[0] != "dep" {
		t.Errorf("order = %v, want [\"dep\"] (main must not run after dep fails)", order)
	}
}
