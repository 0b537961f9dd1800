package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTopoOrderBuildOrder(t *testing.T) {
	// main depends on math; math has no deps. Build order: math, main.
	nodes := []Node{{ID: 0, Name: "main"}, {ID: 1, Name: "math"}}
	edges := [][2]int64{{0, 1}}

	got, err := TopoOrder(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, n := range got {
		names = append(names, n.Name)
	}
	want := []string{"math", "main"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("TopoOrder() mismatch (-want +got):\n%s", diff)
	}
}

func TestTopoOrderCycle(t *testing.T) {
	nodes := []Node{{ID: 0, Name: "a"}, {ID: 1, Name: "b"}}
	edges := [][2]int64{{0, 1}, {1, 0}}

	_, err := TopoOrder(nodes, edges)
	if err == nil {
		t.Fatal("expected cycle error")
	}
}
