// Package graph provides an advisory topological view of the target
// dependency graph, layered on top of gonum's graph algorithms. It is not
// the engine's primary cycle detector — that is the scheduler's DFS
// visitor, whose exact bit-vector algorithm is a testable property of its
// own. No other package in this module imports it: Orchestrator.TopoOrder
// uses the scheduler's DFS, and subproject clean runs in registration
// order.
package graph

import (
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Node is one entry in the advisory graph, identified by a stable ID
// (the owning registry's slice index) and carrying its name for
// diagnostics.
type Node struct {
	ID   int64
	Name string
}

type simpleNode struct {
	id int64
}

func (n simpleNode) ID() int64 { return n.id }

// TopoOrder returns nodes ordered so that every dependency precedes its
// dependents, given edges as (from, to) = (dependent, dependency) pairs.
// It reports a wrapped error naming the cyclic component when the graph
// is not a DAG.
func TopoOrder(nodes []Node, edges [][2]int64) ([]Node, error) {
	g := simple.NewDirectedGraph()
	byID := make(map[int64]Node, len(nodes))
	for _, n := range nodes {
		g.AddNode(simpleNode{id: n.ID})
		byID[n.ID] = n
	}
	for _, e := range edges {
		g.SetEdge(g.NewEdge(simpleNode{id: e[0]}, simpleNode{id: e[1]}))
	}

	sorted, err := topo.Sort(g)
	if err != nil {
		if unorderable, ok := err.(topo.Unorderable); ok {
			names := make([]string, 0)
			for _, component := range unorderable {
				for _, n := range component {
					names = append(names, byID[n.ID()].Name)
				}
			}
			return nil, xerrors.Errorf("circular dependency among: %v", names)
		}
		return nil, xerrors.Errorf("topo sort: %w", err)
	}

	// topo.Sort returns dependents before their dependencies are resolved
	// in Kahn order (roots without incoming "depends on" edges first,
	// i.e. leaves of our dependency relation last); reverse so that
	// dependencies precede dependents, matching a build order.
	result := make([]Node, len(sorted))
	for i, n := range sorted {
		result[len(sorted)-1-i] = byID[n.ID()]
	}
	return result, nil
}
