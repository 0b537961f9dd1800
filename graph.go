package cbuild

import "golang.org/x/xerrors"

// buildOrder returns roots and everything they transitively depend on,
// ordered so that every dependency precedes its dependents, via a DFS
// visitor over two bit vectors sized to the target registry: visited
// (fully ordered already) and inStack (on the current DFS path, used to
// detect a cycle the instant it closes). This is the engine's primary
// cycle detector; internal/graph's gonum-backed sort is an
// advisory secondary view, not a replacement for this algorithm.
func (o *Orchestrator) buildOrder(roots []*Target) ([]*Target, error) {
	visited := make([]bool, len(o.targets))
	inStack := make([]bool, len(o.targets))
	var order []*Target
	var stackNames []string

	var visit func(t *Target) error
	visit = func(t *Target) error {
		if visited[t.index] {
			return nil
		}
		if inStack[t.index] {
			return xerrors.Errorf("%s: %w", joinNames(append(stackNames, t.name)), ErrCycle)
		}
		inStack[t.index] = true
		stackNames = append(stackNames, t.name)
		for _, dep := range t.deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stackNames = stackNames[:len(stackNames)-1]
		inStack[t.index] = false
		visited[t.index] = true
		order = append(order, t)
		return nil
	}

	for _, t := range roots {
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func joinNames(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += " -> "
		}
		s += n
	}
	return s
}

// TopoOrder returns every registered non-Proxy target in dependency
// order, for diagnostic use (e.g. printing a build plan). It reuses the
// same DFS as an actual build would; it does not call internal/graph.
func (o *Orchestrator) TopoOrder() ([]*Target, error) {
	order, err := o.buildOrder(o.targets)
	if err != nil {
		return nil, err
	}
	result := make([]*Target, 0, len(order))
	for _, t := range order {
		if t.kind != Proxy {
			result = append(result, t)
		}
	}
	return result, nil
}
