package canon

import (
	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/molecule"
)

// Options configures Canonicalize.
type Options struct {
	// Root is the index in the refined graph where traversal starts.
	// The zero value starts at the first atom of the lowest partition.
	Root int
	// Priorities orders the neighbor groups. Nil means DefaultPriorities.
	Priorities Priorities
}

// Result is the outcome of Canonicalize.
type Result struct {
	// Graph is the canonically numbered graph.
	Graph *molecule.Graph
	// Refined is the graph after partition refinement, before traversal.
	Refined *molecule.Graph
	// Mapping maps each input index to its canonical index.
	Mapping []int
	// Rounds is the number of refinement rounds after the initial partition.
	Rounds int
}

// Canonicalize refines g, traverses the refined graph from opts.Root and
// renumbers it by the traversal. Isomorphic inputs produce identical
// canonical graphs. The input graph is never modified.
//
// Disconnected graphs are rejected with DISCONNECTED_GRAPH before refinement.
func Canonicalize(g *molecule.Graph, opts Options) (*Result, error) {
	if g == nil || g.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "molecule has no atoms")
	}
	if comps := g.Components(); len(comps) > 1 {
		return nil, errors.New(errors.ErrCodeDisconnectedGraph,
			"molecule has %d connected components", len(comps))
	}
	ref, err := refine(g)
	if err != nil {
		return nil, err
	}
	order, err := Traverse(ref.graph, opts.Root, opts.Priorities)
	if err != nil {
		return nil, err
	}
	out, err := ref.graph.Relabel(order)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "relabel refined graph")
	}

	mapping := make([]int, g.Len())
	for i, r := range ref.mapping {
		mapping[i] = order[r]
	}
	return &Result{
		Graph:   out,
		Refined: ref.graph,
		Mapping: mapping,
		Rounds:  ref.rounds,
	}, nil
}
