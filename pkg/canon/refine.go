package canon

import (
	"slices"

	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/molecule"
)

// refined is a graph in canonically sorted order together with the relation
// to the graph it was computed from.
type refined struct {
	graph   *molecule.Graph
	mapping []int // input index -> refined index
	rounds  int
}

// Refine computes the equitable partition of g and returns g renumbered into
// the canonically sorted order, with every atom's Partition set.
//
// Atoms are first ordered by atomic number and the descending atomic numbers
// of their neighbors, then repeatedly by partition id and the descending
// partition ids of their neighbors, until the partition vector no longer
// changes. Each partition occupies a contiguous band of indices and ids grow
// along the band order.
//
// Refine never modifies g. It returns an INTERNAL_ERROR if refinement does not
// settle within n+1 rounds.
func Refine(g *molecule.Graph) (*molecule.Graph, error) {
	r, err := refine(g)
	if err != nil {
		return nil, err
	}
	return r.graph, nil
}

func refine(g *molecule.Graph) (*refined, error) {
	n := g.Len()
	mapping := make([]int, n)
	for i := range mapping {
		mapping[i] = i
	}

	cur, step, err := sortBy(g, g.AtomicNumbers())
	if err != nil {
		return nil, err
	}
	compose(mapping, step)
	part := assign(cur, cur.AtomicNumbers())

	for round := 1; ; round++ {
		if round > n+1 {
			return nil, errors.New(errors.ErrCodeInternal,
				"partition refinement did not converge after %d rounds", n+1)
		}
		cur, err = cur.WithPartitions(part)
		if err != nil {
			return nil, err
		}
		next, step, err := sortBy(cur, part)
		if err != nil {
			return nil, err
		}
		compose(mapping, step)
		prev := next.Partitions()
		nextPart := assign(next, prev)
		cur = next
		if slices.Equal(nextPart, prev) {
			out, err := cur.WithPartitions(nextPart)
			if err != nil {
				return nil, err
			}
			return &refined{graph: out, mapping: mapping, rounds: round}, nil
		}
		part = nextPart
	}
}

// signature is attr[i] followed by the attr values of i's neighbors in
// descending order.
func signature(g *molecule.Graph, attr []int, i int) []int {
	nbrs := g.Neighbors(i)
	sig := make([]int, 1, len(nbrs)+1)
	sig[0] = attr[i]
	for _, nb := range nbrs {
		sig = append(sig, attr[nb])
	}
	slices.SortFunc(sig[1:], func(a, b int) int { return b - a })
	return sig
}

// sortBy renumbers g so that atoms appear in ascending (signature, index)
// order. It returns the renumbered graph and the old -> new mapping.
func sortBy(g *molecule.Graph, attr []int) (*molecule.Graph, []int, error) {
	n := g.Len()
	sigs := make([][]int, n)
	order := make([]int, n)
	for i := range n {
		sigs[i] = signature(g, attr, i)
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		if c := slices.Compare(sigs[a], sigs[b]); c != 0 {
			return c
		}
		return a - b
	})
	step := make([]int, n)
	for pos, old := range order {
		step[old] = pos
	}
	out, err := g.Relabel(step)
	if err != nil {
		return nil, nil, err
	}
	return out, step, nil
}

// assign walks g in index order and opens a new partition whenever an atom's
// signature differs from its predecessor's.
func assign(g *molecule.Graph, attr []int) []int {
	n := g.Len()
	part := make([]int, n)
	if n == 0 {
		return part
	}
	prev := signature(g, attr, 0)
	for i := 1; i < n; i++ {
		sig := signature(g, attr, i)
		part[i] = part[i-1]
		if !slices.Equal(sig, prev) {
			part[i]++
		}
		prev = sig
	}
	return part
}

// compose applies step to every value of mapping in place.
func compose(mapping, step []int) {
	for i, m := range mapping {
		mapping[i] = step[m]
	}
}
