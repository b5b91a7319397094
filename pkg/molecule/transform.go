package molecule

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/molcanon/pkg/errors"
)

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		atoms: slices.Clone(g.atoms),
		adj:   make([][]int, len(g.adj)),
		bonds: g.bonds,
	}
	for i, nbrs := range g.adj {
		out.adj[i] = slices.Clone(nbrs)
	}
	return out
}

// WithPartitions returns a copy of g whose atom i carries partition p[i].
func (g *Graph) WithPartitions(p []int) (*Graph, error) {
	if len(p) != len(g.atoms) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"partition vector has %d entries, graph has %d atoms", len(p), len(g.atoms))
	}
	out := g.Clone()
	for i := range out.atoms {
		out.atoms[i].Partition = p[i]
	}
	return out, nil
}

// Relabel returns a new graph in which atom mapping[i] carries the symbol,
// atomic number and partition of atom i, with every bond rewritten through
// mapping. The mapping must be a permutation of 0..n-1; anything else yields
// an INVALID_INPUT error.
func (g *Graph) Relabel(mapping []int) (*Graph, error) {
	if err := ValidateMapping(mapping, len(g.atoms)); err != nil {
		return nil, err
	}
	out := &Graph{
		atoms: make([]Atom, len(g.atoms)),
		adj:   make([][]int, len(g.atoms)),
		bonds: g.bonds,
	}
	for old, a := range g.atoms {
		a.Index = mapping[old]
		out.atoms[a.Index] = a
	}
	for old, nbrs := range g.adj {
		moved := make([]int, len(nbrs))
		for j, nb := range nbrs {
			moved[j] = mapping[nb]
		}
		slices.Sort(moved)
		out.adj[mapping[old]] = moved
	}
	return out, nil
}

// ValidateMapping checks that mapping is a permutation of 0..n-1.
func ValidateMapping(mapping []int, n int) error {
	if len(mapping) != n {
		return errors.New(errors.ErrCodeInvalidInput, "mapping has %d entries, want %d", len(mapping), n)
	}
	seen := make([]bool, n)
	for old, idx := range mapping {
		if idx < 0 || idx >= n {
			return errors.New(errors.ErrCodeInvalidInput, "mapping[%d] = %d out of range [0,%d)", old, idx, n)
		}
		if seen[idx] {
			return errors.New(errors.ErrCodeInvalidInput, "mapping assigns index %d twice", idx)
		}
		seen[idx] = true
	}
	return nil
}

// Permutation returns the random permutation of 0..n-1 used by Permute for
// the same seed.
func Permutation(n int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	return rng.Perm(n)
}

// Permute returns g relabeled by a pseudo-random permutation derived from
// seed. Equal seeds always produce equal permutations. Partitions travel with
// their atoms.
func (g *Graph) Permute(seed uint64) *Graph {
	out, err := g.Relabel(Permutation(len(g.atoms), seed))
	if err != nil {
		// Perm always yields a valid permutation.
		panic(err)
	}
	return out
}
