package molecule

import (
	"cmp"
	"slices"

	"github.com/matzehuels/molcanon/pkg/elements"
	"github.com/matzehuels/molcanon/pkg/errors"
)

// MaxAtoms bounds the size of graphs read from untrusted text such as
// molfiles and keys.
const MaxAtoms = 10000

// Atom is a node of the molecular graph.
type Atom struct {
	Index        int    // Position in 0..n-1
	Symbol       string // Element symbol, e.g. "C"
	AtomicNumber int    // Z, looked up from the element table
	Partition    int    // Equivalence class assigned by refinement
}

// Bond is an undirected edge. Normalized bonds always have A < B.
type Bond struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Normalize returns the bond with its endpoints in ascending order.
func (b Bond) Normalize() Bond {
	if b.A > b.B {
		return Bond{A: b.B, B: b.A}
	}
	return b
}

func compareBonds(x, y Bond) int {
	if c := cmp.Compare(x.A, y.A); c != 0 {
		return c
	}
	return cmp.Compare(x.B, y.B)
}

// Graph is a simple undirected molecular graph.
//
// The zero value is an empty graph with no atoms. Use New or FromBonds to
// create a populated graph. Graph is not safe for concurrent use while bonds
// are being added.
type Graph struct {
	atoms []Atom
	adj   [][]int // ascending neighbor indices per atom
	bonds int
}

// New creates a graph with one atom per symbol and no bonds. All partitions
// start at zero.
func New(symbols []string) (*Graph, error) {
	g := &Graph{
		atoms: make([]Atom, len(symbols)),
		adj:   make([][]int, len(symbols)),
	}
	for i, sym := range symbols {
		el, ok := elements.BySymbol(sym)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownElement, "atom %d: unknown element %q", i+1, sym)
		}
		g.atoms[i] = Atom{Index: i, Symbol: el.Symbol, AtomicNumber: el.Number}
	}
	return g, nil
}

// FromBonds creates a graph from symbols and bonds in one step.
func FromBonds(symbols []string, bonds []Bond) (*Graph, error) {
	g, err := New(symbols)
	if err != nil {
		return nil, err
	}
	for _, b := range bonds {
		if err := g.AddBond(b.A, b.B); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddBond connects atoms a and b. It fails with INVALID_BOND when either index
// is out of range, when a == b, or when the bond already exists.
func (g *Graph) AddBond(a, b int) error {
	n := len(g.atoms)
	switch {
	case a < 0 || a >= n || b < 0 || b >= n:
		return errors.New(errors.ErrCodeInvalidBond, "bond %d-%d: index out of range [0,%d)", a, b, n)
	case a == b:
		return errors.New(errors.ErrCodeInvalidBond, "bond %d-%d: self bond", a, b)
	}
	pos, found := slices.BinarySearch(g.adj[a], b)
	if found {
		return errors.New(errors.ErrCodeInvalidBond, "bond %d-%d: duplicate bond", a, b)
	}
	g.adj[a] = slices.Insert(g.adj[a], pos, b)
	pos, _ = slices.BinarySearch(g.adj[b], a)
	g.adj[b] = slices.Insert(g.adj[b], pos, a)
	g.bonds++
	return nil
}

// Len returns the number of atoms.
func (g *Graph) Len() int { return len(g.atoms) }

// BondCount returns the number of bonds.
func (g *Graph) BondCount() int { return g.bonds }

// Atom returns the atom at index i. It panics if i is out of range.
func (g *Graph) Atom(i int) Atom { return g.atoms[i] }

// Atoms returns a copy of all atoms ordered by index.
func (g *Graph) Atoms() []Atom { return slices.Clone(g.atoms) }

// Symbols returns the element symbols ordered by index.
func (g *Graph) Symbols() []string {
	out := make([]string, len(g.atoms))
	for i, a := range g.atoms {
		out[i] = a.Symbol
	}
	return out
}

// Neighbors returns the ascending indices of atoms bonded to i.
func (g *Graph) Neighbors(i int) []int { return slices.Clone(g.adj[i]) }

// Degree returns the number of bonds at atom i.
func (g *Graph) Degree(i int) int { return len(g.adj[i]) }

// HasBond reports whether a and b are bonded.
func (g *Graph) HasBond(a, b int) bool {
	if a < 0 || a >= len(g.adj) {
		return false
	}
	_, found := slices.BinarySearch(g.adj[a], b)
	return found
}

// Bonds returns all bonds normalized to A < B and sorted by (A, B).
func (g *Graph) Bonds() []Bond {
	out := make([]Bond, 0, g.bonds)
	for a, nbrs := range g.adj {
		for _, b := range nbrs {
			if a < b {
				out = append(out, Bond{A: a, B: b})
			}
		}
	}
	slices.SortFunc(out, compareBonds)
	return out
}

// Density returns the ratio of bonds to possible bonds, 2m / (n(n-1)).
// Graphs with fewer than two atoms have density 0.
func (g *Graph) Density() float64 {
	n := len(g.atoms)
	if n < 2 {
		return 0
	}
	return 2 * float64(g.bonds) / float64(n*(n-1))
}

// Partitions returns the partition label of every atom ordered by index.
func (g *Graph) Partitions() []int {
	out := make([]int, len(g.atoms))
	for i, a := range g.atoms {
		out[i] = a.Partition
	}
	return out
}

// AtomicNumbers returns the atomic number of every atom ordered by index.
func (g *Graph) AtomicNumbers() []int {
	out := make([]int, len(g.atoms))
	for i, a := range g.atoms {
		out[i] = a.AtomicNumber
	}
	return out
}
