// Package molecule provides the undirected molecular graph that every stage of
// canonicalization reads and produces.
//
// # Overview
//
// A [Graph] holds atoms and bonds. Atoms are addressed by a contiguous index
// in 0..n-1 and carry an element symbol, its atomic number and a partition
// label. Bonds are unordered pairs of distinct atoms; the graph is simple, so
// self bonds and duplicate bonds are rejected with an INVALID_BOND error.
//
// # Building Graphs
//
// Use [New] with the element symbols in input order, then [Graph.AddBond] for
// each bond, or [FromBonds] to do both at once:
//
//	g, err := molecule.FromBonds(
//	    []string{"H", "H", "O"},
//	    []molecule.Bond{{A: 0, B: 2}, {A: 1, B: 2}},
//	)
//
// Unknown element symbols are rejected with an UNKNOWN_ELEMENT error.
//
// # Immutability
//
// Once built, graphs are treated as values: [Graph.Relabel],
// [Graph.WithPartitions], [Graph.Permute] and [Graph.Clone] all return new
// graphs and leave the receiver untouched. Accessors return copies. A graph
// that is no longer being built is safe for concurrent reads.
//
// # Relabeling
//
// A mapping is a slice where mapping[i] is the new index of atom i. It must be
// a permutation of 0..n-1:
//
//	canonical, err := g.Relabel(mapping)
//
// The relabeled graph's atom mapping[i] carries atom i's symbol and partition,
// and every bond is rewritten through the same mapping.
package molecule
