package canon

import (
	"slices"

	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/molecule"
)

// Traverse assigns canonical numbers to the atoms of a refined graph by a
// breadth-first walk from root.
//
// Every partition owns a pool made of its band of indices. When an atom
// leaves the queue it receives the smallest unused index of its partition's
// pool. Its undiscovered neighbors are then queued group by group in the order
// given by prio: with [DefaultPriorities] first neighbors in lower partitions,
// then higher, then equal.
//
// Inside a group, neighbors are ordered by a working partition that starts as
// the equitable partition and is refined further each time an atom is
// discovered and split off from its class. Ties that remain are broken by
// ascending index. Equivalent atoms therefore receive the same relative order
// no matter how the input listed them.
//
// The returned slice maps refined index to canonical index. If the walk
// cannot reach every atom, Traverse returns a DISCONNECTED_GRAPH error and no
// mapping. A root outside 0..n-1 yields INVALID_INPUT.
func Traverse(g *molecule.Graph, root int, prio Priorities) ([]int, error) {
	n := g.Len()
	if root < 0 || root >= n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "root %d out of range [0,%d)", root, n)
	}
	if len(prio) == 0 {
		prio = DefaultPriorities
	}

	part := g.Partitions()
	adj := make([][]int, n)
	for i := range n {
		adj[i] = g.Neighbors(i)
	}
	pools := make(map[int][]int)
	for i, p := range part {
		pools[p] = append(pools[p], i)
	}

	mapping := make([]int, n)
	assigned := 0
	seen := make([]bool, n)
	work := individualize(adj, part, root)

	queue := linkedlistqueue.New()
	queue.Enqueue(root)
	seen[root] = true

	for !queue.Empty() {
		v, _ := queue.Dequeue()
		a := v.(int)
		pool := pools[part[a]]
		mapping[a] = pool[0]
		pools[part[a]] = pool[1:]
		assigned++

		for _, inGroup := range prio {
			var cand []int
			for _, nb := range adj[a] {
				if !seen[nb] && inGroup(part[nb], part[a]) {
					cand = append(cand, nb)
				}
			}
			for len(cand) > 0 {
				pick := slices.MinFunc(cand, func(x, y int) int {
					if work[x] != work[y] {
						return work[x] - work[y]
					}
					return x - y
				})
				cand = slices.DeleteFunc(cand, func(x int) bool { return x == pick })
				seen[pick] = true
				queue.Enqueue(pick)
				work = individualize(adj, work, pick)
			}
		}
	}

	if assigned < n {
		return nil, errors.New(errors.ErrCodeDisconnectedGraph,
			"traversal from atom %d reached %d of %d atoms", root, assigned, n)
	}
	return mapping, nil
}

// individualize splits atom a from the other members of its class in work and
// refines the result to a fixpoint. Singleton classes are returned unchanged.
func individualize(adj [][]int, work []int, a int) []int {
	members := 0
	for _, c := range work {
		if c == work[a] {
			members++
		}
	}
	if members == 1 {
		return work
	}
	split := make([]int, len(work))
	for i, c := range work {
		split[i] = 2 * c
		if i != a && c == work[a] {
			split[i]++
		}
	}
	return refineInPlace(adj, split)
}

// refineInPlace refines part without renumbering atoms. Class ids are ranks of
// the sorted distinct signatures, so class order is preserved.
func refineInPlace(adj [][]int, part []int) []int {
	classes := countDistinct(part)
	for {
		sigs := make([][]int, len(part))
		for i := range part {
			sig := make([]int, 1, len(adj[i])+1)
			sig[0] = part[i]
			for _, nb := range adj[i] {
				sig = append(sig, part[nb])
			}
			slices.SortFunc(sig[1:], func(x, y int) int { return y - x })
			sigs[i] = sig
		}
		uniq := slices.Clone(sigs)
		slices.SortFunc(uniq, slices.Compare[[]int])
		uniq = slices.CompactFunc(uniq, slices.Equal[[]int])

		next := make([]int, len(part))
		for i, sig := range sigs {
			next[i], _ = slices.BinarySearchFunc(uniq, sig, slices.Compare[[]int])
		}
		if len(uniq) == classes {
			return next
		}
		classes = len(uniq)
		part = next
	}
}

func countDistinct(xs []int) int {
	s := slices.Clone(xs)
	slices.Sort(s)
	return len(slices.Compact(s))
}
