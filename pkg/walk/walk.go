// Package walk provides generic traversals over molecular graphs.
//
// Each traversal yields the edges it discovers as (from, to) pairs, in the
// order the neighbor lists are visited (ascending index). They are independent
// of canonicalization and are meant for exploration and diagnostics:
//
//	for from, to := range walk.BFS(g, 0) {
//	    fmt.Println(from, "->", to)
//	}
//
// All iterators stop early when the loop body breaks. A root outside the graph
// yields nothing.
package walk

import (
	"iter"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/matzehuels/molcanon/pkg/molecule"
)

// BFS yields the tree edges of a breadth-first search from root.
func BFS(g *molecule.Graph, root int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if root < 0 || root >= g.Len() {
			return
		}
		explored := make([]bool, g.Len())
		explored[root] = true
		queue := linkedlistqueue.New()
		queue.Enqueue(root)
		for !queue.Empty() {
			v, _ := queue.Dequeue()
			a := v.(int)
			for _, n := range g.Neighbors(a) {
				if explored[n] {
					continue
				}
				if !yield(a, n) {
					return
				}
				explored[n] = true
				queue.Enqueue(n)
			}
		}
	}
}

type frame struct {
	atom   int
	cursor int
}

// DFS yields the tree edges of a depth-first search from root.
func DFS(g *molecule.Graph, root int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if root < 0 || root >= g.Len() {
			return
		}
		explored := make([]bool, g.Len())
		explored[root] = true
		stack := arraystack.New()
		stack.Push(&frame{atom: root})
		for !stack.Empty() {
			top, _ := stack.Peek()
			f := top.(*frame)
			nbrs := g.Neighbors(f.atom)
			if f.cursor >= len(nbrs) {
				stack.Pop()
				continue
			}
			n := nbrs[f.cursor]
			f.cursor++
			if explored[n] {
				continue
			}
			if !yield(f.atom, n) {
				return
			}
			explored[n] = true
			stack.Push(&frame{atom: n})
		}
	}
}

// EdgeDFS yields every edge reachable from root exactly once, in depth-first
// order. Unlike DFS it also reports edges that close rings.
func EdgeDFS(g *molecule.Graph, root int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if root < 0 || root >= g.Len() {
			return
		}
		cursor := make(map[int]int)
		used := make(map[molecule.Bond]bool)
		stack := arraystack.New()
		stack.Push(root)
		for !stack.Empty() {
			top, _ := stack.Peek()
			cur := top.(int)
			nbrs := g.Neighbors(cur)
			i := cursor[cur]
			if i >= len(nbrs) {
				stack.Pop()
				continue
			}
			cursor[cur] = i + 1
			n := nbrs[i]
			e := molecule.Bond{A: cur, B: n}.Normalize()
			if used[e] {
				continue
			}
			used[e] = true
			stack.Push(n)
			if !yield(cur, n) {
				return
			}
		}
	}
}

// Order returns the atoms in the order a traversal first reaches them,
// starting with root.
func Order(root int, edges iter.Seq2[int, int]) []int {
	order := []int{root}
	seen := map[int]bool{root: true}
	for _, to := range edges {
		if !seen[to] {
			seen[to] = true
			order = append(order, to)
		}
	}
	return order
}
