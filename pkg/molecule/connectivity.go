package molecule

import "slices"

// Components returns the connected components of g. Each component lists its
// atom indices in ascending order; components are ordered by their smallest
// index.
func (g *Graph) Components() [][]int {
	n := len(g.atoms)
	seen := make([]bool, n)
	var comps [][]int
	for start := range n {
		if seen[start] {
			continue
		}
		seen[start] = true
		comp := []int{start}
		stack := []int{start}
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range g.adj[v] {
				if !seen[nb] {
					seen[nb] = true
					comp = append(comp, nb)
					stack = append(stack, nb)
				}
			}
		}
		slices.Sort(comp)
		comps = append(comps, comp)
	}
	return comps
}

// IsConnected reports whether every atom is reachable from every other atom.
// The empty graph and single atoms count as connected.
func (g *Graph) IsConnected() bool {
	return len(g.Components()) <= 1
}
