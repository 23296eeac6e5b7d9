package graph

import "slices"

// Components returns the connected components of the graph under the
// undirected interpretation of its edges. Each component is a sorted node
// slice; components are ordered by their smallest node. Isolated nodes form
// their own single-node components.
//
// Discovery order is fully determined by the sorted node order, so a given
// graph always yields the same partition in the same order.
func (g *Graph) Components() [][]string {
	seen := make(map[string]bool, len(g.nodes))
	var components [][]string

	for _, start := range g.Nodes() {
		if seen[start] {
			continue
		}
		component := []string{}
		queue := []string{start}
		seen[start] = true
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			component = append(component, n)
			for _, next := range g.Neighbors(n) {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
		slices.Sort(component)
		components = append(components, component)
	}

	return components
}
