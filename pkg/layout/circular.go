package layout

import (
	"context"

	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
)

// circleFill leaves a margin between the node circle and the canvas edge so
// self-loops and labels have room.
const circleFill = 0.9

// maxSiftingPasses bounds the circular sifting local search.
const maxSiftingPasses = 100

// Circular places the nodes evenly on a circle inscribed in the canvas.
//
// Unless opts.SkipCrossingReduction is set, the node order around the circle
// is chosen to reduce edge crossings using the greedy placement and circular
// sifting heuristics of Bauer & Brandes (2005). Complete graphs skip the
// reduction since every order yields the same crossing count.
func Circular(ctx context.Context, g *graph.Graph, opts Options) (Positions, error) {
	if g.EdgeCount() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyEdges, "circular layout requires at least one edge")
	}
	opts = opts.withDefaults()

	order := g.Nodes()
	if !opts.SkipCrossingReduction && !g.IsComplete() {
		var err error
		order, err = reduceCrossings(ctx, g, opts)
		if err != nil {
			return nil, err
		}
	}

	radius := min(opts.BBox.Scale.X, opts.BBox.Scale.Y) / 2 * circleFill
	points := geom.CirclePoints(opts.BBox.Center(), radius, len(order), 0)
	out := make(Positions, len(order))
	for i, n := range order {
		out[n] = points[i]
	}
	return out, nil
}

// reduceCrossings computes a node order with few pairwise edge crossings:
// a greedy construction followed by circular sifting.
func reduceCrossings(ctx context.Context, g *graph.Graph, opts Options) ([]string, error) {
	order := greedyOrder(g)
	return siftOrder(ctx, g, order, opts)
}

// greedyOrder implements the "connectivity and crossings" construction:
// repeatedly place the node with the most already-placed neighbors (ties
// broken by fewest unplaced neighbors), appending it to whichever end of the
// partial order incurs fewer crossings between its closed edges and the
// still-open ones.
func greedyOrder(g *graph.Graph) []string {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	ordered := []string{nodes[0]}
	remaining := append([]string{}, nodes[1:]...)
	placed := map[string]bool{nodes[0]: true}

	open := make(map[graph.Edge]bool)
	for _, nb := range g.Neighbors(nodes[0]) {
		open[graph.Edge{Source: nodes[0], Target: nb}] = true
	}

	for len(remaining) > 0 {
		bestIdx := -1
		maxPlaced, minUnplaced := 0, int(^uint(0)>>1)
		for i, n := range remaining {
			var p, u int
			for _, nb := range g.Neighbors(n) {
				if placed[nb] {
					p++
				} else {
					u++
				}
			}
			if p > maxPlaced || (p == maxPlaced && u < minUnplaced) {
				maxPlaced, minUnplaced = p, u
				bestIdx = i
			}
		}
		if bestIdx == -1 {
			bestIdx = 0
		}
		selected := remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)

		closed := make(map[graph.Edge]bool)
		for _, nb := range g.Neighbors(selected) {
			if placed[nb] {
				closed[graph.Edge{Source: nb, Target: selected}] = true
				delete(open, graph.Edge{Source: nb, Target: selected})
				delete(open, graph.Edge{Source: selected, Target: nb})
			}
		}

		appended := append(append([]string{}, ordered...), selected)
		appended = append(appended, remaining...)
		prepended := append([]string{selected}, ordered...)
		prepended = append(prepended, remaining...)
		if crossingsBetween(indexOf(appended), edgeSlice(closed), edgeSlice(open)) <
			crossingsBetween(indexOf(prepended), edgeSlice(closed), edgeSlice(open)) {
			ordered = append(ordered, selected)
		} else {
			ordered = append([]string{selected}, ordered...)
		}
		placed[selected] = true
		for _, nb := range g.Neighbors(selected) {
			if !placed[nb] {
				open[graph.Edge{Source: selected, Target: nb}] = true
			}
		}
	}
	return ordered
}

// siftOrder runs circular sifting: each node in turn is swapped around the
// ring, keeping the position that minimizes total crossings, until a full
// pass yields no improvement or the pass bound is hit.
func siftOrder(ctx context.Context, g *graph.Graph, order []string, opts Options) ([]string, error) {
	nodeEdges := make(map[string][]graph.Edge, g.NodeCount())
	var undirected []graph.Edge
	seen := make(map[graph.Edge]bool)
	for _, n := range g.Nodes() {
		for _, nb := range g.Neighbors(n) {
			e := graph.Edge{Source: n, Target: nb}
			nodeEdges[n] = append(nodeEdges[n], e)
			if !seen[e.Reversed()] {
				seen[e] = true
				undirected = append(undirected, e)
			}
		}
	}

	index := indexOf(order)
	total := crossingsBetween(index, undirected, nil)
	n := len(order)

	pass := 0
	for ; pass < maxSiftingPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "crossing reduction canceled")
		}
		previous := total
		for _, u := range append([]string{}, order...) {
			bestOrder := append([]string{}, order...)
			minimum := total
			start := index[u]
			for step := 1; step < n; step++ {
				v := order[(start+step)%n]
				before := crossingsBetween(index, nodeEdges[u], nodeEdges[v])
				index[u], index[v] = index[v], index[u]
				order[index[u]], order[index[v]] = u, v
				after := crossingsBetween(index, nodeEdges[u], nodeEdges[v])
				total = total - before + after
				if total < minimum {
					bestOrder = append(bestOrder[:0], order...)
					minimum = total
				}
			}
			copy(order, bestOrder)
			index = indexOf(order)
			total = minimum
		}
		if previous == total {
			break
		}
	}
	if pass == maxSiftingPasses {
		opts.warnf("crossing reduction stopped after %d passes without converging", maxSiftingPasses)
	}
	return order, nil
}

// crossingsBetween counts crossing pairs between two edge sets under the
// circular order described by index. A nil second set counts crossings of
// the first set against itself.
func crossingsBetween(index map[string]int, edges1, edges2 []graph.Edge) int {
	if edges2 == nil {
		edges2 = edges1
	}
	total := 0
	for _, e1 := range edges1 {
		for _, e2 := range edges2 {
			if isCross(index, e1, e2) {
				total++
			}
		}
	}
	return total
}

// isCross reports whether two chords of the circle intersect: their
// endpoint indices strictly interleave around the ring.
func isCross(index map[string]int, e1, e2 graph.Edge) bool {
	s1, t1 := minMax(index[e1.Source], index[e1.Target])
	s2, t2 := minMax(index[e2.Source], index[e2.Target])
	return (s1 < s2 && s2 < t1 && t1 < t2) || (s2 < s1 && s1 < t2 && t2 < t1)
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func indexOf(order []string) map[string]int {
	index := make(map[string]int, len(order))
	for i, n := range order {
		index[n] = i
	}
	return index
}

func edgeSlice(set map[graph.Edge]bool) []graph.Edge {
	out := make([]graph.Edge, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}
