package route

import (
	"strings"

	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/graph"
	"github.com/plexgraph/plexgraph/pkg/layout"
)

// Straight routes every edge as a straight segment from source to target.
// When the reverse edge also exists, both segments are shifted half an edge
// width to the right (looking along the edge) so the pair does not overlap.
// Self-loops become circular arcs beside their node, on the side facing
// away from the graph centroid.
func Straight(g *graph.Graph, pos layout.Positions, opts Options) (Paths, error) {
	opts = opts.withDefaults()
	if err := requirePositions(g, pos); err != nil {
		return nil, err
	}

	paths := make(Paths, g.EdgeCount())
	for _, e := range g.Edges() {
		if e.IsLoop() {
			paths[e] = selfLoopArc(e.Source, pos, opts.SelfLoopRadius, opts.BBox, pathSamples)
			continue
		}
		p1, p2 := pos[e.Source], pos[e.Target]
		if g.HasEdge(e.Reversed()) {
			offset := p2.Sub(p1).Perp().Unit().Scale(-0.5 * opts.width(e))
			p1, p2 = p1.Add(offset), p2.Add(offset)
		}
		paths[e] = Path{p1, p2}
	}
	return paths, nil
}

// requirePositions checks that every node of the graph has a position.
func requirePositions(g *graph.Graph, pos layout.Positions) error {
	var missing []string
	for _, n := range g.Nodes() {
		if _, ok := pos[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeMissingPositions,
			"nodes without positions: %s", strings.Join(missing, ", "))
	}
	return nil
}
