package layout

import (
	"context"
	"math/rand/v2"

	"github.com/plexgraph/plexgraph/pkg/graph"
)

// Random places every node uniformly at random inside the canvas. The seed
// makes the placement reproducible.
func Random(ctx context.Context, g *graph.Graph, opts Options) (Positions, error) {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed<<1|1))
	out := make(Positions, g.NodeCount())
	for _, n := range g.Nodes() {
		out[n] = randomPoint(opts.BBox, rng)
	}
	return out, nil
}
