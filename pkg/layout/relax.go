package layout

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/pzsz/voronoi"

	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/geom"
)

// siteJitter bounds the random offset applied to every Voronoi site,
// relative to the canvas extent. Exactly coincident or symmetric sites can
// stall the sweep line inside the diagram computation; a vanishing offset
// breaks the degeneracy without visibly moving any node.
const siteJitter = 1e-9

// Relax spreads overlapping nodes apart with a constrained Lloyd iteration.
//
// Each pass computes the Voronoi diagram of the current positions, clipped
// to the canvas, and moves every mobile node a fraction eta toward the
// centroid of its cell. A move is only applied when the new position stays
// inside the canvas; nodes in opts.FixedNodes never move. The input map is
// not modified.
func Relax(ctx context.Context, pos Positions, opts Options) (Positions, error) {
	if len(pos) == 0 {
		return nil, errors.New(errors.ErrCodeMissingPositions, "relaxation requires node positions")
	}
	iterations := opts.RelaxIterations
	if iterations == 0 {
		iterations = DefaultRelaxIterations
	}
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed<<1|1))

	fixed := make(map[string]bool, len(opts.FixedNodes))
	for _, n := range opts.FixedNodes {
		fixed[n] = true
	}

	nodes := sortedKeys(pos)
	cur := clonePositions(pos)
	if len(nodes) < 2 {
		return cur, nil
	}

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "relaxation canceled")
		}
		centroids := voronoiCentroids(nodes, cur, opts.BBox, rng)
		for _, n := range nodes {
			if fixed[n] {
				continue
			}
			c, ok := centroids[n]
			if !ok {
				continue
			}
			next := cur[n].Lerp(c, opts.Eta)
			if opts.BBox.Contains(next) {
				cur[n] = next
			}
		}
	}
	return cur, nil
}

// voronoiCentroids returns, for each node, the centroid of its Voronoi cell
// clipped to the canvas. Every site is jittered by at most siteJitter times
// the canvas extent before the diagram is built; this gives exactly
// coincident nodes distinct cells and keeps grid-aligned or mirror-symmetric
// placements from stalling the sweep line.
func voronoiCentroids(nodes []string, pos Positions, bbox geom.BBox, rng *rand.Rand) map[string]geom.Vec {
	jitter := siteJitter * math.Max(bbox.Scale.X, bbox.Scale.Y)
	sites := make([]voronoi.Vertex, len(nodes))
	for i, n := range nodes {
		p := pos[n]
		sites[i] = voronoi.Vertex{
			X: clampAxis(p.X+(rng.Float64()*2-1)*jitter, bbox.Origin.X, bbox.Origin.X+bbox.Scale.X),
			Y: clampAxis(p.Y+(rng.Float64()*2-1)*jitter, bbox.Origin.Y, bbox.Origin.Y+bbox.Scale.Y),
		}
	}
	vb := voronoi.NewBBox(bbox.Origin.X, bbox.Origin.X+bbox.Scale.X, bbox.Origin.Y, bbox.Origin.Y+bbox.Scale.Y)
	diagram := voronoi.ComputeDiagram(sites, vb, true)

	bySite := make(map[voronoi.Vertex][]string, len(nodes))
	for i, n := range nodes {
		bySite[sites[i]] = append(bySite[sites[i]], n)
	}

	centroids := make(map[string]geom.Vec, len(nodes))
	for _, cell := range diagram.Cells {
		queue := bySite[cell.Site]
		if len(queue) == 0 {
			continue
		}
		node := queue[0]
		bySite[cell.Site] = queue[1:]

		var sum geom.Vec
		count := 0
		for _, he := range cell.Halfedges {
			v := he.GetStartpoint()
			sum = sum.Add(geom.V(v.X, v.Y))
			count++
		}
		if count > 0 {
			centroids[node] = sum.Scale(1 / float64(count))
		}
	}
	return centroids
}

func clampAxis(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
