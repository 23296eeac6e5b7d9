package route

import (
	"context"
	"math"

	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
	"github.com/plexgraph/plexgraph/pkg/layout"
)

// Bundled routes edges with force-directed edge bundling (Holten & van
// Wijk 2009): edges are subdivided into control point chains that attract
// compatible neighbors while springs keep each chain taut, so groups of
// edges running in similar directions merge into bundles.
//
// Instead of doubling the control points each cycle, a new point is
// inserted between each existing pair (Wu et al. 2015). Self-loops cannot
// be bundled and are dropped with a diagnostic; one direction of each
// bidirectional pair is bundled and the other reuses its path reversed.
func Bundled(ctx context.Context, g *graph.Graph, pos layout.Positions, opts Options) (Paths, error) {
	opts = opts.withDefaults()
	if err := requirePositions(g, pos); err != nil {
		return nil, err
	}

	var edges []graph.Edge
	loops := 0
	folded := make(map[graph.Edge]bool)
	var reversed []graph.Edge
	for _, e := range g.Edges() {
		if e.IsLoop() {
			loops++
			continue
		}
		if folded[e.Reversed()] {
			reversed = append(reversed, e)
			continue
		}
		folded[e] = true
		edges = append(edges, e)
	}
	if loops > 0 {
		opts.warnf("edge bundling does not support self-loops; dropped %d loop(s)", loops)
	}
	if len(edges) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyEdges, "no bundleable edges")
	}

	stiffness := make(map[graph.Edge]float64, len(edges))
	for _, e := range edges {
		stiffness[e] = opts.Stiffness / pos[e.Source].Distance(pos[e.Target])
	}

	pairs := compatibleEdgePairs(edges, pos, opts.CompatibilityThreshold)

	points := make(map[graph.Edge][]geom.Vec, len(edges))
	for _, e := range edges {
		points[e] = []geom.Vec{pos[e.Source], pos[e.Target]}
	}

	step := opts.StepSize
	iterations := DefaultBundleIterations
	for cycle := 0; cycle < opts.Cycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "edge bundling canceled")
		}
		for _, e := range edges {
			points[e] = subdivide(points[e])
		}
		for i := 0; i < iterations; i++ {
			forces := springForces(edges, points, stiffness)
			addAttractionForces(points, pairs, forces)
			for _, e := range edges {
				applyForces(points[e], forces[e], step)
			}
		}
		step /= 2
		iterations = iterations * 2 / 3
	}

	if opts.StraightenBy > 0 {
		for _, e := range edges {
			straighten(points[e], opts.StraightenBy)
		}
	}

	paths := make(Paths, len(edges)+len(reversed))
	for _, e := range edges {
		paths[e] = smoothPath(points[e], pathSamples)
	}
	for _, e := range reversed {
		forward := paths[e.Reversed()]
		back := make(Path, len(forward))
		for i, p := range forward {
			back[len(forward)-1-i] = p
		}
		paths[e] = back
	}
	return paths, nil
}

// subdivide inserts a midpoint between each pair of consecutive control
// points, growing n points to 2(n−1)+1.
func subdivide(points []geom.Vec) []geom.Vec {
	out := make([]geom.Vec, 2*(len(points)-1)+1)
	for i := range out {
		if i%2 == 0 {
			out[i] = points[i/2]
		} else {
			out[i] = points[(i-1)/2].Midpoint(points[(i+1)/2])
		}
	}
	return out
}

// springForces computes the per-edge spring force: each interior control
// point is pulled toward its chain neighbors by the discrete Laplacian,
// scaled by the edge stiffness spread over its segments.
func springForces(edges []graph.Edge, points map[graph.Edge][]geom.Vec, stiffness map[graph.Edge]float64) map[graph.Edge][]geom.Vec {
	out := make(map[graph.Edge][]geom.Vec, len(edges))
	for _, e := range edges {
		cps := points[e]
		force := make([]geom.Vec, len(cps))
		kp := stiffness[e] / float64(len(cps)-1)
		for i := 1; i < len(cps)-1; i++ {
			laplacian := cps[i+1].Sub(cps[i]).Sub(cps[i].Sub(cps[i-1]))
			force[i] = laplacian.Scale(kp)
		}
		out[e] = force
	}
	return out
}

// addAttractionForces accumulates the electrostatic attraction between
// compatible edge pairs: corresponding control points attract with inverse
// square falloff, weighted by the pair's compatibility. Endpoints are node
// positions and never move.
func addAttractionForces(points map[graph.Edge][]geom.Vec, pairs []interaction, out map[graph.Edge][]geom.Vec) {
	for _, pair := range pairs {
		p := points[pair.e1]
		q := points[pair.e2]
		f1 := out[pair.e1]
		f2 := out[pair.e2]
		n := len(p)
		for i := 1; i < n-1; i++ {
			qi := i
			if pair.reverse {
				qi = n - 1 - i
			}
			delta := q[qi].Sub(p[i])
			d2 := delta.NormSquared()
			if d2 == 0 {
				continue
			}
			disp := delta.Scale(pair.compatibility / d2)
			f1[i] = f1[i].Add(disp)
			f2[qi] = f2[qi].Sub(disp)
		}
	}
}

// applyForces moves an edge's control points by its accumulated force,
// clamping the joint displacement norm to the step size.
func applyForces(points, forces []geom.Vec, step float64) {
	total := 0.0
	for _, f := range forces {
		total += f.NormSquared()
	}
	if total == 0 {
		return
	}
	scale := 1.0
	if norm := math.Sqrt(total); norm > step {
		scale = step / norm
	}
	for i := range points {
		points[i] = points[i].Add(forces[i].Scale(scale))
	}
}

// straighten blends a path toward its chord in place.
func straighten(points []geom.Vec, by float64) {
	p0 := points[0]
	chord := points[len(points)-1].Sub(p0)
	n := len(points)
	for i := range points {
		t := float64(i) / float64(n-1)
		points[i] = points[i].Scale(1 - by).Add(p0.Add(chord.Scale(t)).Scale(by))
	}
}
