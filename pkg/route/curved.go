package route

import (
	"context"
	"fmt"
	"math"

	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
	"github.com/plexgraph/plexgraph/pkg/layout"
)

// loopControlPoints is the control point count of self-loop chains.
const loopControlPoints = 5

// curvedTautness shrinks the control point spring constant below the node
// spacing so edges stay taut instead of filling space.
const curvedTautness = 0.1

// Curved routes edges as curved paths that avoid nodes and each other.
//
// Each edge is replaced by a chain of control points, with roughly one per
// k·π of chord length and five for self-loops; a spring simulation then
// relaxes the control points while the real nodes stay fixed, and the final
// path is a cubic B-spline through each chain.
func Curved(ctx context.Context, g *graph.Graph, pos layout.Positions, opts Options) (Paths, error) {
	opts = opts.withDefaults()
	if err := requirePositions(g, pos); err != nil {
		return nil, err
	}

	k := opts.K
	if k == 0 {
		k = curvedTautness * math.Sqrt(opts.BBox.Area()/float64(len(pos)))
	}

	edges := g.Edges()
	chains := make([][]string, len(edges))
	expanded := graph.New()
	seeds := make(layout.Positions, len(pos))
	for n, p := range pos {
		seeds[n] = p
	}

	for i, e := range edges {
		var seedPoints []geom.Vec
		if e.IsLoop() {
			seedPoints = selfLoopArc(e.Source, pos, opts.SelfLoopRadius, opts.BBox, loopControlPoints)
		} else {
			chord := pos[e.Target].Sub(pos[e.Source])
			count := int(chord.Norm() / math.Pi / k)
			if count < 1 {
				count = 1
			}
			seedPoints = make([]geom.Vec, count)
			for j := range seedPoints {
				seedPoints[j] = pos[e.Source].Add(chord.Scale(float64(j+1) / float64(count+1)))
			}
		}

		chain := make([]string, len(seedPoints))
		prev := e.Source
		for j, p := range seedPoints {
			id := controlPointID(i, j)
			chain[j] = id
			seeds[id] = p
			expanded.AddEdge(graph.Edge{Source: prev, Target: id})
			prev = id
		}
		expanded.AddEdge(graph.Edge{Source: prev, Target: e.Target})
		chains[i] = chain
	}

	relaxed, err := layout.Spring(ctx, expanded, layout.Options{
		BBox:               opts.BBox,
		K:                  k,
		InitialTemperature: DefaultCurvedTemperature,
		Iterations:         opts.Iterations,
		NodeRadii:          nodeAvoidanceRadii(g, opts),
		InitialPositions:   seeds,
		FixedNodes:         g.Nodes(),
		Seed:               opts.Seed,
		Logger:             opts.Logger,
		Diag:               opts.Diag,
	})
	if err != nil {
		return nil, err
	}

	paths := make(Paths, len(edges))
	for i, e := range edges {
		points := make([]geom.Vec, 0, len(chains[i])+2)
		points = append(points, pos[e.Source])
		for _, id := range chains[i] {
			points = append(points, relaxed[id])
		}
		points = append(points, pos[e.Target])
		paths[e] = sampleBSpline(points, pathSamples)
	}
	return paths, nil
}

// nodeAvoidanceRadii gives every real node its configured radius; control
// points keep radius zero.
func nodeAvoidanceRadii(g *graph.Graph, opts Options) map[string]float64 {
	radii := make(map[string]float64, g.NodeCount())
	for _, n := range g.Nodes() {
		r := opts.NodeRadius
		if v, ok := opts.NodeRadii[n]; ok {
			r = v
		}
		radii[n] = r
	}
	return radii
}

// controlPointID names a control point by edge index and chain position.
// The NUL prefix keeps the synthetic identifiers out of the node namespace.
func controlPointID(edge, position int) string {
	return fmt.Sprintf("\x00cp/%d/%d", edge, position)
}
