// Package route computes edge paths for laid-out graphs.
//
// Given node positions from [layout], the routers in this package turn each
// edge into a polyline: straight segments with bidirectional-pair offsets
// and circular self-loop arcs, curved paths that bend around nodes and each
// other, or force-directed edge bundles (Holten & van Wijk 2009).
//
// All routers share the same shape: they consume the graph, its node
// positions and an [Options] value, and return a path per edge. Paths run
// from the edge source to the edge target.
package route

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
	"github.com/plexgraph/plexgraph/pkg/layout"
)

// Path is a polyline from an edge's source to its target.
type Path []geom.Vec

// Paths maps each edge to its routed path.
type Paths = map[graph.Edge]Path

// Default routing parameters.
const (
	// DefaultEdgeWidth is the assumed stroke width, in canvas units, used
	// to offset bidirectional edge pairs.
	DefaultEdgeWidth = 0.01

	// DefaultSelfLoopRadius is the radius of self-loop arcs.
	DefaultSelfLoopRadius = 0.1

	// DefaultCurvedTemperature caps the first displacement of the curved
	// router's control point simulation.
	DefaultCurvedTemperature = 0.01

	// DefaultBundleStiffness is the spring stiffness of edge bundling,
	// divided by the chord length per edge.
	DefaultBundleStiffness = 1000.0

	// DefaultCompatibilityThreshold drops edge pair interactions whose
	// compatibility score falls below it.
	DefaultCompatibilityThreshold = 0.05

	// DefaultBundleCycles is the number of subdivision cycles of edge
	// bundling.
	DefaultBundleCycles = 5

	// DefaultBundleIterations is the iteration count of the first bundling
	// cycle; later cycles shrink it by a third.
	DefaultBundleIterations = 50

	// DefaultBundleStep is the displacement cap of the first bundling
	// cycle; later cycles halve it.
	DefaultBundleStep = 0.04

	// pathSamples is the number of points on emitted arcs and splines.
	pathSamples = 100
)

// Options carries the shared knobs of the routers. Zero values select
// documented defaults; fields irrelevant to a given router are ignored.
type Options struct {
	// BBox is the canvas; paths are clipped to it. Zero means the unit
	// canvas.
	BBox geom.BBox

	// EdgeWidth is the stroke width used to offset bidirectional pairs.
	EdgeWidth float64

	// EdgeWidths overrides EdgeWidth per edge.
	EdgeWidths map[graph.Edge]float64

	// SelfLoopRadius is the radius of self-loop arcs.
	SelfLoopRadius float64

	// K is the curved router's spring constant controlling edge tautness:
	// small values yield near-straight connections, large values bulging
	// arcs. Zero means 0.1·sqrt(canvas area / node count).
	K float64

	// Iterations is the curved router's simulation length.
	Iterations int

	// NodeRadius and NodeRadii give node sizes for node avoidance in the
	// curved router.
	NodeRadius float64
	NodeRadii  map[string]float64

	// Stiffness is the bundling spring constant k; per edge it is divided
	// by the chord length.
	Stiffness float64

	// CompatibilityThreshold drops bundling interactions between edge
	// pairs scoring below it. Set negative to bundle all pairs.
	CompatibilityThreshold float64

	// Cycles is the bundling subdivision cycle count.
	Cycles int

	// StepSize caps bundling displacements in the first cycle.
	StepSize float64

	// StraightenBy blends bundled paths back toward their chord, in
	// [0, 1). Small values widen bundles enough to hint at their
	// multiplicity.
	StraightenBy float64

	// Seed seeds the curved router's simulation.
	Seed uint64

	// Logger receives non-fatal diagnostics.
	Logger *log.Logger

	// Diag, when non-nil, collects every non-fatal diagnostic.
	Diag *layout.Diagnostics
}

func (o Options) withDefaults() Options {
	if o.BBox.Scale.X == 0 || o.BBox.Scale.Y == 0 {
		o.BBox = geom.Unit()
	}
	if o.EdgeWidth == 0 {
		o.EdgeWidth = DefaultEdgeWidth
	}
	if o.SelfLoopRadius == 0 {
		o.SelfLoopRadius = DefaultSelfLoopRadius
	}
	if o.Iterations == 0 {
		o.Iterations = layout.DefaultIterations
	}
	if o.Stiffness == 0 {
		o.Stiffness = DefaultBundleStiffness
	}
	if o.CompatibilityThreshold == 0 {
		o.CompatibilityThreshold = DefaultCompatibilityThreshold
	}
	if o.Cycles == 0 {
		o.Cycles = DefaultBundleCycles
	}
	if o.StepSize == 0 {
		o.StepSize = DefaultBundleStep
	}
	if o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

func (o Options) width(e graph.Edge) float64 {
	if w, ok := o.EdgeWidths[e]; ok {
		return w
	}
	return o.EdgeWidth
}

func (o Options) warnf(format string, args ...any) {
	o.Diag.Add(format, args...)
	if o.Logger != nil {
		o.Logger.Warnf(format, args...)
	}
}

// loopDirection is the unit vector pointing from a node away from the
// centroid of all node positions; self-loops are drawn on that side to
// reduce overlap with other edges. A single-node graph loops upward.
func loopDirection(node string, pos layout.Positions) geom.Vec {
	if len(pos) <= 1 {
		return geom.V(0, 1)
	}
	points := make([]geom.Vec, 0, len(pos))
	for _, p := range pos {
		points = append(points, p)
	}
	centroid := geom.Mean(points)
	delta := pos[node].Sub(centroid)
	if delta.Norm() == 0 {
		return geom.V(0, 1)
	}
	return delta.Unit()
}

// selfLoopArc samples a circle of the given radius adjacent to the node,
// starting at the point diametrically opposite the node, clipped to the
// canvas. n is the sample count.
func selfLoopArc(node string, pos layout.Positions, radius float64, bbox geom.BBox, n int) Path {
	dir := loopDirection(node, pos)
	center := pos[node].Add(dir.Scale(radius))
	points := geom.CirclePoints(center, radius, n+1, dir.Angle()+math.Pi)[1:]
	return Path(bbox.ClipAll(points))
}
