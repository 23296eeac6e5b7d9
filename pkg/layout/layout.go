// Package layout computes 2D node positions for graphs.
//
// The package provides force-directed (Fruchterman-Reingold) placement,
// circular placement with crossing reduction, constrained Lloyd overlap
// relaxation, community-aware placement, and uniform-random placement, plus
// the component decomposition and rectangle packing machinery that lets any
// of them handle disconnected graphs.
//
// Every algorithm shares the same shape: it consumes a [graph.Graph] and an
// [Options] value, and produces a mapping from node identifier to canvas
// coordinate. That shape is captured by [Algorithm], which makes algorithms
// first-class values — [PerComponent] wraps any of them to add transparent
// multi-component handling.
//
// All algorithms are synchronous and CPU-bound. Long-running iterative
// passes check the context once per iteration so dense graphs remain
// cancellable.
package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
)

// Positions maps each node identifier to its canvas coordinate.
type Positions = map[string]geom.Vec

// Algorithm computes positions for a single connected graph.
// Use [PerComponent] to lift an Algorithm over disconnected graphs.
type Algorithm func(ctx context.Context, g *graph.Graph, opts Options) (Positions, error)

// Decay selects the temperature schedule of the spring engine.
type Decay int

const (
	// DecayQuadratic cools as T0·((t−1)²+ε) over normalized time t ∈ [0,1]:
	// monotonically decreasing and decelerating near the end, which keeps the
	// final iterations gentle. This is the default.
	DecayQuadratic Decay = iota
	// DecayLinear cools as T0·((1−t)+ε).
	DecayLinear
)

// Default parameter values shared by the layout algorithms.
const (
	// DefaultIterations is the iteration count of the spring engine.
	DefaultIterations = 50

	// DefaultInitialTemperature caps the first iteration's displacement.
	// Values should be much smaller than the canvas extent.
	DefaultInitialTemperature = 1.0

	// DefaultRelaxIterations is the Lloyd relaxation pass count.
	DefaultRelaxIterations = 10

	// DefaultRelaxEta is the fraction each node moves toward its Voronoi
	// cell centroid per relaxation pass.
	DefaultRelaxEta = 0.1

	// DefaultSeed seeds the random source when none is given, keeping
	// repeated runs reproducible by default.
	DefaultSeed = uint64(42)
)

// Options carries the shared knobs of the layout algorithms. Zero values
// select documented defaults; fields irrelevant to a given algorithm are
// ignored by it.
type Options struct {
	// BBox is the target canvas. The zero value means the unit canvas.
	BBox geom.BBox

	// Iterations is the pass count for iterative algorithms.
	Iterations int

	// InitialTemperature caps the first spring iteration's displacement.
	InitialTemperature float64

	// K is the spring constant. Zero means sqrt(canvas area / node count).
	K float64

	// Decay selects the temperature schedule.
	Decay Decay

	// NodeRadius is the radius applied to every node without an entry in
	// NodeRadii. Radii widen the effective spacing between nodes.
	NodeRadius float64

	// NodeRadii overrides NodeRadius per node.
	NodeRadii map[string]float64

	// InitialPositions seeds the simulation. Nodes without an entry start
	// at a uniform-random position inside BBox. Supplied positions must lie
	// inside BBox or the layout call fails.
	InitialPositions Positions

	// FixedNodes anchors the listed nodes: they exert and receive forces
	// but never move, and their output positions equal their inputs.
	FixedNodes []string

	// RelaxIterations is the Lloyd relaxation pass count. It is separate
	// from Iterations so tuning the spring engine does not change how long
	// the overlap relaxation runs. Zero means DefaultRelaxIterations.
	RelaxIterations int

	// Eta is the Lloyd relaxation step fraction.
	Eta float64

	// SkipCrossingReduction disables the circular layout's crossing
	// minimization, keeping plain sorted-order circle placement.
	SkipCrossingReduction bool

	// Seed seeds the random source. Zero selects DefaultSeed.
	Seed uint64

	// Logger receives non-fatal diagnostics. Nil discards them from the log
	// stream (they are still recorded on Diag when set).
	Logger *log.Logger

	// Diag, when non-nil, collects every non-fatal diagnostic emitted
	// during the call so callers can surface them alongside the result.
	Diag *Diagnostics
}

// withDefaults returns a copy of opts with zero values replaced by defaults.
func (o Options) withDefaults() Options {
	if o.BBox.Scale.X == 0 || o.BBox.Scale.Y == 0 {
		o.BBox = geom.Unit()
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.InitialTemperature == 0 {
		o.InitialTemperature = DefaultInitialTemperature
	}
	if o.Eta == 0 {
		o.Eta = DefaultRelaxEta
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// radius returns the radius configured for a node.
func (o Options) radius(node string) float64 {
	if r, ok := o.NodeRadii[node]; ok {
		return r
	}
	return o.NodeRadius
}

// Diagnostics collects the non-fatal notices of a layout or routing call:
// repaired inputs (duplicate edges, dropped self-loops, fallbacks) and
// convergence reports (iteration bounds hit, residual overlap). Collecting
// rather than only logging keeps every category visible to callers.
type Diagnostics struct {
	Notes []string
}

// Add records a formatted diagnostic note.
func (d *Diagnostics) Add(format string, args ...any) {
	if d == nil {
		return
	}
	d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
}

// warnf logs a diagnostic on the options logger and records it on Diag.
func (o Options) warnf(format string, args ...any) {
	o.Diag.Add(format, args...)
	if o.Logger != nil {
		o.Logger.Warnf(format, args...)
	}
}

// classify partitions nodes into mobile and fixed before any simulation
// state is built. The fixed set is the union of the declared fixed nodes and
// extra: nodes that appear in the supplied positions but not in the edge
// set, which keep their given coordinates as anchors.
func classify(nodes []string, declared []string, extra []string) (mobile, fixed []string) {
	fixedSet := make(map[string]bool, len(declared)+len(extra))
	for _, n := range declared {
		fixedSet[n] = true
	}
	for _, n := range extra {
		fixedSet[n] = true
	}
	for _, n := range nodes {
		if fixedSet[n] {
			fixed = append(fixed, n)
		} else {
			mobile = append(mobile, n)
		}
	}
	return mobile, fixed
}
