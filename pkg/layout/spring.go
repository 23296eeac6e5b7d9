package layout

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
)

const (
	// minSeparation is the effective distance floor after subtracting node
	// radii. Keeps force magnitudes finite for touching or overlapping nodes.
	minSeparation = 1e-6

	// coincidentJitter bounds the random offset applied to exactly
	// coincident node pairs so a force direction exists.
	coincidentJitter = 1e-9

	// decayEpsilon keeps the final temperature strictly positive.
	decayEpsilon = 1e-9
)

// Spring computes a force-directed (Fruchterman-Reingold) layout.
//
// Nodes repel each other with magnitude k²/d and adjacent nodes attract with
// magnitude w·d²/k, where d is the center distance minus both node radii and
// w the edge weight. Displacements are capped by a decaying temperature, and
// a move is only accepted if the candidate position stays inside the canvas.
//
// Nodes listed in opts.FixedNodes, and nodes that carry an initial position
// but appear in no edge, are anchors: they exert forces but never move.
// When no anchors exist the result is rescaled per axis to exactly fill the
// canvas.
func Spring(ctx context.Context, g *graph.Graph, opts Options) (Positions, error) {
	if g.EdgeCount() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyEdges, "spring layout requires at least one edge")
	}
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed<<1|1))

	connected := g.Nodes()
	pos, extra, err := seedPositions(connected, opts, rng)
	if err != nil {
		return nil, err
	}

	mobile, fixed := classify(append(append([]string{}, connected...), extra...), opts.FixedNodes, extra)
	if len(mobile) == 0 {
		return clonePositions(pos), nil
	}

	order := append(append([]string{}, mobile...), fixed...)
	index := make(map[string]int, len(order))
	for i, n := range order {
		index[n] = i
	}

	// Weight matrix with one row per node and one column per mobile node,
	// mobile block first. Each undirected edge contributes its weight
	// symmetrically.
	weights := mat.NewDense(len(order), len(mobile), nil)
	for _, e := range g.Edges() {
		if e.IsLoop() {
			continue
		}
		w := g.Weight(e)
		s, t := index[e.Source], index[e.Target]
		if t < len(mobile) {
			weights.Set(s, t, weights.At(s, t)+w)
		}
		if s < len(mobile) {
			weights.Set(t, s, weights.At(t, s)+w)
		}
	}

	radii := make([]float64, len(order))
	for i, n := range order {
		radii[i] = opts.radius(n)
	}

	k := opts.K
	if k == 0 {
		k = math.Sqrt(opts.BBox.Area() / float64(len(order)))
	}

	temps := temperatures(opts.InitialTemperature, opts.Iterations, opts.Decay)
	warnedCoincident := false

	cur := make([]geom.Vec, len(order))
	for i, n := range order {
		cur[i] = pos[n]
	}

	for _, temp := range temps {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "spring layout canceled")
		}
		next := make([]geom.Vec, len(mobile))
		for i := range mobile {
			var disp geom.Vec
			for j := range order {
				if j == i {
					continue
				}
				delta := cur[i].Sub(cur[j])
				if delta.X == 0 && delta.Y == 0 {
					if !warnedCoincident {
						opts.warnf("coincident nodes %q and %q perturbed to break force symmetry", order[i], order[j])
						warnedCoincident = true
					}
					delta = geom.V(rng.Float64()-0.5, rng.Float64()-0.5).Unit().Scale(coincidentJitter * rng.Float64())
				}
				d := delta.Norm() - radii[i] - radii[j]
				if d < minSeparation {
					d = minSeparation
				}
				dir := delta.Scale(1 / d)
				disp = disp.Add(dir.Scale(k * k / d))
				if w := weights.At(j, i); w != 0 {
					disp = disp.Sub(dir.Scale(w * d * d / k))
				}
			}
			candidate := cur[i].Add(disp.ClampNorm(temp))
			if opts.BBox.Contains(candidate) {
				next[i] = candidate
			} else {
				next[i] = cur[i]
			}
		}
		copy(cur, next)
	}

	out := make(Positions, len(order))
	for i, n := range order {
		out[n] = cur[i]
	}
	if len(fixed) == 0 {
		fillCanvas(out, opts.BBox)
	}
	return out, nil
}

// seedPositions resolves initial coordinates for every connected node and
// reports the extra anchor nodes that carry positions but no edges. Supplied
// positions outside the canvas are a fatal input error; fixed nodes must
// carry a position.
func seedPositions(connected []string, opts Options, rng *rand.Rand) (Positions, []string, error) {
	pos := make(Positions, len(connected))
	if len(opts.InitialPositions) > 0 {
		var outside []string
		for _, n := range sortedKeys(opts.InitialPositions) {
			p := opts.InitialPositions[n]
			if !opts.BBox.Contains(p) {
				outside = append(outside, fmt.Sprintf("%s=(%g, %g)", n, p.X, p.Y))
				continue
			}
			pos[n] = p
		}
		if len(outside) > 0 {
			return nil, nil, errors.New(errors.ErrCodeOutOfBounds,
				"initial positions outside canvas %v: %s", opts.BBox, strings.Join(outside, ", "))
		}
	}
	fixedSet := make(map[string]bool, len(opts.FixedNodes))
	for _, n := range opts.FixedNodes {
		fixedSet[n] = true
	}
	connectedSet := make(map[string]bool, len(connected))
	for _, n := range connected {
		connectedSet[n] = true
	}
	var missingFixed []string
	for _, n := range connected {
		if _, ok := pos[n]; ok {
			continue
		}
		if fixedSet[n] {
			missingFixed = append(missingFixed, n)
			continue
		}
		pos[n] = randomPoint(opts.BBox, rng)
	}
	if len(missingFixed) > 0 {
		return nil, nil, errors.New(errors.ErrCodeMissingPositions,
			"fixed nodes without an initial position: %s", strings.Join(missingFixed, ", "))
	}
	var extra []string
	for n := range pos {
		if !connectedSet[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return pos, extra, nil
}

// temperatures returns the per-iteration displacement caps.
func temperatures(initial float64, iterations int, decay Decay) []float64 {
	ts := make([]float64, iterations)
	for i := range ts {
		t := 0.0
		if iterations > 1 {
			t = float64(i) / float64(iterations-1)
		}
		switch decay {
		case DecayLinear:
			ts[i] = initial * ((1 - t) + decayEpsilon)
		default:
			ts[i] = initial * ((t-1)*(t-1) + decayEpsilon)
		}
	}
	return ts
}

// fillCanvas rescales positions per axis so their bounding box exactly
// matches the canvas. Degenerate axes collapse to the canvas center.
func fillCanvas(pos Positions, bbox geom.BBox) {
	if len(pos) == 0 {
		return
	}
	xs := make([]float64, 0, len(pos))
	ys := make([]float64, 0, len(pos))
	for _, p := range pos {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)
	for n, p := range pos {
		pos[n] = geom.V(
			rescaleAxis(p.X, minX, maxX, bbox.Origin.X, bbox.Scale.X),
			rescaleAxis(p.Y, minY, maxY, bbox.Origin.Y, bbox.Scale.Y),
		)
	}
}

func rescaleAxis(v, lo, hi, origin, scale float64) float64 {
	if hi == lo {
		return origin + scale/2
	}
	return origin + (v-lo)/(hi-lo)*scale
}

func randomPoint(bbox geom.BBox, rng *rand.Rand) geom.Vec {
	return geom.V(
		bbox.Origin.X+rng.Float64()*bbox.Scale.X,
		bbox.Origin.Y+rng.Float64()*bbox.Scale.Y,
	)
}

func clonePositions(pos Positions) Positions {
	out := make(Positions, len(pos))
	for n, p := range pos {
		out[n] = p
	}
	return out
}

func sortedKeys(pos Positions) []string {
	keys := make([]string, 0, len(pos))
	for n := range pos {
		keys = append(keys, n)
	}
	sort.Strings(keys)
	return keys
}
