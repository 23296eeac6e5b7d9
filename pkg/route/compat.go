package route

import (
	"math"

	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
)

// segment is a directed chord between two endpoints, with derived values
// precomputed for the compatibility measures.
type segment struct {
	p0, p1   geom.Vec
	vector   geom.Vec
	length   float64
	unit     geom.Vec
	midpoint geom.Vec
}

func newSegment(p0, p1 geom.Vec) segment {
	v := p1.Sub(p0)
	return segment{
		p0:       p0,
		p1:       p1,
		vector:   v,
		length:   v.Norm(),
		unit:     v.Unit(),
		midpoint: p0.Midpoint(p1),
	}
}

// project returns the orthogonal projection of point onto the line
// extending the segment.
func (s segment) project(point geom.Vec) geom.Vec {
	t := point.Sub(s.p0).Dot(s.vector) / (s.length * s.length)
	return s.p0.Add(s.vector.Scale(t))
}

// interaction is a compatible edge pair. When reverse is set, the second
// edge's control points run in the opposite direction of the first's and
// are traversed reversed during bundling.
type interaction struct {
	e1, e2        graph.Edge
	compatibility float64
	reverse       bool
}

// compatibleEdgePairs scores every edge pair and keeps those above the
// threshold. The score is the product of four measures in [0, 1] — scale,
// position, angle and visibility compatibility — evaluated in increasing
// order of cost so incompatible pairs short-circuit early.
func compatibleEdgePairs(edges []graph.Edge, pos map[string]geom.Vec, threshold float64) []interaction {
	segments := make([]segment, len(edges))
	for i, e := range edges {
		segments[i] = newSegment(pos[e.Source], pos[e.Target])
	}

	var out []interaction
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			p, q := segments[i], segments[j]

			c := scaleCompatibility(p, q)
			if c < threshold {
				continue
			}
			c *= positionCompatibility(p, q)
			if c < threshold {
				continue
			}
			c *= angleCompatibility(p, q)
			if c < threshold {
				continue
			}
			c *= visibilityCompatibility(p, q)
			if c < threshold {
				continue
			}

			straight := math.Min(p.p0.Distance(q.p0), p.p1.Distance(q.p1))
			crossed := math.Min(p.p0.Distance(q.p1), p.p1.Distance(q.p0))
			out = append(out, interaction{
				e1:            edges[i],
				e2:            edges[j],
				compatibility: c,
				reverse:       straight > crossed,
			})
		}
	}
	return out
}

// angleCompatibility is 1 for parallel chords and 0 for perpendicular ones.
func angleCompatibility(p, q segment) float64 {
	d := p.unit.Dot(q.unit)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Abs(d)
}

// scaleCompatibility is 1 for chords of equal length and decays as their
// lengths diverge.
func scaleCompatibility(p, q segment) float64 {
	avg := 0.5 * (p.length + q.length)
	return 2 / (avg/math.Min(p.length, q.length) + math.Max(p.length, q.length)/avg)
}

// positionCompatibility decays with the midpoint distance relative to the
// average chord length.
func positionCompatibility(p, q segment) float64 {
	avg := 0.5 * (p.length + q.length)
	return avg / (avg + p.midpoint.Distance(q.midpoint))
}

// visibilityCompatibility is the smaller of the two directed visibility
// scores, so either chord obstructing the other suppresses bundling.
func visibilityCompatibility(p, q segment) float64 {
	return math.Min(visibility(p, q), visibility(q, p))
}

// visibility projects q's endpoints onto p's line and measures how far the
// projected span's midpoint drifts from p's own midpoint, relative to the
// span length.
func visibility(p, q segment) float64 {
	i := newSegment(p.project(q.p0), p.project(q.p1))
	v := 1 - 2*p.midpoint.Distance(i.midpoint)/i.length
	return math.Max(v, 0)
}
