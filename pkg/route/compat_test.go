package route

import (
	"math"
	"testing"

	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
)

func TestAngleCompatibility(t *testing.T) {
	tests := []struct {
		name string
		p, q segment
		want float64
	}{
		{
			name: "Parallel",
			p:    newSegment(geom.V(0, 0), geom.V(1, 0)),
			q:    newSegment(geom.V(0, 1), geom.V(1, 1)),
			want: 1,
		},
		{
			name: "AntiParallel",
			p:    newSegment(geom.V(0, 0), geom.V(1, 0)),
			q:    newSegment(geom.V(1, 1), geom.V(0, 1)),
			want: 1,
		},
		{
			name: "Perpendicular",
			p:    newSegment(geom.V(0, 0), geom.V(1, 0)),
			q:    newSegment(geom.V(0, 0), geom.V(0, 1)),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := angleCompatibility(tt.p, tt.q); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("angleCompatibility = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScaleCompatibility(t *testing.T) {
	equal := scaleCompatibility(
		newSegment(geom.V(0, 0), geom.V(1, 0)),
		newSegment(geom.V(0, 1), geom.V(1, 1)),
	)
	if math.Abs(equal-1) > 1e-12 {
		t.Errorf("equal lengths score %v, want 1", equal)
	}

	uneven := scaleCompatibility(
		newSegment(geom.V(0, 0), geom.V(1, 0)),
		newSegment(geom.V(0, 1), geom.V(0.1, 1)),
	)
	if uneven >= equal {
		t.Errorf("uneven lengths score %v, want below %v", uneven, equal)
	}
}

func TestPositionCompatibility(t *testing.T) {
	p := newSegment(geom.V(0, 0), geom.V(1, 0))
	near := positionCompatibility(p, newSegment(geom.V(0, 0.1), geom.V(1, 0.1)))
	far := positionCompatibility(p, newSegment(geom.V(0, 5), geom.V(1, 5)))
	if near <= far {
		t.Errorf("near pair scores %v, far pair %v; want near > far", near, far)
	}
	if co := positionCompatibility(p, p); math.Abs(co-1) > 1e-12 {
		t.Errorf("identical segments score %v, want 1", co)
	}
}

func TestVisibilityCompatibility(t *testing.T) {
	p := newSegment(geom.V(0, 0), geom.V(1, 0))

	// Directly stacked: full visibility.
	stacked := visibilityCompatibility(p, newSegment(geom.V(0, 0.1), geom.V(1, 0.1)))
	if math.Abs(stacked-1) > 1e-12 {
		t.Errorf("stacked pair scores %v, want 1", stacked)
	}

	// Laterally shifted past each other: no visibility.
	shifted := visibilityCompatibility(p, newSegment(geom.V(2, 0.1), geom.V(3, 0.1)))
	if shifted != 0 {
		t.Errorf("shifted pair scores %v, want 0", shifted)
	}
}

func TestCompatibleEdgePairs(t *testing.T) {
	e1 := graph.Edge{Source: "a1", Target: "b1"}
	e2 := graph.Edge{Source: "a2", Target: "b2"}
	e3 := graph.Edge{Source: "c", Target: "d"}
	pos := map[string]geom.Vec{
		"a1": geom.V(0.1, 0.45), "b1": geom.V(0.9, 0.45),
		"a2": geom.V(0.1, 0.55), "b2": geom.V(0.9, 0.55),
		// Short perpendicular edge far away in scale and angle.
		"c": geom.V(0.5, 0.0), "d": geom.V(0.5, 0.05),
	}

	pairs := compatibleEdgePairs([]graph.Edge{e1, e2, e3}, pos, DefaultCompatibilityThreshold)
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1: %+v", len(pairs), pairs)
	}
	pair := pairs[0]
	if pair.e1 != e1 || pair.e2 != e2 {
		t.Errorf("pair = %v-%v, want %v-%v", pair.e1, pair.e2, e1, e2)
	}
	if pair.reverse {
		t.Error("aligned pair flagged as reversed")
	}
	if pair.compatibility <= DefaultCompatibilityThreshold || pair.compatibility > 1 {
		t.Errorf("compatibility = %v, want in (%v, 1]", pair.compatibility, DefaultCompatibilityThreshold)
	}
}

func TestCompatibleEdgePairsReverseDetection(t *testing.T) {
	e1 := graph.Edge{Source: "a1", Target: "b1"}
	e2 := graph.Edge{Source: "b2", Target: "a2"} // runs right to left
	pos := map[string]geom.Vec{
		"a1": geom.V(0.1, 0.45), "b1": geom.V(0.9, 0.45),
		"a2": geom.V(0.1, 0.55), "b2": geom.V(0.9, 0.55),
	}

	pairs := compatibleEdgePairs([]graph.Edge{e1, e2}, pos, DefaultCompatibilityThreshold)
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if !pairs[0].reverse {
		t.Error("anti-aligned pair not flagged as reversed")
	}
}

func TestProject(t *testing.T) {
	s := newSegment(geom.V(0, 0), geom.V(2, 0))

	tests := []struct {
		point geom.Vec
		want  geom.Vec
	}{
		{geom.V(1, 5), geom.V(1, 0)},
		{geom.V(0, 1), geom.V(0, 0)},
		{geom.V(3, -2), geom.V(3, 0)}, // beyond the endpoint, on the line
	}

	for _, tt := range tests {
		if got := s.project(tt.point); got.Distance(tt.want) > 1e-12 {
			t.Errorf("project(%v) = %v, want %v", tt.point, got, tt.want)
		}
	}
}
