package route

import (
	"context"
	"testing"

	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
	"github.com/plexgraph/plexgraph/pkg/layout"
)

// parallelEdges builds two nearby edges running left to right.
func parallelEdges() (*graph.Graph, layout.Positions) {
	g := graph.FromEdges([]graph.Edge{
		{Source: "a1", Target: "b1"},
		{Source: "a2", Target: "b2"},
	})
	pos := layout.Positions{
		"a1": geom.V(0.1, 0.45),
		"b1": geom.V(0.9, 0.45),
		"a2": geom.V(0.1, 0.55),
		"b2": geom.V(0.9, 0.55),
	}
	return g, pos
}

func TestBundledPullsParallelEdgesTogether(t *testing.T) {
	g, pos := parallelEdges()

	paths, err := Bundled(context.Background(), g, pos, Options{})
	if err != nil {
		t.Fatalf("Bundled: %v", err)
	}

	e1 := graph.Edge{Source: "a1", Target: "b1"}
	e2 := graph.Edge{Source: "a2", Target: "b2"}
	p1, p2 := paths[e1], paths[e2]
	if len(p1) != pathSamples || len(p2) != pathSamples {
		t.Fatalf("paths have %d and %d points, want %d", len(p1), len(p2), pathSamples)
	}

	// Endpoints stay pinned to the nodes.
	if p1[0].Distance(pos["a1"]) > 1e-6 || p1[len(p1)-1].Distance(pos["b1"]) > 1e-6 {
		t.Errorf("endpoints moved: %v ... %v", p1[0], p1[len(p1)-1])
	}

	// The path midpoints approach each other: closer than the 0.1 the
	// straight segments keep.
	gap := p1[len(p1)/2].Distance(p2[len(p2)/2])
	if gap >= 0.1 {
		t.Errorf("midpoints %v apart after bundling, want < 0.1", gap)
	}
}

func TestBundledGapShrinksWithCycles(t *testing.T) {
	g, pos := parallelEdges()
	e1 := graph.Edge{Source: "a1", Target: "b1"}
	e2 := graph.Edge{Source: "a2", Target: "b2"}

	// Each extra cycle refines the bundle, so the midpoint gap between the
	// two parallel edges must never grow as cycles are added.
	var gaps []float64
	for cycles := 1; cycles <= 5; cycles++ {
		paths, err := Bundled(context.Background(), g, pos, Options{Cycles: cycles})
		if err != nil {
			t.Fatalf("Bundled with %d cycles: %v", cycles, err)
		}
		p1, p2 := paths[e1], paths[e2]
		gaps = append(gaps, p1[len(p1)/2].Distance(p2[len(p2)/2]))
	}
	for i := 1; i < len(gaps); i++ {
		if gaps[i] > gaps[i-1]+1e-9 {
			t.Errorf("gap grew from %v to %v at cycle %d (all gaps: %v)", gaps[i-1], gaps[i], i+1, gaps)
		}
	}
	if last := gaps[len(gaps)-1]; last >= gaps[0] {
		t.Errorf("gap %v after 5 cycles not below the 1-cycle gap %v", last, gaps[0])
	}
}

func TestBundledDropsSelfLoops(t *testing.T) {
	g := graph.FromEdges([]graph.Edge{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "a"},
	})
	pos := layout.Positions{
		"a": geom.V(0.2, 0.5),
		"b": geom.V(0.8, 0.5),
	}
	var diag layout.Diagnostics

	paths, err := Bundled(context.Background(), g, pos, Options{Diag: &diag})
	if err != nil {
		t.Fatalf("Bundled: %v", err)
	}
	if _, ok := paths[graph.Edge{Source: "a", Target: "a"}]; ok {
		t.Error("self-loop received a path")
	}
	if len(diag.Notes) == 0 {
		t.Error("expected a diagnostic for the dropped loop")
	}
}

func TestBundledOnlyLoops(t *testing.T) {
	g := graph.FromEdges([]graph.Edge{{Source: "a", Target: "a"}})
	pos := layout.Positions{"a": geom.V(0.5, 0.5)}

	_, err := Bundled(context.Background(), g, pos, Options{})
	if !errors.Is(err, errors.ErrCodeEmptyEdges) {
		t.Errorf("err = %v, want code %s", err, errors.ErrCodeEmptyEdges)
	}
}

func TestBundledBidirectionalPairSharesPath(t *testing.T) {
	e := graph.Edge{Source: "a", Target: "b"}
	g := graph.FromEdges([]graph.Edge{e, e.Reversed()})
	pos := layout.Positions{
		"a": geom.V(0.1, 0.5),
		"b": geom.V(0.9, 0.5),
	}

	paths, err := Bundled(context.Background(), g, pos, Options{})
	if err != nil {
		t.Fatalf("Bundled: %v", err)
	}
	fwd, back := paths[e], paths[e.Reversed()]
	if len(fwd) != len(back) {
		t.Fatalf("paths have different lengths: %d vs %d", len(fwd), len(back))
	}
	for i := range fwd {
		if fwd[i] != back[len(back)-1-i] {
			t.Fatalf("reverse path is not the forward path reversed at %d", i)
		}
	}
}

func TestBundledStraightenBy(t *testing.T) {
	g, pos := parallelEdges()

	bundled, err := Bundled(context.Background(), g, pos, Options{})
	if err != nil {
		t.Fatalf("Bundled: %v", err)
	}
	straightened, err := Bundled(context.Background(), g, pos, Options{StraightenBy: 0.8})
	if err != nil {
		t.Fatalf("Bundled: %v", err)
	}

	// Straightening pushes each path back toward its own chord, widening
	// the gap between the two bundles at the midpoint.
	e1 := graph.Edge{Source: "a1", Target: "b1"}
	e2 := graph.Edge{Source: "a2", Target: "b2"}
	tight := bundled[e1][pathSamples/2].Distance(bundled[e2][pathSamples/2])
	loose := straightened[e1][pathSamples/2].Distance(straightened[e2][pathSamples/2])
	if loose <= tight {
		t.Errorf("straightened gap %v not wider than bundled gap %v", loose, tight)
	}
}

func TestSubdivide(t *testing.T) {
	points := []geom.Vec{geom.V(0, 0), geom.V(1, 0)}

	once := subdivide(points)
	if len(once) != 3 {
		t.Fatalf("got %d points, want 3", len(once))
	}
	if once[1] != geom.V(0.5, 0) {
		t.Errorf("midpoint = %v, want (0.5, 0)", once[1])
	}

	twice := subdivide(once)
	if len(twice) != 5 {
		t.Fatalf("got %d points, want 5", len(twice))
	}
	if twice[0] != geom.V(0, 0) || twice[4] != geom.V(1, 0) {
		t.Errorf("endpoints moved: %v ... %v", twice[0], twice[4])
	}
}

func TestApplyForcesClampsJointNorm(t *testing.T) {
	points := []geom.Vec{geom.V(0, 0), geom.V(1, 0)}
	forces := []geom.Vec{geom.V(3, 0), geom.V(0, 4)}

	applyForces(points, forces, 0.5)

	// Joint norm is 5, so every force is scaled by 0.1.
	if points[0].Distance(geom.V(0.3, 0)) > 1e-12 {
		t.Errorf("point 0 = %v, want (0.3, 0)", points[0])
	}
	if points[1].Distance(geom.V(1, 0.4)) > 1e-12 {
		t.Errorf("point 1 = %v, want (1, 0.4)", points[1])
	}
}
