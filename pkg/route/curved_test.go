package route

import (
	"context"
	"testing"

	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
	"github.com/plexgraph/plexgraph/pkg/layout"
)

func TestCurvedEndpointsAndBounds(t *testing.T) {
	g := graph.FromEdges([]graph.Edge{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
	})
	pos := layout.Positions{
		"a": geom.V(0.1, 0.1),
		"b": geom.V(0.5, 0.9),
		"c": geom.V(0.9, 0.1),
	}

	paths, err := Curved(context.Background(), g, pos, Options{})
	if err != nil {
		t.Fatalf("Curved: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	for e, p := range paths {
		if len(p) != pathSamples {
			t.Errorf("edge %v path has %d points, want %d", e, len(p), pathSamples)
		}
		if p[0].Distance(pos[e.Source]) > 1e-9 {
			t.Errorf("edge %v starts at %v, not at source %v", e, p[0], pos[e.Source])
		}
		if p[len(p)-1].Distance(pos[e.Target]) > 1e-9 {
			t.Errorf("edge %v ends at %v, not at target %v", e, p[len(p)-1], pos[e.Target])
		}
		for _, q := range p {
			if !geom.Unit().Contains(q) {
				t.Errorf("edge %v leaves the canvas at %v", e, q)
				break
			}
		}
	}
}

func TestCurvedMissingPositions(t *testing.T) {
	g := graph.FromEdges([]graph.Edge{{Source: "a", Target: "b"}})

	_, err := Curved(context.Background(), g, layout.Positions{"a": geom.V(0.1, 0.1)}, Options{})
	if !errors.Is(err, errors.ErrCodeMissingPositions) {
		t.Errorf("err = %v, want code %s", err, errors.ErrCodeMissingPositions)
	}
}

func TestCurvedSelfLoop(t *testing.T) {
	g := graph.FromEdges([]graph.Edge{{Source: "a", Target: "a"}})
	pos := layout.Positions{"a": geom.V(0.5, 0.5)}

	paths, err := Curved(context.Background(), g, pos, Options{})
	if err != nil {
		t.Fatalf("Curved: %v", err)
	}
	p := paths[graph.Edge{Source: "a", Target: "a"}]
	if len(p) != pathSamples {
		t.Fatalf("loop path has %d points, want %d", len(p), pathSamples)
	}
	if p[0].Distance(pos["a"]) > 1e-9 || p[len(p)-1].Distance(pos["a"]) > 1e-9 {
		t.Errorf("loop does not start and end at the node: %v ... %v", p[0], p[len(p)-1])
	}
	// Something must actually bulge out of the node.
	maxDist := 0.0
	for _, q := range p {
		if d := q.Distance(pos["a"]); d > maxDist {
			maxDist = d
		}
	}
	if maxDist < 0.01 {
		t.Errorf("loop never leaves the node: max distance %v", maxDist)
	}
}

func TestCurvedDeterministic(t *testing.T) {
	g := graph.FromEdges([]graph.Edge{
		{Source: "a", Target: "b"},
		{Source: "c", Target: "d"},
	})
	pos := layout.Positions{
		"a": geom.V(0.1, 0.5),
		"b": geom.V(0.9, 0.5),
		"c": geom.V(0.5, 0.1),
		"d": geom.V(0.5, 0.9),
	}

	first, err := Curved(context.Background(), g, pos, Options{Seed: 9})
	if err != nil {
		t.Fatalf("Curved: %v", err)
	}
	second, err := Curved(context.Background(), g, pos, Options{Seed: 9})
	if err != nil {
		t.Fatalf("Curved: %v", err)
	}
	for e := range first {
		for i := range first[e] {
			if first[e][i] != second[e][i] {
				t.Fatalf("edge %v point %d differs across runs", e, i)
			}
		}
	}
}

func TestCurvedDoesNotMoveNodes(t *testing.T) {
	g := graph.FromEdges([]graph.Edge{{Source: "a", Target: "b"}})
	pos := layout.Positions{
		"a": geom.V(0.2, 0.3),
		"b": geom.V(0.7, 0.8),
	}
	orig := layout.Positions{"a": pos["a"], "b": pos["b"]}

	if _, err := Curved(context.Background(), g, pos, Options{}); err != nil {
		t.Fatalf("Curved: %v", err)
	}
	for n := range orig {
		if pos[n] != orig[n] {
			t.Errorf("input position of %q mutated: %v -> %v", n, orig[n], pos[n])
		}
	}
}

func TestControlPointIDOutsideNodeNamespace(t *testing.T) {
	id := controlPointID(3, 1)
	if id[0] != 0 {
		t.Errorf("control point id %q does not start with NUL", id)
	}
	if controlPointID(1, 2) == controlPointID(2, 1) {
		t.Error("distinct control points share an id")
	}
}
