package route

import (
	"math"
	"testing"

	"github.com/plexgraph/plexgraph/pkg/geom"
)

func TestSampleBSplineEndpoints(t *testing.T) {
	control := []geom.Vec{
		geom.V(0, 0),
		geom.V(0.3, 0.8),
		geom.V(0.7, 0.8),
		geom.V(1, 0),
	}

	p := sampleBSpline(control, 50)
	if len(p) != 50 {
		t.Fatalf("got %d samples, want 50", len(p))
	}
	if p[0].Distance(control[0]) > 1e-9 {
		t.Errorf("spline starts at %v, want %v", p[0], control[0])
	}
	if p[len(p)-1].Distance(control[len(control)-1]) > 1e-9 {
		t.Errorf("spline ends at %v, want %v", p[len(p)-1], control[len(control)-1])
	}
}

func TestSampleBSplineConvexHull(t *testing.T) {
	// A B-spline stays inside the convex hull of its control polygon; for
	// collinear control points that means staying on the line.
	control := []geom.Vec{
		geom.V(0, 0.5),
		geom.V(0.25, 0.5),
		geom.V(0.5, 0.5),
		geom.V(0.75, 0.5),
		geom.V(1, 0.5),
	}

	for i, q := range sampleBSpline(control, 40) {
		if math.Abs(q.Y-0.5) > 1e-9 {
			t.Errorf("sample %d at %v left the control line", i, q)
		}
		if q.X < -1e-9 || q.X > 1+1e-9 {
			t.Errorf("sample %d at %v outside the control span", i, q)
		}
	}
}

func TestSampleBSplineMonotoneAlongChord(t *testing.T) {
	control := []geom.Vec{geom.V(0, 0), geom.V(0.5, 1), geom.V(1, 0)}
	p := sampleBSpline(control, 30)

	for i := 1; i < len(p); i++ {
		if p[i].X < p[i-1].X-1e-9 {
			t.Errorf("x not monotone at sample %d: %v after %v", i, p[i], p[i-1])
		}
	}
	// The quadratic fallback peaks at the midpoint below the control point.
	mid := p[len(p)/2]
	if mid.Y <= 0 || mid.Y > 1 {
		t.Errorf("midpoint %v not between chord and control point", mid)
	}
}

func TestSampleBSplineDegenerate(t *testing.T) {
	if got := sampleBSpline(nil, 10); got != nil {
		t.Errorf("empty control polygon produced %v", got)
	}

	single := sampleBSpline([]geom.Vec{geom.V(0.3, 0.7)}, 5)
	if len(single) != 5 {
		t.Fatalf("got %d samples, want 5", len(single))
	}
	for _, q := range single {
		if q != geom.V(0.3, 0.7) {
			t.Errorf("sample %v, want the single control point", q)
		}
	}

	pair := sampleBSpline([]geom.Vec{geom.V(0, 0), geom.V(1, 1)}, 11)
	if pair[5].Distance(geom.V(0.5, 0.5)) > 1e-9 {
		t.Errorf("two-point spline midpoint = %v, want (0.5, 0.5)", pair[5])
	}
}

func TestSmoothPathEndpoints(t *testing.T) {
	points := []geom.Vec{
		geom.V(0, 0),
		geom.V(0.4, 0.3),
		geom.V(0.6, 0.3),
		geom.V(1, 0),
	}

	p := smoothPath(points, 25)
	if len(p) != 25 {
		t.Fatalf("got %d samples, want 25", len(p))
	}
	if p[0].Distance(points[0]) > 1e-9 {
		t.Errorf("smoothed path starts at %v, want %v", p[0], points[0])
	}
	if p[len(p)-1].Distance(points[len(points)-1]) > 1e-9 {
		t.Errorf("smoothed path ends at %v, want %v", p[len(p)-1], points[len(points)-1])
	}
}

func TestSmoothPathDuplicatePoints(t *testing.T) {
	points := []geom.Vec{
		geom.V(0, 0),
		geom.V(0, 0),
		geom.V(0.5, 0.5),
		geom.V(0.5, 0.5),
		geom.V(1, 0),
	}

	p := smoothPath(points, 20)
	if len(p) != 20 {
		t.Fatalf("got %d samples, want 20", len(p))
	}
	if p[0] != points[0] || p[len(p)-1].Distance(geom.V(1, 0)) > 1e-9 {
		t.Errorf("endpoints wrong: %v ... %v", p[0], p[len(p)-1])
	}
	// The input must not be mutated by deduplication.
	if points[1] != points[0] {
		t.Error("input slice mutated")
	}
}

func TestSmoothPathAllCoincident(t *testing.T) {
	points := []geom.Vec{geom.V(0.5, 0.5), geom.V(0.5, 0.5)}

	p := smoothPath(points, 8)
	if len(p) != 8 {
		t.Fatalf("got %d samples, want 8", len(p))
	}
	for _, q := range p {
		if q != geom.V(0.5, 0.5) {
			t.Errorf("sample %v, want the stacked point", q)
		}
	}
}
