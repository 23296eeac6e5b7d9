package route

import (
	"gonum.org/v1/gonum/interp"

	"github.com/plexgraph/plexgraph/pkg/geom"
)

// sampleBSpline evaluates a clamped uniform cubic B-spline over the control
// polygon at n evenly spaced parameter values. The curve starts and ends at
// the first and last control point and approximates the interior ones,
// which smooths the kinks of a control point chain. Short polygons fall
// back to a lower degree.
func sampleBSpline(control []geom.Vec, n int) Path {
	if len(control) == 0 {
		return nil
	}
	if len(control) == 1 {
		out := make(Path, n)
		for i := range out {
			out[i] = control[0]
		}
		return out
	}

	degree := 3
	if degree > len(control)-1 {
		degree = len(control) - 1
	}

	// Clamped knot vector: degree+1 repeats at each end, uniform inside.
	count := len(control)
	knots := make([]float64, count+degree+1)
	interior := count - degree
	for i := range knots {
		switch {
		case i <= degree:
			knots[i] = 0
		case i >= count:
			knots[i] = float64(interior)
		default:
			knots[i] = float64(i - degree)
		}
	}
	maxT := knots[len(knots)-1]

	out := make(Path, n)
	for i := range out {
		t := maxT * float64(i) / float64(n-1)
		out[i] = deBoor(control, knots, degree, t)
	}
	return out
}

// deBoor evaluates the B-spline at parameter t using De Boor's algorithm.
func deBoor(control []geom.Vec, knots []float64, degree int, t float64) geom.Vec {
	// Find the knot span containing t.
	k := degree
	for k < len(control)-1 && t >= knots[k+1] {
		k++
	}

	d := make([]geom.Vec, degree+1)
	for j := 0; j <= degree; j++ {
		d[j] = control[j+k-degree]
	}
	for r := 1; r <= degree; r++ {
		for j := degree; j >= r; j-- {
			i := j + k - degree
			denom := knots[i+degree+1-r] - knots[i]
			alpha := 0.0
			if denom != 0 {
				alpha = (t - knots[i]) / denom
			}
			d[j] = d[j-1].Lerp(d[j], alpha)
		}
	}
	return d[degree]
}

// smoothPath resamples a path through a natural cubic spline fitted per
// coordinate over normalized arc length, yielding n evenly spaced points.
// Paths with no extent collapse to n copies of their first point.
func smoothPath(points []geom.Vec, n int) Path {
	// Consecutive duplicates would break the strictly increasing abscissa
	// the spline fit requires.
	dedup := append(make([]geom.Vec, 0, len(points)), points[0])
	for _, p := range points[1:] {
		if p != dedup[len(dedup)-1] {
			dedup = append(dedup, p)
		}
	}
	if len(dedup) < 2 {
		out := make(Path, n)
		for i := range out {
			out[i] = points[0]
		}
		return out
	}

	ts := make([]float64, len(dedup))
	for i := 1; i < len(dedup); i++ {
		ts[i] = ts[i-1] + dedup[i].Distance(dedup[i-1])
	}
	total := ts[len(ts)-1]
	for i := range ts {
		ts[i] /= total
	}

	xs := make([]float64, len(dedup))
	ys := make([]float64, len(dedup))
	for i, p := range dedup {
		xs[i] = p.X
		ys[i] = p.Y
	}

	var sx, sy interp.NaturalCubic
	if err := sx.Fit(ts, xs); err != nil {
		return Path(dedup)
	}
	if err := sy.Fit(ts, ys); err != nil {
		return Path(dedup)
	}

	out := make(Path, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = geom.V(sx.Predict(t), sy.Predict(t))
	}
	return out
}
