// Package geom provides the small set of 2D primitives shared by the layout
// and routing engines: immutable vectors, axis-aligned bounding boxes, and
// circle sampling.
//
// All types are plain values. Methods return new values rather than mutating
// their receiver, so vectors can be passed around and composed freely inside
// the iterative simulations without defensive copying.
package geom

import (
	"fmt"
	"math"
)

// Vec is a 2D point or displacement.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V returns the vector (x, y).
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

func (v Vec) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v − o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Norm returns the euclidean length of v.
func (v Vec) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// NormSquared returns the squared euclidean length of v.
func (v Vec) NormSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Unit returns v normalized to length 1.
// The zero vector is returned unchanged.
func (v Vec) Unit() Vec {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return Vec{X: v.X / n, Y: v.Y / n}
}

// Perp returns v rotated 90° counterclockwise.
func (v Vec) Perp() Vec {
	return Vec{X: -v.Y, Y: v.X}
}

// Lerp linearly interpolates between v and o.
func (v Vec) Lerp(o Vec, t float64) Vec {
	return Vec{
		X: v.X + t*(o.X-v.X),
		Y: v.Y + t*(o.Y-v.Y),
	}
}

// Midpoint returns the midpoint of v and o.
func (v Vec) Midpoint(o Vec) Vec {
	return Vec{X: 0.5 * (v.X + o.X), Y: 0.5 * (v.Y + o.Y)}
}

// Distance returns the euclidean distance between v and o.
func (v Vec) Distance(o Vec) float64 {
	return v.Sub(o).Norm()
}

// Angle returns the angle of v in radians, measured counterclockwise
// from the positive x axis.
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// ClampNorm returns v with its length capped at limit, direction preserved.
// Vectors already shorter than limit are returned unchanged.
func (v Vec) ClampNorm(limit float64) Vec {
	n := v.Norm()
	if n <= limit || n == 0 {
		return v
	}
	return v.Scale(limit / n)
}

// Mean returns the arithmetic mean of the given points.
// Mean of an empty slice is the zero vector.
func Mean(points []Vec) Vec {
	if len(points) == 0 {
		return Vec{}
	}
	var sum Vec
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}

// CirclePoints samples n points on a circle, starting at startAngle and
// proceeding counterclockwise at uniform angular spacing. The full circle is
// divided into n arcs; the point at startAngle + 2π is not repeated.
func CirclePoints(center Vec, radius float64, n int, startAngle float64) []Vec {
	points := make([]Vec, n)
	for i := range points {
		a := startAngle + 2*math.Pi*float64(i)/float64(n)
		points[i] = Vec{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		}
	}
	return points
}
