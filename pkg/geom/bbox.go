package geom

import (
	"errors"
	"fmt"
)

// ErrInvalidScale is returned by [NewBBox] when a scale component is not
// strictly positive. Degenerate canvases have no usable interior, so every
// layout call rejects them up front.
var ErrInvalidScale = errors.New("bounding box scale must be strictly positive")

// BBox is an axis-aligned placement region defined by its lower-left corner
// and its extent. Scale components are strictly positive for any BBox
// produced by [NewBBox]; code that constructs BBox literals directly is
// responsible for upholding that invariant.
type BBox struct {
	Origin Vec `json:"origin"`
	Scale  Vec `json:"scale"`
}

// NewBBox returns the bounding box with the given lower-left corner and
// extent, or ErrInvalidScale if either extent component is zero or negative.
func NewBBox(origin, scale Vec) (BBox, error) {
	if scale.X <= 0 || scale.Y <= 0 {
		return BBox{}, fmt.Errorf("%w: got %s", ErrInvalidScale, scale)
	}
	return BBox{Origin: origin, Scale: scale}, nil
}

// Unit returns the unit canvas [0,1] × [0,1].
func Unit() BBox {
	return BBox{Origin: Vec{}, Scale: Vec{X: 1, Y: 1}}
}

// Max returns the upper-right corner.
func (b BBox) Max() Vec {
	return b.Origin.Add(b.Scale)
}

// Center returns the midpoint of the box.
func (b BBox) Center() Vec {
	return b.Origin.Add(b.Scale.Scale(0.5))
}

// Area returns the area of the box.
func (b BBox) Area() float64 {
	return b.Scale.X * b.Scale.Y
}

// Contains reports whether p lies inside the box, boundary included.
func (b BBox) Contains(p Vec) bool {
	max := b.Max()
	return p.X >= b.Origin.X && p.X <= max.X &&
		p.Y >= b.Origin.Y && p.Y <= max.Y
}

// Clip returns p with each coordinate clamped to the box.
func (b BBox) Clip(p Vec) Vec {
	max := b.Max()
	return Vec{
		X: clamp(p.X, b.Origin.X, max.X),
		Y: clamp(p.Y, b.Origin.Y, max.Y),
	}
}

// ClipAll clips every point in the path to the box, in place, and returns
// the path for convenience.
func (b BBox) ClipAll(path []Vec) []Vec {
	for i, p := range path {
		path[i] = b.Clip(p)
	}
	return path
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
