package layout

import (
	"math"
	"sort"

	"github.com/plexgraph/plexgraph/pkg/geom"
)

const (
	// boxPower controls each component box size: |V|^boxPower per side.
	// Sublinear growth keeps small components from being crowded out.
	boxPower = 0.8

	// boxPadding separates component boxes, as a fraction of the largest
	// box dimensions, so nodes of different components cannot touch.
	boxPadding = 0.05

	// packScale converts fractional box dimensions to the integers the
	// packer works on while retaining precision.
	packScale = 20
)

// componentBoxes partitions the canvas into one box per component. Square
// boxes sized by node count are padded, packed into a compact arrangement,
// and the packed union is rescaled to exactly fill the canvas.
func componentBoxes(components [][]string, canvas geom.BBox) []geom.BBox {
	sides := make([]float64, len(components))
	maxSide := 0.0
	for i, comp := range components {
		sides[i] = math.Pow(float64(len(comp)), boxPower)
		if sides[i] > maxSide {
			maxSide = sides[i]
		}
	}
	pad := boxPadding * maxSide

	dims := make([][2]int, len(components))
	for i, s := range sides {
		d := int(packScale * (s + pad))
		dims[i] = [2]int{d, d}
	}
	origins := packRects(dims)

	// Boxes keep their unpadded dimensions; the padding only spaces the
	// packed origins apart.
	boxes := make([]geom.BBox, len(components))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range boxes {
		x, y := float64(origins[i][0]), float64(origins[i][1])
		w := packScale * sides[i]
		boxes[i] = geom.BBox{Origin: geom.V(x, y), Scale: geom.V(w, w)}
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x+w)
		maxY = math.Max(maxY, y+w)
	}

	sx := canvas.Scale.X / (maxX - minX)
	sy := canvas.Scale.Y / (maxY - minY)
	for i, b := range boxes {
		boxes[i] = geom.BBox{
			Origin: geom.V(canvas.Origin.X+(b.Origin.X-minX)*sx, canvas.Origin.Y+(b.Origin.Y-minY)*sy),
			Scale:  geom.V(b.Scale.X*sx, b.Scale.Y*sy),
		}
	}
	return boxes
}

// packRects places axis-aligned rectangles without overlap, returning the
// lower-left corner of each in input order. It is a shelf packer: rectangles
// are laid out tallest-first into rows whose width targets the square root
// of the total area, which keeps the union roughly square.
func packRects(dims [][2]int) [][2]int {
	n := len(dims)
	origins := make([][2]int, n)
	if n == 0 {
		return origins
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dims[order[a]][1] > dims[order[b]][1]
	})

	totalArea := 0
	maxWidth := 0
	for _, d := range dims {
		totalArea += d[0] * d[1]
		if d[0] > maxWidth {
			maxWidth = d[0]
		}
	}
	targetWidth := int(math.Ceil(math.Sqrt(float64(totalArea))))
	if targetWidth < maxWidth {
		targetWidth = maxWidth
	}

	x, y, rowHeight := 0, 0, 0
	for _, idx := range order {
		w, h := dims[idx][0], dims[idx][1]
		if x > 0 && x+w > targetWidth {
			x = 0
			y += rowHeight
			rowHeight = 0
		}
		origins[idx] = [2]int{x, y}
		x += w
		if h > rowHeight {
			rowHeight = h
		}
	}
	return origins
}
