package layout

import (
	"context"

	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
)

// PerComponent lifts an algorithm that assumes a connected graph to one
// that handles any graph. Disconnected graphs are split into connected
// components, each component is laid out inside its own sub-canvas computed
// by rectangle packing, and the results are merged. Connected graphs are
// passed straight through. Single isolated nodes skip the inner algorithm
// and sit at the center of their box.
func PerComponent(inner Algorithm) Algorithm {
	return func(ctx context.Context, g *graph.Graph, opts Options) (Positions, error) {
		components := g.Components()
		if len(components) <= 1 {
			return inner(ctx, g, opts)
		}
		opts = opts.withDefaults()
		boxes := componentBoxes(components, opts.BBox)

		out := make(Positions, g.NodeCount())
		for i, comp := range components {
			box := boxes[i]
			if len(comp) == 1 {
				out[comp[0]] = box.Center()
				continue
			}
			sub := g.Subgraph(comp)
			subOpts := opts
			subOpts.BBox = box
			subOpts.InitialPositions, subOpts.FixedNodes = restrictSeeds(comp, opts, box)
			pos, err := inner(ctx, sub, subOpts)
			if err != nil {
				return nil, err
			}
			for n, p := range pos {
				out[n] = p
			}
		}
		return out, nil
	}
}

// restrictSeeds filters initial positions and fixed nodes down to one
// component. Seeds that fall outside the component's packed box cannot be
// honored there and are dropped with a diagnostic.
func restrictSeeds(comp []string, opts Options, box geom.BBox) (Positions, []string) {
	inComp := make(map[string]bool, len(comp))
	for _, n := range comp {
		inComp[n] = true
	}
	var pos Positions
	for n, p := range opts.InitialPositions {
		if !inComp[n] {
			continue
		}
		if !box.Contains(p) {
			opts.warnf("initial position of node %q lies outside its component box; reseeding randomly", n)
			continue
		}
		if pos == nil {
			pos = make(Positions)
		}
		pos[n] = p
	}
	var fixed []string
	for _, n := range opts.FixedNodes {
		if !inComp[n] {
			continue
		}
		if _, ok := pos[n]; !ok {
			opts.warnf("fixed node %q has no usable position in its component box; treating as mobile", n)
			continue
		}
		fixed = append(fixed, n)
	}
	return pos, fixed
}
