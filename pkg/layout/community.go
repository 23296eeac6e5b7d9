package layout

import (
	"context"
	"sort"
	"strings"

	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
)

// Community returns an algorithm for modular graphs. Nodes are grouped by
// the given node-to-community assignment; communities are placed by a
// spring layout of the community meta-graph, whose edge weights count the
// inter-community edges, and nodes are placed by a spring layout inside
// their community, scaled by community size.
//
// Graphs whose nodes all share one community fall back to a plain spring
// layout with a diagnostic.
func Community(assignment map[string]string) Algorithm {
	return func(ctx context.Context, g *graph.Graph, opts Options) (Positions, error) {
		if g.EdgeCount() == 0 {
			return nil, errors.New(errors.ErrCodeEmptyEdges, "community layout requires at least one edge")
		}
		opts = opts.withDefaults()

		nodes := g.Nodes()
		var missing []string
		nodeCommunity := make(map[string]string, len(nodes))
		communities := make(map[string][]string)
		for _, n := range nodes {
			c, ok := assignment[n]
			if !ok {
				missing = append(missing, n)
				continue
			}
			nodeCommunity[n] = c
			communities[c] = append(communities[c], n)
		}
		if len(missing) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"nodes without a community assignment: %s", strings.Join(missing, ", "))
		}
		if len(communities) < 2 {
			opts.warnf("graph contains a single community; falling back to a spring layout")
			return Spring(ctx, g, opts)
		}

		// Community size grows linearly with member count, normalized so
		// the sizes sum to half the canvas diagonal.
		scalar := opts.BBox.Scale.Norm() / 2 / float64(len(nodes))
		sizes := make(map[string]float64, len(communities))
		for c, members := range communities {
			sizes[c] = float64(len(members)) * scalar
		}

		centroids, err := communityCentroids(ctx, g, nodeCommunity, sizes, opts)
		if err != nil {
			return nil, err
		}

		out := make(Positions, len(nodes))
		names := make([]string, 0, len(communities))
		for c := range communities {
			names = append(names, c)
		}
		sort.Strings(names)
		for _, c := range names {
			relative, err := communityInterior(ctx, g, communities[c], opts)
			if err != nil {
				return nil, err
			}
			for n, p := range relative {
				out[n] = centroids[c].Add(p.Scale(sizes[c]))
			}
		}
		return out, nil
	}
}

// communityCentroids places one meta-node per community with a spring
// layout. Meta-edge weights count the edges between the two communities;
// the first observed direction of a community pair carries its count.
func communityCentroids(ctx context.Context, g *graph.Graph, nodeCommunity map[string]string, sizes map[string]float64, opts Options) (Positions, error) {
	counts := make(map[graph.Edge]float64)
	meta := graph.New()
	for _, e := range g.Edges() {
		ci, cj := nodeCommunity[e.Source], nodeCommunity[e.Target]
		if ci == cj {
			continue
		}
		me := graph.Edge{Source: ci, Target: cj}
		if _, ok := counts[me.Reversed()]; ok {
			me = me.Reversed()
		}
		counts[me]++
		meta.AddEdge(me)
	}
	for me, w := range counts {
		meta.SetWeight(me, w)
	}
	return Spring(ctx, meta, Options{
		BBox:      opts.BBox,
		NodeRadii: sizes,
		Seed:      opts.Seed,
		Logger:    opts.Logger,
		Diag:      opts.Diag,
	})
}

// communityInterior computes relative member positions on a canvas centered
// at the origin, later scaled by the community size. Communities without
// internal edges collapse onto their centroid.
func communityInterior(ctx context.Context, g *graph.Graph, members []string, opts Options) (Positions, error) {
	sub := g.Subgraph(members)
	if sub.EdgeCount() == 0 {
		opts.warnf("community of %d node(s) has no internal edges; placing members at the community centroid", len(members))
		pos := make(Positions, len(members))
		for _, n := range members {
			pos[n] = geom.V(0, 0)
		}
		return pos, nil
	}
	return Spring(ctx, sub, Options{
		BBox:   geom.BBox{Origin: geom.V(-1, -1), Scale: geom.V(2, 2)},
		Seed:   opts.Seed,
		Logger: opts.Logger,
		Diag:   opts.Diag,
	})
}
