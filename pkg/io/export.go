package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
	"github.com/plexgraph/plexgraph/pkg/layout"
	"github.com/plexgraph/plexgraph/pkg/route"
)

type graphDoc struct {
	Nodes []nodeDoc `json:"nodes,omitempty"`
	Edges []edgeDoc `json:"edges"`
}

type nodeDoc struct {
	ID     string  `json:"id"`
	Radius float64 `json:"radius,omitempty"`
}

type edgeDoc struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight,omitempty"`
}

// resultDoc is the serialized form of a layout result.
type resultDoc struct {
	BBox      geom.BBox             `json:"bbox"`
	Positions map[string]geom.Vec   `json:"positions"`
	Paths     map[string][]geom.Vec `json:"paths,omitempty"`
}

// WriteGraph encodes a graph as JSON and writes it to w. Nodes are listed
// explicitly only when isolated or carrying a radius; everything else is
// implied by the edge list. The output can be re-imported with [ReadGraph].
func WriteGraph(g *graph.Graph, radii map[string]float64, w io.Writer) error {
	out := graphDoc{
		Edges: make([]edgeDoc, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		if g.Degree(n) == 0 || radii[n] != 0 {
			out.Nodes = append(out.Nodes, nodeDoc{ID: n, Radius: radii[n]})
		}
	}
	for _, e := range g.Edges() {
		d := edgeDoc{Source: e.Source, Target: e.Target}
		if w := g.Weight(e); w != 1 {
			d.Weight = w
		}
		out.Edges = append(out.Edges, d)
	}

	return encodeIndented(w, out)
}

// ExportGraph writes a graph to a JSON file at path.
// This is a convenience wrapper around [WriteGraph] for file-based output.
func ExportGraph(g *graph.Graph, radii map[string]float64, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, radii, f)
}

// WriteResult encodes a layout result as JSON and writes it to w.
func WriteResult(bbox geom.BBox, pos layout.Positions, paths route.Paths, w io.Writer) error {
	out := resultDoc{
		BBox:      bbox,
		Positions: pos,
	}
	if len(paths) > 0 {
		out.Paths = make(map[string][]geom.Vec, len(paths))
		for e, p := range paths {
			out.Paths[pathKey(e)] = p
		}
	}
	return encodeIndented(w, out)
}

// encodeIndented writes indented JSON without HTML escaping, so path keys
// like "a -> b" come out literally.
func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportResult writes a layout result to a JSON file at path.
func ExportResult(bbox geom.BBox, pos layout.Positions, paths route.Paths, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(bbox, pos, paths, f)
}

// pathKey names a routed edge in the result document.
func pathKey(e graph.Edge) string {
	return e.Source + " -> " + e.Target
}
