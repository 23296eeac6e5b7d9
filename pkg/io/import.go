package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
)

// ReadGraph decodes a JSON graph from r.
//
// The input must be a JSON object with an "edges" array; a "nodes" array is
// optional and only needed for isolated nodes or per-node radii:
//
//	{
//	  "nodes": [{"id": "a"}, {"id": "c", "radius": 0.02}],
//	  "edges": [{"source": "a", "target": "b", "weight": 2}]
//	}
//
// Duplicate edges are dropped; the count of dropped duplicates is available
// from the returned graph. Radii are returned separately since they belong
// to the layout options rather than the graph itself.
//
// ReadGraph returns an error if the JSON is malformed, an edge is missing
// an endpoint, or an explicit node entry has no id. It does not close r.
func ReadGraph(r io.Reader) (*graph.Graph, map[string]float64, error) {
	var data graphDoc
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}

	g := graph.New()
	var radii map[string]float64
	for i, n := range data.Nodes {
		if n.ID == "" {
			return nil, nil, fmt.Errorf("node %d: missing id", i)
		}
		g.AddNode(n.ID)
		if n.Radius != 0 {
			if radii == nil {
				radii = make(map[string]float64)
			}
			radii[n.ID] = n.Radius
		}
	}
	for i, e := range data.Edges {
		if e.Source == "" || e.Target == "" {
			return nil, nil, fmt.Errorf("edge %d: missing source or target", i)
		}
		g.AddEdge(graph.Edge{Source: e.Source, Target: e.Target})
		if e.Weight != 0 {
			g.SetWeight(graph.Edge{Source: e.Source, Target: e.Target}, e.Weight)
		}
	}

	return g, radii, nil
}

// ImportGraph reads a JSON file at path and returns the decoded graph.
//
// ImportGraph opens the file, decodes it using [ReadGraph], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportGraph(path string) (*graph.Graph, map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadPositions decodes node positions from a layout result previously
// written with [WriteResult]. Only the positions map is returned; paths and
// bounding box are ignored.
func ReadPositions(r io.Reader) (map[string]geom.Vec, error) {
	var data resultDoc
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(data.Positions) == 0 {
		return nil, fmt.Errorf("no positions found")
	}
	return data.Positions, nil
}

// ImportPositions reads a layout result file at path and returns its node
// positions.
func ImportPositions(path string) (map[string]geom.Vec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPositions(f)
}
