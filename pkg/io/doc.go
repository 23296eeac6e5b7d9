// Package io provides JSON import and export for graphs and layout results.
//
// # Overview
//
// This package enables serialization of graphs to and from a simple JSON
// format. The format is designed for:
//
//   - Layout of any graph, directed or undirected, regardless of origin
//   - Integration with external tools that produce or consume graph data
//   - Caching of imported graphs for faster re-layout
//   - Round-trip preservation: import, lay out, export, and re-import
//
// # Graph Format
//
// The graph format has an "edges" array and an optional "nodes" array:
//
//	{
//	  "nodes": [
//	    {"id": "app"},
//	    {"id": "lib-a", "radius": 0.02}
//	  ],
//	  "edges": [
//	    {"source": "app", "target": "lib-a"},
//	    {"source": "lib-a", "target": "lib-b", "weight": 2.5}
//	  ]
//	}
//
// Edges may reference nodes that have no "nodes" entry; listing a node
// explicitly is only needed to declare isolated nodes or attach a radius.
// Edge weights default to 1. Duplicate edges are dropped on import.
//
// # Result Format
//
// Layout results serialize as positions keyed by node, optional routed
// paths keyed by "source -> target", and the canvas:
//
//	{
//	  "bbox": {"origin": {"x": 0, "y": 0}, "scale": {"x": 1, "y": 1}},
//	  "positions": {"app": {"x": 0.5, "y": 0.25}},
//	  "paths": {"app -> lib-a": [{"x": 0.5, "y": 0.25}, {"x": 0.1, "y": 0.9}]}
//	}
package io
