// Package graph defines the plain node/edge/weight model consumed by every
// layout and routing algorithm.
//
// The model is deliberately narrow: nodes are opaque string identifiers,
// edges are ordered (source, target) pairs, and weights are optional floats.
// Detecting and normalizing richer input formats (adjacency matrices,
// third-party graph objects) is the job of external parsers; this package
// only ever sees the already-normalized form.
//
// Graphs are read-only inputs from the perspective of the algorithms:
// construction happens up front via [New] and the Add methods, after which
// the accessors provide deterministic (sorted) views used by every
// deterministic layout pass.
package graph

import (
	"slices"
)

// Edge is a directed connection between two nodes.
// An edge with Source == Target is a self-loop.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IsLoop reports whether the edge is a self-loop.
func (e Edge) IsLoop() bool { return e.Source == e.Target }

// Reversed returns the edge with its endpoints swapped.
func (e Edge) Reversed() Edge { return Edge{Source: e.Target, Target: e.Source} }

// Graph is a directed multigraph-free edge list with an undirected adjacency
// index. Duplicate edges are dropped at insertion time (the count is kept for
// diagnostics), matching the contract that callers hand over a deduplicated
// edge set but tolerating ones that do not.
//
// The zero value is not usable - use New.
// Graph is not safe for concurrent mutation; all layout algorithms treat it
// as immutable once built.
type Graph struct {
	nodes   map[string]struct{}
	edges   []Edge
	edgeSet map[Edge]struct{}
	weights map[Edge]float64
	adj     map[string]map[string]struct{} // undirected neighbor index
	dropped int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]struct{}),
		edgeSet: make(map[Edge]struct{}),
		weights: make(map[Edge]float64),
		adj:     make(map[string]map[string]struct{}),
	}
}

// FromEdges builds a graph from an edge list. Endpoint nodes are added
// implicitly; duplicates are dropped.
func FromEdges(edges []Edge) *Graph {
	g := New()
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}

// AddNode adds a node with no incident edges. Adding an existing node is a
// no-op, so isolated nodes can be layered on top of an edge list safely.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = struct{}{}
	g.adj[id] = make(map[string]struct{})
}

// AddEdge adds a directed edge, creating endpoint nodes as needed.
// Returns false if the exact edge was already present; the duplicate is
// dropped and counted (see [Graph.Deduplicated]).
func (g *Graph) AddEdge(e Edge) bool {
	if _, ok := g.edgeSet[e]; ok {
		g.dropped++
		return false
	}
	g.AddNode(e.Source)
	g.AddNode(e.Target)
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.adj[e.Source][e.Target] = struct{}{}
	g.adj[e.Target][e.Source] = struct{}{}
	return true
}

// SetWeight records a weight for an edge. The edge is added if absent.
func (g *Graph) SetWeight(e Edge, w float64) {
	g.AddEdge(e)
	g.weights[e] = w
}

// Weight returns the weight recorded for the edge, or 1 if none was set.
// Weight does not consult the reverse edge; algorithms that need symmetric
// weights symmetrize the adjacency matrix themselves.
func (g *Graph) Weight(e Edge) float64 {
	if w, ok := g.weights[e]; ok {
		return w
	}
	return 1
}

// HasEdge reports whether the exact directed edge is present.
func (g *Graph) HasEdge(e Edge) bool {
	_, ok := g.edgeSet[e]
	return ok
}

// Deduplicated returns how many duplicate edges were dropped at insertion.
func (g *Graph) Deduplicated() int { return g.dropped }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns all node identifiers in sorted order.
// Sorting keeps every downstream algorithm deterministic for a given input.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		nodes = append(nodes, id)
	}
	slices.Sort(nodes)
	return nodes
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Neighbors returns the undirected neighbors of a node in sorted order.
// Self-loops contribute the node itself as a neighbor.
func (g *Graph) Neighbors(id string) []string {
	set, ok := g.adj[id]
	if !ok {
		return nil
	}
	neighbors := make([]string, 0, len(set))
	for n := range set {
		neighbors = append(neighbors, n)
	}
	slices.Sort(neighbors)
	return neighbors
}

// Degree returns the undirected degree of a node.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// Has reports whether the node exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// IsComplete reports whether every pair of distinct nodes is connected in at
// least one direction. Self-loops are ignored.
func (g *Graph) IsComplete() bool {
	nodes := g.Nodes()
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			if !g.HasEdge(Edge{Source: a, Target: b}) && !g.HasEdge(Edge{Source: b, Target: a}) {
				return false
			}
		}
	}
	return true
}

// Subgraph returns the induced subgraph on the given node set: the nodes
// themselves plus every edge whose endpoints both lie in the set. Weights
// are carried over.
func (g *Graph) Subgraph(nodes []string) *Graph {
	keep := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		keep[n] = struct{}{}
	}
	sub := New()
	for _, n := range nodes {
		if g.Has(n) {
			sub.AddNode(n)
		}
	}
	for _, e := range g.edges {
		_, okS := keep[e.Source]
		_, okT := keep[e.Target]
		if okS && okT {
			sub.AddEdge(e)
			if w, ok := g.weights[e]; ok {
				sub.weights[e] = w
			}
		}
	}
	return sub
}
