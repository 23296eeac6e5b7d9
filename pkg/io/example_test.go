package io_test

import (
	"os"

	"github.com/plexgraph/plexgraph/pkg/graph"
	graphio "github.com/plexgraph/plexgraph/pkg/io"
)

func ExampleWriteGraph() {
	g := graph.FromEdges([]graph.Edge{
		{Source: "a", Target: "b"},
	})
	g.AddNode("lone")

	if err := graphio.WriteGraph(g, nil, os.Stdout); err != nil {
		panic(err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "lone"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "source": "a",
	//       "target": "b"
	//     }
	//   ]
	// }
}
