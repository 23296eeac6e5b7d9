package pipeline

import (
	"encoding/json"

	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
	"github.com/plexgraph/plexgraph/pkg/layout"
	"github.com/plexgraph/plexgraph/pkg/route"
)

// cachedPath is the stored form of one routed edge. Edges cannot key a
// JSON object directly, so paths serialize as a list.
type cachedPath struct {
	Source string     `json:"source"`
	Target string     `json:"target"`
	Points []geom.Vec `json:"points"`
}

func marshalPositions(pos layout.Positions) ([]byte, error) {
	return json.Marshal(pos)
}

func unmarshalPositions(data []byte) (layout.Positions, error) {
	var pos layout.Positions
	if err := json.Unmarshal(data, &pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func marshalPaths(paths route.Paths) ([]byte, error) {
	out := make([]cachedPath, 0, len(paths))
	for e, p := range paths {
		out = append(out, cachedPath{Source: e.Source, Target: e.Target, Points: p})
	}
	return json.Marshal(out)
}

func unmarshalPaths(data []byte) (route.Paths, error) {
	var in []cachedPath
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	paths := make(route.Paths, len(in))
	for _, p := range in {
		paths[graph.Edge{Source: p.Source, Target: p.Target}] = p.Points
	}
	return paths, nil
}
