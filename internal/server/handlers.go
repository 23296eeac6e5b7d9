package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
	graphio "github.com/plexgraph/plexgraph/pkg/io"
	"github.com/plexgraph/plexgraph/pkg/layout"
	"github.com/plexgraph/plexgraph/pkg/pipeline"
	"github.com/plexgraph/plexgraph/pkg/route"
)

// layoutRequest is the body of POST /api/layout and POST /api/route.
// The graph uses the same JSON shape as the file format.
type layoutRequest struct {
	Graph   json.RawMessage  `json:"graph"`
	Options pipeline.Options `json:"options"`

	// Positions, for /api/route, are the node coordinates to route with.
	Positions map[string]geom.Vec `json:"positions,omitempty"`
}

// layoutResponse is the body of a successful pipeline run.
type layoutResponse struct {
	RunID       string                `json:"run_id"`
	GraphHash   string                `json:"graph_hash"`
	Positions   map[string]geom.Vec   `json:"positions"`
	Paths       map[string][]geom.Vec `json:"paths,omitempty"`
	Diagnostics []string              `json:"diagnostics,omitempty"`
	Cached      bool                  `json:"cached"`
}

// errorResponse is the error envelope of every failed request.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLayout runs the full layout → route pipeline.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, g, ok := s.decodeGraph(w, r)
	if !ok {
		return
	}
	opts := req.Options
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := layoutResponse{
		RunID:       result.RunID,
		GraphHash:   result.GraphHash,
		Positions:   result.Positions,
		Paths:       pathsByName(result.Paths),
		Diagnostics: result.Diagnostics,
		Cached:      result.CacheInfo.LayoutHit,
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleRoute routes edges for already-computed positions.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	req, g, ok := s.decodeGraph(w, r)
	if !ok {
		return
	}
	if len(req.Positions) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeMissingPositions, "route requests require positions"))
		return
	}
	opts := req.Options
	opts.Logger = s.logger
	diag := &layout.Diagnostics{}
	opts.Diag = diag

	paths, hit, err := s.runner.RoutePathsWithCacheInfo(r.Context(), g, req.Positions, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := layoutResponse{
		Positions:   req.Positions,
		Paths:       pathsByName(paths),
		Diagnostics: diag.Notes,
		Cached:      hit,
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// decodeGraph parses the request body and its embedded graph. On failure it
// writes the error response and reports false.
func (s *Server) decodeGraph(w http.ResponseWriter, r *http.Request) (layoutRequest, *graph.Graph, bool) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(err, errors.ErrCodeInvalidFormat, "invalid request body"))
		return req, nil, false
	}
	if len(req.Graph) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "missing graph"))
		return req, nil, false
	}
	g, radii, err := graphio.ReadGraph(bytes.NewReader(req.Graph))
	if err != nil {
		s.writeError(w, errors.Wrap(err, errors.ErrCodeInvalidFormat, "invalid graph"))
		return req, nil, false
	}
	if req.Options.NodeRadii == nil {
		req.Options.NodeRadii = radii
	}
	return req, g, true
}

// writeError maps an error to its HTTP status and envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidAlgorithm, errors.ErrCodeInvalidRouter,
		errors.ErrCodeInvalidCanvas, errors.ErrCodeInvalidFormat, errors.ErrCodeEmptyEdges,
		errors.ErrCodeOutOfBounds, errors.ErrCodeDimensionMismatch, errors.ErrCodeMissingPositions:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

// writeJSON writes a JSON response body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

// pathsByName converts edge-keyed paths to the JSON-friendly string form.
func pathsByName(paths route.Paths) map[string][]geom.Vec {
	if len(paths) == 0 {
		return nil
	}
	out := make(map[string][]geom.Vec, len(paths))
	for e, p := range paths {
		out[e.Source+" -> "+e.Target] = p
	}
	return out
}
