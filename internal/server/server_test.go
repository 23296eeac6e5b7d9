package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	t.Cleanup(func() { runner.Close() })
	return New(runner, logger)
}

const testGraphJSON = `{
	"edges": [
		{"source": "a", "target": "b"},
		{"source": "b", "target": "c"},
		{"source": "c", "target": "a"}
	]
}`

func postJSON(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, body *bytes.Buffer) errorBody {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestLayoutEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s, "/api/layout", `{
		"graph": `+testGraphJSON+`,
		"options": {"algorithm": "spring", "router": "straight", "seed": 42}
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp layoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.NotEmpty(t, resp.GraphHash)
	assert.Len(t, resp.Positions, 3)
	assert.Len(t, resp.Paths, 3)
	assert.Contains(t, resp.Paths, "a -> b")
	assert.False(t, resp.Cached)
}

func TestLayoutEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed body",
			body:       `{"graph": `,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_FORMAT",
		},
		{
			name:       "missing graph",
			body:       `{"options": {}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "invalid graph",
			body:       `{"graph": {"edges": [{"source": "a"}]}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_FORMAT",
		},
		{
			name:       "unknown algorithm",
			body:       `{"graph": ` + testGraphJSON + `, "options": {"algorithm": "orbital"}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_ALGORITHM",
		},
		{
			name:       "graph without edges",
			body:       `{"graph": {"nodes": [{"id": "a"}], "edges": []}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "EMPTY_EDGE_LIST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := postJSON(t, s, "/api/layout", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			errBody := decodeError(t, rec.Body)
			assert.Equal(t, tt.wantCode, errBody.Code)
			assert.NotEmpty(t, errBody.Message)
		})
	}
}

func TestRouteEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s, "/api/route", `{
		"graph": {"edges": [{"source": "a", "target": "b"}]},
		"positions": {"a": {"x": 0.2, "y": 0.5}, "b": {"x": 0.8, "y": 0.5}},
		"options": {"router": "straight"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp layoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Paths, "a -> b")
	path := resp.Paths["a -> b"]
	require.Len(t, path, 2)
	assert.Equal(t, geom.V(0.2, 0.5), path[0])
	assert.Equal(t, geom.V(0.8, 0.5), path[1])
}

func TestRouteEndpointRequiresPositions(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s, "/api/route", `{
		"graph": {"edges": [{"source": "a", "target": "b"}]},
		"options": {"router": "straight"}
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeError(t, rec.Body)
	assert.Equal(t, "MISSING_POSITIONS", errBody.Code)
}

func TestUnknownRouteReturns404(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
