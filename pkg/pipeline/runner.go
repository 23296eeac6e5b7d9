package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/plexgraph/plexgraph/pkg/cache"
	"github.com/plexgraph/plexgraph/pkg/graph"
	graphio "github.com/plexgraph/plexgraph/pkg/io"
	"github.com/plexgraph/plexgraph/pkg/layout"
	"github.com/plexgraph/plexgraph/pkg/observability"
	"github.com/plexgraph/plexgraph/pkg/route"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → route pipeline with caching.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	diag := r.applyDiagnostics(&opts)

	result := &Result{
		RunID: uuid.NewString(),
		Stats: graphStats(g),
	}
	result.GraphHash = r.graphHash(g)

	// Stage 1: Layout
	layoutStart := time.Now()
	pos, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Positions = pos
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"algorithm", opts.Algorithm,
		"nodes", g.NodeCount(),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Route
	if opts.ShouldRoute() {
		routeStart := time.Now()
		paths, pathsHit, err := r.RoutePathsWithCacheInfo(ctx, g, pos, opts)
		if err != nil {
			return nil, fmt.Errorf("route: %w", err)
		}
		result.Paths = paths
		result.Stats.RouteTime = time.Since(routeStart)
		result.CacheInfo.PathsHit = pathsHit

		r.Logger.Info("routed edges",
			"router", opts.Router,
			"edges", g.EdgeCount(),
			"cached", pathsHit,
			"duration", result.Stats.RouteTime)
	}

	result.Diagnostics = diag.Notes
	return result, nil
}

// ComputeLayoutWithCacheInfo computes positions with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (layout.Positions, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	r.applyDiagnostics(&opts)

	cacheKey := r.Keyer.LayoutKey(r.graphHash(g), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if pos, err := unmarshalPositions(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return pos, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Pipeline().OnLayoutStart(ctx, opts.Algorithm, g.NodeCount())
	start := time.Now()
	pos, err := opts.algorithm()(ctx, g, opts.layoutOptions())
	if err == nil && opts.Relax {
		pos, err = layout.Relax(ctx, pos, opts.layoutOptions())
	}
	observability.Pipeline().OnLayoutComplete(ctx, opts.Algorithm, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := marshalPositions(pos); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return pos, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) (layout.Positions, error) {
	pos, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return pos, err
}

// RoutePathsWithCacheInfo routes edges with caching and returns cache hit info.
func (r *Runner) RoutePathsWithCacheInfo(ctx context.Context, g *graph.Graph, pos layout.Positions, opts Options) (route.Paths, bool, error) {
	if err := opts.ValidateForRoute(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	r.applyDiagnostics(&opts)

	// Paths are keyed by the positions they were routed for.
	posData, err := marshalPositions(pos)
	if err != nil {
		return nil, false, fmt.Errorf("serialize positions for cache key: %w", err)
	}
	cacheKey := r.Keyer.PathsKey(cache.Hash(posData), opts.PathsKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if paths, err := unmarshalPaths(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "paths")
				return paths, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "paths")
	}

	observability.Pipeline().OnRouteStart(ctx, opts.Router, g.EdgeCount())
	start := time.Now()
	paths, err := r.routePaths(ctx, g, pos, opts)
	observability.Pipeline().OnRouteComplete(ctx, opts.Router, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := marshalPaths(paths); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPaths)
		observability.Cache().OnCacheSet(ctx, "paths", len(data))
	}

	return paths, false, nil // Cache miss
}

// RoutePaths is a convenience wrapper that calls RoutePathsWithCacheInfo and discards the cache hit info.
func (r *Runner) RoutePaths(ctx context.Context, g *graph.Graph, pos layout.Positions, opts Options) (route.Paths, error) {
	paths, _, err := r.RoutePathsWithCacheInfo(ctx, g, pos, opts)
	return paths, err
}

// routePaths dispatches to the router selected by the options.
func (r *Runner) routePaths(ctx context.Context, g *graph.Graph, pos layout.Positions, opts Options) (route.Paths, error) {
	ropts := opts.routeOptions()
	switch opts.Router {
	case RouterCurved:
		return route.Curved(ctx, g, pos, ropts)
	case RouterBundled:
		return route.Bundled(ctx, g, pos, ropts)
	default:
		return route.Straight(g, pos, ropts)
	}
}

// graphHash computes the content hash of a graph for cache keys and API
// responses.
func (r *Runner) graphHash(g *graph.Graph) string {
	var buf bytes.Buffer
	if err := graphio.WriteGraph(g, nil, &buf); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// applyDiagnostics ensures options carry a diagnostics collector and
// returns it.
func (r *Runner) applyDiagnostics(opts *Options) *layout.Diagnostics {
	if opts.Diag == nil {
		opts.Diag = &layout.Diagnostics{}
	}
	return opts.Diag
}
