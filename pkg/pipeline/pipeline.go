// Package pipeline provides the core layout pipeline for Plexgraph.
//
// This package implements the complete layout → route pipeline that can be
// used by CLI, API, and worker components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Compute a position for every node of the graph
//  2. Route: Compute a path for every edge, given the positions
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Algorithm: "spring",
//	    Router:    "curved",
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	positions := result.Positions
//
// Run individual stages:
//
//	// Layout only
//	pos, err := runner.ComputeLayout(ctx, g, opts)
//
//	// Route with existing positions
//	paths, err := runner.RoutePaths(ctx, g, pos, opts)
package pipeline

import (
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plexgraph/plexgraph/pkg/cache"
	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/geom"
	"github.com/plexgraph/plexgraph/pkg/graph"
	"github.com/plexgraph/plexgraph/pkg/layout"
	"github.com/plexgraph/plexgraph/pkg/route"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultWidth is the default canvas width.
	DefaultWidth = 1.0

	// DefaultHeight is the default canvas height.
	DefaultHeight = 1.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = layout.DefaultSeed
)

// DefaultAlgorithm is the default layout algorithm.
const DefaultAlgorithm = AlgorithmSpring

// DefaultRouter is the default edge router.
const DefaultRouter = RouterStraight

// Algorithm constants for node layout.
const (
	AlgorithmSpring    = "spring"
	AlgorithmCircular  = "circular"
	AlgorithmCommunity = "community"
	AlgorithmRandom    = "random"
)

// Router constants for edge routing.
const (
	RouterStraight = "straight"
	RouterCurved   = "curved"
	RouterBundled  = "bundled"
	RouterNone     = "none"
)

// ValidAlgorithms is the set of supported layout algorithms.
var ValidAlgorithms = map[string]bool{
	AlgorithmSpring:    true,
	AlgorithmCircular:  true,
	AlgorithmCommunity: true,
	AlgorithmRandom:    true,
}

// ValidRouters is the set of supported edge routers.
var ValidRouters = map[string]bool{
	RouterStraight: true,
	RouterCurved:   true,
	RouterBundled:  true,
	RouterNone:     true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Algorithm       string              `json:"algorithm,omitempty"`
	Width           float64             `json:"width,omitempty"`
	Height          float64             `json:"height,omitempty"`
	Iterations      int                 `json:"iterations,omitempty"`
	Temperature     float64             `json:"temperature,omitempty"`
	K               float64             `json:"k,omitempty"`
	NodeRadius      float64             `json:"node_radius,omitempty"`
	NodeRadii       map[string]float64  `json:"node_radii,omitempty"`
	Positions       map[string]geom.Vec `json:"positions,omitempty"`        // initial positions
	Fixed           []string            `json:"fixed,omitempty"`            // anchored nodes
	Communities     map[string]string   `json:"communities,omitempty"`      // node -> community, for the community algorithm
	Relax           bool                `json:"relax,omitempty"`            // Lloyd overlap relaxation after layout
	RelaxIterations int                 `json:"relax_iterations,omitempty"` // Lloyd passes, independent of layout iterations
	KeepOrder       bool                `json:"keep_order,omitempty"`       // skip circular crossing reduction

	// Route options
	Router                 string  `json:"router,omitempty"`
	EdgeWidth              float64 `json:"edge_width,omitempty"`
	SelfLoopRadius         float64 `json:"self_loop_radius,omitempty"`
	StraightenBy           float64 `json:"straighten_by,omitempty"`
	CompatibilityThreshold float64 `json:"compatibility_threshold,omitempty"`

	// Shared options
	Seed    uint64 `json:"seed,omitempty"`
	Refresh bool   `json:"refresh,omitempty"` // bypass the cache

	// Runtime options (not serialized)
	Logger *log.Logger         `json:"-"`
	Diag   *layout.Diagnostics `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this pipeline run.
	RunID string

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Positions maps each node to its canvas coordinate.
	Positions layout.Positions

	// Paths maps each edge to its routed path. Nil when Router is "none".
	Paths route.Paths

	// Diagnostics lists the non-fatal notices emitted during the run:
	// repaired inputs and convergence reports.
	Diagnostics []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	DroppedEdges int
	LayoutTime   time.Duration
	RouteTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether positions came from cache
	PathsHit  bool // Whether paths came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateAlgorithm checks that a layout algorithm is valid.
func ValidateAlgorithm(algorithm string) error {
	if !ValidAlgorithms[algorithm] {
		return errors.New(errors.ErrCodeInvalidAlgorithm,
			"invalid algorithm: %q (must be one of: spring, circular, community, random)", algorithm)
	}
	return nil
}

// ValidateRouter checks that an edge router is valid.
func ValidateRouter(router string) error {
	if !ValidRouters[router] {
		return errors.New(errors.ErrCodeInvalidRouter,
			"invalid router: %q (must be one of: straight, curved, bundled, none)", router)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRoute(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateAlgorithm(o.Algorithm); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidCanvas,
			"canvas dimensions must be positive: %gx%g", o.Width, o.Height)
	}
	if o.Algorithm == AlgorithmCommunity && len(o.Communities) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "community algorithm requires a community assignment")
	}
	return nil
}

// SetRouteDefaults sets default values for edge routing.
func (o *Options) SetRouteDefaults() {
	if o.Router == "" {
		o.Router = DefaultRouter
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRoute validates and sets defaults for edge routing.
func (o *Options) ValidateForRoute() error {
	o.SetRouteDefaults()
	if err := ValidateRouter(o.Router); err != nil {
		return err
	}
	if o.StraightenBy < 0 || o.StraightenBy >= 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"straighten_by must be in [0, 1): %g", o.StraightenBy)
	}
	return nil
}

// BBox returns the canvas described by the options.
func (o *Options) BBox() geom.BBox {
	w, h := o.Width, o.Height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}
	return geom.BBox{Origin: geom.V(0, 0), Scale: geom.V(w, h)}
}

// ShouldRoute returns whether an edge routing stage runs.
func (o *Options) ShouldRoute() bool {
	return o.Router != RouterNone
}

// LayoutKeyOpts returns cache key options for layout computation. Every
// option that changes the computed positions is included, so stale entries
// cannot be served for a run with different inputs.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	fixed := append([]string(nil), o.Fixed...)
	sort.Strings(fixed)
	return cache.LayoutKeyOpts{
		Algorithm:       o.Algorithm,
		Width:           o.Width,
		Height:          o.Height,
		Iterations:      o.Iterations,
		Temperature:     o.Temperature,
		K:               o.K,
		NodeRadius:      o.NodeRadius,
		NodeRadii:       o.NodeRadii,
		Positions:       o.Positions,
		Fixed:           fixed,
		Communities:     o.Communities,
		Relax:           o.Relax,
		RelaxIterations: o.RelaxIterations,
		KeepOrder:       o.KeepOrder,
		Seed:            o.Seed,
	}
}

// PathsKeyOpts returns cache key options for edge routing. The node
// positions themselves enter the paths key through the layout hash.
func (o *Options) PathsKeyOpts() cache.PathsKeyOpts {
	return cache.PathsKeyOpts{
		Router:                 o.Router,
		Width:                  o.Width,
		Height:                 o.Height,
		EdgeWidth:              o.EdgeWidth,
		SelfLoopRadius:         o.SelfLoopRadius,
		K:                      o.K,
		Iterations:             o.Iterations,
		NodeRadius:             o.NodeRadius,
		NodeRadii:              o.NodeRadii,
		StraightenBy:           o.StraightenBy,
		CompatibilityThreshold: o.CompatibilityThreshold,
		Seed:                   o.Seed,
	}
}

// layoutOptions translates pipeline options into layout options.
func (o *Options) layoutOptions() layout.Options {
	return layout.Options{
		BBox:                  o.BBox(),
		Iterations:            o.Iterations,
		InitialTemperature:    o.Temperature,
		K:                     o.K,
		NodeRadius:            o.NodeRadius,
		NodeRadii:             o.NodeRadii,
		InitialPositions:      o.Positions,
		FixedNodes:            o.Fixed,
		RelaxIterations:       o.RelaxIterations,
		SkipCrossingReduction: o.KeepOrder,
		Seed:                  o.Seed,
		Logger:                o.Logger,
		Diag:                  o.Diag,
	}
}

// routeOptions translates pipeline options into routing options.
func (o *Options) routeOptions() route.Options {
	return route.Options{
		BBox:                   o.BBox(),
		EdgeWidth:              o.EdgeWidth,
		SelfLoopRadius:         o.SelfLoopRadius,
		K:                      o.K,
		Iterations:             o.Iterations,
		NodeRadius:             o.NodeRadius,
		NodeRadii:              o.NodeRadii,
		StraightenBy:           o.StraightenBy,
		CompatibilityThreshold: o.CompatibilityThreshold,
		Seed:                   o.Seed,
		Logger:                 o.Logger,
		Diag:                   o.Diag,
	}
}

// algorithm returns the layout algorithm selected by the options, lifted
// over disconnected graphs.
func (o *Options) algorithm() layout.Algorithm {
	var inner layout.Algorithm
	switch o.Algorithm {
	case AlgorithmCircular:
		inner = layout.Circular
	case AlgorithmCommunity:
		inner = layout.Community(o.Communities)
	case AlgorithmRandom:
		inner = layout.Random
	default:
		inner = layout.Spring
	}
	return layout.PerComponent(inner)
}

// graphStats fills the size fields of a Stats value.
func graphStats(g *graph.Graph) Stats {
	return Stats{
		NodeCount:    g.NodeCount(),
		EdgeCount:    g.EdgeCount(),
		DroppedEdges: g.Deduplicated(),
	}
}
