// Package cache provides caching for layout and routing results.
//
// Computing a layout for a large graph is expensive; the resulting
// positions and edge paths are small. Caching keyed by a content hash of
// the graph plus the layout options lets repeated requests for the same
// graph skip the simulation entirely.
//
// Backends: [FileCache] for CLI usage, [RedisCache] and [MongoCache] for
// server deployments, and [NullCache] to disable caching.
package cache

import (
	"context"
	"time"

	"github.com/plexgraph/plexgraph/pkg/geom"
)

// Cache TTLs per entry kind. Layouts and paths are deterministic for a
// given graph, options and seed, so the TTLs mainly bound storage growth.
const (
	// TTLGraph is the retention of imported graph snapshots.
	TTLGraph = 24 * time.Hour

	// TTLLayout is the retention of computed node positions.
	TTLLayout = 7 * 24 * time.Hour

	// TTLPaths is the retention of routed edge paths.
	TTLPaths = 7 * 24 * time.Hour
)

// Cache is the storage interface used by the pipeline.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// LayoutKeyOpts are the option fields that change layout results and must
// therefore be part of the layout cache key. Maps serialize with sorted
// keys, so they hash deterministically; Fixed must be sorted by the caller.
type LayoutKeyOpts struct {
	Algorithm       string
	Width           float64
	Height          float64
	Iterations      int
	Temperature     float64
	K               float64
	NodeRadius      float64
	NodeRadii       map[string]float64
	Positions       map[string]geom.Vec
	Fixed           []string
	Communities     map[string]string
	Relax           bool
	RelaxIterations int
	KeepOrder       bool
	Seed            uint64
}

// PathsKeyOpts are the option fields that change routed paths and must
// therefore be part of the paths cache key.
type PathsKeyOpts struct {
	Router                 string
	Width                  float64
	Height                 float64
	EdgeWidth              float64
	SelfLoopRadius         float64
	K                      float64
	Iterations             int
	NodeRadius             float64
	NodeRadii              map[string]float64
	StraightenBy           float64
	CompatibilityThreshold float64
	Seed                   uint64
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// GraphKey generates a key for imported graph snapshots.
	GraphKey(source string) string

	// LayoutKey generates a key for computed positions, derived from the
	// graph content hash and the layout options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// PathsKey generates a key for routed edge paths, derived from the
	// layout content hash and the routing options.
	PathsKey(layoutHash string, opts PathsKeyOpts) string
}

// DefaultKeyer generates hashed, prefixed cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for imported graph snapshots.
func (k *DefaultKeyer) GraphKey(source string) string {
	return hashKey("graph", source)
}

// LayoutKey generates a key for computed positions.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// PathsKey generates a key for routed edge paths.
func (k *DefaultKeyer) PathsKey(layoutHash string, opts PathsKeyOpts) string {
	return hashKey("paths", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
