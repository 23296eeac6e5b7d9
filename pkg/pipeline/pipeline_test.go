package pipeline

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexgraph/plexgraph/pkg/errors"
	"github.com/plexgraph/plexgraph/pkg/geom"
)

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, AlgorithmSpring, opts.Algorithm)
	assert.Equal(t, RouterStraight, opts.Router)
	assert.Equal(t, DefaultWidth, opts.Width)
	assert.Equal(t, DefaultHeight, opts.Height)
	assert.Equal(t, DefaultSeed, opts.Seed)
	assert.NotNil(t, opts.Logger)
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Algorithm: AlgorithmCircular, Width: 2, Seed: 9}
	require.NoError(t, opts.ValidateAndSetDefaults())
	before := opts
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, before.Algorithm, opts.Algorithm)
	assert.Equal(t, before.Width, opts.Width)
	assert.Equal(t, before.Seed, opts.Seed)
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{
			name: "unknown algorithm",
			opts: Options{Algorithm: "orbital"},
			code: errors.ErrCodeInvalidAlgorithm,
		},
		{
			name: "unknown router",
			opts: Options{Router: "manhattan"},
			code: errors.ErrCodeInvalidRouter,
		},
		{
			name: "negative canvas",
			opts: Options{Width: -1},
			code: errors.ErrCodeInvalidCanvas,
		},
		{
			name: "community without assignment",
			opts: Options{Algorithm: AlgorithmCommunity},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "straighten_by out of range",
			opts: Options{StraightenBy: 1},
			code: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestShouldRoute(t *testing.T) {
	opts := Options{Router: RouterNone}
	assert.False(t, opts.ShouldRoute())

	opts = Options{Router: RouterCurved}
	assert.True(t, opts.ShouldRoute())
}

func TestBBoxDefaults(t *testing.T) {
	opts := Options{}
	box := opts.BBox()
	assert.Equal(t, geom.V(0, 0), box.Origin)
	assert.Equal(t, geom.V(1, 1), box.Scale)

	opts = Options{Width: 4, Height: 2}
	assert.Equal(t, geom.V(4, 2), opts.BBox().Scale)
}

func TestValidationMessagePreservesPercent(t *testing.T) {
	// Names flow into error messages as arguments, so a % in the input
	// must not be interpreted as a formatting verb.
	err := ValidateAlgorithm("100%wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"100%wrong"`)

	err = ValidateRouter("50%straight")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"50%straight"`)
}

func TestKeyOptsCarryResultChangingFields(t *testing.T) {
	opts := Options{
		Algorithm: AlgorithmSpring, Width: 2, Height: 3,
		Iterations: 80, Temperature: 0.4, K: 0.2, NodeRadius: 0.01,
		NodeRadii:   map[string]float64{"a": 0.05},
		Positions:   map[string]geom.Vec{"a": geom.V(0.1, 0.1)},
		Fixed:       []string{"b", "a"},
		Communities: map[string]string{"a": "left"},
		Relax:       true, RelaxIterations: 4, KeepOrder: true, Seed: 5,
		Router: RouterBundled, EdgeWidth: 0.02, SelfLoopRadius: 0.04,
		StraightenBy: 0.6, CompatibilityThreshold: 0.2,
	}

	lk := opts.LayoutKeyOpts()
	assert.Equal(t, "spring", lk.Algorithm)
	assert.Equal(t, 80, lk.Iterations)
	assert.Equal(t, 0.4, lk.Temperature)
	assert.Equal(t, opts.NodeRadii, lk.NodeRadii)
	assert.Equal(t, opts.Positions, lk.Positions)
	assert.Equal(t, []string{"a", "b"}, lk.Fixed, "anchor list is sorted for a stable key")
	assert.Equal(t, opts.Communities, lk.Communities)
	assert.True(t, lk.Relax)
	assert.Equal(t, 4, lk.RelaxIterations)
	assert.True(t, lk.KeepOrder)
	assert.Equal(t, uint64(5), lk.Seed)

	pk := opts.PathsKeyOpts()
	assert.Equal(t, "bundled", pk.Router)
	assert.Equal(t, 2.0, pk.Width)
	assert.Equal(t, 80, pk.Iterations)
	assert.Equal(t, opts.NodeRadii, pk.NodeRadii)
	assert.Equal(t, 0.6, pk.StraightenBy)
	assert.Equal(t, 0.2, pk.CompatibilityThreshold)
	assert.Equal(t, uint64(5), pk.Seed)
}

func TestMarshalPathsRoundTrip(t *testing.T) {
	paths := testPaths()
	data, err := marshalPaths(paths)
	require.NoError(t, err)

	got, err := unmarshalPaths(data)
	require.NoError(t, err)
	assert.Equal(t, paths, got)
}

func newTestLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
