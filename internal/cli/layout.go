package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	graphio "github.com/plexgraph/plexgraph/pkg/io"
	"github.com/plexgraph/plexgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions and
// edge paths from a graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output          string
		noCache         bool
		positionsFile   string
		communitiesFile string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a layout for a graph",
		Long: `Compute a layout for a graph.

The layout command reads a graph.json file, computes a position for every
node and a path for every edge, and writes a layout.json file with the
canvas bounding box, the positions, and the paths.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, positionsFile, communitiesFile)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", opts.Algorithm, "layout algorithm: spring (default), circular, community, random")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "canvas width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "canvas height")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", opts.Iterations, "spring simulation iterations")
	cmd.Flags().Float64Var(&opts.Temperature, "temperature", opts.Temperature, "initial spring temperature")
	cmd.Flags().Float64Var(&opts.K, "k", opts.K, "ideal edge length (default: derived from canvas area)")
	cmd.Flags().Float64Var(&opts.NodeRadius, "node-radius", opts.NodeRadius, "uniform node radius")
	cmd.Flags().BoolVar(&opts.Relax, "relax", opts.Relax, "apply Lloyd relaxation to reduce node overlap")
	cmd.Flags().IntVar(&opts.RelaxIterations, "relax-iterations", opts.RelaxIterations, "Lloyd relaxation passes (default 10)")
	cmd.Flags().BoolVar(&opts.KeepOrder, "keep-order", opts.KeepOrder, "keep node order on the circle (circular)")
	cmd.Flags().StringSliceVar(&opts.Fixed, "fixed", nil, "nodes to keep at their initial positions")
	cmd.Flags().StringVar(&positionsFile, "positions", "", "layout.json file with initial positions")
	cmd.Flags().StringVar(&communitiesFile, "communities", "", "JSON file mapping node to community (community)")

	// Route flags
	cmd.Flags().StringVarP(&opts.Router, "router", "r", opts.Router, "edge router: straight (default), curved, bundled, none")
	cmd.Flags().Float64Var(&opts.EdgeWidth, "edge-width", opts.EdgeWidth, "edge width for parallel edge offsets")
	cmd.Flags().Float64Var(&opts.SelfLoopRadius, "self-loop-radius", opts.SelfLoopRadius, "radius of self-loop arcs")
	cmd.Flags().Float64Var(&opts.StraightenBy, "straighten-by", opts.StraightenBy, "blend bundled paths back toward straight lines (0..1)")

	// Shared flags
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for reproducible layouts")

	return cmd
}

// runLayout loads the graph, runs the pipeline, and writes the result.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool, positionsFile, communitiesFile string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, radii, err := graphio.ImportGraph(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if opts.NodeRadii == nil {
		opts.NodeRadii = radii
	}

	if positionsFile != "" {
		pos, err := graphio.ImportPositions(positionsFile)
		if err != nil {
			return fmt.Errorf("load positions %s: %w", positionsFile, err)
		}
		opts.Positions = pos
	}
	if communitiesFile != "" {
		communities, err := readCommunities(communitiesFile)
		if err != nil {
			return fmt.Errorf("load communities %s: %w", communitiesFile, err)
		}
		opts.Communities = communities
	}

	c.applyConfigDefaults(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Algorithm))
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graphio.ExportResult(opts.BBox(), result.Positions, result.Paths, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done(fmt.Sprintf("Processed %s", input))

	for _, note := range result.Diagnostics {
		printWarning("%s", note)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)

	if opts.Router == pipeline.RouterStraight {
		printNewline()
		printNextStep("Try another router", fmt.Sprintf("plexgraph route %s %s -r curved", input, outputPath))
	}

	return nil
}

// readCommunities reads a node-to-community assignment from a JSON file.
func readCommunities(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var communities map[string]string
	if err := json.Unmarshal(data, &communities); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return communities, nil
}
