package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	graphio "github.com/plexgraph/plexgraph/pkg/io"
	"github.com/plexgraph/plexgraph/pkg/pipeline"
)

// routeCommand creates the route command for routing edges over existing
// positions.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "route [graph.json] [layout.json]",
		Short: "Route edges over an existing layout",
		Long: `Route edges over an existing layout.

The route command reads a graph.json file and a layout.json file (produced
by 'layout') and recomputes the edge paths without touching the node
positions. Use it to try different routers on the same layout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd.Context(), args[0], args[1], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <layout>.routed.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")

	cmd.Flags().StringVarP(&opts.Router, "router", "r", opts.Router, "edge router: straight (default), curved, bundled")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "canvas width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "canvas height")
	cmd.Flags().Float64Var(&opts.EdgeWidth, "edge-width", opts.EdgeWidth, "edge width for parallel edge offsets")
	cmd.Flags().Float64Var(&opts.SelfLoopRadius, "self-loop-radius", opts.SelfLoopRadius, "radius of self-loop arcs")
	cmd.Flags().Float64Var(&opts.K, "k", opts.K, "control point spacing (curved)")
	cmd.Flags().Float64Var(&opts.StraightenBy, "straighten-by", opts.StraightenBy, "blend bundled paths back toward straight lines (0..1)")
	cmd.Flags().Float64Var(&opts.CompatibilityThreshold, "compatibility-threshold", opts.CompatibilityThreshold, "minimum edge compatibility for bundling")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for reproducible paths")

	return cmd
}

// runRoute loads the graph and positions, routes the edges, and writes the
// combined result.
func (c *CLI) runRoute(ctx context.Context, graphPath, layoutPath string, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, radii, err := graphio.ImportGraph(graphPath)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", graphPath, err)
	}
	if opts.NodeRadii == nil {
		opts.NodeRadii = radii
	}

	pos, err := graphio.ImportPositions(layoutPath)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", layoutPath, err)
	}

	c.applyConfigDefaults(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if !opts.ShouldRoute() {
		return fmt.Errorf("router %q computes no paths", opts.Router)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Routing edges (%s)...", opts.Router))
	spinner.Start()

	paths, cacheHit, err := runner.RoutePathsWithCacheInfo(ctx, g, pos, opts)
	if err != nil {
		spinner.StopWithError("Routing failed")
		return fmt.Errorf("route edges: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(layoutPath, filepath.Ext(layoutPath))
		outputPath = base + ".routed.json"
	}

	if err := graphio.ExportResult(opts.BBox(), pos, paths, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done(fmt.Sprintf("Processed %s", graphPath))

	printSuccess("Routing complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)

	return nil
}
