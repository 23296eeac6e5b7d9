// Package cli implements the plexgraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/plexgraph/plexgraph/pkg/buildinfo"
	"github.com/plexgraph/plexgraph/pkg/cache"
	"github.com/plexgraph/plexgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "plexgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the user's
// config file (if present) loaded.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	cfg, err := LoadConfig()
	if err != nil {
		c.Logger.Warnf("ignoring config file: %v", err)
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "plexgraph",
		Short:        "Plexgraph computes node positions and edge paths for network graphs",
		Long:         `Plexgraph is a graph layout engine. It reads a graph as JSON, computes a position for every node (spring, circular, community, or random layout) and a path for every edge (straight, curved, or bundled routing), and writes the result as JSON for downstream rendering.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache selects a cache backend based on the config file. The default is
// a file cache under the XDG cache directory; falling back to a null cache
// keeps commands working when no directory is available.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	case CacheBackendRedis:
		return cache.NewRedisCache(c.Config.Cache.RedisAddr)
	case CacheBackendMongo:
		return cache.NewMongoCache(context.Background(), c.Config.Cache.MongoURI, appName)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/plexgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfigDefaults fills unset pipeline options from the config file.
// Flags already bound to the options take precedence since they overwrite
// the fields before the command runs.
func (c *CLI) applyConfigDefaults(opts *pipeline.Options) {
	if opts.Algorithm == "" {
		opts.Algorithm = c.Config.Defaults.Algorithm
	}
	if opts.Router == "" {
		opts.Router = c.Config.Defaults.Router
	}
	if opts.Width == 0 {
		opts.Width = c.Config.Defaults.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Config.Defaults.Height
	}
	if opts.Seed == 0 {
		opts.Seed = c.Config.Defaults.Seed
	}
}
