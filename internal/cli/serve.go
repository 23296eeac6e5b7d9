package cli

import (
	"github.com/spf13/cobra"

	"github.com/plexgraph/plexgraph/internal/server"
)

// defaultServeAddr is the listen address when neither the flag nor the
// config file sets one.
const defaultServeAddr = ":8080"

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

The server exposes the layout pipeline over HTTP:

  POST /api/layout   compute positions and paths for a graph
  POST /api/route    route edges over given positions
  GET  /healthz      liveness check

The cache backend is taken from the config file; by default results are
cached on disk under the XDG cache directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := addr
			if listenAddr == "" {
				listenAddr = c.Config.Server.Addr
			}
			if listenAddr == "" {
				listenAddr = defaultServeAddr
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, loggerFromContext(cmd.Context()))
			return srv.ListenAndServe(cmd.Context(), listenAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
