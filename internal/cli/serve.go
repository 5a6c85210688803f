package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/readability/pkg/pipeline"
	"github.com/matzehuels/readability/pkg/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring API over HTTP",
		Long: `Serve the scoring API over HTTP.

Endpoints:
  GET  /healthz
  GET  /version
  POST /v1/score       score a JSON (or ?format=yaml) drawing
  POST /v1/score/dot   lay out a DOT graph with ?engine= and score it
  POST /v1/layout      lay out a DOT graph and return the drawing

Scoring options not given as query parameters default to the flags below,
then to the config file. The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, opts, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: [server] addr from config, or :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.IdealAngle, "ideal-angle", 0, "default ideal crossing angle in degrees")
	cmd.Flags().StringVar(&opts.Divisor, "divisor", "", "default angular deviation divisor: degree, 2d-2")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "parallel workers per request (default: number of CPUs)")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "default graphviz engine for DOT input")
	cmd.Flags().BoolVar(&opts.Clamp, "clamp", false, "bound scores to [0, 1] by default")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, opts pipeline.Options, noCache bool) error {
	if err := c.resolveOptions(&opts); err != nil {
		return err
	}
	if addr == "" {
		addr = c.config.Addr()
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	printInfo("Serving on %s", addr)
	printKeyValue("Engine", opts.Engine)
	printKeyValue("Ideal angle", fmt.Sprintf("%v°", opts.IdealAngle))
	printKeyValue("Divisor", opts.Divisor)

	srv := server.New(runner, c.Logger, opts)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	printSuccess("Server stopped")
	return nil
}
