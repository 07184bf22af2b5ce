package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erdlayout/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

Endpoints:
  GET  /healthz
  POST /v1/layout                          lay out a diagram, store it, return its layout
  GET  /v1/layouts/{id}                    fetch a stored layout
  GET  /v1/layouts/{id}/render/{format}    render a stored layout
  POST /v1/render/{format}                 lay out and render a diagram in one call

Stored layouts live in the configured cache, so --no-cache disables the
/v1/layouts endpoints.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if timeout > 0 {
				cfg.RequestTimeout = timeout
			}
			return c.runServe(cmd.Context(), cfg.WithDefaults(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout (default 60s)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	printSuccess("Serving layouts")
	printKeyValue("Address", StyleLink.Render(listenURL(cfg.Addr)))
	printKeyValue("Timeout", cfg.RequestTimeout.String())
	printNewline()

	return server.New(runner, cfg, c.Logger).ListenAndServe(ctx)
}

// listenURL turns a listen address into a URL a browser can open.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
