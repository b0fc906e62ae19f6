package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/catalogtree/internal/api"
	"github.com/matzehuels/catalogtree/pkg/cache"
)

// defaultRequestTimeout bounds a single API request.
const defaultRequestTimeout = 60 * time.Second

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr           string
		noCache        bool
		requestTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET  /healthz                          liveness and build info
  POST /v1/forest                        build a forest from posted records
  GET  /v1/glossaries/{nodeUri}/tree     glossary subtree (?format=json|outline|dot|svg)
  GET  /v1/glossaries/{nodeUri}/tree.svg glossary subtree as SVG

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, requestTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: [server] addr, or :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&requestTimeout, "request-timeout", defaultRequestTimeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, requestTimeout time.Duration) error {
	cfg := c.settings()
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, noCache, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	// API entries live apart from CLI builds in a shared cache.
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "api:")

	printKeyValue("Address", addr)
	printKeyValue("Store", cfg.Store.Backend)
	printKeyValue("Cache", cfg.Cache.Backend)

	return api.New(runner, c.Logger, requestTimeout).ListenAndServe(ctx, api.Config{
		Addr:           addr,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		RequestTimeout: requestTimeout,
	})
}
