package main

import (
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve /search, /health and /metrics over HTTP",
	Long: `Starts an HTTP server exposing the search as JSON:

  GET /search?q=lithium,cobalt&max=20&domains=BBC,ft.com&uk=true
  GET /health   status of the most recent run
  GET /metrics  counters and timings

The listen address defaults to $MEDIAMON_LISTEN, or :$PORT, or :8080.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides the environment)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, cfg, _, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	addr := cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}
	return a.Serve(cmd.Context(), addr)
}
