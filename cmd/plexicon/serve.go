package main

import (
	"os"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

Endpoints:
  POST /api/discover   start a reveal cycle ({"letter":"P","language":"Spanish"})
  GET  /api/reveal     current cycle state
  GET  /api/word       one word record, no pacing
  GET  /api/decoys     a decoy batch
  GET  /api/stats      discovery counters
  GET  /live /ready /health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := setup(cmd, os.Stderr)
			if err != nil {
				return err
			}
			defer cleanup()

			return a.Serve(cmd.Context())
		},
	}
}
