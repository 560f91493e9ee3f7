package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/plexicon/internal/tui"
)

// NewPlayCmd creates the play command.
func NewPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the terminal UI",
		Long: `Open the full-screen terminal UI.

Left/right changes the letter, tab changes the language and enter starts a
discovery. Logs go to log.file when set and are discarded otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			letter, lang, err := selection(cmd)
			if err != nil {
				return err
			}

			a, cleanup, err := setup(cmd, io.Discard)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.Run(cmd.Context(), a.Reveal, a.Stats, letter, lang)
		},
	}
	addSelectionFlags(cmd)
	return cmd
}
