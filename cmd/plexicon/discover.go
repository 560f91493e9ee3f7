package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/service/reveal"
)

// cycleRunner is the part of the orchestrator discover drives.
type cycleRunner interface {
	Start(letter domain.Letter, lang domain.Language) bool
	Snapshot() reveal.Snapshot
	Changed() <-chan struct{}
}

// NewDiscoverCmd creates the discover command.
func NewDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Run one discovery and print the result",
		Long: `Run one reveal cycle with the configured pacing: the word is printed
when it is revealed and the definition follows after the definition delay.
The discovery is counted in the stats record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			letter, lang, err := selection(cmd)
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")

			a, cleanup, err := setup(cmd, os.Stderr)
			if err != nil {
				return err
			}
			defer cleanup()

			return runDiscover(cmd.Context(), a.Reveal, letter, lang, cmd.OutOrStdout(), asJSON)
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the final state as JSON")
	return cmd
}

// runDiscover starts a cycle and follows it until the definition is shown.
func runDiscover(ctx context.Context, orch cycleRunner, letter domain.Letter, lang domain.Language, out io.Writer, asJSON bool) error {
	changed := orch.Changed()
	if !orch.Start(letter, lang) {
		return errors.New("discover: a cycle is already loading")
	}

	if !asJSON {
		fmt.Fprintf(out, "%s · %s\n", letter, lang)
	}

	wordShown := false
	for {
		snap := orch.Snapshot()
		switch snap.Phase {
		case reveal.PhaseIdle:
			return errors.New("discover: cycle failed")
		case reveal.PhaseRevealingWord:
			if !asJSON && !wordShown {
				printWord(out, snap)
				wordShown = true
			}
		case reveal.PhaseRevealingDefinition:
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			if !wordShown {
				printWord(out, snap)
			}
			fmt.Fprintf(out, "  %s\n", snap.Definition)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

func printWord(out io.Writer, snap reveal.Snapshot) {
	if snap.PartOfSpeech != "" {
		fmt.Fprintf(out, "%s (%s)\n", snap.Word, snap.PartOfSpeech)
		return
	}
	fmt.Fprintln(out, snap.Word)
}
