package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/plexicon/internal/app"
	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/service/stats"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the discovery counters",
		Long:  `Print the total and unique discovery counts and the most frequent words.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			top, _ := cmd.Flags().GetInt("top")
			asJSON, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, closeLog, err := app.OpenLogOutput(cfg.Log, os.Stderr)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()
			logger := app.NewLogger(cfg.Log, out)

			backend, err := app.OpenBackend(cmd.Context(), cfg.Storage, logger)
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			rec, err := stats.NewStore(logger, backend, cfg.Storage.Key).Load(cmd.Context())
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), rec, top, asJSON)
		},
	}
	cmd.Flags().IntP("top", "n", 10, "Number of most frequent words to list (0 for all)")
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}

type statsOutput struct {
	TotalGenerated int                `json:"totalGenerated"`
	UniqueCount    int                `json:"uniqueCount"`
	Top            []domain.WordCount `json:"top"`
}

func printStats(out io.Writer, rec domain.StatsRecord, top int, asJSON bool) error {
	ranked := rec.Ranked(top)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(statsOutput{
			TotalGenerated: rec.TotalGenerated,
			UniqueCount:    rec.UniqueCount,
			Top:            ranked,
		})
	}

	fmt.Fprintf(out, "total:  %d\n", rec.TotalGenerated)
	fmt.Fprintf(out, "unique: %d\n", rec.UniqueCount)
	if len(ranked) == 0 {
		fmt.Fprintln(out, "top:    ---")
		return nil
	}
	fmt.Fprintln(out, "top:")
	for i, wc := range ranked {
		fmt.Fprintf(out, "  %2d. %-24s %d\n", i+1, wc.Word, wc.Count)
	}
	return nil
}
