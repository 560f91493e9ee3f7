package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/plexicon/internal/app"
	"github.com/heartmarshall/plexicon/internal/config"
	"github.com/heartmarshall/plexicon/internal/domain"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plexicon",
		Short: "Discover random words letter by letter",
		Long: `plexicon picks a random word that starts with the chosen letter in
English, Spanish or Italian, reveals it after a short pause and then shows its
definition. Every discovery is counted in a persistent stats record.

Words come from public dictionaries (Datamuse, Free Dictionary, Wiktionary) or,
with sources.mode=generative, from a language model. Configuration is read from
--config, CONFIG_PATH or ./config.yaml, overridden by environment variables.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewPlayCmd())
	cmd.AddCommand(NewDiscoverCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --config, or the default
// locations when the flag is empty, and applies --verbose.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// setup loads the configuration, builds the logger writing to cfg.Log.File
// or fallback, and wires the application. The returned cleanup closes both.
func setup(cmd *cobra.Command, fallback io.Writer) (*app.App, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	out, closeLog, err := app.OpenLogOutput(cfg.Log, fallback)
	if err != nil {
		return nil, nil, err
	}
	logger := app.NewLogger(cfg.Log, out)

	a, err := app.New(cmd.Context(), cfg, logger, nil)
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}

	cleanup := func() {
		if err := a.Close(); err != nil {
			logger.Error("close", slog.String("error", err.Error()))
		}
		_ = closeLog()
	}
	return a, cleanup, nil
}

// addSelectionFlags registers --letter and --language with their defaults.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("letter", "l", domain.DefaultLetter.String(), "Starting letter (A-Z)")
	cmd.Flags().StringP("language", "L", domain.DefaultLanguage.String(), "Language: English, Spanish or Italian")
}

// selection parses --letter and --language.
func selection(cmd *cobra.Command) (domain.Letter, domain.Language, error) {
	rawLetter, _ := cmd.Flags().GetString("letter")
	rawLang, _ := cmd.Flags().GetString("language")

	letter, err := domain.ParseLetter(rawLetter)
	if err != nil {
		return 0, "", fmt.Errorf("--letter: %w", err)
	}
	lang, err := domain.ParseLanguage(rawLang)
	if err != nil {
		return 0, "", fmt.Errorf("--language: %w", err)
	}
	return letter, lang, nil
}
