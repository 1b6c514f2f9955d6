// Package commands wires up the worklens CLI.
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"worklens/internal/analyze"
	"worklens/internal/config"
	"worklens/internal/filter"
	"worklens/internal/render"
	"worklens/internal/watch"
)

var (
	flagFrom    string
	flagTo      string
	flagProject string
	flagOutput  string
	flagFormat  string
	flagRoot    string
	flagWatch   bool
)

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "worklens",
		Short: "Analyze work sessions from conversational coding logs",
		Long: `worklens reconstructs work sessions from the JSONL logs an AI coding
assistant leaves behind, classifies what each session was about, and
reports aggregate statistics as markdown or JSON.`,
		SilenceUsage: true,
		RunE:         runAnalyze,
	}

	rootCmd.Flags().StringVar(&flagFrom, "from", "", "start date (YYYY-MM-DD, inclusive)")
	rootCmd.Flags().StringVar(&flagTo, "to", "", "end date (YYYY-MM-DD, inclusive)")
	rootCmd.Flags().StringVar(&flagProject, "project", "", "filter by project name")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "write the report to a file (default stdout)")
	rootCmd.Flags().StringVar(&flagFormat, "format", "markdown", "output format: markdown or json")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "log root directory (overrides config)")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "keep running and rewrite the report when logs change")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewArchiveCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagRoot != "" {
		cfg.LogRoot = flagRoot
	}
	return cfg, nil
}

func stderrLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if flagFormat != "markdown" && flagFormat != "json" {
		return fmt.Errorf("unknown format %q (want markdown or json)", flagFormat)
	}
	if flagWatch && flagOutput == "" {
		return fmt.Errorf("--watch requires --output")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	f, err := filter.ParseRange(flagFrom, flagTo, flagProject, loc)
	if err != nil {
		return err
	}

	logger := stderrLogger()
	analyzer := analyze.New(cfg, logger)

	runOnce := func(ctx context.Context) error {
		res, err := analyzer.Analyze(ctx, f)
		if err != nil {
			return err
		}
		report, err := renderReport(res, loc)
		if err != nil {
			return err
		}
		return writeReport(report)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := runOnce(ctx); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Printf("watching %s, rewriting %s on change", cfg.LogRoot, flagOutput)
	err = watch.Watch(ctx, cfg.LogRoot, watch.DefaultDebounce, logger, runOnce)
	if err == context.Canceled {
		return nil
	}
	return err
}

func renderReport(res *analyze.Result, loc *time.Location) (string, error) {
	if flagFormat == "json" {
		return render.JSON(res, loc)
	}
	return render.Markdown(res, loc), nil
}

func writeReport(report string) error {
	if flagOutput == "" {
		_, err := os.Stdout.WriteString(report)
		return err
	}
	if err := os.WriteFile(flagOutput, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
