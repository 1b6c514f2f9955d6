package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"worklens/internal/archive"
)

// NewArchiveCommand creates the archive subcommand, which compacts old
// plain-text logs into zstd files the analyzer still reads.
func NewArchiveCommand() *cobra.Command {
	var olderThanDays int

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Compress old JSONL logs to zstd in place",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			age := time.Duration(olderThanDays) * 24 * time.Hour
			archived, err := archive.CompressOlderThan(cfg.LogRoot, age)
			if err != nil {
				return err
			}
			fmt.Printf("archived %d log files\n", len(archived))
			return nil
		},
	}

	cmd.Flags().IntVar(&olderThanDays, "older-than", 30, "only compress logs older than this many days")
	return cmd
}
