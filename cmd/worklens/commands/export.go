package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"worklens/internal/analyze"
	"worklens/internal/export"
	"worklens/internal/filter"
)

// NewExportCommand creates the export subcommand, which writes one
// analysis run into a SQLite file for downstream tooling.
func NewExportCommand() *cobra.Command {
	var (
		dbPath  string
		from    string
		to      string
		project string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an analysis result to a SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			f, err := filter.ParseRange(from, to, project, loc)
			if err != nil {
				return err
			}

			analyzer := analyze.New(cfg, stderrLogger())
			res, err := analyzer.Analyze(context.Background(), f)
			if err != nil {
				return err
			}
			if err := export.Write(dbPath, res); err != nil {
				return err
			}
			fmt.Printf("exported %d sessions to %s\n", res.TotalSessions, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to write (required)")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&project, "project", "", "filter by project name")
	cmd.MarkFlagRequired("db")

	return cmd
}
