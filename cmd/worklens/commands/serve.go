package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"worklens/internal/server"
)

// NewServeCommand creates the serve subcommand: a JSON-RPC query server on
// stdio, one request per line.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer analysis queries over JSON-RPC on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg, stderrLogger())
			if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
}
