package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// NewVersionCommand creates the version subcommand.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the worklens version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("worklens v%s\n", version)
		},
	}
}
