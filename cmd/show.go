package cmd

import (
	"github.com/spf13/cobra"

	"cruft.dev/pkg/cruft/internal/domain"
)

// showCmd represents the show command.
var showCmd = newShowCmd()

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "show checks|reports",
		Short:     "List the available checks or reports",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{domain.ShowChecks, domain.ShowReports},
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Show(cmd.Context(), domain.ShowArgs{Subject: args[0]})
		},
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
