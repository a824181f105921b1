package cmd

import (
	"github.com/spf13/cobra"

	"cruft.dev/pkg/cruft/internal/domain"
)

var (
	viewReportsFlag []string
	viewPkgsFlag    string
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view FILE|-",
		Short: "Browse serialized reports",
		Long: `Browse reports saved as JSON lines in an interactive pager. When standard
output is not a terminal the reports are printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.View(cmd.Context(), domain.ViewArgs{
				Path:    args[0],
				Reports: viewReportsFlag,
				Pkgs:    viewPkgsFlag,
			})
		},
	}

	cmd.Flags().StringSliceVarP(&viewReportsFlag, reportsFlagName, "r", nil, "reports to show")
	cmd.Flags().StringVarP(&viewPkgsFlag, pkgsFlagName, "p", "", "restrict reports to a target")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
