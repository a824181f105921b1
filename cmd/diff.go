package cmd

import (
	"github.com/spf13/cobra"

	"cruft.dev/pkg/cruft/internal/domain"
)

var (
	diffReportsFlag []string
	diffPkgsFlag    string
	diffColorFlag   bool
)

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two report files",
		Long: `Compare two report files. Reports only in OLD are printed with a
leading "-", reports only in NEW with a leading "+". Either file may be "-"
for standard input.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Diff(cmd.Context(), domain.DiffArgs{
				Old:     args[0],
				New:     args[1],
				Reports: diffReportsFlag,
				Pkgs:    diffPkgsFlag,
				Color:   diffColorFlag,
			})
		},
	}

	cmd.Flags().StringSliceVarP(&diffReportsFlag, reportsFlagName, "r", nil, "reports to compare")
	cmd.Flags().StringVarP(&diffPkgsFlag, pkgsFlagName, "p", "", "restrict reports to a target")
	cmd.Flags().BoolVar(&diffColorFlag, colorFlagName, false, "colorize output")

	return cmd
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
