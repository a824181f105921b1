package cmd

import (
	"github.com/spf13/cobra"

	"cruft.dev/pkg/cruft/internal/domain"
)

const replayLongDescription = `Replay reports saved as JSON lines, reading standard input for "-".
Reports can be filtered by kind and restricted to a target.

` + selectionHelp

var (
	replayReportsFlag []string
	replayPkgsFlag    string
	replaySortFlag    bool
)

// replayCmd represents the replay command.
var replayCmd = newReplayCmd()

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay FILE|-",
		Short: "Replay serialized reports",
		Long:  replayLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter, err := reporterOptions()
			if err != nil {
				return err
			}

			return workflow.Replay(cmd.Context(), domain.ReplayArgs{
				Path:     args[0],
				Reports:  replayReportsFlag,
				Pkgs:     replayPkgsFlag,
				Sort:     replaySortFlag,
				Reporter: reporter,
			})
		},
	}

	cmd.Flags().StringSliceVarP(&replayReportsFlag, reportsFlagName, "r", nil, "reports to replay")
	cmd.Flags().StringVarP(&replayPkgsFlag, pkgsFlagName, "p", "", "restrict reports to a target")
	cmd.Flags().BoolVarP(&replaySortFlag, sortFlagName, "s", false, "sort reports before output")

	return cmd
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
