package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cruft.dev/pkg/cruft/internal/domain"
)

const selectionHelp = `Check, report and exit selections accept comma separated values:
  Name             set the selection to a check or report name
  +Name, -Name     add to or remove from the default selection
  @error           every report of a level
  all              every report`

const scanLongDescription = `Scan a repository (default: the working directory), optionally
restricted to targets. The first argument is the repository path.

` + targetsHelp + `

` + selectionHelp

var (
	scanJobsFlag     uint
	scanChecksFlag   []string
	scanReportsFlag  []string
	scanExitFlag     []string
	scanSortFlag     bool
	scanOutputFlag   string
	scanPoolSizeFlag uint
	scanCacheDirFlag string
	scanNoCacheFlag  bool
	scanForceFlag    bool
)

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [REPO] [TARGET...]",
		Short: "Scan a repository for QA issues",
		Long:  scanLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter, err := reporterOptions()
			if err != nil {
				return err
			}

			repo, targets := splitScanArgs(args)

			return workflow.Scan(cmd.Context(), domain.ScanArgs{
				Repo:     repo,
				Targets:  targets,
				Checks:   viper.GetStringSlice(scanChecksConfigKey),
				Reports:  viper.GetStringSlice(scanReportsConfigKey),
				Exit:     viper.GetStringSlice(scanExitConfigKey),
				Jobs:     viper.GetUint(scanJobsConfigKey),
				PoolSize: viper.GetUint(poolSizeConfigKey),
				Sort:     viper.GetBool(scanSortConfigKey),
				Reporter: reporter,
				Output:   scanOutputFlag,
				CacheDir: viper.GetString(cacheDirConfigKey),
				NoCache:  viper.GetBool(noCacheConfigKey),
				Force:    scanForceFlag,
			})
		},
	}

	configureScanFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func configureScanFlags(cmd *cobra.Command) {
	cmd.Flags().UintVarP(&scanJobsFlag, jobsFlagName, "j", defaultJobs, "number of concurrent workers (0: one per CPU)")
	bindFlagToConfig(cmd.Flags().Lookup(jobsFlagName), scanJobsConfigKey)

	cmd.Flags().StringSliceVarP(&scanChecksFlag, checksFlagName, "c", nil, "checks to run")
	bindFlagToConfig(cmd.Flags().Lookup(checksFlagName), scanChecksConfigKey)

	cmd.Flags().StringSliceVarP(&scanReportsFlag, reportsFlagName, "r", nil, "reports to enable")
	bindFlagToConfig(cmd.Flags().Lookup(reportsFlagName), scanReportsConfigKey)

	cmd.Flags().StringSliceVar(&scanExitFlag, exitFlagName, nil, "reports that make the scan fail with exit status 1")
	bindFlagToConfig(cmd.Flags().Lookup(exitFlagName), scanExitConfigKey)

	cmd.Flags().BoolVarP(&scanSortFlag, sortFlagName, "s", false, "sort reports before output")
	bindFlagToConfig(cmd.Flags().Lookup(sortFlagName), scanSortConfigKey)

	cmd.Flags().UintVar(&scanPoolSizeFlag, poolSizeFlagName, defaultPoolSize, "number of concurrent metadata interpreters")
	bindFlagToConfig(cmd.Flags().Lookup(poolSizeFlagName), poolSizeConfigKey)

	cmd.Flags().StringVar(&scanCacheDirFlag, cacheDirFlagName, "", "metadata cache directory (default: $XDG_CACHE_HOME/cruft)")
	bindFlagToConfig(cmd.Flags().Lookup(cacheDirFlagName), cacheDirConfigKey)

	cmd.Flags().BoolVar(&scanNoCacheFlag, noCacheFlagName, defaultNoCache, "disable the metadata cache")
	bindFlagToConfig(cmd.Flags().Lookup(noCacheFlagName), noCacheConfigKey)

	cmd.Flags().StringVarP(&scanOutputFlag, outputFlagName, "o", "", "also save the reports as JSON lines to a file")
	cmd.Flags().BoolVar(&scanForceFlag, forceFlagName, false, "regenerate metadata even when cached")
}

// splitScanArgs separates the repository path from the targets.
func splitScanArgs(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	return args[0], args[1:]
}
