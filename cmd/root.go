// Package cmd provides the root command and CLI setup for cruft.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cruft.dev/pkg/cruft/internal/adapter"
	"cruft.dev/pkg/cruft/internal/controller"
	"cruft.dev/pkg/cruft/internal/domain"
)

// Process exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitError  = 2
)

var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

var verboseFlag bool
var logFileFlag string
var reporterFlag string
var formatFlag string

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	reportStore = adapter.NewReportStore()
	workflow = domain.NewWorkflow(reportStore, ui)
}

const targetsHelp = `Targets restrict a scan or a replay:
  cat              every package of a category
  cat/pkg          a single package
  cat/pkg-1.2      a single version
  >=cat/pkg-1.2    versions matching a dependency atom
  dev-*/py*        globs in either part`

const rootLongDescription = `Cruft is a QA scanner for ebuild repositories. It runs checks over
recipes, packages, categories and whole repositories and reports the
problems they find.

` + targetsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cruft",
		Short:         "QA scanner for ebuild repositories",
		Long:          rootLongDescription,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().StringVarP(&reporterFlag, reporterFlagName, "R", defaultReporter, "reporter: simple, fancy, json or format")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(reporterFlagName), reporterConfigKey)

	cmd.PersistentFlags().StringVar(&formatFlag, formatFlagName, "", "template for the format reporter, e.g. {cpv}: {name}")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(formatFlagName), formatConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// reporterOptions builds the reporter selection from flags and config.
func reporterOptions() (controller.ReporterOptions, error) {
	kind, err := controller.ParseReporterKind(viper.GetString(reporterConfigKey))
	if err != nil {
		return controller.ReporterOptions{}, err
	}

	format := viper.GetString(formatConfigKey)
	if kind == controller.ReporterFormat && format == "" {
		return controller.ReporterOptions{}, errors.New("the format reporter requires --format")
	}

	return controller.ReporterOptions{Kind: kind, Format: format}, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if code := execute(rootCmd); code != exitOK {
		os.Exit(code)
	}
}

func execute(cmd *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return exitCode(cmd, cmd.ExecuteContext(ctx))
}

// exitCode maps a command error to the process exit code, printing fatal
// errors to stderr.
func exitCode(cmd *cobra.Command, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrScanFailed):
		return exitFailed
	}

	cmd.PrintErrln("cruft:", err)

	return exitError
}
