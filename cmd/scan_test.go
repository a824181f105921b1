package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cruft.dev/pkg/cruft/internal/controller"
	"cruft.dev/pkg/cruft/internal/domain"
)

func TestScanCmd_Defaults(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)

	mockWorkflow.On("Scan", mock.Anything, mock.MatchedBy(func(args domain.ScanArgs) bool {
		return args.Repo == "" &&
			len(args.Targets) == 0 &&
			len(args.Checks) == 0 &&
			len(args.Reports) == 0 &&
			len(args.Exit) == 0 &&
			args.Jobs == 0 &&
			args.PoolSize == 1 &&
			!args.Sort &&
			args.Reporter == controller.ReporterOptions{Kind: controller.ReporterFancy} &&
			args.Output == "" &&
			!args.NoCache &&
			!args.Force
	})).Return(nil)

	cmd, _ := newTestRootCmd(newScanCmd())
	cmd.SetArgs([]string{"scan"})

	require.NoError(t, cmd.Execute())
	mockWorkflow.AssertExpectations(t)
}

func TestScanCmd_Flags(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)

	var got domain.ScanArgs

	mockWorkflow.EXPECT().Scan(mock.Anything, mock.Anything).
		Run(func(_ context.Context, args domain.ScanArgs) { got = args }).
		Return(nil)

	cmd, _ := newTestRootCmd(newScanCmd())
	cmd.SetArgs([]string{
		"scan", "./repo", "cat/pkg", "dev-*/py*",
		"-j", "4",
		"-c", "Leaf,EapiStatus",
		"--reports=-@warning",
		"--exit", "@error",
		"-s",
		"-R", "simple",
		"-o", "reports.json",
		"--pool-size", "3",
		"--cache-dir", "/tmp/cruft-cache",
		"--no-cache",
		"--force",
	})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, domain.ScanArgs{
		Repo:     "./repo",
		Targets:  []string{"cat/pkg", "dev-*/py*"},
		Checks:   []string{"Leaf", "EapiStatus"},
		Reports:  []string{"-@warning"},
		Exit:     []string{"@error"},
		Jobs:     4,
		PoolSize: 3,
		Sort:     true,
		Reporter: controller.ReporterOptions{Kind: controller.ReporterSimple},
		Output:   "reports.json",
		CacheDir: "/tmp/cruft-cache",
		NoCache:  true,
		Force:    true,
	}, got)
}

func TestScanCmd_ReporterErrorsSkipScan(t *testing.T) {
	useMockWorkflow(t)

	cmd, _ := newTestRootCmd(newScanCmd())
	cmd.SetArgs([]string{"scan", "-R", "format"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--format")
}

func TestScanCmd_PropagatesScanFailure(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	mockWorkflow.EXPECT().Scan(mock.Anything, mock.Anything).Return(domain.ErrScanFailed)

	cmd, _ := newTestRootCmd(newScanCmd())
	cmd.SetArgs([]string{"scan", "."})

	err := cmd.Execute()
	assert.True(t, errors.Is(err, domain.ErrScanFailed))
}

func TestSplitScanArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantRepo    string
		wantTargets []string
	}{
		{name: "none"},
		{name: "repo", args: []string{"/var/db/repos/gentoo"}, wantRepo: "/var/db/repos/gentoo", wantTargets: []string{}},
		{name: "targets", args: []string{".", "cat/pkg", "other"}, wantRepo: ".", wantTargets: []string{"cat/pkg", "other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, targets := splitScanArgs(tt.args)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantTargets, targets)
		})
	}
}

func TestNewScanCmd(t *testing.T) {
	cmd := newScanCmd()

	assert.Equal(t, "scan [REPO] [TARGET...]", cmd.Use)
	assert.Equal(t, scanLongDescription, cmd.Long)

	for _, name := range []string{
		jobsFlagName, checksFlagName, reportsFlagName, exitFlagName, sortFlagName,
		outputFlagName, poolSizeFlagName, cacheDirFlagName, noCacheFlagName, forceFlagName,
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
