package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cruft.dev/pkg/cruft/internal/domain"
)

func TestViewCmd_PassesFile(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)

	mockWorkflow.On("View", mock.Anything, domain.ViewArgs{Path: "reports.json"}).Return(nil)

	cmd, _ := newTestRootCmd(newViewCmd())
	cmd.SetArgs([]string{"view", "reports.json"})

	require.NoError(t, cmd.Execute())
	mockWorkflow.AssertExpectations(t)
}

func TestViewCmd_Filters(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)

	mockWorkflow.On("View", mock.Anything, mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.Path == "-" &&
			args.Pkgs == "cat/*" &&
			len(args.Reports) == 2 && args.Reports[0] == "@error" && args.Reports[1] == "UnstableOnly"
	})).Return(nil)

	cmd, _ := newTestRootCmd(newViewCmd())
	cmd.SetArgs([]string{"view", "-", "--reports", "@error,UnstableOnly", "--pkgs", "cat/*"})

	require.NoError(t, cmd.Execute())
	mockWorkflow.AssertExpectations(t)
}

func TestViewCmd_RequiresFile(t *testing.T) {
	useMockWorkflow(t)

	cmd, _ := newTestRootCmd(newViewCmd())
	cmd.SetArgs([]string{"view"})

	require.Error(t, cmd.Execute())
}
