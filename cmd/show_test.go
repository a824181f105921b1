package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cruft.dev/pkg/cruft/internal/domain"
)

func TestShowCmd(t *testing.T) {
	for _, subject := range []string{domain.ShowChecks, domain.ShowReports} {
		t.Run(subject, func(t *testing.T) {
			mockWorkflow := useMockWorkflow(t)
			mockWorkflow.On("Show", mock.Anything, domain.ShowArgs{Subject: subject}).Return(nil)

			cmd, _ := newTestRootCmd(newShowCmd())
			cmd.SetArgs([]string{"show", subject})

			require.NoError(t, cmd.Execute())
			mockWorkflow.AssertExpectations(t)
		})
	}
}

func TestShowCmd_RejectsUnknownSubject(t *testing.T) {
	useMockWorkflow(t)

	cmd, _ := newTestRootCmd(newShowCmd())
	cmd.SetArgs([]string{"show", "eclasses"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eclasses")
}
