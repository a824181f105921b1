package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cruft.dev/pkg/cruft/internal/domain/checks"
	m "cruft.dev/pkg/cruft/internal/model"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return cmd, &buf
}

func TestNewUI(t *testing.T) {
	cmd, _ := newTestCmd()

	assert.IsType(t, &TUI{}, NewUI(cmd, true))
	assert.IsType(t, &SimpleUI{}, NewUI(cmd, false))
}

func TestSimpleUI_ShowChecks(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	require.NoError(t, ui.ShowChecks(context.Background(), checks.All()))

	out := buf.String()
	for _, want := range []string{"Check", "Scope", "Priority", "Reports", "Total 17"} {
		assert.Contains(t, out, want)
	}

	for _, c := range checks.All() {
		assert.Contains(t, out, c.Name())
	}

	assert.Contains(t, out, "optional, overlay")
	assert.Contains(t, out, "-100")
}

func TestSimpleUI_ShowReports(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	kinds := []m.ReportKind{m.EapiBanned, m.PackageLeaf}
	require.NoError(t, ui.ShowReports(context.Background(), kinds))

	lines := strings.Split(buf.String(), "\n")

	var banned, leaf string
	for _, line := range lines {
		switch {
		case strings.Contains(line, "EapiBanned"):
			banned = line
		case strings.Contains(line, "PackageLeaf"):
			leaf = line
		}
	}

	assert.Contains(t, banned, "error")
	assert.Contains(t, banned, "EapiStatus")
	assert.Contains(t, leaf, "Leaf")
	assert.Contains(t, buf.String(), "Total 2")
}

func TestSimpleUI_Diff(t *testing.T) {
	entries := []m.DiffEntry{
		{Op: m.DiffRemoved, Report: m.Report{Kind: m.LiveOnly, Target: m.PackageTarget("cat", "a")}},
		{Op: m.DiffAdded, Report: m.Report{Kind: m.CategoryUnknown, Target: m.CategoryTarget("x"), Message: "x"}},
	}

	t.Run("plain", func(t *testing.T) {
		cmd, buf := newTestCmd()
		require.NoError(t, NewSimpleUI(cmd).Diff(context.Background(), entries, false))
		assert.Equal(t, "- cat/a: LiveOnly\n+ x: CategoryUnknown: x\n", buf.String())
	})

	t.Run("color", func(t *testing.T) {
		cmd, buf := newTestCmd()
		require.NoError(t, NewSimpleUI(cmd).Diff(context.Background(), entries, true))
		assert.Contains(t, buf.String(), "\x1b[31m- cat/a: LiveOnly")
		assert.Contains(t, buf.String(), "\x1b[32m+ x: CategoryUnknown: x")
	})
}

func TestSimpleUI_View(t *testing.T) {
	cmd, buf := newTestCmd()

	require.NoError(t, NewSimpleUI(cmd).View(context.Background(), sampleReports()))
	assert.Equal(t, "cat/pkg\n  UnstableOnly: arch\n  DependencyDeprecated: version 1-r2: BDEPEND: cat/deprecated\n", buf.String())
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, ui.ShowChecks(ctx, checks.All()), context.Canceled)
	assert.ErrorIs(t, ui.View(ctx, sampleReports()), context.Canceled)
	assert.Empty(t, buf.String())
}
