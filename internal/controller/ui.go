// Package controller renders reports, registry listings and report diffs for
// the terminal.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cruft.dev/pkg/cruft/internal/domain/checks"
	m "cruft.dev/pkg/cruft/internal/model"
)

// UI defines how command results reach the user.
// Implementations can use different output methods (plain text, TUI, etc).
type UI interface {
	// Reporter returns a reporter writing to the command output.
	Reporter(opts ReporterOptions) (Reporter, error)
	// ShowChecks lists check descriptors as a table.
	ShowChecks(ctx context.Context, descriptors []checks.Check) error
	// ShowReports lists report kinds with their level and producing checks.
	ShowReports(ctx context.Context, kinds []m.ReportKind) error
	// Diff prints the difference between two report sets.
	Diff(ctx context.Context, entries []m.DiffEntry, color bool) error
	// View displays reports for browsing.
	View(ctx context.Context, reports []m.Report) error
}

// NewUI returns the interactive UI when stdout is a terminal and the plain
// one otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
