package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"cruft.dev/pkg/cruft/internal/domain/checks"
	m "cruft.dev/pkg/cruft/internal/model"
)

// SimpleUI implements UI with plain output on the command's writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Reporter returns a reporter writing to the command output.
func (s *SimpleUI) Reporter(opts ReporterOptions) (Reporter, error) {
	return NewReporter(s.cmd.OutOrStdout(), opts)
}

// ShowChecks prints the check table.
func (s *SimpleUI) ShowChecks(ctx context.Context, descriptors []checks.Check) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderChecksTable(descriptors))

	return nil
}

// ShowReports prints the report kind table.
func (s *SimpleUI) ShowReports(ctx context.Context, kinds []m.ReportKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderReportsTable(kinds))

	return nil
}

// Diff prints one line per changed report, coloured only when asked.
func (s *SimpleUI) Diff(ctx context.Context, entries []m.DiffEntry, useColor bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return writeDiff(s.cmd.OutOrStdout(), entries, useColor)
}

// View prints the reports in the fancy form.
func (s *SimpleUI) View(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return writeReports(s.cmd.OutOrStdout(), reports, ReporterOptions{Kind: ReporterFancy})
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func writeReports(w io.Writer, reports []m.Report, opts ReporterOptions) error {
	reporter, err := NewReporter(w, opts)
	if err != nil {
		return err
	}

	for _, r := range reports {
		if err := reporter.Report(r); err != nil {
			return err
		}
	}

	return reporter.Finish()
}

func writeDiff(w io.Writer, entries []m.DiffEntry, useColor bool) error {
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for _, c := range []*color.Color{removed, added} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, e := range entries {
		c := added
		if e.Op == m.DiffRemoved {
			c = removed
		}

		if _, err := c.Fprintln(w, e.String()); err != nil {
			return err
		}
	}

	return nil
}

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	return table
}

func renderChecksTable(descriptors []checks.Check) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Check", "Scope", "Source", "Priority", "Context", "Reports"})

	for _, c := range descriptors {
		contexts := make([]string, 0, len(c.Context))
		for _, ctx := range c.Context {
			contexts = append(contexts, ctx.String())
		}

		reports := make([]string, 0, len(c.Reports))
		for _, r := range c.Reports {
			reports = append(reports, r.String())
		}

		table.Append([]string{
			c.Name(),
			c.Scope.String(),
			c.Source.String(),
			strconv.Itoa(c.Priority),
			strings.Join(contexts, ", "),
			strings.Join(reports, ", "),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(descriptors)), "", "", "", "", ""})
	table.Render()

	return buf.String()
}

func renderReportsTable(kinds []m.ReportKind) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Report", "Level", "Checks"})

	for _, k := range kinds {
		producers := checks.ForReport(k)

		names := make([]string, 0, len(producers))
		for _, c := range producers {
			names = append(names, c.Name())
		}

		table.Append([]string{k.String(), k.Level().String(), strings.Join(names, ", ")})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(kinds)), "", ""})
	table.Render()

	return buf.String()
}
