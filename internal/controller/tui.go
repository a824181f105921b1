package controller

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cruft.dev/pkg/cruft/internal/domain/checks"
	m "cruft.dev/pkg/cruft/internal/model"
)

// viewerChrome is the number of lines used by the viewer header and footer.
const viewerChrome = 4

// TUI implements UI for terminals: coloured output and a pager for reports.
type TUI struct {
	cmd *cobra.Command
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd}
}

// Reporter returns a reporter writing to the command output.
func (p *TUI) Reporter(opts ReporterOptions) (Reporter, error) {
	return NewReporter(p.cmd.OutOrStdout(), opts)
}

// ShowChecks prints the check table.
func (p *TUI) ShowChecks(ctx context.Context, descriptors []checks.Check) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprint(p.cmd.OutOrStdout(), renderChecksTable(descriptors))

	return err
}

// ShowReports prints the report kind table.
func (p *TUI) ShowReports(ctx context.Context, kinds []m.ReportKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprint(p.cmd.OutOrStdout(), renderReportsTable(kinds))

	return err
}

// Diff prints the changed reports, always coloured.
func (p *TUI) Diff(ctx context.Context, entries []m.DiffEntry, _ bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return writeDiff(p.cmd.OutOrStdout(), entries, true)
}

// View pages through the reports. Output that fits the terminal is printed
// directly.
func (p *TUI) View(ctx context.Context, reports []m.Report) error {
	out := p.cmd.OutOrStdout()

	var content bytes.Buffer
	if err := writeReports(&content, reports, ReporterOptions{Kind: ReporterFancy}); err != nil {
		return err
	}

	model := newViewerModel(content.String(), len(reports))

	if f, ok := out.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	if !model.needsPagination() {
		_, err := fmt.Fprint(out, model.content)
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("report viewer: %w", err)
	}

	return nil
}

// viewerModel is the Bubble Tea model of the report pager.
type viewerModel struct {
	viewport viewport.Model
	content  string
	lines    int
	reports  int
	width    int
	height   int
	ready    bool
	quitting bool
}

func newViewerModel(content string, reports int) viewerModel {
	return viewerModel{
		content: content,
		lines:   strings.Count(content, "\n"),
		reports: reports,
	}
}

func (vm viewerModel) needsPagination() bool {
	if vm.height == 0 || vm.lines == 0 {
		return false
	}

	return vm.lines > vm.height
}

func (vm viewerModel) Init() tea.Cmd {
	return nil
}

func (vm viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		vm.width = msg.Width
		vm.height = msg.Height
		height := max(msg.Height-viewerChrome, 1)

		if !vm.ready {
			vm.viewport = viewport.New(msg.Width, height)
			vm.viewport.SetContent(vm.content)
			vm.ready = true
		} else {
			vm.viewport.Width = msg.Width
			vm.viewport.Height = height
		}

		return vm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			vm.quitting = true
			return vm, tea.Quit
		case "g", "home":
			vm.viewport.GotoTop()
			return vm, nil
		case "G", "end":
			vm.viewport.GotoBottom()
			return vm, nil
		}
	}

	var cmd tea.Cmd
	vm.viewport, cmd = vm.viewport.Update(msg)

	return vm, cmd
}

var (
	viewerTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	viewerFooterStyle = lipgloss.NewStyle().Faint(true)
)

func (vm viewerModel) View() string {
	if vm.quitting {
		return ""
	}

	if !vm.ready {
		return "loading reports..."
	}

	var b strings.Builder

	b.WriteString(viewerTitleStyle.Render(fmt.Sprintf("cruft: %d report(s)", vm.reports)))
	b.WriteString("\n\n")
	b.WriteString(vm.viewport.View())
	b.WriteString("\n")
	b.WriteString(viewerFooterStyle.Render(fmt.Sprintf(
		"%3.f%% | ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit",
		vm.viewport.ScrollPercent()*100,
	)))

	return b.String()
}
