package controller

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
)

// ReporterKind names an output format for reports.
type ReporterKind string

// Available reporters.
const (
	ReporterSimple ReporterKind = "simple"
	ReporterFancy  ReporterKind = "fancy"
	ReporterJSON   ReporterKind = "json"
	ReporterFormat ReporterKind = "format"
)

// ReporterKinds lists every reporter name.
func ReporterKinds() []ReporterKind {
	return []ReporterKind{ReporterSimple, ReporterFancy, ReporterJSON, ReporterFormat}
}

// ParseReporterKind parses a reporter name.
func ParseReporterKind(s string) (ReporterKind, error) {
	kind := ReporterKind(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(ReporterKinds(), kind) {
		return kind, nil
	}

	return "", m.InvalidValueError{Kind: "reporter", Value: s}
}

// ReporterOptions configures a reporter.
type ReporterOptions struct {
	Kind ReporterKind
	// Format is the template used by the format reporter.
	Format string
}

// Reporter writes reports in one output format. Finish must be called once
// every report was written.
type Reporter interface {
	Report(r m.Report) error
	Finish() error
}

// NewReporter returns the reporter selected by opts writing to w.
func NewReporter(w io.Writer, opts ReporterOptions) (Reporter, error) {
	out := bufio.NewWriter(w)

	switch opts.Kind {
	case ReporterSimple:
		return &simpleReporter{out: out}, nil
	case ReporterFancy, "":
		return newFancyReporter(out, lipgloss.NewRenderer(w)), nil
	case ReporterJSON:
		return &jsonReporter{out: out}, nil
	case ReporterFormat:
		return &formatReporter{out: out, format: opts.Format}, nil
	}

	return nil, m.InvalidValueError{Kind: "reporter", Value: string(opts.Kind)}
}

type simpleReporter struct {
	out *bufio.Writer
}

func (r *simpleReporter) Report(report m.Report) error {
	_, err := fmt.Fprintln(r.out, report)
	return err
}

func (r *simpleReporter) Finish() error {
	return r.out.Flush()
}

// fancyReporter groups consecutive reports under their package, category or
// repository and colours kinds by level.
type fancyReporter struct {
	out     *bufio.Writer
	key     lipgloss.Style
	levels  map[m.ReportLevel]lipgloss.Style
	prevKey string
	started bool
}

func newFancyReporter(out *bufio.Writer, renderer *lipgloss.Renderer) *fancyReporter {
	level := func(color string) lipgloss.Style {
		return renderer.NewStyle().Foreground(lipgloss.Color(color))
	}

	return &fancyReporter{
		out: out,
		key: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		levels: map[m.ReportLevel]lipgloss.Style{
			m.LevelCritical: level("5"),
			m.LevelError:    level("1"),
			m.LevelWarning:  level("3"),
			m.LevelStyle:    level("6"),
			m.LevelInfo:     level("2"),
		},
	}
}

func groupKey(target m.Coordinate) string {
	if target.Scope() == m.ScopeVersion {
		return target.Cpn()
	}

	return target.String()
}

func (r *fancyReporter) Report(report m.Report) error {
	if key := groupKey(report.Target); !r.started || key != r.prevKey {
		if r.started {
			if _, err := fmt.Fprintln(r.out); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(r.out, r.key.Render(key)); err != nil {
			return err
		}

		r.prevKey = key
		r.started = true
	}

	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(r.levels[report.Level()].Render(report.Kind.String()))

	if report.Target.Scope() == m.ScopeVersion {
		fmt.Fprintf(&b, ": version %s", report.Target.Version)
	}

	if report.Message != "" {
		b.WriteString(": ")
		b.WriteString(report.Message)
	}

	_, err := fmt.Fprintln(r.out, b.String())

	return err
}

func (r *fancyReporter) Finish() error {
	return r.out.Flush()
}

type jsonReporter struct {
	out *bufio.Writer
}

func (r *jsonReporter) Report(report m.Report) error {
	return adapter.WriteReports(r.out, []m.Report{report})
}

func (r *jsonReporter) Finish() error {
	return r.out.Flush()
}

// formatReporter expands {attr} placeholders per report. Lines that expand
// to nothing are skipped.
type formatReporter struct {
	out    *bufio.Writer
	format string
}

func reportAttrs(report m.Report) map[string]string {
	t := report.Target
	attrs := map[string]string{
		"name":    report.Kind.String(),
		"level":   report.Level().String(),
		"message": report.Message,
	}

	switch t.Scope() {
	case m.ScopeVersion:
		ebuild := t.Package + "-" + t.Version + ".ebuild"
		attrs["category"] = t.Category
		attrs["package"] = t.Package
		attrs["version"] = t.Version
		attrs["cpv"] = t.String()
		attrs["cpn"] = t.Cpn()
		attrs["ebuild"] = ebuild
		attrs["path"] = t.Category + "/" + t.Package + "/" + ebuild
	case m.ScopePackage:
		attrs["category"] = t.Category
		attrs["package"] = t.Package
		attrs["cpn"] = t.Cpn()
	case m.ScopeCategory:
		attrs["category"] = t.Category
	case m.ScopeRepo:
		attrs["repo"] = t.Repo
	}

	return attrs
}

func (r *formatReporter) Report(report m.Report) error {
	line, err := expandFormat(r.format, reportAttrs(report))
	if err != nil {
		return fmt.Errorf("%s: %w", report.Kind, err)
	}

	if line == "" {
		return nil
	}

	_, err = fmt.Fprintln(r.out, line)

	return err
}

func (r *formatReporter) Finish() error {
	return r.out.Flush()
}

// expandFormat replaces every {name} in format with attrs[name]. {{ and }}
// produce literal braces.
func expandFormat(format string, attrs map[string]string) (string, error) {
	var b strings.Builder

	for i := 0; i < len(format); i++ {
		c := format[i]

		switch {
		case c == '{' && strings.HasPrefix(format[i:], "{{"):
			b.WriteByte('{')
			i++
		case c == '}' && strings.HasPrefix(format[i:], "}}"):
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return "", m.InvalidValueError{Kind: "output format", Value: format, Reason: "unclosed brace"}
			}

			name := format[i+1 : i+end]

			value, ok := attrs[name]
			if !ok {
				supported := slices.Sorted(maps.Keys(attrs))
				return "", m.InvalidValueError{
					Kind:   "output format",
					Value:  format,
					Reason: fmt.Sprintf("unknown attribute %q [possible attributes: %s]", name, strings.Join(supported, ", ")),
				}
			}

			b.WriteString(value)
			i += end
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}
