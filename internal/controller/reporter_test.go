package controller

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "cruft.dev/pkg/cruft/internal/model"
)

func sampleReports() []m.Report {
	return []m.Report{
		{Kind: m.UnstableOnly, Target: m.PackageTarget("cat", "pkg"), Message: "arch"},
		{
			Kind:    m.DependencyDeprecated,
			Target:  m.Coordinate{Category: "cat", Package: "pkg", Version: "1-r2"},
			Message: "BDEPEND: cat/deprecated",
		},
	}
}

func render(t *testing.T, opts ReporterOptions, reports []m.Report) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, reports, opts))

	return buf.String()
}

func TestParseReporterKind(t *testing.T) {
	for _, kind := range ReporterKinds() {
		got, err := ParseReporterKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	got, err := ParseReporterKind(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, ReporterJSON, got)

	_, err = ParseReporterKind("xml")
	assert.EqualError(t, err, `invalid reporter: "xml"`)
}

func TestSimpleReporter(t *testing.T) {
	want := "cat/pkg: UnstableOnly: arch\n" +
		"cat/pkg-1-r2: DependencyDeprecated: BDEPEND: cat/deprecated\n"

	assert.Equal(t, want, render(t, ReporterOptions{Kind: ReporterSimple}, sampleReports()))
}

func TestFancyReporter(t *testing.T) {
	reports := append(sampleReports(),
		m.Report{Kind: m.RepoCategoryEmpty, Target: m.CategoryTarget("empty")},
		m.Report{Kind: m.RepoCategoriesUnused, Target: m.RepoTarget("test"), Message: "spare"},
	)

	want := "cat/pkg\n" +
		"  UnstableOnly: arch\n" +
		"  DependencyDeprecated: version 1-r2: BDEPEND: cat/deprecated\n" +
		"\n" +
		"empty\n" +
		"  RepoCategoryEmpty\n" +
		"\n" +
		"test\n" +
		"  RepoCategoriesUnused: spare\n"

	assert.Equal(t, want, render(t, ReporterOptions{Kind: ReporterFancy}, reports))
}

func TestJSONReporter(t *testing.T) {
	want := `{"kind":"UnstableOnly","scope":"package","target":"cat/pkg","message":"arch"}` + "\n" +
		`{"kind":"DependencyDeprecated","scope":"version","target":"cat/pkg-1-r2","message":"BDEPEND: cat/deprecated"}` + "\n"

	assert.Equal(t, want, render(t, ReporterOptions{Kind: ReporterJSON}, sampleReports()))
}

func TestFormatReporter(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   string
	}{
		{name: "empty format", format: "", want: ""},
		{name: "package", format: "{package}", want: "pkg\npkg\n"},
		{name: "mixed", format: "{category}|{name}|{level}", want: "cat|UnstableOnly|info\ncat|DependencyDeprecated|warning\n"},
		{name: "escaped braces", format: "{{{name}}}", want: "{UnstableOnly}\n{DependencyDeprecated}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, ReporterOptions{Kind: ReporterFormat, Format: tt.format}, sampleReports())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatReporterErrors(t *testing.T) {
	var buf bytes.Buffer

	err := writeReports(&buf, sampleReports(), ReporterOptions{Kind: ReporterFormat, Format: "{cpv}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `UnstableOnly: invalid output format "{cpv}": unknown attribute "cpv"`)
	assert.Contains(t, err.Error(), "possible attributes: category, cpn, level, message, name, package")

	err = writeReports(&buf, sampleReports(), ReporterOptions{Kind: ReporterFormat, Format: "{name"})
	assert.ErrorContains(t, err, "unclosed brace")
}

func TestReportAttrs(t *testing.T) {
	r := m.Report{Kind: m.EapiBanned, Target: m.Coordinate{Category: "cat", Package: "pkg", Version: "1"}, Message: "0"}

	assert.Equal(t, map[string]string{
		"name":     "EapiBanned",
		"level":    "error",
		"message":  "0",
		"category": "cat",
		"package":  "pkg",
		"version":  "1",
		"cpv":      "cat/pkg-1",
		"cpn":      "cat/pkg",
		"ebuild":   "pkg-1.ebuild",
		"path":     "cat/pkg/pkg-1.ebuild",
	}, reportAttrs(r))

	assert.Equal(t, map[string]string{
		"name":    "RepoCategoriesUnused",
		"level":   "warning",
		"message": "",
		"repo":    "gentoo",
	}, reportAttrs(m.Report{Kind: m.RepoCategoriesUnused, Target: m.RepoTarget("gentoo")}))
}

func TestNewReporterInvalid(t *testing.T) {
	_, err := NewReporter(&bytes.Buffer{}, ReporterOptions{Kind: "xml"})
	assert.EqualError(t, err, `invalid reporter: "xml"`)
}
