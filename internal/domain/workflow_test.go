package domain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cruft.dev/pkg/cruft/internal/adapter"
	"cruft.dev/pkg/cruft/internal/controller"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/internal/testkit"
)

func newTestWorkflow(t *testing.T, opts ...WorkflowOption) (Workflow, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	return NewWorkflow(adapter.NewReportStore(), controller.NewSimpleUI(cmd), opts...), &out
}

func bannedRepo(t *testing.T) string {
	t.Helper()

	return testkit.NewRepo(t, "test").
		Layout("eapis-banned: [\"0\"]\n").
		Ebuild("cat/a-1", testkit.Recipe("0")).
		Ebuild("cat/b-1", testkit.Recipe("0")).
		Ebuild("dev/c-1", testkit.Recipe("8")).
		Path()
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reports.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestWorkflow_Scan(t *testing.T) {
	repo := bannedRepo(t)
	simple := controller.ReporterOptions{Kind: controller.ReporterSimple}

	t.Run("reports", func(t *testing.T) {
		wf, out := newTestWorkflow(t)

		err := wf.Scan(context.Background(), ScanArgs{
			Repo:     repo,
			Reports:  []string{"EapiBanned"},
			Sort:     true,
			Jobs:     2,
			Reporter: simple,
			NoCache:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, "cat/a-1: EapiBanned: 0\ncat/b-1: EapiBanned: 0\n", out.String())
	})

	t.Run("exit kinds fail the scan", func(t *testing.T) {
		wf, _ := newTestWorkflow(t)

		err := wf.Scan(context.Background(), ScanArgs{
			Repo:     repo,
			Reports:  []string{"EapiBanned"},
			Exit:     []string{"@error", "-EapiDeprecated"},
			Reporter: simple,
			NoCache:  true,
		})
		assert.ErrorIs(t, err, ErrScanFailed)
	})

	t.Run("targets and output file", func(t *testing.T) {
		wf, out := newTestWorkflow(t)
		output := filepath.Join(t.TempDir(), "out.jsonl")

		err := wf.Scan(context.Background(), ScanArgs{
			Repo:     repo,
			Targets:  []string{"cat/b", "dev"},
			Reports:  []string{"EapiBanned"},
			Reporter: controller.ReporterOptions{Kind: controller.ReporterJSON},
			Output:   output,
			NoCache:  true,
		})
		require.NoError(t, err)

		saved, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, out.String(), string(saved))
		assert.Equal(t, `{"kind":"EapiBanned","scope":"version","target":"cat/b-1","message":"0"}`+"\n", string(saved))
	})

	t.Run("targets sorted together", func(t *testing.T) {
		wf, out := newTestWorkflow(t)

		err := wf.Scan(context.Background(), ScanArgs{
			Repo:     repo,
			Targets:  []string{"cat/b", "cat/a"},
			Reports:  []string{"EapiBanned"},
			Sort:     true,
			Reporter: simple,
			NoCache:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, "cat/a-1: EapiBanned: 0\ncat/b-1: EapiBanned: 0\n", out.String())
	})

	t.Run("overlapping targets report once", func(t *testing.T) {
		for _, sorted := range []bool{true, false} {
			wf, out := newTestWorkflow(t)

			err := wf.Scan(context.Background(), ScanArgs{
				Repo:     repo,
				Targets:  []string{"cat/a-1", "cat", "cat/a", "cat/*"},
				Reports:  []string{"EapiBanned"},
				Sort:     sorted,
				Jobs:     4,
				Reporter: simple,
				NoCache:  true,
			})
			require.NoError(t, err)
			assert.Equal(t, 1, strings.Count(out.String(), "cat/a-1: EapiBanned: 0\n"), out.String())
			assert.Equal(t, 1, strings.Count(out.String(), "cat/b-1: EapiBanned: 0\n"), out.String())
			assert.Equal(t, 2, strings.Count(out.String(), "\n"), out.String())
		}
	})

	t.Run("disk cache", func(t *testing.T) {
		wf, out := newTestWorkflow(t)
		args := ScanArgs{
			Repo:     repo,
			Checks:   []string{"Metadata"},
			Reporter: simple,
			CacheDir: t.TempDir(),
		}

		require.NoError(t, wf.Scan(context.Background(), args))
		require.NoError(t, wf.Scan(context.Background(), args))
		assert.Empty(t, out.String())

		entries, err := os.ReadDir(args.CacheDir)
		require.NoError(t, err)
		assert.NotEmpty(t, entries)
	})
}

func TestWorkflow_ScanErrors(t *testing.T) {
	repo := bannedRepo(t)

	tests := []struct {
		name string
		args ScanArgs
		want string
	}{
		{name: "missing repo", args: ScanArgs{Repo: filepath.Join(t.TempDir(), "missing")}, want: "open repo"},
		{name: "unknown check", args: ScanArgs{Repo: repo, Checks: []string{"Bogus"}}, want: `invalid check: "Bogus"`},
		{name: "unknown report", args: ScanArgs{Repo: repo, Reports: []string{"Bogus"}}, want: "Bogus"},
		{name: "unknown exit report", args: ScanArgs{Repo: repo, Exit: []string{"Bogus"}}, want: "exit"},
		{name: "invalid target", args: ScanArgs{Repo: repo, Targets: []string{"cat/pkg/extra"}}, want: "invalid restriction"},
		{name: "invalid reporter", args: ScanArgs{Repo: repo, Reporter: controller.ReporterOptions{Kind: "xml"}, NoCache: true}, want: "invalid reporter"},
		{name: "overlay check", args: ScanArgs{Repo: repo, Checks: []string{"Duplicates"}, NoCache: true}, want: "requires overlay context"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, _ := newTestWorkflow(t)

			err := wf.Scan(context.Background(), tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.False(t, errors.Is(err, ErrScanFailed))
		})
	}
}

func TestWorkflow_ScanRepoOpener(t *testing.T) {
	opened := ""
	wf, _ := newTestWorkflow(t, WithRepoOpener(func(path string) (adapter.Repo, error) {
		opened = path
		return nil, errors.New("no repo")
	}))

	err := wf.Scan(context.Background(), ScanArgs{})
	require.ErrorContains(t, err, "no repo")
	assert.Equal(t, ".", opened)
}

func TestWorkflow_Replay(t *testing.T) {
	path := writeFile(t, replayInput)

	tests := []struct {
		name string
		args ReplayArgs
		want string
	}{
		{
			name: "all",
			args: ReplayArgs{Path: path, Sort: true},
			want: "cat/pkg-1: EapiBanned: 0\ncat/pkg-2: EapiBanned: 0\ncat/pkg: UnstableOnly: x86\nother: CategoryUnknown: other\ntest: LicensesUnused: MIT\n",
		},
		{
			name: "removed kinds",
			args: ReplayArgs{Path: path, Reports: []string{"-EapiBanned", "-@warning"}},
			want: "cat/pkg: UnstableOnly: x86\nother: CategoryUnknown: other\n",
		},
		{
			name: "restricted",
			args: ReplayArgs{Path: path, Pkgs: "cat/pkg-1"},
			want: "cat/pkg-1: EapiBanned: 0\n",
		},
		{
			name: "format",
			args: ReplayArgs{Path: path, Reports: []string{"EapiBanned"}, Reporter: controller.ReporterOptions{Kind: controller.ReporterFormat, Format: "{cpv}"}},
			want: "cat/pkg-2\ncat/pkg-1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, out := newTestWorkflow(t)
			if tt.args.Reporter.Kind == "" {
				tt.args.Reporter.Kind = controller.ReporterSimple
			}

			require.NoError(t, wf.Replay(context.Background(), tt.args))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestWorkflow_ReplayErrors(t *testing.T) {
	t.Run("malformed line", func(t *testing.T) {
		wf, out := newTestWorkflow(t)
		path := writeFile(t, replayInput+"garbage\n")

		err := wf.Replay(context.Background(), ReplayArgs{Path: path, Reporter: controller.ReporterOptions{Kind: controller.ReporterSimple}})
		require.ErrorIs(t, err, m.ErrDeserialize)
		assert.Equal(t, 5, strings.Count(out.String(), "\n"), "reports before the bad line are flushed")
	})

	t.Run("missing file", func(t *testing.T) {
		wf, _ := newTestWorkflow(t)

		err := wf.Replay(context.Background(), ReplayArgs{Path: filepath.Join(t.TempDir(), "missing")})
		assert.ErrorContains(t, err, "open report file")
	})

	t.Run("invalid restriction", func(t *testing.T) {
		wf, _ := newTestWorkflow(t)

		err := wf.Replay(context.Background(), ReplayArgs{Path: "-", Pkgs: "a/b/c"})
		assert.ErrorContains(t, err, "invalid restriction")
	})
}

func TestWorkflow_Diff(t *testing.T) {
	old := writeFile(t, replayInput)
	cur := writeFile(t, strings.Replace(replayInput, `"x86"`, `"arm64"`, 1))

	wf, out := newTestWorkflow(t)

	require.NoError(t, wf.Diff(context.Background(), DiffArgs{Old: old, New: cur}))
	assert.Equal(t, "+ cat/pkg: UnstableOnly: arm64\n- cat/pkg: UnstableOnly: x86\n", out.String())

	out.Reset()
	require.NoError(t, wf.Diff(context.Background(), DiffArgs{Old: old, New: cur, Reports: []string{"EapiBanned"}}))
	assert.Empty(t, out.String())

	err := wf.Diff(context.Background(), DiffArgs{Old: "-", New: "-"})
	assert.ErrorContains(t, err, "stdin can only be read once")
}

func TestWorkflow_View(t *testing.T) {
	wf, out := newTestWorkflow(t)

	require.NoError(t, wf.View(context.Background(), ViewArgs{Path: writeFile(t, replayInput), Pkgs: "cat/*"}))
	assert.Equal(t,
		"cat/pkg\n  EapiBanned: version 1: 0\n  EapiBanned: version 2: 0\n  UnstableOnly: x86\n",
		out.String(),
	)
}

func TestWorkflow_Show(t *testing.T) {
	wf, out := newTestWorkflow(t)

	require.NoError(t, wf.Show(context.Background(), ShowArgs{Subject: ShowChecks}))
	assert.Contains(t, out.String(), "RestrictTestMissing")

	out.Reset()
	require.NoError(t, wf.Show(context.Background(), ShowArgs{Subject: ShowReports}))
	assert.Contains(t, out.String(), "WhitespaceUnneeded")

	err := wf.Show(context.Background(), ShowArgs{Subject: "eclasses"})
	var invalid m.InvalidValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "eclasses", invalid.Value)
}

func TestExitKinds(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []m.ReportKind
	}{
		{name: "none"},
		{name: "set", values: []string{"EapiBanned"}, want: []m.ReportKind{m.EapiBanned}},
		{name: "add", values: []string{"+LiveOnly"}, want: []m.ReportKind{m.LiveOnly}},
		{name: "remove only", values: []string{"-LiveOnly"}},
		{name: "set minus removed", values: []string{"EapiStatus", "-EapiDeprecated"}, want: []m.ReportKind{m.EapiBanned}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := exitKinds(tt.values)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestReplayFilter(t *testing.T) {
	filter, err := replayFilter(nil, "")
	require.NoError(t, err)
	assert.Nil(t, filter.Kinds)
	assert.Nil(t, filter.Restrict)

	filter, err = replayFilter([]string{"-MetadataError"}, "cat/*")
	require.NoError(t, err)
	assert.Len(t, filter.Kinds, len(m.AllReportKinds())-1)
	assert.NotContains(t, filter.Kinds, m.MetadataError)
	require.NotNil(t, filter.Restrict)
	assert.Equal(t, m.ScopeCategory, filter.Restrict.Scope())

	_, err = replayFilter([]string{"Bogus"}, "")
	assert.Error(t, err)
}
