package checks

import (
	"context"
	"slices"
	"sync"
	"testing"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/internal/testkit"
	"cruft.dev/pkg/cruft/pkg/atom"
	"github.com/stretchr/testify/require"
)

// recorder is a Run collecting every report it is handed.
type recorder struct {
	repo     adapter.Repo
	disabled []m.ReportKind

	mu       sync.Mutex
	reports  []m.Report
	failures []error
}

func newRecorder(repo adapter.Repo) *recorder {
	return &recorder{repo: repo}
}

func (r *recorder) Repo() adapter.Repo { return r.repo }

func (r *recorder) Enabled(kind m.ReportKind) bool {
	return !slices.Contains(r.disabled, kind)
}

func (r *recorder) Report(report m.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports = append(r.reports, report)
}

func (r *recorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures = append(r.failures, err)
}

func (r *recorder) Pkg(cpv atom.Cpv) (*adapter.Pkg, error) {
	pool := adapter.NewLocalBuildPool(adapter.NewShellRecipeParser(), 1)

	pkg, err := pool.Metadata(context.Background(), r.repo, cpv, true, false)
	if _, ok := adapter.IsInvalidPkg(err); ok {
		return nil, nil
	}

	return pkg, err
}

// lines returns the sorted string form of the collected reports.
func (r *recorder) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := slices.Clone(r.reports)
	slices.SortFunc(sorted, m.Report.Compare)

	out := make([]string, 0, len(sorted))
	for _, rep := range sorted {
		out = append(out, rep.String())
	}

	return out
}

func openRepo(t *testing.T, b *testkit.RepoBuilder) adapter.Repo {
	t.Helper()

	repo, err := adapter.OpenRepo(b.Path())
	require.NoError(t, err)

	return repo
}

func mustCpv(t *testing.T, s string) atom.Cpv {
	t.Helper()

	cpv, err := atom.ParseCpv(s)
	require.NoError(t, err)

	return cpv
}

// resolve sources every version of cat/pkg in repo.
func resolve(t *testing.T, repo adapter.Repo, cat, pkg string) []*adapter.Pkg {
	t.Helper()

	versions, err := repo.Versions(cat, pkg)
	require.NoError(t, err)

	pool := adapter.NewLocalBuildPool(adapter.NewShellRecipeParser(), 1)

	out := make([]*adapter.Pkg, 0, len(versions))
	for _, cpv := range versions {
		p, err := pool.Metadata(context.Background(), repo, cpv, true, false)
		require.NoError(t, err, cpv.String())

		out = append(out, p)
	}

	return out
}

func resolveOne(t *testing.T, repo adapter.Repo, cpv string) *adapter.Pkg {
	t.Helper()

	parsed := mustCpv(t, cpv)

	pool := adapter.NewLocalBuildPool(adapter.NewShellRecipeParser(), 1)

	p, err := pool.Metadata(context.Background(), repo, parsed, true, false)
	require.NoError(t, err)

	return p
}

func rawRecipe(t *testing.T, cpv, data string) *RawRecipe {
	t.Helper()

	return &RawRecipe{Cpv: mustCpv(t, cpv), Data: []byte(data)}
}

func newInstance(kind CheckKind, run Run) any {
	return Get(kind).create(run)
}
