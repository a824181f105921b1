package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cruft.dev/pkg/cruft/internal/adapter"
	adaptermocks "cruft.dev/pkg/cruft/internal/adapter/mocks"
	"cruft.dev/pkg/cruft/internal/domain/checks"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/internal/testkit"
	"cruft.dev/pkg/cruft/pkg/atom"
)

// ignoredRepo declares ignore directives at every scope, some of them unused.
func ignoredRepo(t *testing.T) adapter.Repo {
	return openRepo(t, testkit.NewRepo(t, "test").
		Layout("eapis-banned: [\"0\"]\n").
		File(adapter.RepoIgnoreFile, "PackageLeaf\n").
		File("dev/"+adapter.IgnoreFile, "# category\nLiveOnly\n").
		File("cat/b/"+adapter.IgnoreFile, "EapiDeprecated, EapiStatus\n").
		Ebuild("cat/a-1", "# cruft-ignore: EapiBanned\n"+testkit.Recipe("0")).
		Ebuild("cat/a-2", "# cruft-ignore: Whitespace\n"+testkit.Recipe("8")).
		Ebuild("cat/b-1", testkit.Recipe("0")).
		Ebuild("dev/c-1", testkit.Recipe("0")))
}

func TestScanner_IgnoreDirectives(t *testing.T) {
	repo := ignoredRepo(t)

	tests := []struct {
		name     string
		reports  []m.ReportKind
		restrict string
		want     []string
	}{
		{
			name:    "ignored reports are dropped",
			reports: []m.ReportKind{m.EapiBanned},
			want:    []string{"dev/c-1: EapiBanned: 0"},
		},
		{
			name:    "unused directives at every scope",
			reports: []m.ReportKind{m.EapiBanned, m.IgnoreUnused},
			want: []string{
				"cat/a-2: IgnoreUnused: Whitespace",
				"cat/b: IgnoreUnused: EapiDeprecated",
				"dev/c-1: EapiBanned: 0",
				"dev: IgnoreUnused: LiveOnly",
				"test: IgnoreUnused: PackageLeaf",
			},
		},
		{
			name:     "version restriction",
			reports:  []m.ReportKind{m.EapiBanned, m.IgnoreUnused},
			restrict: "cat/a-2",
			want:     []string{"cat/a-2: IgnoreUnused: Whitespace"},
		},
		{
			name:     "package restriction",
			reports:  []m.ReportKind{m.EapiBanned, m.IgnoreUnused},
			restrict: "cat/b",
			want:     []string{"cat/b: IgnoreUnused: EapiDeprecated"},
		},
		{
			name:     "category restriction",
			reports:  []m.ReportKind{m.EapiBanned, m.IgnoreUnused},
			restrict: "dev",
			want:     []string{"dev/c-1: EapiBanned: 0", "dev: IgnoreUnused: LiveOnly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := scanLines(t, NewScanner(repo, newPool()).Reports(only(tt.reports...)), mustRestrict(t, tt.restrict))
			assert.Equal(t, tt.want, lines)
		})
	}
}

func TestScanner_IgnoreUnusedIsOptional(t *testing.T) {
	sel, err := checks.Resolve(ignoredRepo(t), nil, checks.ReportSelection{})
	require.NoError(t, err)
	assert.False(t, sel.ReportEnabled(m.IgnoreUnused))
}

func TestScanner_IgnoredReportsDoNotFail(t *testing.T) {
	repo := ignoredRepo(t)

	reports, err := NewScanner(repo, newPool()).
		Reports(only(m.EapiBanned)).
		Exit(m.EapiBanned).
		Run(context.Background(), mustRestrict(t, "cat/a"))
	require.NoError(t, err)

	sorted, err := reports.Sorted()
	require.NoError(t, err)
	assert.Empty(t, sorted)
	assert.False(t, reports.Failed())
}

func TestScanner_IgnoreReadFailure(t *testing.T) {
	ioErr := errors.New("input/output error")
	cpv, err := atom.ParseCpv("cat/pkg-1")
	require.NoError(t, err)

	repo := adaptermocks.NewMockRepo(t)
	repo.EXPECT().Name().Return("broken").Maybe()
	repo.EXPECT().Masters().Return(nil).Maybe()
	repo.EXPECT().Config().Return(&adapter.RepoConfig{Name: "broken", EapisBanned: []string{"0"}}).Maybe()
	repo.EXPECT().Path().Return(t.TempDir()).Maybe()
	repo.EXPECT().Categories().Return([]string{"cat"}, nil)
	repo.EXPECT().Packages("cat").Return([]string{"pkg"}, nil)
	repo.EXPECT().Versions("cat", "pkg").Return([]atom.Cpv{cpv}, nil)
	repo.EXPECT().ReadRecipe(cpv).Return([]byte(testkit.Recipe("0")), nil).Once()
	repo.EXPECT().ReadRecipe(cpv).Return(nil, ioErr).Once()

	reports, err := NewScanner(repo, adaptermocks.NewMockBuildPool(t)).
		Checks(checks.EapiStatus).
		Run(context.Background(), m.AllRestrict())
	require.NoError(t, err)

	sorted, err := reports.Sorted()
	require.ErrorIs(t, err, ioErr)
	assert.Empty(t, sorted)
	assert.Contains(t, err.Error(), "input/output error")
}
