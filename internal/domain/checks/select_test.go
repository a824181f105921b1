package checks

import (
	"testing"

	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindsOf(checks []Check) []CheckKind {
	out := make([]CheckKind, 0, len(checks))
	for _, c := range checks {
		out = append(out, c.Kind)
	}

	return out
}

func TestParseReportSelection(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   ReportSelection
	}{
		{
			name:   "set add and remove",
			values: []string{"EapiBanned,+PackageLeaf", "-@style"},
			want: ReportSelection{
				Set:    []m.ReportKind{m.EapiBanned},
				Add:    []m.ReportKind{m.PackageLeaf},
				Remove: []m.ReportKind{m.KeywordsUnsorted, m.VariableOrder, m.WhitespaceUnneeded},
			},
		},
		{
			name:   "check name expands to its reports",
			values: []string{"Whitespace"},
			want:   ReportSelection{Set: []m.ReportKind{m.WhitespaceInvalid, m.WhitespaceUnneeded}},
		},
		{
			name:   "blank entries are skipped",
			values: []string{" , +LiveOnly ,"},
			want:   ReportSelection{Add: []m.ReportKind{m.LiveOnly}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReportSelection(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("all", func(t *testing.T) {
		got, err := ParseReportSelection([]string{"all"})
		require.NoError(t, err)
		assert.Equal(t, m.AllReportKinds(), got.Set)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseReportSelection([]string{"+Bogus"})

		var invalid m.InvalidValueError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "report", invalid.Kind)

		_, err = ParseReportSelection([]string{"@loud"})
		require.Error(t, err)
	})

	t.Run("zero", func(t *testing.T) {
		got, err := ParseReportSelection(nil)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})
}

func TestParseCheckKinds(t *testing.T) {
	got, err := ParseCheckKinds([]string{"Header,whitespace", "Header"})
	require.NoError(t, err)
	assert.Equal(t, []CheckKind{Header, Whitespace}, got)

	_, err = ParseCheckKinds([]string{"Missing"})
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	parent := t.TempDir()
	plain := openRepo(t, testkit.NewRepoIn(t, parent, "test"))
	gentoo := openRepo(t, testkit.NewRepoIn(t, parent, "gentoo"))
	overlay := openRepo(t, testkit.NewRepoIn(t, parent, "overlay").Layout("masters: [gentoo]\n"))

	t.Run("defaults skip optional and gentoo checks", func(t *testing.T) {
		sel, err := Resolve(plain, nil, ReportSelection{})
		require.NoError(t, err)

		assert.ElementsMatch(t, []CheckKind{
			Categories, Dependency, DependencySlotMissing, EapiStatus, Eclass, Keywords, KeywordsDropped,
			License, Metadata, RepoLayout, RestrictTestMissing, VariableOrder, Whitespace,
		}, kindsOf(sel.Checks))
		assert.False(t, sel.ReportEnabled(m.PackageLeaf))
		assert.False(t, sel.ReportEnabled(m.HeaderInvalid))
		assert.True(t, sel.ReportEnabled(m.MetadataError))
		assert.Equal(t, Metadata, sel.Checks[0].Kind)
		assert.Equal(t, RepoLayout, sel.Checks[len(sel.Checks)-1].Kind)
	})

	t.Run("gentoo context", func(t *testing.T) {
		sel, err := Resolve(gentoo, nil, ReportSelection{})
		require.NoError(t, err)

		kinds := kindsOf(sel.Checks)
		assert.Contains(t, kinds, Header)
		assert.Contains(t, kinds, Live)
		assert.Contains(t, kinds, UnstableOnly)
		assert.NotContains(t, kinds, Leaf)
		assert.NotContains(t, kinds, Duplicates)
		assert.NotContains(t, kinds, Ignore)
	})

	t.Run("overlay check without masters", func(t *testing.T) {
		_, err := Resolve(plain, []CheckKind{Duplicates}, ReportSelection{})
		require.EqualError(t, err, "Duplicates: requires overlay context")
	})

	t.Run("overlay check with masters", func(t *testing.T) {
		sel, err := Resolve(overlay, []CheckKind{Duplicates}, ReportSelection{})
		require.NoError(t, err)
		assert.Equal(t, []CheckKind{Duplicates}, kindsOf(sel.Checks))
		assert.Equal(t, []m.ReportKind{m.PackageOverride}, sel.Reports)
	})

	t.Run("report set narrows checks", func(t *testing.T) {
		sel, err := Resolve(plain, nil, ReportSelection{Set: []m.ReportKind{m.EapiBanned}})
		require.NoError(t, err)
		assert.Equal(t, []CheckKind{EapiStatus}, kindsOf(sel.Checks))
		assert.Equal(t, []m.ReportKind{m.EapiBanned}, sel.Reports)
	})

	t.Run("added report enables optional check", func(t *testing.T) {
		sel, err := Resolve(plain, nil, ReportSelection{Add: []m.ReportKind{m.PackageLeaf}})
		require.NoError(t, err)
		assert.Contains(t, kindsOf(sel.Checks), Leaf)
		assert.True(t, sel.ReportEnabled(m.PackageLeaf))
	})

	t.Run("added report enables ignore check", func(t *testing.T) {
		sel, err := Resolve(plain, nil, ReportSelection{Add: []m.ReportKind{m.IgnoreUnused}})
		require.NoError(t, err)
		assert.Contains(t, kindsOf(sel.Checks), Ignore)
		assert.True(t, sel.ReportEnabled(m.IgnoreUnused))
	})

	t.Run("added report keeps context requirements", func(t *testing.T) {
		sel, err := Resolve(plain, nil, ReportSelection{Add: []m.ReportKind{m.PackageOverride}})
		require.NoError(t, err)
		assert.NotContains(t, kindsOf(sel.Checks), Duplicates)
	})

	t.Run("removed reports drop checks", func(t *testing.T) {
		sel, err := Resolve(plain, nil, ReportSelection{Remove: []m.ReportKind{m.MetadataError}})
		require.NoError(t, err)
		assert.NotContains(t, kindsOf(sel.Checks), Metadata)
		assert.False(t, sel.ReportEnabled(m.MetadataError))
	})

	t.Run("explicit checks with report subset", func(t *testing.T) {
		sel, err := Resolve(plain, []CheckKind{Whitespace, Header}, ReportSelection{Remove: []m.ReportKind{m.HeaderInvalid}})
		require.NoError(t, err)
		assert.Equal(t, []CheckKind{Whitespace}, kindsOf(sel.Checks))
		assert.Equal(t, []m.ReportKind{m.WhitespaceInvalid, m.WhitespaceUnneeded}, sel.Reports)
	})

	t.Run("explicit gentoo checks outside gentoo", func(t *testing.T) {
		sel, err := Resolve(plain, []CheckKind{Header, Live, UnstableOnly}, ReportSelection{})
		require.NoError(t, err)
		assert.Empty(t, sel.Checks)
		assert.Empty(t, sel.Reports)
	})

	t.Run("explicit gentoo checks in gentoo", func(t *testing.T) {
		sel, err := Resolve(gentoo, []CheckKind{Header, Live}, ReportSelection{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []CheckKind{Header, Live}, kindsOf(sel.Checks))
	})
}
