package checks

import (
	"slices"
	"testing"

	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("kinds are declared in lexical order", func(t *testing.T) {
		var names []string
		for _, c := range All() {
			names = append(names, c.Name())
		}

		assert.True(t, slices.IsSorted(names), names)
		assert.Len(t, names, int(checkKindCount))
	})

	t.Run("descriptors are complete", func(t *testing.T) {
		for _, c := range All() {
			assert.NotEmpty(t, c.Reports, c.Name())
			assert.NotNil(t, c.create, c.Name())
			assert.Equal(t, c.Kind, Get(c.Kind).Kind)
		}
	})

	t.Run("every report kind has a producer", func(t *testing.T) {
		for _, kind := range m.AllReportKinds() {
			assert.NotEmpty(t, ForReport(kind), kind.String())
		}
	})

	t.Run("parse ignores case", func(t *testing.T) {
		kind, err := ParseCheckKind("keywordsdropped")
		require.NoError(t, err)
		assert.Equal(t, KeywordsDropped, kind)

		_, err = ParseCheckKind("Nope")
		require.ErrorAs(t, err, &m.InvalidValueError{})
	})

	t.Run("out of range kind", func(t *testing.T) {
		assert.Equal(t, "CheckKind(99)", CheckKind(99).String())
	})

	t.Run("compare orders by scope then priority", func(t *testing.T) {
		checks := All()
		slices.SortFunc(checks, Check.Compare)

		assert.Equal(t, Metadata, checks[0].Kind)
		assert.Equal(t, EapiStatus, checks[1].Kind)
		assert.Equal(t, RepoLayout, checks[len(checks)-1].Kind)
	})
}

func TestNewDispatch(t *testing.T) {
	repo := openRepo(t, testkit.NewRepo(t, "test"))
	run := newRecorder(repo)

	d := NewDispatch(All(), run)

	assert.Len(t, d.Raw, 3)
	assert.Len(t, d.Tree, 1)
	assert.Len(t, d.Version, 8)
	assert.Len(t, d.PackageSet, 3)
	assert.Len(t, d.Package, 1)
	assert.Len(t, d.Category, 1)
	assert.Len(t, d.Repo, 1)
	assert.Len(t, d.Finishers, 5)

	for _, scope := range []m.Scope{m.ScopeVersion, m.ScopePackage, m.ScopeCategory, m.ScopeRepo} {
		assert.True(t, d.NeedsScope(scope), scope.String())
	}

	only := NewDispatch([]Check{Get(Whitespace)}, run)
	assert.True(t, only.NeedsScope(m.ScopeVersion))
	assert.False(t, only.NeedsScope(m.ScopePackage))
	assert.False(t, only.NeedsScope(m.ScopeRepo))
}
