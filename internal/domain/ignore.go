package domain

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"cruft.dev/pkg/cruft/internal/adapter"
	"cruft.dev/pkg/cruft/internal/domain/checks"
	m "cruft.dev/pkg/cruft/internal/model"
)

// ignoreDirective is one value of an ignore file or recipe comment.
type ignoreDirective struct {
	value string
	kinds []m.ReportKind
	used  atomic.Bool
}

// ignoreScope holds the directives declared for one coordinate.
type ignoreScope struct {
	once       sync.Once
	directives []*ignoreDirective
	err        error
}

// ignoreIndex lazily loads ignore directives per coordinate and remembers
// which of them suppressed a report.
type ignoreIndex struct {
	repo   adapter.Repo
	scopes sync.Map // m.Coordinate -> *ignoreScope
}

func newIgnoreIndex(repo adapter.Repo) *ignoreIndex {
	return &ignoreIndex{repo: repo}
}

// load returns the directives declared at target.
func (ix *ignoreIndex) load(target m.Coordinate) ([]*ignoreDirective, error) {
	v, _ := ix.scopes.LoadOrStore(target, &ignoreScope{})
	scope := v.(*ignoreScope)

	scope.once.Do(func() {
		values, err := ix.read(target)
		if err != nil {
			scope.err = err
			return
		}

		for _, value := range values {
			kinds, err := checks.ParseReportSet(value)
			if err != nil {
				slog.Warn("Invalid ignore directive", "target", target.String(), "value", value)
				continue
			}

			scope.directives = append(scope.directives, &ignoreDirective{value: value, kinds: kinds})
		}
	})

	return scope.directives, scope.err
}

func (ix *ignoreIndex) read(target m.Coordinate) ([]string, error) {
	switch target.Scope() {
	case m.ScopeRepo:
		return adapter.IgnoreDirectives(ix.repo, "", "")
	case m.ScopeCategory:
		return adapter.IgnoreDirectives(ix.repo, target.Category, "")
	case m.ScopePackage:
		return adapter.IgnoreDirectives(ix.repo, target.Category, target.Package)
	}

	cpv, ok := target.Cpv()
	if !ok {
		return nil, nil
	}

	data, err := ix.repo.ReadRecipe(cpv)
	if err != nil {
		return nil, err
	}

	return adapter.RecipeIgnoreDirectives(data), nil
}

// enclosing returns target followed by every coordinate containing it.
func (ix *ignoreIndex) enclosing(target m.Coordinate) []m.Coordinate {
	var out []m.Coordinate

	switch target.Scope() {
	case m.ScopeVersion:
		out = append(out, target, m.PackageTarget(target.Category, target.Package), m.CategoryTarget(target.Category))
	case m.ScopePackage:
		out = append(out, target, m.CategoryTarget(target.Category))
	case m.ScopeCategory:
		out = append(out, target)
	}

	return append(out, m.RepoTarget(ix.repo.Name()))
}

// suppressed reports whether a directive at the report's target, or any
// scope enclosing it, covers the report's kind. The narrowest matching
// directive is marked used.
func (ix *ignoreIndex) suppressed(report m.Report) (bool, error) {
	for _, target := range ix.enclosing(report.Target) {
		directives, err := ix.load(target)
		if err != nil {
			return false, err
		}

		for _, d := range directives {
			if slices.Contains(d.kinds, report.Kind) {
				d.used.Store(true)
				return true, nil
			}
		}
	}

	return false, nil
}

// unused builds one IgnoreUnused report per loaded coordinate inside
// restrict that has directives which never suppressed anything.
func (ix *ignoreIndex) unused(restrict m.Restrict) []m.Report {
	var reports []m.Report

	ix.scopes.Range(func(key, value any) bool {
		target := key.(m.Coordinate)
		scope := value.(*ignoreScope)

		if scope.err != nil || !restrict.Matches(target) {
			return true
		}

		var values []string

		for _, d := range scope.directives {
			if !d.used.Load() {
				values = append(values, d.value)
			}
		}

		if len(values) > 0 {
			reports = append(reports, m.NewReport(m.IgnoreUnused, target, "%s", strings.Join(values, ", ")))
		}

		return true
	})

	slices.SortFunc(reports, m.Report.Compare)

	return reports
}
