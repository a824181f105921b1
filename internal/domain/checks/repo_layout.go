package checks

import (
	"strings"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
)

type repoLayoutCheck struct{}

func newRepoLayoutCheck(Run) any {
	return repoLayoutCheck{}
}

func (repoLayoutCheck) Run(repo adapter.Repo, run Run) {
	cats, err := repo.Categories()
	if err != nil {
		run.Fail(err)
		return
	}

	for _, cat := range cats {
		pkgs, err := repo.Packages(cat)
		if err != nil {
			run.Fail(err)
			return
		}

		populated := 0

		for _, pkg := range pkgs {
			versions, err := repo.Versions(cat, pkg)
			if err != nil {
				run.Fail(err)
				return
			}

			if len(versions) == 0 {
				run.Report(m.NewReport(m.RepoPackageEmpty, m.PackageTarget(cat, pkg), ""))
				continue
			}

			populated++
		}

		if populated == 0 {
			run.Report(m.NewReport(m.RepoCategoryEmpty, m.CategoryTarget(cat), ""))
		}
	}

	present := stringSet(cats)
	declared := ownValues(repo, repo.Config().Categories, func(c *adapter.RepoConfig) []string { return c.Categories })

	var unused []string

	for _, cat := range declared {
		if !present[cat] {
			unused = append(unused, cat)
		}
	}

	if len(unused) > 0 {
		run.Report(m.NewReport(m.RepoCategoriesUnused, m.RepoTarget(repo.Name()), "%s", strings.Join(unused, ", ")))
	}
}
