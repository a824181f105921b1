package checks

import (
	"strings"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
)

type eclassCheck struct {
	unused *unusedSet
}

func newEclassCheck(run Run) any {
	var eclasses []string
	if run.Enabled(m.EclassUnused) {
		eclasses = run.Repo().Config().Eclasses
	}

	return &eclassCheck{unused: newUnusedSet(eclasses)}
}

func (c *eclassCheck) Run(pkg *adapter.Pkg, _ Run) {
	for _, name := range pkg.Inherited {
		c.unused.Remove(name)
	}
}

func (c *eclassCheck) FinishCheck(run Run) {
	if !run.Enabled(m.EclassUnused) {
		return
	}

	if unused := c.unused.Sorted(); len(unused) > 0 {
		run.Report(m.NewReport(m.EclassUnused, m.RepoTarget(run.Repo().Name()), "%s", strings.Join(unused, ", ")))
	}
}
