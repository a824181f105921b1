package checks

import (
	m "cruft.dev/pkg/cruft/internal/model"
)

type categoriesCheck struct {
	declared map[string]bool
}

func newCategoriesCheck(run Run) any {
	return &categoriesCheck{declared: stringSet(run.Repo().Config().Categories)}
}

func (c *categoriesCheck) Run(target m.Coordinate, run Run) {
	if !c.declared[target.Category] {
		run.Report(m.NewReport(m.CategoryUnknown, target, "%s", target.Category))
	}
}
