package checks

import (
	m "cruft.dev/pkg/cruft/internal/model"
)

type duplicatesCheck struct{}

func newDuplicatesCheck(Run) any {
	return duplicatesCheck{}
}

func (duplicatesCheck) Run(target m.Coordinate, run Run) {
	for _, master := range run.Repo().Masters() {
		has, err := master.HasPackage(target.Category, target.Package)
		if err != nil {
			run.Fail(err)
			return
		}

		if has {
			run.Report(m.NewReport(m.PackageOverride, target, "repo: %s", master.Name()))
		}
	}
}
