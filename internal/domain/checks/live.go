package checks

import (
	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
)

type liveCheck struct{}

func newLiveCheck(Run) any {
	return liveCheck{}
}

func (liveCheck) Run(target m.Coordinate, pkgs []*adapter.Pkg, run Run) {
	if len(pkgs) == 0 {
		return
	}

	for _, pkg := range pkgs {
		if !pkg.Live() {
			return
		}
	}

	run.Report(m.NewReport(m.LiveOnly, target, ""))
}
