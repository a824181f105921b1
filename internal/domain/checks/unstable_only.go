package checks

import (
	"strings"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
)

// unstableOnlyCheck flags arches for which a package has never been
// stabilized in any version.
type unstableOnlyCheck struct {
	arches map[string]bool
}

func newUnstableOnlyCheck(run Run) any {
	return &unstableOnlyCheck{arches: stringSet(run.Repo().Config().Arches)}
}

func (c *unstableOnlyCheck) Run(target m.Coordinate, pkgs []*adapter.Pkg, run Run) {
	stable := map[string]bool{}
	unstable := map[string]bool{}

	for _, pkg := range pkgs {
		for _, kw := range pkg.Keywords {
			arch := adapter.KeywordArch(kw)
			if !c.arches[arch] {
				continue
			}

			switch {
			case adapter.KeywordStable(kw):
				stable[arch] = true
			case strings.HasPrefix(kw, "~"):
				unstable[arch] = true
			}
		}
	}

	var arches []string

	for arch := range unstable {
		if !stable[arch] {
			arches = append(arches, arch)
		}
	}

	if len(arches) > 0 {
		run.Report(m.NewReport(m.UnstableOnly, target, "%s", joinSorted(arches, ", ")))
	}
}
