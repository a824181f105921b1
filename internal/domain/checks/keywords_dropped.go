package checks

import (
	"strings"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
)

type keywordsDroppedCheck struct {
	arches map[string]bool
}

func newKeywordsDroppedCheck(run Run) any {
	return &keywordsDroppedCheck{arches: stringSet(run.Repo().Config().Arches)}
}

func (c *keywordsDroppedCheck) Run(_ m.Coordinate, pkgs []*adapter.Pkg, run Run) {
	var keyworded []*adapter.Pkg

	for _, pkg := range pkgs {
		if len(pkg.Keywords) > 0 {
			keyworded = append(keyworded, pkg)
		}
	}

	if len(keyworded) <= 1 {
		return
	}

	seen := map[string]bool{}
	previous := map[string]bool{}
	// arch -> latest version dropping it
	changes := map[string]*adapter.Pkg{}

	for _, pkg := range keyworded {
		arches := map[string]bool{}
		disabled := map[string]bool{}

		for _, kw := range pkg.Keywords {
			arch := adapter.KeywordArch(kw)
			arches[arch] = true

			if strings.HasPrefix(kw, "-") {
				disabled[arch] = true
			}
		}

		// a globbed arch overrides every dropped keyword
		if !arches["*"] {
			for _, set := range []map[string]bool{previous, seen} {
				for arch := range set {
					if !arches[arch] && c.arches[arch] {
						changes[arch] = pkg
					}
				}
			}
		}

		// arches re-enabled after being missing on an earlier version
		if len(changes) > 0 {
			for arch := range arches {
				if !previous[arch] && !disabled[arch] {
					delete(changes, arch)
				}
			}
		}

		for arch := range arches {
			seen[arch] = true
		}

		previous = arches
	}

	dropped := map[*adapter.Pkg][]string{}
	for arch, pkg := range changes {
		dropped[pkg] = append(dropped[pkg], arch)
	}

	for pkg, arches := range dropped {
		run.Report(m.NewReport(m.KeywordsDropped, m.VersionTarget(pkg.Cpv), "%s", joinSorted(arches, ", ")))
	}
}
