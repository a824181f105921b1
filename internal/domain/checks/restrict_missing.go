package checks

import (
	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/pkg/atom"
)

type restrictTestMissingCheck struct{}

func newRestrictTestMissingCheck(Run) any {
	return restrictTestMissingCheck{}
}

// restrictsTests reports whether RESTRICT holds test unconditionally or
// under a top-level !test? group.
func restrictsTests(restrict string) bool {
	entries, err := atom.FlattenDepSet(restrict)
	if err != nil {
		return false
	}

	for _, e := range entries {
		if e.Value != "test" {
			continue
		}

		if len(e.Conditionals) == 0 || (len(e.Conditionals) == 1 && e.Conditionals[0] == "!test?") {
			return true
		}
	}

	return false
}

func (restrictTestMissingCheck) Run(pkg *adapter.Pkg, run Run) {
	if pkg.IuseEffective()["test"] && !restrictsTests(pkg.Restrict) {
		run.Report(m.NewReport(m.RestrictMissing, m.VersionTarget(pkg.Cpv), `missing RESTRICT="!test? ( test )" with IUSE=test`))
	}
}
