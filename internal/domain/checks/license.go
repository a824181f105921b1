package checks

import (
	"strings"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/pkg/atom"
)

// unlicensedCategories hold packages that install nothing and so carry no LICENSE.
var unlicensedCategories = map[string]bool{
	"acct-group": true,
	"acct-user":  true,
	"virtual":    true,
}

type licenseCheck struct {
	known      map[string]bool
	deprecated map[string]bool
	unused     *unusedSet
}

func newLicenseCheck(run Run) any {
	cfg := run.Repo().Config()

	var licenses []string
	if run.Enabled(m.LicensesUnused) {
		licenses = ownValues(run.Repo(), cfg.Licenses, func(c *adapter.RepoConfig) []string { return c.Licenses })
	}

	return &licenseCheck{
		known:      stringSet(cfg.Licenses),
		deprecated: stringSet(cfg.LicenseGroups["DEPRECATED"]),
		unused:     newUnusedSet(licenses),
	}
}

func (c *licenseCheck) Run(pkg *adapter.Pkg, run Run) {
	target := m.VersionTarget(pkg.Cpv)

	licenses, err := atom.Leaves(pkg.License)
	if err != nil {
		return
	}

	for _, l := range licenses {
		c.unused.Remove(l)
	}

	unlicensed := unlicensedCategories[pkg.Cpv.Category]

	switch {
	case len(licenses) == 0:
		if !unlicensed {
			run.Report(m.NewReport(m.LicenseMissing, target, ""))
		}

		return
	case unlicensed:
		run.Report(m.NewReport(m.LicenseUnneeded, target, ""))
		return
	}

	var deprecated, invalid []string

	for _, l := range licenses {
		if c.deprecated[l] {
			deprecated = append(deprecated, l)
		}

		if !c.known[l] {
			invalid = append(invalid, l)
		}
	}

	if len(deprecated) > 0 {
		run.Report(m.NewReport(m.LicenseDeprecated, target, "%s", joinSorted(deprecated, ", ")))
	}

	if len(invalid) > 0 {
		run.Report(m.NewReport(m.LicenseInvalid, target, "%s", joinSorted(invalid, ", ")))
	}
}

func (c *licenseCheck) FinishCheck(run Run) {
	if !run.Enabled(m.LicensesUnused) {
		return
	}

	if unused := c.unused.Sorted(); len(unused) > 0 {
		run.Report(m.NewReport(m.LicensesUnused, m.RepoTarget(run.Repo().Name()), "%s", strings.Join(unused, ", ")))
	}
}
