package checks

import (
	"strings"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/pkg/atom"
)

type dependencyCheck struct {
	deprecated []atom.Dep
	unused     *unusedSet
}

func newDependencyCheck(run Run) any {
	deprecated := run.Repo().Config().DeprecatedPackages

	var names []string
	if run.Enabled(m.PackageDeprecatedUnused) {
		for _, dep := range deprecated {
			names = append(names, dep.String())
		}
	}

	return &dependencyCheck{deprecated: deprecated, unused: newUnusedSet(names)}
}

// deprecatedEntry returns the package.deprecated entry covering dep.
func (c *dependencyCheck) deprecatedEntry(dep atom.Dep) (atom.Dep, bool) {
	for _, entry := range c.deprecated {
		if entry.Cpn() == dep.Cpn() {
			return entry, true
		}
	}

	return atom.Dep{}, false
}

func (c *dependencyCheck) Run(pkg *adapter.Pkg, run Run) {
	target := m.VersionTarget(pkg.Cpv)
	iuse := pkg.IuseEffective()

	report := func(kind m.ReportKind, key, format string, args ...any) {
		run.Report(m.NewReport(kind, target, key+": "+format, args...))
	}

	for _, key := range adapter.DepKeys {
		deps, err := pkg.Dependencies(key)
		if err != nil {
			continue
		}

		seen := map[string]bool{}

		for _, parsed := range deps {
			dep := parsed.Dep

			if parsed.AnyOf && dep.SlotOp && !seen["anyof:"+dep.String()] {
				seen["anyof:"+dep.String()] = true
				report(m.DependencyInvalid, key, "= slot operator in any-of: %s", dep)
			}

			if seen[dep.String()] {
				continue
			}

			seen[dep.String()] = true

			for _, flag := range dep.ConditionalFlags() {
				if !iuse[flag] {
					report(m.DependencyInvalid, key, "missing IUSE=%s: %s", flag, dep)
				}
			}

			if entry, ok := c.deprecatedEntry(dep); ok {
				report(m.DependencyDeprecated, key, "%s", dep.WithoutUseDeps())
				c.unused.Remove(entry.String())
			}

			if dep.SlotOp {
				if dep.Blocker != atom.NoBlocker {
					report(m.DependencyInvalid, key, "= slot operator with blocker: %s", dep)
				}

				if dep.Subslot != "" {
					report(m.DependencyInvalid, key, "= slot operator with subslot: %s", dep)
				}

				if key == "PDEPEND" {
					report(m.DependencyInvalid, key, "= slot operator invalid: %s", dep)
				}
			}

			if dep.Blocker != atom.NoBlocker && dep.Matches(pkg.Cpv) {
				report(m.DependencyInvalid, key, "blocker matches package: %s", dep)
			}

			if dep.Op == atom.OpEqual && dep.Version != nil && !dep.Version.HasRevision() {
				report(m.DependencyRevisionMissing, key, "%s", dep)
			}
		}
	}
}

func (c *dependencyCheck) FinishCheck(run Run) {
	if !run.Enabled(m.PackageDeprecatedUnused) {
		return
	}

	if unused := c.unused.Sorted(); len(unused) > 0 {
		run.Report(m.NewReport(m.PackageDeprecatedUnused, m.RepoTarget(run.Repo().Name()), "%s", strings.Join(unused, ", ")))
	}
}
