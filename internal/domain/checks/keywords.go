package checks

import (
	"cmp"
	"slices"
	"strings"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
)

// compareKeywords orders keywords the way KEYWORDS is expected to be
// written: the -* wildcard first, then plain arches, then prefix arches.
func compareKeywords(a, b string) int {
	rank := func(kw string) int {
		arch := adapter.KeywordArch(kw)

		switch {
		case arch == "*":
			return 0
		case strings.Contains(arch, "-"):
			return 2
		}

		return 1
	}

	return cmp.Or(
		cmp.Compare(rank(a), rank(b)),
		strings.Compare(adapter.KeywordArch(a), adapter.KeywordArch(b)),
		strings.Compare(a, b),
	)
}

type keywordsCheck struct {
	testing map[string]bool
	unused  *unusedSet
}

func newKeywordsCheck(run Run) any {
	cfg := run.Repo().Config()

	var arches []string
	if run.Enabled(m.ArchesUnused) {
		arches = ownValues(run.Repo(), cfg.Arches, func(c *adapter.RepoConfig) []string { return c.Arches })
	}

	return &keywordsCheck{testing: stringSet(cfg.EapisTesting), unused: newUnusedSet(arches)}
}

func (c *keywordsCheck) Run(pkg *adapter.Pkg, run Run) {
	target := m.VersionTarget(pkg.Cpv)

	if len(pkg.Keywords) > 0 && pkg.Live() {
		run.Report(m.NewReport(m.KeywordsLive, target, "%s", strings.Join(pkg.Keywords, ", ")))
	}

	var arches []string

	byArch := map[string][]string{}

	for _, kw := range pkg.Keywords {
		arch := adapter.KeywordArch(kw)
		c.unused.Remove(arch)

		if _, ok := byArch[arch]; !ok {
			arches = append(arches, arch)
		}

		if !slices.Contains(byArch[arch], kw) {
			byArch[arch] = append(byArch[arch], kw)
		}
	}

	for _, arch := range arches {
		if kws := byArch[arch]; len(kws) > 1 {
			run.Report(m.NewReport(m.KeywordsOverlapping, target, "%s", joinSorted(kws, ", ")))
		}
	}

	if c.testing[pkg.EAPI] {
		var stable []string

		for _, kw := range pkg.Keywords {
			if adapter.KeywordStable(kw) {
				stable = append(stable, kw)
			}
		}

		if len(stable) > 0 {
			run.Report(m.NewReport(m.EapiUnstable, target, "unstable EAPI %s with stable keywords: %s", pkg.EAPI, joinSorted(stable, " ")))
		}
	}

	// overlapping keywords are ignored when checking order
	firsts := make([]string, 0, len(arches))
	for _, arch := range arches {
		firsts = append(firsts, byArch[arch][0])
	}

	sorted := slices.Clone(firsts)
	slices.SortStableFunc(sorted, compareKeywords)

	for i := range firsts {
		if firsts[i] != sorted[i] {
			run.Report(m.NewReport(m.KeywordsUnsorted, target, "unsorted KEYWORD: %s (sorted: %s)", firsts[i], sorted[i]))
			break
		}
	}
}

func (c *keywordsCheck) FinishCheck(run Run) {
	if !run.Enabled(m.ArchesUnused) {
		return
	}

	if unused := c.unused.Sorted(); len(unused) > 0 {
		run.Report(m.NewReport(m.ArchesUnused, m.RepoTarget(run.Repo().Name()), "%s", strings.Join(unused, ", ")))
	}
}
