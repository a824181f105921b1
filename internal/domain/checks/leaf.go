package checks

import (
	"slices"
	"strings"
	"sync"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/pkg/atom"
)

// leafCheck finds packages no other package in the repository depends on.
type leafCheck struct {
	pkgs      sync.Map
	dependeds sync.Map
}

func newLeafCheck(Run) any {
	return &leafCheck{}
}

func (c *leafCheck) Run(pkg *adapter.Pkg, _ Run) {
	cpn := pkg.Cpv.Cpn()
	c.pkgs.Store(cpn, struct{}{})

	for _, key := range adapter.DepKeys {
		deps, err := pkg.Dependencies(key)
		if err != nil {
			continue
		}

		for _, d := range deps {
			if d.Dep.Blocker == atom.NoBlocker && d.Dep.Cpn() != cpn {
				c.dependeds.Store(d.Dep.Cpn(), struct{}{})
			}
		}
	}
}

func (c *leafCheck) FinishCheck(run Run) {
	var leaves []string

	c.pkgs.Range(func(key, _ any) bool {
		if _, ok := c.dependeds.Load(key); !ok {
			leaves = append(leaves, key.(string))
		}

		return true
	})

	slices.Sort(leaves)

	for _, cpn := range leaves {
		cat, pkg, _ := strings.Cut(cpn, "/")
		run.Report(m.NewReport(m.PackageLeaf, m.PackageTarget(cat, pkg), ""))
	}
}
