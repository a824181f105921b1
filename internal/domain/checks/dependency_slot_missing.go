package checks

import (
	"slices"
	"strings"
	"sync"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/pkg/atom"
)

type dependencySlotMissingCheck struct {
	slots sync.Map // cpn -> *packageSlots
}

// packageSlots holds the slot of every valid version of one package, loaded
// on first use.
type packageSlots struct {
	once  sync.Once
	cpvs  []atom.Cpv
	slots []string
	err   error
}

func newDependencySlotMissingCheck(Run) any {
	return &dependencySlotMissingCheck{}
}

func (c *dependencySlotMissingCheck) packageSlots(run Run, dep atom.Dep) *packageSlots {
	v, _ := c.slots.LoadOrStore(dep.Cpn(), &packageSlots{})
	ps := v.(*packageSlots)

	ps.once.Do(func() {
		cpvs, err := run.Repo().Versions(dep.Category, dep.Package)
		if err != nil {
			ps.err = err
			return
		}

		for _, cpv := range cpvs {
			pkg, err := run.Pkg(cpv)
			if err != nil {
				ps.err = err
				return
			}

			if pkg != nil {
				ps.cpvs = append(ps.cpvs, cpv)
				ps.slots = append(ps.slots, pkg.Slot)
			}
		}
	})

	return ps
}

func (c *dependencySlotMissingCheck) Run(pkg *adapter.Pkg, run Run) {
	rdepend, err := pkg.Dependencies("RDEPEND")
	if err != nil {
		return
	}

	depend, err := pkg.Dependencies("DEPEND")
	if err != nil {
		return
	}

	build := map[string]bool{}
	for _, d := range depend {
		build[d.Dep.String()] = true
	}

	seen := map[string]bool{}

	for _, parsed := range rdepend {
		dep := parsed.Dep

		if !build[dep.String()] || seen[dep.String()] {
			continue
		}

		seen[dep.String()] = true

		if dep.Blocker != atom.NoBlocker || dep.Slot != "" || dep.SlotOp {
			continue
		}

		ps := c.packageSlots(run, dep)
		if ps.err != nil {
			run.Fail(ps.err)
			return
		}

		var slots []string

		for i, cpv := range ps.cpvs {
			if dep.Matches(cpv) && !slices.Contains(slots, ps.slots[i]) {
				slots = append(slots, ps.slots[i])
			}
		}

		if len(slots) > 1 {
			run.Report(m.NewReport(m.DependencySlotMissing, m.VersionTarget(pkg.Cpv),
				"%s matches multiple slots: %s", dep, strings.Join(slots, ", ")))
		}
	}
}
