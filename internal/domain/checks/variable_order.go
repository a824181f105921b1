package checks

import (
	m "cruft.dev/pkg/cruft/internal/model"
)

// variableOrder is the conventional order of global metadata assignments.
// Dependency variables share a slot and may appear in any order.
var variableOrder = map[string]int{
	"DESCRIPTION":  0,
	"HOMEPAGE":     1,
	"SRC_URI":      2,
	"S":            3,
	"LICENSE":      4,
	"SLOT":         5,
	"KEYWORDS":     6,
	"IUSE":         7,
	"REQUIRED_USE": 8,
	"RESTRICT":     9,
	"PROPERTIES":   10,
	"BDEPEND":      11,
	"DEPEND":       11,
	"IDEPEND":      11,
	"PDEPEND":      11,
	"RDEPEND":      11,
}

type variableOrderCheck struct{}

func newVariableOrderCheck(Run) any {
	return variableOrderCheck{}
}

func (variableOrderCheck) Run(recipe *ParsedRecipe, run Run) {
	var (
		prev     string
		prevSlot = -1
	)

	reported := map[string]bool{}

	for _, node := range recipe.Tree.Assignments() {
		slot, ok := variableOrder[node.Name]
		if !ok {
			continue
		}

		if slot >= prevSlot {
			prev, prevSlot = node.Name, slot
			continue
		}

		if !reported[node.Name] {
			reported[node.Name] = true
			run.Report(m.NewReport(m.VariableOrder, recipe.Target(), "%s should occur before %s", node.Name, prev))
		}
	}
}
