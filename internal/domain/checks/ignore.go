package checks

import (
	m "cruft.dev/pkg/cruft/internal/model"
)

// ignoreCheck only makes IgnoreUnused selectable. Whether a directive was
// used is known once every unit has completed, so the scanner emits those
// reports itself.
type ignoreCheck struct{}

func newIgnoreCheck(Run) any {
	return ignoreCheck{}
}

// ParseReportSet expands one ignore or selection value: a report name, a
// check name standing for its reports, @level or all.
func ParseReportSet(value string) ([]m.ReportKind, error) {
	return expandReportAlias(value)
}
