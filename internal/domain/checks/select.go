package checks

import (
	"fmt"
	"slices"
	"strings"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
)

// GentooRepo is the name of the repository gentoo-context checks target.
const GentooRepo = "gentoo"

// ReportSelection is a tri-state selection of report kinds. Set replaces the
// default kinds when non-empty; Add and Remove adjust the result.
type ReportSelection struct {
	Set    []m.ReportKind
	Add    []m.ReportKind
	Remove []m.ReportKind
}

// IsZero reports whether nothing was selected.
func (s ReportSelection) IsZero() bool {
	return len(s.Set) == 0 && len(s.Add) == 0 && len(s.Remove) == 0
}

func (s ReportSelection) explicit() []m.ReportKind {
	return append(slices.Clone(s.Set), s.Add...)
}

// ParseReportSelection parses report selection values. A leading + adds and
// a leading - removes; bare values replace the defaults. Each value is a
// report name, a check name standing for its reports, @level for every
// report of that level, or all.
func ParseReportSelection(values []string) (ReportSelection, error) {
	var sel ReportSelection

	for _, raw := range values {
		for _, value := range strings.Split(raw, ",") {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}

			dest := &sel.Set

			switch value[0] {
			case '+':
				dest, value = &sel.Add, value[1:]
			case '-':
				dest, value = &sel.Remove, value[1:]
			}

			kinds, err := expandReportAlias(value)
			if err != nil {
				return ReportSelection{}, err
			}

			*dest = append(*dest, kinds...)
		}
	}

	return sel, nil
}

func expandReportAlias(value string) ([]m.ReportKind, error) {
	if strings.EqualFold(value, "all") {
		return m.AllReportKinds(), nil
	}

	if level, ok := strings.CutPrefix(value, "@"); ok {
		lvl, err := m.ParseReportLevel(level)
		if err != nil {
			return nil, err
		}

		var kinds []m.ReportKind

		for _, k := range m.AllReportKinds() {
			if k.Level() == lvl {
				kinds = append(kinds, k)
			}
		}

		return kinds, nil
	}

	if kind, err := m.ParseReportKind(value); err == nil {
		return []m.ReportKind{kind}, nil
	}

	if check, err := ParseCheckKind(value); err == nil {
		return slices.Clone(Get(check).Reports), nil
	}

	return nil, m.InvalidValueError{Kind: "report", Value: value}
}

// ParseCheckKinds parses check names, accepting comma separated lists.
func ParseCheckKinds(values []string) ([]CheckKind, error) {
	var kinds []CheckKind

	for _, raw := range values {
		for _, value := range strings.Split(raw, ",") {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}

			kind, err := ParseCheckKind(value)
			if err != nil {
				return nil, err
			}

			if !slices.Contains(kinds, kind) {
				kinds = append(kinds, kind)
			}
		}
	}

	return kinds, nil
}

// Selection is the resolved set of checks and reports for one scan.
type Selection struct {
	Checks  []Check
	Reports []m.ReportKind
}

// ReportEnabled reports whether kind is in the selection.
func (s Selection) ReportEnabled(kind m.ReportKind) bool {
	return slices.Contains(s.Reports, kind)
}

// Resolve determines the active checks and enabled reports for a scan of repo.
// A check is active when it is selected, either explicitly or by default,
// its context requirements hold and at least one of its reports is enabled.
func Resolve(repo adapter.Repo, selected []CheckKind, reports ReportSelection) (Selection, error) {
	var candidates []Check

	if len(selected) > 0 {
		for _, kind := range selected {
			if kind < 0 || kind >= checkKindCount {
				return Selection{}, m.InvalidValueError{Kind: "check", Value: kind.String()}
			}

			c := Get(kind)
			if c.Has(ContextOverlay) && len(repo.Masters()) == 0 {
				return Selection{}, fmt.Errorf("%s: requires overlay context", c.Name())
			}

			if !contextMet(c, repo) {
				continue
			}

			candidates = append(candidates, c)
		}
	} else {
		requested := reports.explicit()

		for _, c := range All() {
			explicit := slices.ContainsFunc(c.Reports, func(k m.ReportKind) bool {
				return slices.Contains(requested, k)
			})

			if defaultEnabled(c, repo) || (explicit && contextMet(c, repo)) {
				candidates = append(candidates, c)
			}
		}
	}

	enabled := reports.Set
	if len(enabled) == 0 {
		for _, c := range candidates {
			enabled = append(enabled, c.Reports...)
		}
	}

	enabled = append(slices.Clone(enabled), reports.Add...)
	enabled = slices.DeleteFunc(enabled, func(k m.ReportKind) bool {
		return slices.Contains(reports.Remove, k)
	})

	slices.Sort(enabled)
	enabled = slices.Compact(enabled)

	var active []Check

	for _, c := range candidates {
		if slices.ContainsFunc(c.Reports, func(k m.ReportKind) bool { return slices.Contains(enabled, k) }) {
			active = append(active, c)
		}
	}

	slices.SortFunc(active, Check.Compare)
	active = slices.CompactFunc(active, func(a, b Check) bool { return a.Kind == b.Kind })

	return Selection{Checks: active, Reports: enabled}, nil
}

// contextMet reports whether repo satisfies the non-optional requirements of
// a check. Gentoo checks never run outside the gentoo repository, even when
// requested by name.
func contextMet(c Check, repo adapter.Repo) bool {
	if c.Has(ContextOverlay) && len(repo.Masters()) == 0 {
		return false
	}

	return !c.Has(ContextGentoo) || repo.Name() == GentooRepo
}

func defaultEnabled(c Check, repo adapter.Repo) bool {
	return !c.Has(ContextOptional) && contextMet(c, repo)
}
