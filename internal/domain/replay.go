package domain

import (
	"errors"
	"io"
	"slices"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
)

// ReplayFilter selects which serialized reports are replayed.
type ReplayFilter struct {
	// Kinds lists the kept report kinds; nil keeps every kind.
	Kinds []m.ReportKind
	// Restrict limits reports to targets inside it; nil keeps every target.
	Restrict *m.Restrict
}

// Keep reports whether r passes the filter.
func (f ReplayFilter) Keep(r m.Report) bool {
	if f.Kinds != nil && !slices.Contains(f.Kinds, r.Kind) {
		return false
	}

	return f.Restrict == nil || f.Restrict.Matches(r.Target)
}

// Replay streams the reports of reader that pass filter to emit, sorting
// them first when sorted is set. It aborts on the first malformed line.
func Replay(reader adapter.ReportReader, filter ReplayFilter, sorted bool, emit func(m.Report) error) error {
	var buffered []m.Report

	for {
		report, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return err
		}

		if !filter.Keep(report) {
			continue
		}

		if sorted {
			buffered = append(buffered, report)
			continue
		}

		if err := emit(report); err != nil {
			return err
		}
	}

	slices.SortFunc(buffered, m.Report.Compare)

	for _, report := range buffered {
		if err := emit(report); err != nil {
			return err
		}
	}

	return nil
}

// ReadAll collects every report of reader that passes filter, sorted.
func ReadAll(reader adapter.ReportReader, filter ReplayFilter) ([]m.Report, error) {
	var out []m.Report

	err := Replay(reader, filter, true, func(r m.Report) error {
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Diff returns the reports only in old and only in cur, in report order.
func Diff(old, cur []m.Report) []m.DiffEntry {
	oldSet := make(map[m.Report]bool, len(old))
	for _, r := range old {
		oldSet[r] = true
	}

	curSet := make(map[m.Report]bool, len(cur))
	for _, r := range cur {
		curSet[r] = true
	}

	var entries []m.DiffEntry

	for r := range oldSet {
		if !curSet[r] {
			entries = append(entries, m.DiffEntry{Op: m.DiffRemoved, Report: r})
		}
	}

	for r := range curSet {
		if !oldSet[r] {
			entries = append(entries, m.DiffEntry{Op: m.DiffAdded, Report: r})
		}
	}

	slices.SortFunc(entries, func(a, b m.DiffEntry) int {
		return a.Report.Compare(b.Report)
	})

	return entries
}
