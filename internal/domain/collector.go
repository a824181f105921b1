package domain

import (
	"context"
	"iter"
	"slices"
	"sync/atomic"

	m "cruft.dev/pkg/cruft/internal/model"
)

// collector is the sink every check reports into. It drops disabled kinds
// and ignored reports, records exit kinds and forwards the rest to the
// single consumer.
type collector struct {
	ctx     context.Context
	enabled map[m.ReportKind]bool
	exit    map[m.ReportKind]bool
	out     *Reports
	ignore  *ignoreIndex
	fail    func(error)
}

func newCollector(ctx context.Context, enabled, exit []m.ReportKind, out *Reports) *collector {
	c := &collector{
		ctx:     ctx,
		enabled: make(map[m.ReportKind]bool, len(enabled)),
		exit:    make(map[m.ReportKind]bool, len(exit)),
		out:     out,
	}

	for _, k := range enabled {
		c.enabled[k] = true
	}

	for _, k := range exit {
		c.exit[k] = true
	}

	return c
}

func (c *collector) add(report m.Report) {
	if !c.enabled[report.Kind] {
		return
	}

	if c.ignore != nil && report.Kind != m.IgnoreUnused {
		ignored, err := c.ignore.suppressed(report)
		if err != nil {
			c.fail(err)
			return
		}

		if ignored {
			return
		}
	}

	if c.exit[report.Kind] {
		c.out.failed.Store(true)
	}

	select {
	case c.out.ch <- report:
	case <-c.ctx.Done():
	}
}

// Reports streams the findings of one scan. Reports arrive in completion
// order; use Sorted for the canonical order. The stream must be drained,
// or closed with Close, for the scan to finish.
type Reports struct {
	ch     chan m.Report
	done   chan struct{}
	cancel context.CancelFunc
	failed atomic.Bool
	err    error
}

func newReports(capacity int, cancel context.CancelFunc) *Reports {
	return &Reports{
		ch:     make(chan m.Report, max(capacity, 1)),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

func (r *Reports) finish(err error) {
	r.err = err
	close(r.ch)
	close(r.done)
	r.cancel()
}

// Next returns the next report, or false once the scan has ended.
func (r *Reports) Next() (m.Report, bool) {
	report, ok := <-r.ch
	return report, ok
}

// All returns an iterator over the remaining reports. Breaking out of the
// loop stops the scan.
func (r *Reports) All() iter.Seq[m.Report] {
	return func(yield func(m.Report) bool) {
		for report := range r.ch {
			if !yield(report) {
				r.Close()
				return
			}
		}
	}
}

// Sorted drains the stream and returns the reports in canonical order
// together with the scan error, if any.
func (r *Reports) Sorted() ([]m.Report, error) {
	var out []m.Report
	for report := range r.ch {
		out = append(out, report)
	}

	slices.SortFunc(out, m.Report.Compare)

	return out, r.Err()
}

// Close stops the scan and discards the reports not yet read.
func (r *Reports) Close() {
	r.cancel()

	for range r.ch {
	}

	<-r.done
}

// Err waits for the scan to end and returns its fatal error. Call it once
// the stream is drained.
func (r *Reports) Err() error {
	<-r.done
	return r.err
}

// Failed reports whether a report of an exit kind was emitted.
func (r *Reports) Failed() bool {
	return r.failed.Load()
}
