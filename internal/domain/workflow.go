package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"fortio.org/safecast"

	"cruft.dev/pkg/cruft/internal/adapter"
	"cruft.dev/pkg/cruft/internal/controller"
	"cruft.dev/pkg/cruft/internal/domain/checks"
	m "cruft.dev/pkg/cruft/internal/model"
)

// ErrScanFailed is returned by Scan when a report of an exit kind was
// emitted.
var ErrScanFailed = errors.New("reports of exit kinds were emitted")

// ScanArgs contains the arguments for scanning a repository.
type ScanArgs struct {
	// Repo is the repository path; empty selects the working directory.
	Repo string
	// Targets restrict the scan; empty scans the whole repository.
	Targets  []string
	Checks   []string
	Reports  []string
	Exit     []string
	Jobs     uint
	PoolSize uint
	Sort     bool
	Reporter controller.ReporterOptions
	// Output additionally saves the emitted reports as JSON lines.
	Output   string
	CacheDir string
	NoCache  bool
	Force    bool
}

// ReplayArgs contains the arguments for replaying serialized reports.
type ReplayArgs struct {
	Path     string
	Reports  []string
	Pkgs     string
	Sort     bool
	Reporter controller.ReporterOptions
}

// DiffArgs contains the arguments for comparing two report files.
type DiffArgs struct {
	Old     string
	New     string
	Reports []string
	Pkgs    string
	Color   bool
}

// ViewArgs contains the arguments for browsing a report file.
type ViewArgs struct {
	Path    string
	Reports []string
	Pkgs    string
}

// ShowArgs selects the registry listing to show.
type ShowArgs struct {
	Subject string
}

// Show subjects.
const (
	ShowChecks  = "checks"
	ShowReports = "reports"
)

// Workflow defines the commands of the scanner.
type Workflow interface {
	Scan(ctx context.Context, args ScanArgs) error
	Replay(ctx context.Context, args ReplayArgs) error
	Diff(ctx context.Context, args DiffArgs) error
	View(ctx context.Context, args ViewArgs) error
	Show(ctx context.Context, args ShowArgs) error
}

// RepoOpener opens the repository at a path.
type RepoOpener func(path string) (adapter.Repo, error)

type workflow struct {
	adapter.ReportStore
	ui       controller.UI
	openRepo RepoOpener
}

// WorkflowOption configures a workflow.
type WorkflowOption func(*workflow)

// WithRepoOpener replaces how repositories are opened.
func WithRepoOpener(open RepoOpener) WorkflowOption {
	return func(w *workflow) {
		w.openRepo = open
	}
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(reportStore adapter.ReportStore, ui controller.UI, opts ...WorkflowOption) Workflow {
	w := &workflow{
		ReportStore: reportStore,
		ui:          ui,
		openRepo: func(path string) (adapter.Repo, error) {
			return adapter.OpenRepo(path)
		},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func (w *workflow) Scan(ctx context.Context, args ScanArgs) error {
	path := args.Repo
	if path == "" {
		path = "."
	}

	repo, err := w.openRepo(path)
	if err != nil {
		return fmt.Errorf("open repo: %w", err)
	}

	selected, err := checks.ParseCheckKinds(args.Checks)
	if err != nil {
		return err
	}

	reports, err := checks.ParseReportSelection(args.Reports)
	if err != nil {
		return err
	}

	exit, err := exitKinds(args.Exit)
	if err != nil {
		return err
	}

	restrict, err := parseTargets(args.Targets)
	if err != nil {
		return err
	}

	jobs, err := safecast.Conv[int](args.Jobs)
	if err != nil {
		return fmt.Errorf("jobs: %w", err)
	}

	pool, err := newBuildPool(args)
	if err != nil {
		return err
	}

	reporter, err := w.ui.Reporter(args.Reporter)
	if err != nil {
		return err
	}

	var saved []m.Report

	emit := func(r m.Report) error {
		if args.Output != "" {
			saved = append(saved, r)
		}

		return reporter.Report(r)
	}

	stream, err := NewScanner(repo, pool).
		Checks(selected...).
		Reports(reports).
		Exit(exit...).
		Jobs(jobs).
		Force(args.Force).
		Verify(!args.NoCache).
		Run(ctx, restrict)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if err := drain(stream, args.Sort, emit); err != nil {
		_ = reporter.Finish()
		return fmt.Errorf("scan %s: %w", restrict, err)
	}

	if err := reporter.Finish(); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}

	if args.Output != "" {
		slices.SortFunc(saved, m.Report.Compare)

		if err := w.SaveReports(args.Output, saved); err != nil {
			return fmt.Errorf("save reports: %w", err)
		}
	}

	if stream.Failed() {
		return ErrScanFailed
	}

	return nil
}

// drain hands every report of stream to emit, in canonical order when sorted
// is set, and returns the scan error.
func drain(stream *Reports, sorted bool, emit func(m.Report) error) error {
	if sorted {
		reports, err := stream.Sorted()
		if err != nil {
			return err
		}

		for _, r := range reports {
			if err := emit(r); err != nil {
				return err
			}
		}

		return nil
	}

	for r := range stream.All() {
		if err := emit(r); err != nil {
			return err
		}
	}

	return stream.Err()
}

func newBuildPool(args ScanArgs) (adapter.BuildPool, error) {
	size, err := safecast.Conv[int](args.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("pool size: %w", err)
	}

	var opts []adapter.BuildPoolOption

	if !args.NoCache {
		dir := args.CacheDir
		if dir == "" {
			if dir, err = adapter.DefaultCacheDir(); err != nil {
				return nil, err
			}
		}

		cache, err := adapter.OpenDiskCache(dir)
		if err != nil {
			return nil, fmt.Errorf("open metadata cache: %w", err)
		}

		slog.Debug("Using metadata cache", "dir", cache.Dir())

		opts = append(opts, adapter.WithPoolCache(cache))
	}

	return adapter.NewLocalBuildPool(adapter.NewShellRecipeParser(), max(size, 1), opts...), nil
}

// parseTargets combines the scan targets into one restriction so that a
// single scan covers them all, each unit at most once.
func parseTargets(targets []string) (m.Restrict, error) {
	restricts := make([]m.Restrict, 0, len(targets))

	for _, target := range targets {
		r, err := m.ParseRestrict(target)
		if err != nil {
			return m.Restrict{}, err
		}

		restricts = append(restricts, r)
	}

	return m.AnyRestrict(restricts...), nil
}

// exitKinds resolves the report kinds that fail a scan. Nothing fails a scan
// unless selected.
func exitKinds(values []string) ([]m.ReportKind, error) {
	sel, err := checks.ParseReportSelection(values)
	if err != nil {
		return nil, fmt.Errorf("exit: %w", err)
	}

	kinds := append(slices.Clone(sel.Set), sel.Add...)

	return slices.DeleteFunc(kinds, func(k m.ReportKind) bool {
		return slices.Contains(sel.Remove, k)
	}), nil
}

// replayFilter builds the filter for serialized reports. Without a report
// selection every kind is kept.
func replayFilter(values []string, pkgs string) (ReplayFilter, error) {
	var filter ReplayFilter

	sel, err := checks.ParseReportSelection(values)
	if err != nil {
		return filter, err
	}

	if !sel.IsZero() {
		kinds := sel.Set
		if len(kinds) == 0 {
			kinds = m.AllReportKinds()
		}

		kinds = append(slices.Clone(kinds), sel.Add...)
		filter.Kinds = slices.DeleteFunc(kinds, func(k m.ReportKind) bool {
			return slices.Contains(sel.Remove, k)
		})
	}

	if pkgs != "" {
		r, err := m.ParseRestrict(pkgs)
		if err != nil {
			return filter, err
		}

		filter.Restrict = &r
	}

	return filter, nil
}

func (w *workflow) Replay(ctx context.Context, args ReplayArgs) error {
	filter, err := replayFilter(args.Reports, args.Pkgs)
	if err != nil {
		return err
	}

	reader, err := w.LoadReports(args.Path)
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	reporter, err := w.ui.Reporter(args.Reporter)
	if err != nil {
		return err
	}

	err = Replay(reader, filter, args.Sort, func(r m.Report) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		return reporter.Report(r)
	})

	finishErr := reporter.Finish()

	if err != nil {
		slog.Error("Replay aborted", "path", args.Path, "error", err)
		return fmt.Errorf("replay %s: %w", args.Path, err)
	}

	return finishErr
}

func (w *workflow) load(path string, filter ReplayFilter) ([]m.Report, error) {
	reader, err := w.LoadReports(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	reports, err := ReadAll(reader, filter)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return reports, nil
}

func (w *workflow) Diff(ctx context.Context, args DiffArgs) error {
	if args.Old == adapter.StdinPath && args.New == adapter.StdinPath {
		return m.InvalidValueError{Kind: "diff input", Value: args.New, Reason: "stdin can only be read once"}
	}

	filter, err := replayFilter(args.Reports, args.Pkgs)
	if err != nil {
		return err
	}

	old, err := w.load(args.Old, filter)
	if err != nil {
		return err
	}

	cur, err := w.load(args.New, filter)
	if err != nil {
		return err
	}

	return w.ui.Diff(ctx, Diff(old, cur), args.Color)
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	filter, err := replayFilter(args.Reports, args.Pkgs)
	if err != nil {
		return err
	}

	reports, err := w.load(args.Path, filter)
	if err != nil {
		return err
	}

	return w.ui.View(ctx, reports)
}

func (w *workflow) Show(ctx context.Context, args ShowArgs) error {
	switch args.Subject {
	case ShowChecks:
		return w.ui.ShowChecks(ctx, checks.All())
	case ShowReports:
		return w.ui.ShowReports(ctx, m.AllReportKinds())
	}

	return m.InvalidValueError{Kind: "show subject", Value: args.Subject, Reason: "expected checks or reports"}
}
