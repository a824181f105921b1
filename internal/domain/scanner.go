// Package domain runs checks over a repository and turns their findings into
// a stream of reports.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cruft.dev/pkg/cruft/internal/adapter"
	"cruft.dev/pkg/cruft/internal/domain/checks"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/pkg/atom"
)

// ScanError is a fatal failure of one scan unit: a collaborator error or a
// panic inside a check. It cancels the remaining work.
type ScanError struct {
	Target m.Coordinate
	Err    error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Target, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Scanner scans a repository with a configurable set of checks.
type Scanner struct {
	repo    adapter.Repo
	pool    adapter.BuildPool
	parser  adapter.RecipeParser
	checks  []checks.CheckKind
	reports checks.ReportSelection
	exit    []m.ReportKind
	jobs    int
	force   bool
	verify  bool
}

// NewScanner creates a scanner for repo resolving metadata through pool.
// Without further configuration it runs the default checks with one worker
// per CPU.
func NewScanner(repo adapter.Repo, pool adapter.BuildPool) *Scanner {
	return &Scanner{
		repo:   repo,
		pool:   pool,
		parser: adapter.NewShellRecipeParser(),
		jobs:   runtime.NumCPU(),
	}
}

// Parser replaces the recipe parser used for tree checks.
func (s *Scanner) Parser(parser adapter.RecipeParser) *Scanner {
	s.parser = parser
	return s
}

// Checks selects the checks to run explicitly. Without a selection, every
// default-enabled check whose reports are enabled runs.
func (s *Scanner) Checks(kinds ...checks.CheckKind) *Scanner {
	s.checks = kinds
	return s
}

// Reports selects the enabled report kinds.
func (s *Scanner) Reports(sel checks.ReportSelection) *Scanner {
	s.reports = sel
	return s
}

// Exit sets the report kinds that mark a scan as failed.
func (s *Scanner) Exit(kinds ...m.ReportKind) *Scanner {
	s.exit = kinds
	return s
}

// Jobs sets the number of concurrent workers. Values below one select the
// number of CPUs.
func (s *Scanner) Jobs(n int) *Scanner {
	if n < 1 {
		n = runtime.NumCPU()
	}

	s.jobs = n

	return s
}

// Force regenerates metadata instead of using cached entries.
func (s *Scanner) Force(force bool) *Scanner {
	s.force = force
	return s
}

// Verify revalidates cached metadata against current eclasses.
func (s *Scanner) Verify(verify bool) *Scanner {
	s.verify = verify
	return s
}

// Run resolves the active checks and starts scanning the part of the
// repository matched by restrict. Configuration errors are returned before
// any unit runs; everything else surfaces through the returned Reports.
func (s *Scanner) Run(ctx context.Context, restrict m.Restrict) (*Reports, error) {
	sel, err := checks.Resolve(s.repo, s.checks, s.reports)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	reports := newReports(s.jobs, cancel)

	sc := &scan{
		ctx:       ctx,
		repo:      s.repo,
		parser:    s.parser,
		restrict:  restrict,
		jobs:      s.jobs,
		cancel:    cancel,
		collector: newCollector(ctx, sel.Reports, s.exit, reports),
		metadata:  newMetadataMemo(s.pool, s.repo, s.force, s.verify),
		ignore:    newIgnoreIndex(s.repo),
	}
	sc.collector.ignore = sc.ignore
	sc.collector.fail = sc.Fail
	sc.dispatch = checks.NewDispatch(sel.Checks, sc)
	sc.metadata.consumers = sc.metadataConsumers()

	slog.Debug("Starting scan",
		"repo", s.repo.Name(),
		"restrict", restrict.String(),
		"checks", len(sel.Checks),
		"reports", len(sel.Reports),
		"jobs", s.jobs,
	)

	go func() {
		start := time.Now()
		err := sc.execute(ctx)

		if err != nil {
			slog.Error("Scan failed", "repo", s.repo.Name(), "error", err)
		} else {
			slog.Debug("Scan finished", "repo", s.repo.Name(), "elapsed", time.Since(start))
		}

		reports.finish(err)
	}()

	return reports, nil
}

// scan is the state of a single Run. It is the checks.Run handed to every
// check instance.
type scan struct {
	ctx       context.Context
	repo      adapter.Repo
	parser    adapter.RecipeParser
	restrict  m.Restrict
	jobs      int
	cancel    context.CancelFunc
	dispatch  *checks.Dispatch
	collector *collector
	metadata  *metadataMemo
	ignore    *ignoreIndex

	failOnce sync.Once
	failure  error
}

func (sc *scan) Repo() adapter.Repo {
	return sc.repo
}

func (sc *scan) Enabled(kind m.ReportKind) bool {
	return sc.collector.enabled[kind]
}

func (sc *scan) Report(report m.Report) {
	sc.collector.add(report)
}

func (sc *scan) Pkg(cpv atom.Cpv) (*adapter.Pkg, error) {
	return sc.metadata.lookup(sc.ctx, cpv)
}

// Fail is reached by checks that kept the run given at creation. Checks
// handed a unitRun fail their own unit instead.
func (sc *scan) Fail(err error) {
	sc.failOnce.Do(func() {
		sc.failure = &ScanError{Target: m.RepoTarget(sc.repo.Name()), Err: err}
		sc.cancel()
	})
}

// unitRun is the checks.Run of one unit. A failure reported through it
// becomes the unit's error. Checks of a unit run sequentially.
type unitRun struct {
	*scan
	err error
}

func (u *unitRun) Fail(err error) {
	if u.err == nil {
		u.err = err
	}
}

// runs reports whether checks of scope take part in this scan.
func (sc *scan) runs(scope m.Scope) bool {
	return scope <= sc.restrict.Scope() && sc.dispatch.NeedsScope(scope)
}

// metadataConsumers counts the units reading each version's metadata: the
// version unit and the package unit, when they run metadata checks.
func (sc *scan) metadataConsumers() int32 {
	var n int32

	if len(sc.dispatch.Version) > 0 && sc.runs(m.ScopeVersion) {
		n++
	}

	if len(sc.dispatch.PackageSet) > 0 && sc.runs(m.ScopePackage) {
		n++
	}

	return n
}

func (sc *scan) execute(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sc.jobs)

	produceErr := sc.produce(gctx, g)
	if err := g.Wait(); err != nil {
		return err
	}

	if produceErr != nil {
		return produceErr
	}

	if sc.failure != nil {
		return sc.failure
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if sc.restrict.Scope() == m.ScopeRepo {
		for _, f := range sc.dispatch.Finishers {
			err := sc.unit(ctx, m.RepoTarget(sc.repo.Name()), func() error {
				run := &unitRun{scan: sc}
				f.FinishCheck(run)

				return run.err
			})()
			if err != nil {
				return err
			}
		}
	}

	if sc.failure != nil {
		return sc.failure
	}

	// Directives are only known to be unused once every report is in.
	if sc.Enabled(m.IgnoreUnused) {
		for _, r := range sc.ignore.unused(sc.restrict) {
			sc.Report(r)
		}
	}

	return nil
}

// produce walks the restricted repository in category, package, version
// order and schedules one task per unit. g.Go blocks while every worker is
// busy, so traversal never runs ahead of the pool.
func (sc *scan) produce(ctx context.Context, g *errgroup.Group) error {
	versions := sc.runs(m.ScopeVersion)
	packages := sc.runs(m.ScopePackage)
	categories := sc.runs(m.ScopeCategory)
	ignores := sc.Enabled(m.IgnoreUnused)

	slog.Debug("Partitioning repo",
		"versions", versions,
		"packages", packages,
		"categories", categories,
		"repo", sc.runs(m.ScopeRepo),
		"ignores", ignores,
	)

	if versions || packages || categories || ignores {
		cats, err := sc.repo.Categories()
		if err != nil {
			return &ScanError{Target: m.RepoTarget(sc.repo.Name()), Err: err}
		}

		for _, cat := range cats {
			if ctx.Err() != nil {
				return nil
			}

			if !sc.restrict.MatchesCategory(cat) {
				continue
			}

			if err := sc.produceCategory(ctx, g, cat, versions, packages, ignores); err != nil {
				return err
			}

			if ignores {
				if err := sc.visit(m.CategoryTarget(cat)); err != nil {
					return err
				}
			}

			if categories && sc.restrict.Matches(m.CategoryTarget(cat)) {
				target := m.CategoryTarget(cat)
				g.Go(sc.unit(ctx, target, func() error { return sc.runCategory(target) }))
			}
		}
	}

	if sc.runs(m.ScopeRepo) {
		target := m.RepoTarget(sc.repo.Name())
		g.Go(sc.unit(ctx, target, func() error { return sc.runRepo() }))
	}

	if ignores {
		return sc.visit(m.RepoTarget(sc.repo.Name()))
	}

	return nil
}

// visit loads the ignore directives of target when it lies inside the
// restriction, so that unused ones are found even where nothing reports.
func (sc *scan) visit(target m.Coordinate) error {
	if !sc.restrict.Matches(target) {
		return nil
	}

	if _, err := sc.ignore.load(target); err != nil {
		return &ScanError{Target: target, Err: err}
	}

	return nil
}

func (sc *scan) produceCategory(ctx context.Context, g *errgroup.Group, cat string, versions, packages, ignores bool) error {
	if !versions && !packages && !ignores {
		return nil
	}

	pkgs, err := sc.repo.Packages(cat)
	if err != nil {
		return &ScanError{Target: m.CategoryTarget(cat), Err: err}
	}

	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if !sc.restrict.MatchesPackage(cat, pkg) {
			continue
		}

		cpvs, err := sc.repo.Versions(cat, pkg)
		if err != nil {
			return &ScanError{Target: m.PackageTarget(cat, pkg), Err: err}
		}

		var matched []atom.Cpv
		for _, cpv := range cpvs {
			if sc.restrict.MatchesVersion(cpv) {
				matched = append(matched, cpv)
			}
		}

		if versions {
			for _, cpv := range matched {
				target := m.VersionTarget(cpv)
				g.Go(sc.unit(ctx, target, func() error { return sc.runVersion(ctx, cpv) }))
			}
		}

		if packages && sc.restrict.Matches(m.PackageTarget(cat, pkg)) {
			target := m.PackageTarget(cat, pkg)
			g.Go(sc.unit(ctx, target, func() error { return sc.runPackage(ctx, target, matched) }))
		}

		if !ignores {
			continue
		}

		for _, cpv := range matched {
			if err := sc.visit(m.VersionTarget(cpv)); err != nil {
				return err
			}
		}

		if err := sc.visit(m.PackageTarget(cat, pkg)); err != nil {
			return err
		}
	}

	return nil
}

// unit wraps the work for target so that errors and panics become a
// ScanError naming the unit. Units scheduled after cancellation are skipped.
func (sc *scan) unit(ctx context.Context, target m.Coordinate, fn func() error) func() error {
	return func() (err error) {
		if ctx.Err() != nil {
			return nil
		}

		defer func() {
			if r := recover(); r != nil {
				slog.Error("Check panicked", "target", target.String(), "panic", r)
				err = &ScanError{Target: target, Err: fmt.Errorf("panic: %v", r)}
			}
		}()

		if err := fn(); err != nil {
			var scanErr *ScanError
			if errors.As(err, &scanErr) {
				return err
			}

			return &ScanError{Target: target, Err: err}
		}

		return nil
	}
}

func (sc *scan) runVersion(ctx context.Context, cpv atom.Cpv) error {
	d := sc.dispatch
	run := &unitRun{scan: sc}

	if len(d.Raw) > 0 || len(d.Tree) > 0 {
		data, err := sc.repo.ReadRecipe(cpv)
		if err != nil {
			return err
		}

		raw := &checks.RawRecipe{Cpv: cpv, Data: data}
		for _, c := range d.Raw {
			c.Run(raw, run)
		}

		if len(d.Tree) > 0 {
			tree, err := sc.parser.Parse(data)
			if err != nil {
				sc.metadata.invalid(sc, cpv, err)
			} else {
				parsed := &checks.ParsedRecipe{RawRecipe: *raw, Tree: tree}
				for _, c := range d.Tree {
					c.Run(parsed, run)
				}
			}
		}
	}

	if len(d.Version) == 0 || run.err != nil {
		return run.err
	}

	pkg, err := sc.metadata.get(ctx, sc, cpv)
	if err != nil || pkg == nil {
		return err
	}

	for _, c := range d.Version {
		c.Run(pkg, run)
	}

	return run.err
}

func (sc *scan) runPackage(ctx context.Context, target m.Coordinate, cpvs []atom.Cpv) error {
	d := sc.dispatch
	run := &unitRun{scan: sc}

	for _, c := range d.Package {
		c.Run(target, run)
	}

	if len(d.PackageSet) == 0 || run.err != nil {
		return run.err
	}

	pkgs := make([]*adapter.Pkg, 0, len(cpvs))

	for _, cpv := range cpvs {
		pkg, err := sc.metadata.get(ctx, sc, cpv)
		if err != nil {
			return err
		}

		if pkg != nil {
			pkgs = append(pkgs, pkg)
		}
	}

	for _, c := range d.PackageSet {
		c.Run(target, pkgs, run)
	}

	return run.err
}

func (sc *scan) runCategory(target m.Coordinate) error {
	run := &unitRun{scan: sc}

	for _, c := range sc.dispatch.Category {
		c.Run(target, run)
	}

	return run.err
}

func (sc *scan) runRepo() error {
	run := &unitRun{scan: sc}

	for _, c := range sc.dispatch.Repo {
		c.Run(sc.repo, run)
	}

	return run.err
}
