// Package checks holds the check registry, the per-source dispatch
// interfaces and every check implementation.
package checks

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/pkg/atom"
)

// CheckKind identifies a check.
type CheckKind int

// Check kinds, in lexical order.
const (
	Categories CheckKind = iota
	Dependency
	DependencySlotMissing
	Duplicates
	EapiStatus
	Eclass
	Header
	Ignore
	Keywords
	KeywordsDropped
	Leaf
	License
	Live
	Metadata
	RepoLayout
	RestrictTestMissing
	UnstableOnly
	VariableOrder
	Whitespace
	checkKindCount
)

// Context is a requirement a repository must meet for a check to run.
type Context int

const (
	// ContextOptional checks only run when selected.
	ContextOptional Context = iota
	// ContextOverlay checks need a repository with masters.
	ContextOverlay
	// ContextGentoo checks run by default only in the gentoo repository.
	ContextGentoo
)

func (c Context) String() string {
	switch c {
	case ContextOptional:
		return "optional"
	case ContextOverlay:
		return "overlay"
	case ContextGentoo:
		return "gentoo"
	}

	return "unknown"
}

// Check is the static descriptor of a check.
type Check struct {
	Kind     CheckKind
	Scope    m.Scope
	Source   m.SourceKind
	Reports  []m.ReportKind
	Context  []Context
	Priority int
	create   func(Run) any
}

// Name returns the check name.
func (c Check) Name() string {
	return c.Kind.String()
}

// Has reports whether the check declares ctx.
func (c Check) Has(ctx Context) bool {
	return slices.Contains(c.Context, ctx)
}

// Compare orders checks by scope, priority and kind.
func (c Check) Compare(o Check) int {
	return cmp.Or(
		cmp.Compare(c.Scope, o.Scope),
		cmp.Compare(c.Priority, o.Priority),
		cmp.Compare(c.Kind, o.Kind),
	)
}

func (c Check) String() string {
	return c.Name()
}

var registry = [checkKindCount]Check{
	Categories: {
		Scope:   m.ScopeCategory,
		Source:  m.SourceCoordinate,
		Reports: []m.ReportKind{m.CategoryUnknown},
		create:  newCategoriesCheck,
	},
	Dependency: {
		Scope:  m.ScopeVersion,
		Source: m.SourceResolved,
		Reports: []m.ReportKind{
			m.DependencyDeprecated,
			m.DependencyInvalid,
			m.DependencyRevisionMissing,
			m.PackageDeprecatedUnused,
		},
		create: newDependencyCheck,
	},
	DependencySlotMissing: {
		Scope:   m.ScopeVersion,
		Source:  m.SourceResolved,
		Reports: []m.ReportKind{m.DependencySlotMissing},
		create:  newDependencySlotMissingCheck,
	},
	Duplicates: {
		Scope:   m.ScopePackage,
		Source:  m.SourceCoordinate,
		Reports: []m.ReportKind{m.PackageOverride},
		Context: []Context{ContextOptional, ContextOverlay},
		create:  newDuplicatesCheck,
	},
	EapiStatus: {
		Scope:    m.ScopeVersion,
		Source:   m.SourceRaw,
		Reports:  []m.ReportKind{m.EapiBanned, m.EapiDeprecated},
		Priority: -100,
		create:   newEapiStatusCheck,
	},
	Eclass: {
		Scope:   m.ScopeVersion,
		Source:  m.SourceResolved,
		Reports: []m.ReportKind{m.EclassUnused},
		create:  newEclassCheck,
	},
	Header: {
		Scope:   m.ScopeVersion,
		Source:  m.SourceRaw,
		Reports: []m.ReportKind{m.HeaderInvalid},
		Context: []Context{ContextGentoo},
		create:  newHeaderCheck,
	},
	Ignore: {
		Scope:   m.ScopeVersion,
		Source:  m.SourceCoordinate,
		Reports: []m.ReportKind{m.IgnoreUnused},
		Context: []Context{ContextOptional},
		create:  newIgnoreCheck,
	},
	Keywords: {
		Scope:  m.ScopeVersion,
		Source: m.SourceResolved,
		Reports: []m.ReportKind{
			m.ArchesUnused,
			m.EapiUnstable,
			m.KeywordsLive,
			m.KeywordsOverlapping,
			m.KeywordsUnsorted,
		},
		create: newKeywordsCheck,
	},
	KeywordsDropped: {
		Scope:   m.ScopePackage,
		Source:  m.SourceResolved,
		Reports: []m.ReportKind{m.KeywordsDropped},
		create:  newKeywordsDroppedCheck,
	},
	Leaf: {
		Scope:   m.ScopeVersion,
		Source:  m.SourceResolved,
		Reports: []m.ReportKind{m.PackageLeaf},
		Context: []Context{ContextOptional},
		create:  newLeafCheck,
	},
	License: {
		Scope:  m.ScopeVersion,
		Source: m.SourceResolved,
		Reports: []m.ReportKind{
			m.LicenseDeprecated,
			m.LicenseInvalid,
			m.LicenseMissing,
			m.LicenseUnneeded,
			m.LicensesUnused,
		},
		create: newLicenseCheck,
	},
	Live: {
		Scope:   m.ScopePackage,
		Source:  m.SourceResolved,
		Reports: []m.ReportKind{m.LiveOnly},
		Context: []Context{ContextGentoo},
		create:  newLiveCheck,
	},
	Metadata: {
		Scope:    m.ScopeVersion,
		Source:   m.SourceResolved,
		Reports:  []m.ReportKind{m.MetadataError},
		Priority: -200,
		create:   newMetadataCheck,
	},
	RepoLayout: {
		Scope:   m.ScopeRepo,
		Source:  m.SourceRepo,
		Reports: []m.ReportKind{m.RepoCategoriesUnused, m.RepoCategoryEmpty, m.RepoPackageEmpty},
		create:  newRepoLayoutCheck,
	},
	RestrictTestMissing: {
		Scope:   m.ScopeVersion,
		Source:  m.SourceResolved,
		Reports: []m.ReportKind{m.RestrictMissing},
		create:  newRestrictTestMissingCheck,
	},
	UnstableOnly: {
		Scope:   m.ScopePackage,
		Source:  m.SourceResolved,
		Reports: []m.ReportKind{m.UnstableOnly},
		Context: []Context{ContextGentoo},
		create:  newUnstableOnlyCheck,
	},
	VariableOrder: {
		Scope:   m.ScopeVersion,
		Source:  m.SourceTree,
		Reports: []m.ReportKind{m.VariableOrder},
		create:  newVariableOrderCheck,
	},
	Whitespace: {
		Scope:   m.ScopeVersion,
		Source:  m.SourceRaw,
		Reports: []m.ReportKind{m.WhitespaceInvalid, m.WhitespaceUnneeded},
		create:  newWhitespaceCheck,
	},
}

var checkNames = [checkKindCount]string{
	Categories:            "Categories",
	Dependency:            "Dependency",
	DependencySlotMissing: "DependencySlotMissing",
	Duplicates:            "Duplicates",
	EapiStatus:            "EapiStatus",
	Eclass:                "Eclass",
	Header:                "Header",
	Ignore:                "Ignore",
	Keywords:              "Keywords",
	KeywordsDropped:       "KeywordsDropped",
	Leaf:                  "Leaf",
	License:               "License",
	Live:                  "Live",
	Metadata:              "Metadata",
	RepoLayout:            "RepoLayout",
	RestrictTestMissing:   "RestrictTestMissing",
	UnstableOnly:          "UnstableOnly",
	VariableOrder:         "VariableOrder",
	Whitespace:            "Whitespace",
}

func (k CheckKind) String() string {
	if k < 0 || k >= checkKindCount {
		return fmt.Sprintf("CheckKind(%d)", int(k))
	}

	return checkNames[k]
}

// Get returns the descriptor of kind.
func Get(kind CheckKind) Check {
	c := registry[kind]
	c.Kind = kind

	return c
}

// All returns every registered check in kind order.
func All() []Check {
	out := make([]Check, 0, checkKindCount)
	for k := CheckKind(0); k < checkKindCount; k++ {
		out = append(out, Get(k))
	}

	return out
}

// ParseCheckKind parses a check name, ignoring case.
func ParseCheckKind(s string) (CheckKind, error) {
	for k, name := range checkNames {
		if strings.EqualFold(s, name) {
			return CheckKind(k), nil
		}
	}

	return 0, m.InvalidValueError{Kind: "check", Value: s}
}

// ForReport returns the checks able to produce kind.
func ForReport(kind m.ReportKind) []Check {
	var out []Check

	for _, c := range All() {
		if slices.Contains(c.Reports, kind) {
			out = append(out, c)
		}
	}

	return out
}

// Run is the scan context checks report through.
type Run interface {
	Repo() adapter.Repo
	// Enabled reports whether reports of kind are kept by the scan.
	Enabled(kind m.ReportKind) bool
	// Report emits a finding. Safe for concurrent use.
	Report(report m.Report)
	// Fail aborts the scan with err, typically a repository I/O error the
	// check cannot report as a finding. The first failure wins.
	Fail(err error)
	// Pkg resolves the metadata of any version in the repository. It
	// returns nil without error for versions whose metadata is invalid.
	Pkg(cpv atom.Cpv) (*adapter.Pkg, error)
}

// RawRecipe is the unparsed text of a recipe.
type RawRecipe struct {
	Cpv  atom.Cpv
	Data []byte
}

// Target returns the version coordinate of the recipe.
func (r *RawRecipe) Target() m.Coordinate {
	return m.VersionTarget(r.Cpv)
}

// ParsedRecipe is a recipe together with its syntax tree.
type ParsedRecipe struct {
	RawRecipe
	Tree *adapter.Tree
}

// RawCheck runs against recipe text.
type RawCheck interface {
	Run(recipe *RawRecipe, run Run)
}

// TreeCheck runs against a parsed recipe.
type TreeCheck interface {
	Run(recipe *ParsedRecipe, run Run)
}

// VersionCheck runs against the resolved metadata of one version.
type VersionCheck interface {
	Run(pkg *adapter.Pkg, run Run)
}

// PackageSetCheck runs against the resolved metadata of every version of a
// package, in version order.
type PackageSetCheck interface {
	Run(target m.Coordinate, pkgs []*adapter.Pkg, run Run)
}

// CoordinateCheck runs against a bare category or package coordinate.
type CoordinateCheck interface {
	Run(target m.Coordinate, run Run)
}

// RepoCheck runs once against the whole repository.
type RepoCheck interface {
	Run(repo adapter.Repo, run Run)
}

// Finisher is implemented by checks emitting aggregate findings. FinishCheck
// is called once after every unit of a whole-repository scan has completed.
type Finisher interface {
	FinishCheck(run Run)
}

// Dispatch holds the check instances of one scan grouped by the input they
// consume. Each slice keeps the order of the active checks.
type Dispatch struct {
	Raw        []RawCheck
	Tree       []TreeCheck
	Version    []VersionCheck
	PackageSet []PackageSetCheck
	Package    []CoordinateCheck
	Category   []CoordinateCheck
	Repo       []RepoCheck
	Finishers  []Finisher
}

// NewDispatch creates an instance of every active check for one scan.
func NewDispatch(active []Check, run Run) *Dispatch {
	d := &Dispatch{}

	for _, c := range active {
		impl := c.create(run)

		switch x := impl.(type) {
		case RawCheck:
			d.Raw = append(d.Raw, x)
		case TreeCheck:
			d.Tree = append(d.Tree, x)
		case VersionCheck:
			d.Version = append(d.Version, x)
		case PackageSetCheck:
			d.PackageSet = append(d.PackageSet, x)
		case RepoCheck:
			d.Repo = append(d.Repo, x)
		case CoordinateCheck:
			if c.Scope == m.ScopeCategory {
				d.Category = append(d.Category, x)
			} else {
				d.Package = append(d.Package, x)
			}
		}

		if f, ok := impl.(Finisher); ok {
			d.Finishers = append(d.Finishers, f)
		}
	}

	return d
}

// NeedsScope reports whether any instance runs at scope.
func (d *Dispatch) NeedsScope(scope m.Scope) bool {
	switch scope {
	case m.ScopeVersion:
		return len(d.Raw)+len(d.Tree)+len(d.Version) > 0
	case m.ScopePackage:
		return len(d.PackageSet)+len(d.Package) > 0
	case m.ScopeCategory:
		return len(d.Category) > 0
	case m.ScopeRepo:
		return len(d.Repo) > 0
	}

	return false
}
