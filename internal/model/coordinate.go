package model

import (
	"strings"

	"cruft.dev/pkg/cruft/pkg/atom"
)

// Coordinate identifies a location in a repository. Its scope is the
// narrowest field that is set.
type Coordinate struct {
	Repo     string
	Category string
	Package  string
	Version  string
}

// RepoTarget returns the coordinate of a whole repository.
func RepoTarget(name string) Coordinate {
	return Coordinate{Repo: name}
}

// CategoryTarget returns the coordinate of a category.
func CategoryTarget(cat string) Coordinate {
	return Coordinate{Category: cat}
}

// PackageTarget returns the coordinate of an unversioned package.
func PackageTarget(cat, pkg string) Coordinate {
	return Coordinate{Category: cat, Package: pkg}
}

// VersionTarget returns the coordinate of a package version.
func VersionTarget(cpv atom.Cpv) Coordinate {
	return Coordinate{Category: cpv.Category, Package: cpv.Package, Version: cpv.Version.String()}
}

// Scope returns the granularity of the coordinate.
func (c Coordinate) Scope() Scope {
	switch {
	case c.Version != "":
		return ScopeVersion
	case c.Package != "":
		return ScopePackage
	case c.Category != "":
		return ScopeCategory
	}

	return ScopeRepo
}

// Cpn returns category/package.
func (c Coordinate) Cpn() string {
	return c.Category + "/" + c.Package
}

// Cpv returns the parsed category/package-version for version coordinates.
func (c Coordinate) Cpv() (atom.Cpv, bool) {
	if c.Scope() != ScopeVersion {
		return atom.Cpv{}, false
	}

	v, err := atom.ParseVersion(c.Version)
	if err != nil {
		return atom.Cpv{}, false
	}

	return atom.Cpv{Category: c.Category, Package: c.Package, Version: v}, true
}

// PackageOf returns the package coordinate containing c.
func (c Coordinate) PackageOf() Coordinate {
	return Coordinate{Category: c.Category, Package: c.Package}
}

func (c Coordinate) String() string {
	switch c.Scope() {
	case ScopeVersion:
		return c.Category + "/" + c.Package + "-" + c.Version
	case ScopePackage:
		return c.Cpn()
	case ScopeCategory:
		return c.Category
	}

	return c.Repo
}

// ParseTarget parses the string form of a coordinate of the given scope.
func ParseTarget(scope Scope, s string) (Coordinate, error) {
	switch scope {
	case ScopeVersion:
		cpv, err := atom.ParseCpv(s)
		if err != nil {
			return Coordinate{}, InvalidValueError{Kind: "version target", Value: s}
		}

		return VersionTarget(cpv), nil
	case ScopePackage:
		cat, pkg, ok := strings.Cut(s, "/")
		if !ok || !atom.ValidCategory(cat) || !atom.ValidPackage(pkg) {
			return Coordinate{}, InvalidValueError{Kind: "package target", Value: s}
		}

		return PackageTarget(cat, pkg), nil
	case ScopeCategory:
		if !atom.ValidCategory(s) {
			return Coordinate{}, InvalidValueError{Kind: "category target", Value: s}
		}

		return CategoryTarget(s), nil
	case ScopeRepo:
		if s == "" {
			return Coordinate{}, InvalidValueError{Kind: "repo target", Value: s}
		}

		return RepoTarget(s), nil
	}

	return Coordinate{}, InvalidValueError{Kind: "scope", Value: scope.String()}
}

// scopeClass groups version and package coordinates together so that a
// package's reports sort next to its versions' reports.
func scopeClass(s Scope) int {
	switch s {
	case ScopeVersion, ScopePackage:
		return 0
	case ScopeCategory:
		return 1
	}

	return 2
}

// Compare orders coordinates: package-level and version-level coordinates by
// category and package, version reports before package reports of the same
// package, versions in version order; then categories; then repos.
func (c Coordinate) Compare(o Coordinate) int {
	cs, ocs := c.Scope(), o.Scope()

	if x := scopeClass(cs) - scopeClass(ocs); x != 0 {
		return sign(x)
	}

	switch scopeClass(cs) {
	case 0:
		if x := strings.Compare(c.Category, o.Category); x != 0 {
			return x
		}

		if x := strings.Compare(c.Package, o.Package); x != 0 {
			return x
		}

		if cs != ocs {
			return sign(int(cs) - int(ocs))
		}

		// Equal versions spelled differently (1 and 1-r0) still need a
		// total order.
		if x := atom.CompareVersions(c.Version, o.Version); x != 0 {
			return x
		}

		return strings.Compare(c.Version, o.Version)
	case 1:
		return strings.Compare(c.Category, o.Category)
	}

	return strings.Compare(c.Repo, o.Repo)
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}

	return 0
}
