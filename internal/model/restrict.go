package model

import (
	"path"
	"slices"
	"strings"

	"cruft.dev/pkg/cruft/pkg/atom"
)

// Restrict limits a scan or a replay to part of a repository.
type Restrict struct {
	raw      string
	scope    Scope
	category string
	pkg      string
	dep      *atom.Dep
	version  *atom.Version
	// members holds the restrictions of a union; the fields above are unused then.
	members []Restrict
}

// AllRestrict matches the whole repository.
func AllRestrict() Restrict {
	return Restrict{raw: "*", scope: ScopeRepo, category: "*", pkg: "*"}
}

// AnyRestrict matches whatever one of rs matches. No restriction means the
// whole repository and a single one is returned as is.
func AnyRestrict(rs ...Restrict) Restrict {
	switch len(rs) {
	case 0:
		return AllRestrict()
	case 1:
		return rs[0]
	}

	raws := make([]string, 0, len(rs))
	scope := ScopeVersion

	for _, r := range rs {
		if r.scope == ScopeRepo {
			return AllRestrict()
		}

		raws = append(raws, r.raw)
		scope = max(scope, r.scope)
	}

	return Restrict{raw: strings.Join(raws, " "), scope: scope, members: slices.Clone(rs)}
}

// ParseRestrict parses a restriction. Supported forms are an empty string or
// "*" for everything, a category name or glob, cat/pkg with optional globs in
// either part, an exact cat/pkg-version, and versioned dependency atoms.
func ParseRestrict(s string) (Restrict, error) {
	s = strings.TrimSpace(s)

	switch s {
	case "", "*", "*/*":
		return AllRestrict(), nil
	}

	if strings.ContainsAny(s[:1], "<>=~") {
		dep, err := atom.ParseDep(s)
		if err != nil || dep.Blocker != atom.NoBlocker {
			return Restrict{}, InvalidValueError{Kind: "restriction", Value: s}
		}

		return Restrict{raw: s, scope: ScopeVersion, category: dep.Category, pkg: dep.Package, dep: &dep}, nil
	}

	if !hasGlob(s) {
		if cpv, err := atom.ParseCpv(s); err == nil {
			return Restrict{
				raw:      s,
				scope:    ScopeVersion,
				category: cpv.Category,
				pkg:      cpv.Package,
				version:  &cpv.Version,
			}, nil
		}
	}

	cat, pkg, hasPkg := strings.Cut(s, "/")
	if !hasPkg {
		pkg = "*"
	}

	if !validPattern(cat, atom.ValidCategory) || !validPattern(pkg, atom.ValidPackage) {
		return Restrict{}, InvalidValueError{Kind: "restriction", Value: s}
	}

	scope := ScopePackage
	if pkg == "*" {
		scope = ScopeCategory
	}

	return Restrict{raw: s, scope: scope, category: cat, pkg: pkg}, nil
}

func hasGlob(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

func validPattern(p string, literal func(string) bool) bool {
	if p == "" {
		return false
	}

	if !hasGlob(p) {
		return literal(p)
	}

	_, err := path.Match(p, "")

	return err == nil
}

// Scope returns the widest scope fully covered by the restriction. For a
// union it is the widest scope of its members; Matches tells which targets
// of that scope are actually covered.
func (r Restrict) Scope() Scope {
	return r.scope
}

func (r Restrict) String() string {
	return r.raw
}

// MatchesCategory reports whether any item in cat can match.
func (r Restrict) MatchesCategory(cat string) bool {
	if r.members != nil {
		return slices.ContainsFunc(r.members, func(x Restrict) bool { return x.MatchesCategory(cat) })
	}

	ok, _ := path.Match(r.category, cat)

	return ok
}

// MatchesPackage reports whether any version of cat/pkg can match.
func (r Restrict) MatchesPackage(cat, pkg string) bool {
	if r.members != nil {
		return slices.ContainsFunc(r.members, func(x Restrict) bool { return x.MatchesPackage(cat, pkg) })
	}

	if !r.MatchesCategory(cat) {
		return false
	}

	ok, _ := path.Match(r.pkg, pkg)

	return ok
}

// MatchesVersion reports whether cpv matches.
func (r Restrict) MatchesVersion(cpv atom.Cpv) bool {
	if r.members != nil {
		return slices.ContainsFunc(r.members, func(x Restrict) bool { return x.MatchesVersion(cpv) })
	}

	if !r.MatchesPackage(cpv.Category, cpv.Package) {
		return false
	}

	switch {
	case r.dep != nil:
		return r.dep.Matches(cpv)
	case r.version != nil:
		return cpv.Version.Compare(*r.version) == 0
	}

	return true
}

// Matches reports whether target lies inside the restriction. Targets wider
// than the restriction's scope never match.
func (r Restrict) Matches(target Coordinate) bool {
	if r.members != nil {
		return slices.ContainsFunc(r.members, func(x Restrict) bool { return x.Matches(target) })
	}

	switch target.Scope() {
	case ScopeRepo:
		return r.scope == ScopeRepo
	case ScopeCategory:
		return r.scope >= ScopeCategory && r.MatchesCategory(target.Category)
	case ScopePackage:
		return r.scope >= ScopePackage && r.MatchesPackage(target.Category, target.Package)
	}

	cpv, ok := target.Cpv()
	if !ok {
		return false
	}

	return r.MatchesVersion(cpv)
}
