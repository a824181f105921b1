package atom

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDep is returned for malformed dependency atoms.
var ErrInvalidDep = errors.New("invalid dep")

// Operator is a version restriction operator on a dependency atom.
type Operator int

const (
	// OpNone means the atom is unversioned.
	OpNone Operator = iota
	OpLess
	OpLessOrEqual
	OpEqual
	OpEqualGlob
	OpApprox
	OpGreaterOrEqual
	OpGreater
)

var operatorPrefixes = []struct {
	prefix string
	op     Operator
}{
	{"<=", OpLessOrEqual},
	{">=", OpGreaterOrEqual},
	{"<", OpLess},
	{">", OpGreater},
	{"=", OpEqual},
	{"~", OpApprox},
}

// Blocker is the blocker strength of an atom.
type Blocker int

const (
	NoBlocker Blocker = iota
	WeakBlocker
	StrongBlocker
)

// Dep is a parsed dependency atom such as !>=cat/pkg-1.2:0/1=[foo,-bar].
type Dep struct {
	raw      string
	Blocker  Blocker
	Op       Operator
	Category string
	Package  string
	Version  *Version
	Slot     string
	Subslot  string
	SlotOp   bool
	Repo     string
	UseDeps  []string
}

// ParseDep parses a single dependency atom.
func ParseDep(s string) (Dep, error) {
	d := Dep{raw: s}
	rest := s

	switch {
	case strings.HasPrefix(rest, "!!"):
		d.Blocker = StrongBlocker
		rest = rest[2:]
	case strings.HasPrefix(rest, "!"):
		d.Blocker = WeakBlocker
		rest = rest[1:]
	}

	for _, p := range operatorPrefixes {
		if strings.HasPrefix(rest, p.prefix) {
			d.Op = p.op
			rest = rest[len(p.prefix):]

			break
		}
	}

	if i := strings.Index(rest, "["); i >= 0 {
		if !strings.HasSuffix(rest, "]") {
			return Dep{}, fmt.Errorf("%w: %q: unterminated use deps", ErrInvalidDep, s)
		}

		for _, u := range strings.Split(rest[i+1:len(rest)-1], ",") {
			if u == "" {
				return Dep{}, fmt.Errorf("%w: %q: empty use dep", ErrInvalidDep, s)
			}

			d.UseDeps = append(d.UseDeps, u)
		}

		rest = rest[:i]
	}

	if i := strings.Index(rest, "::"); i >= 0 {
		d.Repo = rest[i+2:]
		if d.Repo == "" {
			return Dep{}, fmt.Errorf("%w: %q: empty repo", ErrInvalidDep, s)
		}

		rest = rest[:i]
	}

	if i := strings.Index(rest, ":"); i >= 0 {
		if err := d.parseSlot(rest[i+1:]); err != nil {
			return Dep{}, fmt.Errorf("%w: %q: %w", ErrInvalidDep, s, err)
		}

		rest = rest[:i]
	}

	cat, pkg, ok := strings.Cut(rest, "/")
	if !ok || !ValidCategory(cat) {
		return Dep{}, fmt.Errorf("%w: %q: invalid category", ErrInvalidDep, s)
	}

	d.Category = cat

	if d.Op == OpNone {
		if !ValidPackage(pkg) {
			return Dep{}, fmt.Errorf("%w: %q: invalid package", ErrInvalidDep, s)
		}

		d.Package = pkg

		return d, nil
	}

	if d.Op == OpEqual && strings.HasSuffix(pkg, "*") {
		d.Op = OpEqualGlob
		pkg = strings.TrimSuffix(pkg, "*")
	}

	name, ver, err := SplitPackageVersion(pkg)
	if err != nil {
		return Dep{}, fmt.Errorf("%w: %q: missing version", ErrInvalidDep, s)
	}

	d.Package = name
	d.Version = &ver

	return d, nil
}

func (d *Dep) parseSlot(s string) error {
	if strings.HasSuffix(s, "=") {
		d.SlotOp = true
		s = strings.TrimSuffix(s, "=")
	}

	if s == "*" {
		d.Slot = s
		return nil
	}

	slot, sub, hasSub := strings.Cut(s, "/")
	if slot == "" && (hasSub || !d.SlotOp) {
		return errors.New("empty slot")
	}

	if hasSub && sub == "" {
		return errors.New("empty subslot")
	}

	d.Slot = slot
	d.Subslot = sub

	return nil
}

func (d Dep) String() string {
	return d.raw
}

// Cpn returns the unversioned category/package the atom refers to.
func (d Dep) Cpn() string {
	return d.Category + "/" + d.Package
}

// Matches reports whether cpv satisfies the atom's name and version parts.
// Slots, use deps and blockers are not considered.
func (d Dep) Matches(cpv Cpv) bool {
	if cpv.Category != d.Category || cpv.Package != d.Package {
		return false
	}

	if d.Version == nil {
		return true
	}

	switch d.Op {
	case OpLess:
		return cpv.Version.Compare(*d.Version) < 0
	case OpLessOrEqual:
		return cpv.Version.Compare(*d.Version) <= 0
	case OpEqual:
		return cpv.Version.Compare(*d.Version) == 0
	case OpEqualGlob:
		return strings.HasPrefix(cpv.Version.String(), d.Version.String())
	case OpApprox:
		return cpv.Version.CompareWithoutRevision(*d.Version) == 0
	case OpGreaterOrEqual:
		return cpv.Version.Compare(*d.Version) >= 0
	case OpGreater:
		return cpv.Version.Compare(*d.Version) > 0
	}

	return true
}
