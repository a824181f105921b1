package atom

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCpv is returned for malformed category/package-version strings.
var ErrInvalidCpv = errors.New("invalid cpv")

// Cpv is a fully qualified category/package-version.
type Cpv struct {
	Category string
	Package  string
	Version  Version
}

// ParseCpv parses strings of the form cat/pkg-1.2-r3.
func ParseCpv(s string) (Cpv, error) {
	cat, rest, ok := strings.Cut(s, "/")
	if !ok || !ValidCategory(cat) {
		return Cpv{}, fmt.Errorf("%w: %q", ErrInvalidCpv, s)
	}

	pkg, ver, err := SplitPackageVersion(rest)
	if err != nil {
		return Cpv{}, fmt.Errorf("%w: %q", ErrInvalidCpv, s)
	}

	return Cpv{Category: cat, Package: pkg, Version: ver}, nil
}

// SplitPackageVersion splits pkg-1.2 into its name and version parts.
func SplitPackageVersion(s string) (string, Version, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}

		name := s[:i]
		if !ValidPackage(name) {
			continue
		}

		if v, err := ParseVersion(s[i+1:]); err == nil {
			return name, v, nil
		}
	}

	return "", Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
}

// Cpn returns the unversioned category/package name.
func (c Cpv) Cpn() string {
	return c.Category + "/" + c.Package
}

// P returns pkg-version.
func (c Cpv) P() string {
	return c.Package + "-" + c.Version.String()
}

func (c Cpv) String() string {
	return c.Category + "/" + c.P()
}

// Compare orders by category, package and then version.
func (c Cpv) Compare(o Cpv) int {
	if x := strings.Compare(c.Category, o.Category); x != 0 {
		return x
	}

	if x := strings.Compare(c.Package, o.Package); x != 0 {
		return x
	}

	if x := c.Version.Compare(o.Version); x != 0 {
		return x
	}

	return strings.Compare(c.Version.String(), o.Version.String())
}

// ValidCategory reports whether s is a legal category name.
func ValidCategory(s string) bool {
	if s == "" || s[0] == '-' || s[0] == '.' || s[0] == '+' {
		return false
	}

	return validNameChars(s)
}

// ValidPackage reports whether s is a legal package name. Names may not
// end in a hyphen followed by something that parses as a version.
func ValidPackage(s string) bool {
	if s == "" || s[0] == '-' || s[0] == '+' || !validNameChars(s) {
		return false
	}

	if i := strings.LastIndex(s, "-"); i >= 0 {
		if _, err := ParseVersion(s[i+1:]); err == nil {
			return false
		}
	}

	return true
}

func validNameChars(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '+', r == '.':
		default:
			return false
		}
	}

	return true
}
