// Package atom implements package version comparison and dependency atom parsing.
package atom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned when a version string does not follow the
// dotted-number grammar.
var ErrInvalidVersion = errors.New("invalid version")

type suffixKind int

// Suffix ordering: _alpha < _beta < _pre < _rc < (none) < _p.
const (
	suffixAlpha suffixKind = iota
	suffixBeta
	suffixPre
	suffixRC
	suffixP
)

var suffixNames = map[string]suffixKind{
	"alpha": suffixAlpha,
	"beta":  suffixBeta,
	"pre":   suffixPre,
	"rc":    suffixRC,
	"p":     suffixP,
}

type suffix struct {
	kind   suffixKind
	number string
}

// Version is a parsed package version such as 1.2.3b_rc4_p1-r2.
type Version struct {
	raw      string
	numbers  []string
	letter   byte
	suffixes []suffix
	revision string
}

// ParseVersion parses a version string.
func ParseVersion(s string) (Version, error) {
	v := Version{raw: s}
	rest := s

	if i := strings.LastIndex(rest, "-r"); i >= 0 {
		rev := rest[i+2:]
		if rev == "" || !isDigits(rev) {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}

		v.revision = rev
		rest = rest[:i]
	}

	parts := strings.Split(rest, "_")
	head := parts[0]

	if head != "" && head[len(head)-1] >= 'a' && head[len(head)-1] <= 'z' {
		v.letter = head[len(head)-1]
		head = head[:len(head)-1]
	}

	for _, n := range strings.Split(head, ".") {
		if n == "" || !isDigits(n) {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}

		v.numbers = append(v.numbers, n)
	}

	for _, p := range parts[1:] {
		sfx, ok := parseSuffix(p)
		if !ok {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}

		v.suffixes = append(v.suffixes, sfx)
	}

	return v, nil
}

func parseSuffix(s string) (suffix, bool) {
	name := strings.TrimRight(s, "0123456789")
	kind, ok := suffixNames[name]

	if !ok {
		return suffix{}, false
	}

	return suffix{kind: kind, number: s[len(name):]}, true
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}

	return v
}

// String returns the version as it was parsed.
func (v Version) String() string {
	return v.raw
}

// WithoutRevision returns the version string with any -rN suffix removed.
func (v Version) WithoutRevision() string {
	if v.revision == "" {
		return v.raw
	}

	return strings.TrimSuffix(v.raw, "-r"+v.revision)
}

// Revision returns the numeric revision, 0 when absent.
func (v Version) Revision() int {
	if v.revision == "" {
		return 0
	}

	n, err := strconv.Atoi(v.revision)
	if err != nil {
		return 0
	}

	return n
}

// HasRevision reports whether the version carries an explicit -rN suffix.
func (v Version) HasRevision() bool {
	return v.revision != ""
}

// IsLive reports whether the version is a live (9999-style) version.
func (v Version) IsLive() bool {
	return len(v.numbers) > 0 && strings.Trim(v.numbers[0], "9") == "" && len(v.numbers[0]) >= 4
}

// Compare returns -1, 0 or 1 comparing v to o.
func (v Version) Compare(o Version) int {
	if c := v.compareNoRevision(o); c != 0 {
		return c
	}

	return compareNumeric(v.revision, o.revision)
}

// CompareWithoutRevision compares ignoring revisions.
func (v Version) CompareWithoutRevision(o Version) int {
	return v.compareNoRevision(o)
}

func (v Version) compareNoRevision(o Version) int {
	if c := compareNumeric(v.numbers[0], o.numbers[0]); c != 0 {
		return c
	}

	for i := 1; i < len(v.numbers) && i < len(o.numbers); i++ {
		a, b := v.numbers[i], o.numbers[i]

		var c int
		if strings.HasPrefix(a, "0") || strings.HasPrefix(b, "0") {
			c = strings.Compare(strings.TrimRight(a, "0"), strings.TrimRight(b, "0"))
		} else {
			c = compareNumeric(a, b)
		}

		if c != 0 {
			return c
		}
	}

	if c := compareInt(len(v.numbers), len(o.numbers)); c != 0 {
		return c
	}

	if c := compareInt(int(v.letter), int(o.letter)); c != 0 {
		return c
	}

	for i := 0; i < len(v.suffixes) && i < len(o.suffixes); i++ {
		a, b := v.suffixes[i], o.suffixes[i]
		if c := compareInt(int(a.kind), int(b.kind)); c != 0 {
			return c
		}

		if c := compareNumeric(a.number, b.number); c != 0 {
			return c
		}
	}

	switch {
	case len(v.suffixes) > len(o.suffixes):
		if v.suffixes[len(o.suffixes)].kind == suffixP {
			return 1
		}

		return -1
	case len(v.suffixes) < len(o.suffixes):
		if o.suffixes[len(v.suffixes)].kind == suffixP {
			return -1
		}

		return 1
	}

	return 0
}

// CompareVersions parses and compares two version strings. Unparsable
// versions sort before valid ones and compare lexically among themselves.
func CompareVersions(a, b string) int {
	va, errA := ParseVersion(a)
	vb, errB := ParseVersion(b)

	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}

	return va.Compare(vb)
}

// compareNumeric compares arbitrarily long digit strings without overflow.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")

	if c := compareInt(len(a), len(b)); c != 0 {
		return c
	}

	return strings.Compare(a, b)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
