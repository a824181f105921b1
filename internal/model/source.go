// Package model defines the value types shared by the scanner, checks and reporters.
package model

import (
	"fmt"
	"strings"
)

// Scope is the granularity a check or report targets. Scopes are ordered by
// containment: Version < Package < Category < Repo.
type Scope int

const (
	// ScopeVersion targets a single package version.
	ScopeVersion Scope = iota
	// ScopePackage targets all versions of a package.
	ScopePackage
	// ScopeCategory targets a category.
	ScopeCategory
	// ScopeRepo targets the whole repository.
	ScopeRepo
)

var scopeNames = [...]string{"version", "package", "category", "repo"}

func (s Scope) String() string {
	if s < 0 || int(s) >= len(scopeNames) {
		return fmt.Sprintf("scope(%d)", int(s))
	}

	return scopeNames[s]
}

// ParseScope parses the lowercase scope name.
func ParseScope(s string) (Scope, error) {
	for i, name := range scopeNames {
		if strings.EqualFold(s, name) {
			return Scope(i), nil
		}
	}

	return 0, InvalidValueError{Kind: "scope", Value: s}
}

// SourceKind is the shape of input a check consumes.
type SourceKind int

const (
	// SourceRaw is the unparsed recipe text.
	SourceRaw SourceKind = iota
	// SourceTree is the parsed recipe syntax tree.
	SourceTree
	// SourceResolved is the metadata produced by sourcing the recipe.
	SourceResolved
	// SourceCoordinate is a bare category/package coordinate.
	SourceCoordinate
	// SourceRepo is the whole repository.
	SourceRepo
)

var sourceNames = [...]string{"raw", "tree", "resolved", "coordinate", "repo"}

func (k SourceKind) String() string {
	if k < 0 || int(k) >= len(sourceNames) {
		return fmt.Sprintf("source(%d)", int(k))
	}

	return sourceNames[k]
}

// InvalidValueError reports an unknown or malformed configuration value.
type InvalidValueError struct {
	Kind   string
	Value  string
	Reason string
}

func (e InvalidValueError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Value, e.Reason)
	}

	return fmt.Sprintf("invalid %s: %q", e.Kind, e.Value)
}
