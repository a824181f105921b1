package atom

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDepSet is returned for malformed dependency-style expressions.
var ErrInvalidDepSet = errors.New("invalid dependency set")

// DepSetEntry is a single leaf of a dependency-style expression along with
// the groups it is nested in.
type DepSetEntry struct {
	Value string
	// AnyOf is set when the leaf sits anywhere inside an || ( ) group.
	AnyOf bool
	// Conditionals holds the enclosing use conditionals, outermost first.
	Conditionals []string
}

type depSetFrame struct {
	anyOf       bool
	conditional string
}

// FlattenDepSet walks a dependency-style expression (DEPEND, LICENSE,
// RESTRICT and friends) and returns its leaves in order. Group operators
// and use conditionals are consumed; parentheses must balance.
func FlattenDepSet(s string) ([]DepSetEntry, error) {
	var (
		entries []DepSetEntry
		stack   []depSetFrame
		pending *depSetFrame
	)

	current := func() depSetFrame {
		if len(stack) == 0 {
			return depSetFrame{}
		}

		return stack[len(stack)-1]
	}

	for _, tok := range strings.Fields(s) {
		if pending != nil && tok != "(" {
			return nil, fmt.Errorf("%w: expected ( after %q", ErrInvalidDepSet, pending.conditional)
		}

		switch {
		case tok == "||" || tok == "^^" || tok == "??":
			pending = &depSetFrame{anyOf: tok == "||" || current().anyOf, conditional: tok}
		case strings.HasSuffix(tok, "?"):
			if len(tok) == 1 || tok == "!?" {
				return nil, fmt.Errorf("%w: empty conditional", ErrInvalidDepSet)
			}

			pending = &depSetFrame{anyOf: current().anyOf, conditional: tok}
		case tok == "(":
			frame := depSetFrame{anyOf: current().anyOf}
			if pending != nil {
				frame = *pending
				pending = nil
			}

			stack = append(stack, frame)
		case tok == ")":
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unbalanced )", ErrInvalidDepSet)
			}

			stack = stack[:len(stack)-1]
		default:
			entry := DepSetEntry{Value: tok, AnyOf: current().anyOf}
			for _, f := range stack {
				if f.conditional != "??" && strings.HasSuffix(f.conditional, "?") {
					entry.Conditionals = append(entry.Conditionals, f.conditional)
				}
			}

			entries = append(entries, entry)
		}
	}

	if pending != nil {
		return nil, fmt.Errorf("%w: dangling %q", ErrInvalidDepSet, pending.conditional)
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unbalanced (", ErrInvalidDepSet)
	}

	return entries, nil
}

// Leaves returns only the leaf values of a dependency-style expression.
func Leaves(s string) ([]string, error) {
	entries, err := FlattenDepSet(s)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Value)
	}

	return out, nil
}

// ParsedDep is a dependency atom found inside a dependency set.
type ParsedDep struct {
	Dep   Dep
	AnyOf bool
}

// ParseDepSet flattens s and parses every leaf as a dependency atom.
func ParseDepSet(s string) ([]ParsedDep, error) {
	entries, err := FlattenDepSet(s)
	if err != nil {
		return nil, err
	}

	deps := make([]ParsedDep, 0, len(entries))
	for _, e := range entries {
		d, err := ParseDep(e.Value)
		if err != nil {
			return nil, err
		}

		deps = append(deps, ParsedDep{Dep: d, AnyOf: e.AnyOf})
	}

	return deps, nil
}

// ConditionalFlags returns the flags of conditional use deps (foo?, !foo?,
// foo=, !foo=) with any default markers stripped.
func (d Dep) ConditionalFlags() []string {
	var flags []string

	for _, u := range d.UseDeps {
		if !strings.HasSuffix(u, "?") && !strings.HasSuffix(u, "=") {
			continue
		}

		flag := strings.TrimPrefix(u[:len(u)-1], "!")
		if i := strings.Index(flag, "("); i >= 0 {
			flag = flag[:i]
		}

		flags = append(flags, flag)
	}

	return flags
}

// WithoutUseDeps returns the atom string with its use dependencies removed.
func (d Dep) WithoutUseDeps() string {
	if i := strings.Index(d.raw, "["); i >= 0 {
		return d.raw[:i]
	}

	return d.raw
}
