package adapter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParse is returned when recipe text cannot be parsed.
var ErrParse = errors.New("parse error")

// NodeKind identifies the syntactic element a Node represents.
type NodeKind int

const (
	// NodeBlank is an empty line.
	NodeBlank NodeKind = iota
	// NodeComment is a full-line comment.
	NodeComment
	// NodeAssignment is a global VAR=value or VAR+=value assignment.
	NodeAssignment
	// NodeCommand is a simple command such as inherit.
	NodeCommand
	// NodeFunction is a function definition including its body.
	NodeFunction
)

// Node is one top-level element of a recipe.
type Node struct {
	Kind NodeKind
	// Name is the variable, command or function name.
	Name string
	// Value is the unquoted assignment value or the comment text.
	Value  string
	Append bool
	Args   []string
	Line   int
	// EndLine is the last line the node spans.
	EndLine int
}

// Tree is the parsed form of a recipe.
type Tree struct {
	Nodes []Node
}

// Assignments returns the global variable assignments in source order.
func (t *Tree) Assignments() []Node {
	var out []Node

	for _, n := range t.Nodes {
		if n.Kind == NodeAssignment {
			out = append(out, n)
		}
	}

	return out
}

// Commands returns the top-level commands named name.
func (t *Tree) Commands(name string) []Node {
	var out []Node

	for _, n := range t.Nodes {
		if n.Kind == NodeCommand && n.Name == name {
			out = append(out, n)
		}
	}

	return out
}

// Functions returns the names of defined functions.
func (t *Tree) Functions() []string {
	var out []string

	for _, n := range t.Nodes {
		if n.Kind == NodeFunction {
			out = append(out, n.Name)
		}
	}

	return out
}

// RecipeParser turns raw recipe text into a Tree so checks and the build pool
// share one syntactic view of a recipe.
type RecipeParser interface {
	Parse(raw []byte) (*Tree, error)
}

// ShellRecipeParser parses the line-oriented shell subset recipes are written in.
type ShellRecipeParser struct{}

// NewShellRecipeParser constructs a ShellRecipeParser.
func NewShellRecipeParser() *ShellRecipeParser {
	return &ShellRecipeParser{}
}

var (
	assignmentRe = regexp.MustCompile(`^(?:export\s+)?([A-Za-z_][A-Za-z0-9_]*)(\+?)=(.*)$`)
	functionRe   = regexp.MustCompile(`^(?:function\s+)?([A-Za-z_][A-Za-z0-9_:.-]*)\s*\(\s*\)\s*(\{)?\s*$`)
)

// Parse parses raw into a Tree.
func (p *ShellRecipeParser) Parse(raw []byte) (*Tree, error) {
	lines := strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
	if len(raw) == 0 {
		lines = nil
	}

	tree := &Tree{}

	for i := 0; i < len(lines); i++ {
		lineNo := i + 1
		line := strings.TrimSpace(lines[i])

		switch {
		case line == "":
			tree.Nodes = append(tree.Nodes, Node{Kind: NodeBlank, Line: lineNo, EndLine: lineNo})
		case strings.HasPrefix(line, "#"):
			tree.Nodes = append(tree.Nodes, Node{Kind: NodeComment, Value: line, Line: lineNo, EndLine: lineNo})
		case functionRe.MatchString(line):
			end, err := functionEnd(lines, i, functionRe.FindStringSubmatch(line)[2] != "")
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrParse, lineNo, err)
			}

			name := functionRe.FindStringSubmatch(line)[1]
			tree.Nodes = append(tree.Nodes, Node{Kind: NodeFunction, Name: name, Line: lineNo, EndLine: end + 1})
			i = end
		case assignmentRe.MatchString(line):
			m := assignmentRe.FindStringSubmatch(line)

			value, end, err := readValue(lines, i, m[3])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrParse, lineNo, err)
			}

			tree.Nodes = append(tree.Nodes, Node{
				Kind:    NodeAssignment,
				Name:    m[1],
				Value:   value,
				Append:  m[2] == "+",
				Line:    lineNo,
				EndLine: end + 1,
			})
			i = end
		default:
			text := line
			end := i

			for strings.HasSuffix(text, "\\") {
				if end+1 >= len(lines) {
					return nil, fmt.Errorf("%w: line %d: unterminated line continuation", ErrParse, lineNo)
				}

				end++
				text = strings.TrimSuffix(text, "\\") + " " + strings.TrimSpace(lines[end])
			}

			fields, err := splitWords(text)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrParse, lineNo, err)
			}

			tree.Nodes = append(tree.Nodes, Node{
				Kind:    NodeCommand,
				Name:    fields[0],
				Args:    fields[1:],
				Line:    lineNo,
				EndLine: end + 1,
			})
			i = end
		}
	}

	return tree, nil
}

// functionEnd finds the closing brace of a function starting at line start.
// Bodies are closed by a line consisting solely of "}".
func functionEnd(lines []string, start int, opened bool) (int, error) {
	i := start + 1
	if !opened {
		if i >= len(lines) || strings.TrimSpace(lines[i]) != "{" {
			return 0, errors.New("expected function body")
		}

		i++
	}

	for ; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == "}" {
			return i, nil
		}
	}

	return 0, errors.New("unterminated function body")
}

// readValue extracts an assignment value, following quoted strings across lines.
func readValue(lines []string, start int, rest string) (string, int, error) {
	if rest == "" {
		return "", start, nil
	}

	quote := rest[0]
	if quote != '"' && quote != '\'' {
		word := rest
		if i := strings.IndexAny(word, " \t"); i >= 0 {
			tail := strings.TrimSpace(word[i:])
			if tail != "" && !strings.HasPrefix(tail, "#") {
				return "", 0, fmt.Errorf("unexpected text after value: %q", tail)
			}

			word = word[:i]
		}

		return word, start, nil
	}

	var b strings.Builder

	text := rest[1:]
	end := start

	for {
		if idx := closingQuote(text, quote); idx >= 0 {
			b.WriteString(text[:idx])

			tail := strings.TrimSpace(text[idx+1:])
			if tail != "" && !strings.HasPrefix(tail, "#") {
				return "", 0, fmt.Errorf("unexpected text after value: %q", tail)
			}

			return b.String(), end, nil
		}

		b.WriteString(text)
		b.WriteByte('\n')

		end++
		if end >= len(lines) {
			return "", 0, fmt.Errorf("unterminated %c quote", quote)
		}

		text = lines[end]
	}
}

func closingQuote(s string, quote byte) int {
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && quote == '"':
			i++
		case s[i] == quote:
			return i
		}
	}

	return -1
}

func splitWords(s string) ([]string, error) {
	var (
		words []string
		cur   strings.Builder
		quote byte
		inTok bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quote = c
			inTok = true
		case c == '#' && !inTok:
			i = len(s)
		case c == ' ' || c == '\t':
			if inTok {
				words = append(words, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteByte(c)
			inTok = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}

	if inTok {
		words = append(words, cur.String())
	}

	if len(words) == 0 {
		return nil, errors.New("empty command")
	}

	return words, nil
}
