package adapter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFile names the ignore file of a category or package directory.
const IgnoreFile = ".cruft-ignore"

// RepoIgnoreFile is the repository-wide ignore file, relative to the root.
const RepoIgnoreFile = "metadata/cruft-ignore"

// ignoreComment introduces ignore directives inside a recipe's header.
const ignoreComment = "cruft-ignore:"

// IgnoreDirectives returns the ignore values declared for the repository
// (empty category), a category (empty pkg) or a package. Values are
// separated by whitespace or commas and # starts a comment. A missing file
// declares nothing.
func IgnoreDirectives(repo Repo, category, pkg string) ([]string, error) {
	path := filepath.Join(repo.Path(), filepath.FromSlash(RepoIgnoreFile))
	if category != "" {
		path = filepath.Join(repo.Path(), category, pkg, IgnoreFile)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read ignore file: %w", err)
	}

	var values []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		values = append(values, splitIgnoreValues(line)...)
	}

	return values, scanner.Err()
}

// RecipeIgnoreDirectives returns the values of "# cruft-ignore: ..." lines
// in the comment block at the top of a recipe.
func RecipeIgnoreDirectives(data []byte) []string {
	var values []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		comment, ok := strings.CutPrefix(line, "#")
		if !ok {
			break
		}

		if rest, ok := strings.CutPrefix(strings.TrimSpace(comment), ignoreComment); ok {
			values = append(values, splitIgnoreValues(rest)...)
		}
	}

	return values
}

func splitIgnoreValues(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
