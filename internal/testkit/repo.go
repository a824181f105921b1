// Package testkit builds throwaway repositories on disk for tests.
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cruft.dev/pkg/cruft/pkg/atom"
	"github.com/stretchr/testify/require"
)

// Header is a valid copyright header for recipes.
const Header = "# Copyright 2024 Gentoo Authors\n# Distributed under the terms of the GNU General Public License v2\n"

// RepoBuilder writes a repository tree under a temporary directory.
type RepoBuilder struct {
	t    testing.TB
	root string
}

// NewRepo creates an empty repository called name in a fresh temp dir.
func NewRepo(t testing.TB, name string) *RepoBuilder {
	t.Helper()

	return NewRepoIn(t, t.TempDir(), name)
}

// NewRepoIn creates a repository called name inside parent, so several repos
// can live side by side as masters and overlays.
func NewRepoIn(t testing.TB, parent, name string) *RepoBuilder {
	t.Helper()

	b := &RepoBuilder{t: t, root: filepath.Join(parent, name)}
	b.File("profiles/repo_name", name+"\n")

	return b
}

// Path returns the repository root.
func (b *RepoBuilder) Path() string {
	return b.root
}

// Parent returns the directory holding the repository.
func (b *RepoBuilder) Parent() string {
	return filepath.Dir(b.root)
}

// File writes content to a path relative to the repository root.
func (b *RepoBuilder) File(rel, content string) *RepoBuilder {
	b.t.Helper()

	p := filepath.Join(b.root, rel)
	require.NoError(b.t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(b.t, os.WriteFile(p, []byte(content), 0o644))

	return b
}

// Dir creates an empty directory relative to the repository root.
func (b *RepoBuilder) Dir(rel string) *RepoBuilder {
	b.t.Helper()
	require.NoError(b.t, os.MkdirAll(filepath.Join(b.root, rel), 0o755))

	return b
}

// Layout writes metadata/layout.yaml.
func (b *RepoBuilder) Layout(yaml string) *RepoBuilder {
	return b.File("metadata/layout.yaml", yaml)
}

// Categories declares categories in profiles/categories.
func (b *RepoBuilder) Categories(cats ...string) *RepoBuilder {
	return b.File("profiles/categories", lines(cats))
}

// Arches declares arches in profiles/arch.list.
func (b *RepoBuilder) Arches(arches ...string) *RepoBuilder {
	return b.File("profiles/arch.list", lines(arches))
}

// Licenses creates license files.
func (b *RepoBuilder) Licenses(names ...string) *RepoBuilder {
	for _, n := range names {
		b.File("licenses/"+n, n+"\n")
	}

	return b
}

// Eclass writes eclass/<name>.eclass.
func (b *RepoBuilder) Eclass(name, content string) *RepoBuilder {
	return b.File("eclass/"+name+".eclass", content)
}

// Ebuild writes the recipe for cpv.
func (b *RepoBuilder) Ebuild(cpv, content string) *RepoBuilder {
	b.t.Helper()

	parsed, err := atom.ParseCpv(cpv)
	require.NoError(b.t, err)

	return b.File(filepath.Join(parsed.Category, parsed.Package, parsed.P()+".ebuild"), content)
}

// Recipe renders a minimal valid recipe with the given EAPI followed by extra
// lines. SLOT="0" is added in its conventional position unless provided.
func Recipe(eapi string, extra ...string) string {
	var (
		sb     strings.Builder
		before []string
		after  []string
	)

	hasSlot := false

	for _, line := range extra {
		key, _, _ := strings.Cut(line, "=")

		switch key {
		case "SRC_URI", "S", "LICENSE":
			before = append(before, line)
		case "SLOT":
			hasSlot = true
			before = append(before, line)
		default:
			after = append(after, line)
		}
	}

	if !hasSlot {
		before = append(before, `SLOT="0"`)
	}

	sb.WriteString(Header)
	sb.WriteString("\nEAPI=" + eapi + "\n\n")
	sb.WriteString("DESCRIPTION=\"test package\"\n")
	sb.WriteString("HOMEPAGE=\"https://example.org\"\n")

	for _, line := range append(before, after...) {
		sb.WriteString(line + "\n")
	}

	return sb.String()
}

func lines(items []string) string {
	if len(items) == 0 {
		return ""
	}

	return strings.Join(items, "\n") + "\n"
}
