// Package adapter contains the infrastructure the scanner reaches through
// interfaces: repositories on disk, the recipe parser, the build pool that
// resolves metadata, its cache and the report store.
package adapter

import (
	"bufio"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cruft.dev/pkg/cruft/pkg/atom"
	"gopkg.in/yaml.v3"
)

// RecipeExt is the file extension of recipe files.
const RecipeExt = ".ebuild"

// nonCategoryDirs are top-level repository directories that never hold packages.
var nonCategoryDirs = map[string]bool{
	"distfiles": true,
	"eclass":    true,
	"licenses":  true,
	"metadata":  true,
	"profiles":  true,
	"scripts":   true,
}

// Repo is a read-only view of a package repository. Iteration methods return
// names in sorted order; versions are sorted by version ordering.
//
//nolint:interfacebloat // Checks need most of these queries.
type Repo interface {
	Name() string
	Path() string
	// Masters returns the inherited repositories, nearest first.
	Masters() []Repo
	Config() *RepoConfig
	Categories() ([]string, error)
	Packages(category string) ([]string, error)
	Versions(category, pkg string) ([]atom.Cpv, error)
	// HasPackage reports whether the repo carries at least one version of
	// cat/pkg. A missing package is not an error.
	HasPackage(category, pkg string) (bool, error)
	ReadRecipe(cpv atom.Cpv) ([]byte, error)
	// Eclass returns the text of an eclass, searching this repo before its masters.
	Eclass(name string) ([]byte, error)
	// HashRecipe fingerprints a recipe for cache invalidation.
	HashRecipe(cpv atom.Cpv) (string, error)
}

// layoutFile is metadata/layout.yaml.
type layoutFile struct {
	Masters         []string `yaml:"masters"`
	EapisBanned     []string `yaml:"eapis-banned"`
	EapisDeprecated []string `yaml:"eapis-deprecated"`
	EapisTesting    []string `yaml:"eapis-testing"`
}

// RepoConfig is repository-level metadata loaded once when a repo is opened.
// Arches, Categories and Licenses include those inherited from masters.
type RepoConfig struct {
	Name               string
	Masters            []string
	EapisBanned        []string
	EapisDeprecated    []string
	EapisTesting       []string
	Arches             []string
	Categories         []string
	Licenses           []string
	LicenseGroups      map[string][]string
	Eclasses           []string
	DeprecatedPackages []atom.Dep
}

// LocalRepo is a Repo backed by a directory tree.
type LocalRepo struct {
	path    string
	config  *RepoConfig
	masters []Repo
}

// OpenRepo loads the repository rooted at path. Masters named in
// metadata/layout.yaml are resolved as sibling directories.
func OpenRepo(path string) (*LocalRepo, error) {
	return openRepo(path, map[string]bool{})
}

func openRepo(path string, seen map[string]bool) (*LocalRepo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve repo path %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open repo %s: %w", abs, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("open repo %s: not a directory", abs)
	}

	if seen[abs] {
		return nil, fmt.Errorf("open repo %s: cyclic masters", abs)
	}

	seen[abs] = true

	repo := &LocalRepo{path: abs}

	cfg, err := repo.loadConfig()
	if err != nil {
		return nil, err
	}

	for _, name := range cfg.Masters {
		masterPath := name
		if !filepath.IsAbs(masterPath) {
			masterPath = filepath.Join(filepath.Dir(abs), name)
		}

		master, err := openRepo(masterPath, seen)
		if err != nil {
			return nil, fmt.Errorf("repo %s: master %s: %w", cfg.Name, name, err)
		}

		repo.masters = append(repo.masters, master)
	}

	for _, m := range repo.masters {
		mc := m.Config()
		cfg.Arches = mergeSorted(cfg.Arches, mc.Arches)
		cfg.Categories = mergeSorted(cfg.Categories, mc.Categories)
		cfg.Licenses = mergeSorted(cfg.Licenses, mc.Licenses)
	}

	repo.config = cfg

	slog.Debug("opened repo", "name", cfg.Name, "path", abs, "masters", cfg.Masters)

	return repo, nil
}

func (r *LocalRepo) loadConfig() (*RepoConfig, error) {
	cfg := &RepoConfig{LicenseGroups: map[string][]string{}}

	names, err := r.readLines("profiles", "repo_name")
	if err != nil {
		return nil, err
	}

	if len(names) > 0 {
		cfg.Name = names[0]
	} else {
		cfg.Name = filepath.Base(r.path)
	}

	var layout layoutFile

	data, err := os.ReadFile(filepath.Join(r.path, "metadata", "layout.yaml"))

	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read layout: %w", err)
	default:
		if err := yaml.Unmarshal(data, &layout); err != nil {
			return nil, fmt.Errorf("parse %s layout: %w", cfg.Name, err)
		}
	}

	cfg.Masters = layout.Masters
	cfg.EapisBanned = layout.EapisBanned
	cfg.EapisDeprecated = layout.EapisDeprecated
	cfg.EapisTesting = layout.EapisTesting

	if cfg.Arches, err = r.readLines("profiles", "arch.list"); err != nil {
		return nil, err
	}

	if cfg.Categories, err = r.readLines("profiles", "categories"); err != nil {
		return nil, err
	}

	slices.Sort(cfg.Arches)
	slices.Sort(cfg.Categories)

	if cfg.Licenses, err = r.listFiles("licenses", ""); err != nil {
		return nil, err
	}

	if cfg.Eclasses, err = r.listFiles("eclass", ".eclass"); err != nil {
		return nil, err
	}

	groups, err := r.readLines("profiles", "license_groups")
	if err != nil {
		return nil, err
	}

	for _, line := range groups {
		fields := strings.Fields(line)
		if len(fields) > 1 {
			cfg.LicenseGroups[fields[0]] = fields[1:]
		}
	}

	deprecated, err := r.readLines("profiles", "package.deprecated")
	if err != nil {
		return nil, err
	}

	for _, line := range deprecated {
		dep, err := atom.ParseDep(line)
		if err != nil {
			slog.Warn("ignoring invalid deprecated package entry", "repo", cfg.Name, "entry", line, "error", err)
			continue
		}

		cfg.DeprecatedPackages = append(cfg.DeprecatedPackages, dep)
	}

	return cfg, nil
}

// readLines returns the non-empty, non-comment lines of a file, or nil when it doesn't exist.
func (r *LocalRepo) readLines(elem ...string) ([]string, error) {
	f, err := os.Open(filepath.Join(append([]string{r.path}, elem...)...))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	var lines []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lines = append(lines, line)
	}

	return lines, scanner.Err()
}

func (r *LocalRepo) listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.path, dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}

		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}

	slices.Sort(names)

	return names, nil
}

func (r *LocalRepo) listDirs(elem ...string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(append([]string{r.path}, elem...)...))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)

	return names, nil
}

// Name returns the repository name from profiles/repo_name.
func (r *LocalRepo) Name() string {
	return r.config.Name
}

// Path returns the absolute repository root.
func (r *LocalRepo) Path() string {
	return r.path
}

// Masters returns the repositories this one inherits from.
func (r *LocalRepo) Masters() []Repo {
	return r.masters
}

// Config returns repository metadata.
func (r *LocalRepo) Config() *RepoConfig {
	return r.config
}

// Categories returns the category directories present on disk.
func (r *LocalRepo) Categories() ([]string, error) {
	dirs, err := r.listDirs()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	cats := dirs[:0]
	for _, d := range dirs {
		if !nonCategoryDirs[d] && atom.ValidCategory(d) {
			cats = append(cats, d)
		}
	}

	return cats, nil
}

// Packages returns the package directories inside category.
func (r *LocalRepo) Packages(category string) ([]string, error) {
	dirs, err := r.listDirs(category)
	if err != nil {
		return nil, fmt.Errorf("list packages in %s: %w", category, err)
	}

	pkgs := dirs[:0]
	for _, d := range dirs {
		if atom.ValidPackage(d) {
			pkgs = append(pkgs, d)
		}
	}

	return pkgs, nil
}

// Versions returns the versions of cat/pkg with recipe files, in version order.
// Files whose names don't parse are skipped.
func (r *LocalRepo) Versions(category, pkg string) ([]atom.Cpv, error) {
	entries, err := os.ReadDir(filepath.Join(r.path, category, pkg))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("list versions of %s/%s: %w", category, pkg, err)
	}

	var cpvs []atom.Cpv

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, RecipeExt) {
			continue
		}

		cpv, err := atom.ParseCpv(category + "/" + strings.TrimSuffix(name, RecipeExt))
		if err != nil || cpv.Package != pkg {
			slog.Debug("skipping invalid recipe file", "path", filepath.Join(category, pkg, name))
			continue
		}

		cpvs = append(cpvs, cpv)
	}

	slices.SortFunc(cpvs, atom.Cpv.Compare)

	return cpvs, nil
}

// HasPackage reports whether cat/pkg has any recipe file.
func (r *LocalRepo) HasPackage(category, pkg string) (bool, error) {
	cpvs, err := r.Versions(category, pkg)
	if err != nil {
		return false, err
	}

	return len(cpvs) > 0, nil
}

// RecipePath returns the on-disk location of a recipe.
func (r *LocalRepo) RecipePath(cpv atom.Cpv) string {
	return filepath.Join(r.path, cpv.Category, cpv.Package, cpv.P()+RecipeExt)
}

// ReadRecipe loads recipe text.
func (r *LocalRepo) ReadRecipe(cpv atom.Cpv) ([]byte, error) {
	data, err := os.ReadFile(r.RecipePath(cpv))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cpv, err)
	}

	return data, nil
}

// Eclass loads an eclass from this repo or the nearest master that has it.
func (r *LocalRepo) Eclass(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(r.path, "eclass", name+".eclass"))
	if err == nil {
		return data, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read eclass %s: %w", name, err)
	}

	for _, m := range r.masters {
		if data, err := m.Eclass(name); err == nil {
			return data, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("eclass %s: %w", name, fs.ErrNotExist)
}

// HashRecipe returns the SHA-256 of the recipe text.
func (r *LocalRepo) HashRecipe(cpv atom.Cpv) (string, error) {
	data, err := r.ReadRecipe(cpv)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

func mergeSorted(a, b []string) []string {
	out := slices.Concat(a, b)
	slices.Sort(out)

	return slices.Compact(out)
}
