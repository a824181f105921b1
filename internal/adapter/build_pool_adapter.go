package adapter

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"

	"cruft.dev/pkg/cruft/pkg/atom"
	"golang.org/x/sync/semaphore"
)

// SupportedEAPIs lists the EAPIs the interpreter understands.
var SupportedEAPIs = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}

// incrementalVars accumulate across eclasses and the recipe instead of being overwritten.
var incrementalVars = []string{"IUSE", "REQUIRED_USE", "BDEPEND", "DEPEND", "IDEPEND", "PDEPEND", "RDEPEND"}

// BuildPool generates package metadata by sourcing recipes.
type BuildPool interface {
	// Metadata returns the resolved metadata for cpv. Packages that fail to
	// source yield an *InvalidPkgError; any other error is fatal.
	Metadata(ctx context.Context, repo Repo, cpv atom.Cpv, force, verify bool) (*Pkg, error)
}

// LocalBuildPool sources recipes with a fixed number of reusable interpreters.
type LocalBuildPool struct {
	parser  RecipeParser
	cache   MetadataCache
	timeout time.Duration
	sem     *semaphore.Weighted
	interps chan *interpreter
}

// BuildPoolOption configures a LocalBuildPool.
type BuildPoolOption func(*LocalBuildPool)

// WithPoolCache stores and reuses generated metadata.
func WithPoolCache(cache MetadataCache) BuildPoolOption {
	return func(p *LocalBuildPool) {
		p.cache = cache
	}
}

// WithPoolTimeout bounds the time spent sourcing a single recipe.
func WithPoolTimeout(d time.Duration) BuildPoolOption {
	return func(p *LocalBuildPool) {
		p.timeout = d
	}
}

// NewLocalBuildPool creates a pool with size interpreters (minimum 1).
func NewLocalBuildPool(parser RecipeParser, size int, opts ...BuildPoolOption) *LocalBuildPool {
	if size < 1 {
		size = 1
	}

	p := &LocalBuildPool{
		parser:  parser,
		timeout: 30 * time.Second,
		sem:     semaphore.NewWeighted(int64(size)),
		interps: make(chan *interpreter, size),
	}

	for range size {
		p.interps <- newInterpreter(parser)
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Metadata resolves cpv, consulting the cache unless force is set. With
// verify set, cached entries are also checked against current eclass text.
func (p *LocalBuildPool) Metadata(ctx context.Context, repo Repo, cpv atom.Cpv, force, verify bool) (*Pkg, error) {
	hash, err := repo.HashRecipe(cpv)
	if err != nil {
		return nil, err
	}

	if !force {
		if pkg, ok := p.cached(repo, cpv, hash, verify); ok {
			return pkg, nil
		}
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	interp := <-p.interps
	defer func() { p.interps <- interp }()

	srcCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	pkg, eclasses, err := interp.source(srcCtx, repo, cpv)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &InvalidPkgError{Cpv: cpv, Err: fmt.Errorf("sourcing timed out after %s", p.timeout)}
		}

		return nil, err
	}

	if p.cache != nil {
		entry := &CacheEntry{Hash: hash, Eclasses: eclasses, Pkg: *pkg}
		if err := p.cache.Put(repo.Name(), cpv, entry); err != nil {
			slog.Warn("failed to cache metadata", "cpv", cpv.String(), "error", err)
		}
	}

	return pkg, nil
}

func (p *LocalBuildPool) cached(repo Repo, cpv atom.Cpv, hash string, verify bool) (*Pkg, bool) {
	if p.cache == nil {
		return nil, false
	}

	entry, ok, err := p.cache.Get(repo.Name(), cpv)
	if err != nil {
		slog.Debug("ignoring unreadable cache entry", "cpv", cpv.String(), "error", err)
		return nil, false
	}

	if !ok || entry.Hash != hash {
		return nil, false
	}

	if verify {
		for name, sum := range entry.Eclasses {
			data, err := repo.Eclass(name)
			if err != nil || hashBytes(data) != sum {
				return nil, false
			}
		}
	}

	return &entry.Pkg, true
}

func hashBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// interpreter evaluates the global scope of recipes and eclasses. It is
// single-threaded and reused across calls; state is reset per source.
type interpreter struct {
	parser      RecipeParser
	env         map[string]string
	incremental map[string][]string
	inheriting  map[string]bool
	inherited   []string
	eclassSums  map[string]string
}

func newInterpreter(parser RecipeParser) *interpreter {
	return &interpreter{
		parser:      parser,
		env:         map[string]string{},
		incremental: map[string][]string{},
		inheriting:  map[string]bool{},
		eclassSums:  map[string]string{},
	}
}

func (in *interpreter) reset(cpv atom.Cpv) {
	clear(in.env)
	clear(in.incremental)
	clear(in.inheriting)
	in.inherited = nil
	in.eclassSums = map[string]string{}

	pv := cpv.Version.WithoutRevision()
	pr := fmt.Sprintf("r%d", cpv.Version.Revision())

	in.env["CATEGORY"] = cpv.Category
	in.env["PN"] = cpv.Package
	in.env["PV"] = pv
	in.env["PR"] = pr
	in.env["PVR"] = cpv.Version.String()
	in.env["P"] = cpv.Package + "-" + pv
	in.env["PF"] = cpv.P()
}

func (in *interpreter) source(ctx context.Context, repo Repo, cpv atom.Cpv) (*Pkg, map[string]string, error) {
	raw, err := repo.ReadRecipe(cpv)
	if err != nil {
		return nil, nil, err
	}

	tree, err := in.parser.Parse(raw)
	if err != nil {
		return nil, nil, &InvalidPkgError{Cpv: cpv, Err: err}
	}

	in.reset(cpv)

	var direct []string

	for _, cmd := range tree.Commands("inherit") {
		direct = append(direct, cmd.Args...)
	}

	if err := in.eval(ctx, repo, tree); err != nil {
		var invalid *InvalidPkgError
		if errors.As(err, &invalid) {
			invalid.Cpv = cpv
		}

		return nil, nil, err
	}

	pkg, err := in.finalize(cpv, repo.Name(), direct, tree.Functions())
	if err != nil {
		return nil, nil, &InvalidPkgError{Cpv: cpv, Err: err}
	}

	return pkg, maps.Clone(in.eclassSums), nil
}

func (in *interpreter) eval(ctx context.Context, repo Repo, tree *Tree) error {
	for _, node := range tree.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch node.Kind {
		case NodeAssignment:
			value := in.expand(node.Value)
			if node.Append && in.env[node.Name] != "" {
				value = in.env[node.Name] + " " + value
			}

			in.env[node.Name] = value
		case NodeCommand:
			switch node.Name {
			case "inherit":
				for _, name := range node.Args {
					if err := in.inherit(ctx, repo, in.expand(name)); err != nil {
						return err
					}
				}
			case "die":
				return &InvalidPkgError{Err: fmt.Errorf("die called in global scope: %s", strings.Join(node.Args, " "))}
			}
		}
	}

	return nil
}

func (in *interpreter) inherit(ctx context.Context, repo Repo, name string) error {
	if in.inheriting[name] || slices.Contains(in.inherited, name) {
		return nil
	}

	data, err := repo.Eclass(name)
	if errors.Is(err, fs.ErrNotExist) {
		return &InvalidPkgError{Err: fmt.Errorf("unknown eclass: %s", name)}
	}

	if err != nil {
		return err
	}

	tree, err := in.parser.Parse(data)
	if err != nil {
		return &InvalidPkgError{Err: fmt.Errorf("eclass %s: %w", name, err)}
	}

	in.inheriting[name] = true
	defer delete(in.inheriting, name)

	saved := make(map[string]string, len(incrementalVars))
	for _, v := range incrementalVars {
		saved[v] = in.env[v]
		delete(in.env, v)
	}

	if err := in.eval(ctx, repo, tree); err != nil {
		return err
	}

	for _, v := range incrementalVars {
		if val := strings.TrimSpace(in.env[v]); val != "" {
			in.incremental[v] = append(in.incremental[v], val)
		}

		in.env[v] = saved[v]
	}

	in.inherited = append(in.inherited, name)
	in.eclassSums[name] = hashBytes(data)

	return nil
}

var expandRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

func (in *interpreter) expand(s string) string {
	return expandRe.ReplaceAllStringFunc(s, func(m string) string {
		name := strings.Trim(m, "${}")
		return in.env[name]
	})
}

func (in *interpreter) combined(name string) string {
	parts := slices.Clone(in.incremental[name])
	if v := strings.TrimSpace(in.env[name]); v != "" {
		parts = append(parts, v)
	}

	return strings.Join(parts, " ")
}

func (in *interpreter) finalize(cpv atom.Cpv, repo string, direct, functions []string) (*Pkg, error) {
	eapi := in.env["EAPI"]
	if eapi == "" {
		eapi = "0"
	}

	if !slices.Contains(SupportedEAPIs, eapi) {
		return nil, fmt.Errorf("unsupported EAPI: %s", eapi)
	}

	for _, name := range []string{"DESCRIPTION", "SLOT"} {
		if strings.TrimSpace(in.env[name]) == "" {
			return nil, fmt.Errorf("missing required variable: %s", name)
		}
	}

	slot, subslot, _ := strings.Cut(strings.TrimSpace(in.env["SLOT"]), "/")

	pkg := &Pkg{
		Cpv:         cpv,
		Repo:        repo,
		EAPI:        eapi,
		Description: strings.TrimSpace(in.env["DESCRIPTION"]),
		Homepage:    strings.TrimSpace(in.env["HOMEPAGE"]),
		Slot:        slot,
		Subslot:     subslot,
		Keywords:    strings.Fields(in.env["KEYWORDS"]),
		Iuse:        uniqueFields(in.combined("IUSE")),
		License:     strings.TrimSpace(in.env["LICENSE"]),
		Restrict:    strings.TrimSpace(in.env["RESTRICT"]),
		Properties:  strings.TrimSpace(in.env["PROPERTIES"]),
		Deps:        map[string]string{},
		Inherit:     direct,
		Inherited:   slices.Clone(in.inherited),
		Functions:   functions,
	}

	slices.Sort(pkg.Inherited)

	for _, key := range []string{"LICENSE", "RESTRICT", "PROPERTIES"} {
		if _, err := atom.FlattenDepSet(in.env[key]); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	for _, key := range DepKeys {
		value := in.combined(key)
		if value == "" {
			continue
		}

		if _, err := atom.ParseDepSet(value); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}

		pkg.Deps[key] = value
	}

	return pkg, nil
}

func uniqueFields(s string) []string {
	var out []string

	seen := map[string]bool{}
	for _, f := range strings.Fields(s) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}

	return out
}
