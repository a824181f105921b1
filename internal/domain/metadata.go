package domain

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"cruft.dev/pkg/cruft/internal/adapter"
	m "cruft.dev/pkg/cruft/internal/model"
	"cruft.dev/pkg/cruft/pkg/atom"
)

// metadataMemo resolves package metadata at most once per version during a
// scan. Concurrent requests for the same version share one build pool call.
// With consumers set, an entry is dropped once that many units have read it.
type metadataMemo struct {
	pool      adapter.BuildPool
	repo      adapter.Repo
	force     bool
	verify    bool
	consumers int32

	group    singleflight.Group
	resolved sync.Map // cpv string -> *adapter.Pkg, nil for invalid packages
	reads    sync.Map // cpv string -> *atomic.Int32
	reported sync.Map // cpv string -> struct{}
}

func newMetadataMemo(pool adapter.BuildPool, repo adapter.Repo, force, verify bool) *metadataMemo {
	return &metadataMemo{pool: pool, repo: repo, force: force, verify: verify}
}

// get returns the metadata of cpv. Packages whose metadata can't be
// generated are reported once as MetadataError and yield nil without error.
func (mm *metadataMemo) get(ctx context.Context, run *scan, cpv atom.Cpv) (*adapter.Pkg, error) {
	key := cpv.String()
	defer mm.release(key)

	if v, ok := mm.resolved.Load(key); ok {
		return v.(*adapter.Pkg), nil
	}

	v, err, _ := mm.group.Do(key, func() (any, error) {
		if v, ok := mm.resolved.Load(key); ok {
			return v, nil
		}

		pkg, err := mm.pool.Metadata(ctx, mm.repo, cpv, mm.force, mm.verify)
		if err != nil {
			invalid, ok := adapter.IsInvalidPkg(err)
			if !ok {
				return nil, err
			}

			mm.invalid(run, cpv, invalid.Err)
			pkg = nil
		}

		mm.resolved.Store(key, pkg)

		return pkg, nil
	})
	if err != nil {
		return nil, err
	}

	pkg, _ := v.(*adapter.Pkg)

	return pkg, nil
}

// lookup resolves cpv for a check reading another package. It neither
// counts as a consumer nor stores the result, and invalid packages yield nil
// without a report: their own units report them.
func (mm *metadataMemo) lookup(ctx context.Context, cpv atom.Cpv) (*adapter.Pkg, error) {
	key := cpv.String()

	if v, ok := mm.resolved.Load(key); ok {
		return v.(*adapter.Pkg), nil
	}

	v, err, _ := mm.group.Do("lookup:"+key, func() (any, error) {
		pkg, err := mm.pool.Metadata(ctx, mm.repo, cpv, mm.force, mm.verify)
		if _, ok := adapter.IsInvalidPkg(err); ok {
			return (*adapter.Pkg)(nil), nil
		}

		return pkg, err
	})
	if err != nil {
		return nil, err
	}

	pkg, _ := v.(*adapter.Pkg)

	return pkg, nil
}

// release counts one read of key and evicts the entry after the last
// expected consumer. Without a consumer count entries live until scan end.
func (mm *metadataMemo) release(key string) {
	if mm.consumers <= 0 {
		return
	}

	v, _ := mm.reads.LoadOrStore(key, new(atomic.Int32))
	if v.(*atomic.Int32).Add(1) < mm.consumers {
		return
	}

	mm.resolved.Delete(key)
	mm.reads.Delete(key)
}

// invalid emits the MetadataError report for a package, once per version.
func (mm *metadataMemo) invalid(run *scan, cpv atom.Cpv, err error) {
	if _, loaded := mm.reported.LoadOrStore(cpv.String(), struct{}{}); loaded {
		return
	}

	slog.Debug("Invalid package", "cpv", cpv.String(), "error", err)
	run.Report(m.NewReport(m.MetadataError, m.VersionTarget(cpv), "%v", err))
}
