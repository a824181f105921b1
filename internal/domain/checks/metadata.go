package checks

import (
	"cruft.dev/pkg/cruft/internal/adapter"
)

// metadataCheck only requests resolved metadata for every version. The
// scanner turns resolution failures into MetadataError reports.
type metadataCheck struct{}

func newMetadataCheck(Run) any {
	return metadataCheck{}
}

func (metadataCheck) Run(*adapter.Pkg, Run) {}
