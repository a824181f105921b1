package adapter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"cruft.dev/pkg/cruft/pkg/atom"
)

// DepKeys are the dependency variables in the order checks walk them.
var DepKeys = []string{"BDEPEND", "DEPEND", "IDEPEND", "PDEPEND", "RDEPEND"}

// Pkg is the resolved metadata of one package version.
type Pkg struct {
	Cpv         atom.Cpv          `msgpack:"-"`
	Repo        string            `msgpack:"-"`
	EAPI        string            `msgpack:"eapi"`
	Description string            `msgpack:"description"`
	Homepage    string            `msgpack:"homepage"`
	Slot        string            `msgpack:"slot"`
	Subslot     string            `msgpack:"subslot"`
	Keywords    []string          `msgpack:"keywords"`
	Iuse        []string          `msgpack:"iuse"`
	License     string            `msgpack:"license"`
	Restrict    string            `msgpack:"restrict"`
	Properties  string            `msgpack:"properties"`
	Deps        map[string]string `msgpack:"deps"`
	Inherit     []string          `msgpack:"inherit"`
	Inherited   []string          `msgpack:"inherited"`
	Functions   []string          `msgpack:"functions"`
}

// IuseEffective returns the IUSE flags with +/- defaults stripped.
func (p *Pkg) IuseEffective() map[string]bool {
	flags := make(map[string]bool, len(p.Iuse))
	for _, f := range p.Iuse {
		flags[strings.TrimLeft(f, "+-")] = true
	}

	return flags
}

// Live reports whether the version builds from a VCS checkout.
func (p *Pkg) Live() bool {
	if p.Cpv.Version.IsLive() {
		return true
	}

	props, err := atom.Leaves(p.Properties)

	return err == nil && slices.Contains(props, "live")
}

// Dependencies returns the parsed atoms of a dependency variable.
func (p *Pkg) Dependencies(key string) ([]atom.ParsedDep, error) {
	return atom.ParseDepSet(p.Deps[key])
}

// KeywordArch returns the arch of a keyword such as ~amd64 or -x86.
func KeywordArch(kw string) string {
	return strings.TrimLeft(kw, "~-")
}

// KeywordStable reports whether a keyword marks a stable arch.
func KeywordStable(kw string) bool {
	return kw != "" && kw[0] != '~' && kw[0] != '-'
}

// InvalidPkgError marks a package whose metadata could not be generated. It is
// recoverable: the scanner turns it into a report and keeps going.
type InvalidPkgError struct {
	Cpv atom.Cpv
	Err error
}

func (e *InvalidPkgError) Error() string {
	return fmt.Sprintf("invalid pkg: %s: %v", e.Cpv, e.Err)
}

func (e *InvalidPkgError) Unwrap() error {
	return e.Err
}

// IsInvalidPkg reports whether err carries an InvalidPkgError.
func IsInvalidPkg(err error) (*InvalidPkgError, bool) {
	var invalid *InvalidPkgError
	if errors.As(err, &invalid) {
		return invalid, true
	}

	return nil, false
}
