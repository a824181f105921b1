package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDeserialize is returned when a serialized report cannot be decoded.
var ErrDeserialize = errors.New("failed deserializing report")

// ReportLevel is the severity of a report kind.
type ReportLevel int

const (
	// LevelCritical marks data that prevents further processing.
	LevelCritical ReportLevel = iota
	// LevelError marks definite breakage.
	LevelError
	// LevelWarning marks probable problems.
	LevelWarning
	// LevelStyle marks style and consistency issues.
	LevelStyle
	// LevelInfo marks informational findings.
	LevelInfo
)

var levelNames = [...]string{"critical", "error", "warning", "style", "info"}

func (l ReportLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("level(%d)", int(l))
	}

	return levelNames[l]
}

// ParseReportLevel parses a level name.
func ParseReportLevel(s string) (ReportLevel, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return ReportLevel(i), nil
		}
	}

	return 0, InvalidValueError{Kind: "report level", Value: s}
}

// ReportKind identifies the kind of a report.
type ReportKind int

// Report kinds, in lexical order.
const (
	ArchesUnused ReportKind = iota
	CategoryUnknown
	DependencyDeprecated
	DependencyInvalid
	DependencyRevisionMissing
	DependencySlotMissing
	EapiBanned
	EapiDeprecated
	EapiUnstable
	EclassUnused
	HeaderInvalid
	IgnoreUnused
	KeywordsDropped
	KeywordsLive
	KeywordsOverlapping
	KeywordsUnsorted
	LicenseDeprecated
	LicenseInvalid
	LicenseMissing
	LicenseUnneeded
	LicensesUnused
	LiveOnly
	MetadataError
	PackageDeprecatedUnused
	PackageLeaf
	PackageOverride
	RepoCategoriesUnused
	RepoCategoryEmpty
	RepoPackageEmpty
	RestrictMissing
	UnstableOnly
	VariableOrder
	WhitespaceInvalid
	WhitespaceUnneeded
	reportKindCount
)

var reportKinds = [reportKindCount]struct {
	name  string
	level ReportLevel
}{
	ArchesUnused:              {"ArchesUnused", LevelWarning},
	CategoryUnknown:           {"CategoryUnknown", LevelError},
	DependencyDeprecated:      {"DependencyDeprecated", LevelWarning},
	DependencyInvalid:         {"DependencyInvalid", LevelCritical},
	DependencyRevisionMissing: {"DependencyRevisionMissing", LevelWarning},
	DependencySlotMissing:     {"DependencySlotMissing", LevelWarning},
	EapiBanned:                {"EapiBanned", LevelError},
	EapiDeprecated:            {"EapiDeprecated", LevelWarning},
	EapiUnstable:              {"EapiUnstable", LevelError},
	EclassUnused:              {"EclassUnused", LevelWarning},
	HeaderInvalid:             {"HeaderInvalid", LevelError},
	IgnoreUnused:              {"IgnoreUnused", LevelWarning},
	KeywordsDropped:           {"KeywordsDropped", LevelWarning},
	KeywordsLive:              {"KeywordsLive", LevelWarning},
	KeywordsOverlapping:       {"KeywordsOverlapping", LevelError},
	KeywordsUnsorted:          {"KeywordsUnsorted", LevelStyle},
	LicenseDeprecated:         {"LicenseDeprecated", LevelWarning},
	LicenseInvalid:            {"LicenseInvalid", LevelCritical},
	LicenseMissing:            {"LicenseMissing", LevelError},
	LicenseUnneeded:           {"LicenseUnneeded", LevelWarning},
	LicensesUnused:            {"LicensesUnused", LevelWarning},
	LiveOnly:                  {"LiveOnly", LevelWarning},
	MetadataError:             {"MetadataError", LevelCritical},
	PackageDeprecatedUnused:   {"PackageDeprecatedUnused", LevelWarning},
	PackageLeaf:               {"PackageLeaf", LevelInfo},
	PackageOverride:           {"PackageOverride", LevelWarning},
	RepoCategoriesUnused:      {"RepoCategoriesUnused", LevelWarning},
	RepoCategoryEmpty:         {"RepoCategoryEmpty", LevelWarning},
	RepoPackageEmpty:          {"RepoPackageEmpty", LevelWarning},
	RestrictMissing:           {"RestrictMissing", LevelWarning},
	UnstableOnly:              {"UnstableOnly", LevelInfo},
	VariableOrder:             {"VariableOrder", LevelStyle},
	WhitespaceInvalid:         {"WhitespaceInvalid", LevelWarning},
	WhitespaceUnneeded:        {"WhitespaceUnneeded", LevelStyle},
}

// AllReportKinds returns every report kind in declared order.
func AllReportKinds() []ReportKind {
	kinds := make([]ReportKind, 0, reportKindCount)
	for k := ReportKind(0); k < reportKindCount; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}

// ParseReportKind parses a report kind by its name.
func ParseReportKind(s string) (ReportKind, error) {
	for k, info := range reportKinds {
		if info.name == s {
			return ReportKind(k), nil
		}
	}

	return 0, InvalidValueError{Kind: "report", Value: s}
}

func (k ReportKind) valid() bool {
	return k >= 0 && k < reportKindCount
}

func (k ReportKind) String() string {
	if !k.valid() {
		return fmt.Sprintf("ReportKind(%d)", int(k))
	}

	return reportKinds[k].name
}

// Level returns the fixed severity of the kind.
func (k ReportKind) Level() ReportLevel {
	if !k.valid() {
		return LevelInfo
	}

	return reportKinds[k].level
}

// MarshalText implements encoding.TextMarshaler.
func (k ReportKind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, InvalidValueError{Kind: "report", Value: k.String()}
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ReportKind) UnmarshalText(b []byte) error {
	parsed, err := ParseReportKind(string(b))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// Report is a single finding emitted by a check.
type Report struct {
	Kind    ReportKind
	Target  Coordinate
	Message string
}

// NewReport builds a report with a formatted message.
func NewReport(kind ReportKind, target Coordinate, format string, args ...any) Report {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	return Report{Kind: kind, Target: target, Message: msg}
}

// Level returns the severity of the report's kind.
func (r Report) Level() ReportLevel {
	return r.Kind.Level()
}

// Compare orders reports by target, kind and message.
func (r Report) Compare(o Report) int {
	if c := r.Target.Compare(o.Target); c != 0 {
		return c
	}

	if c := sign(int(r.Kind) - int(o.Kind)); c != 0 {
		return c
	}

	return strings.Compare(r.Message, o.Message)
}

func (r Report) String() string {
	if r.Message == "" {
		return fmt.Sprintf("%s: %s", r.Target, r.Kind)
	}

	return fmt.Sprintf("%s: %s: %s", r.Target, r.Kind, r.Message)
}

type reportJSON struct {
	Kind    string `json:"kind"`
	Scope   string `json:"scope"`
	Target  string `json:"target"`
	Message string `json:"message"`
}

// MarshalJSON encodes the report as a flat object.
func (r Report) MarshalJSON() ([]byte, error) {
	kind, err := r.Kind.MarshalText()
	if err != nil {
		return nil, err
	}

	return json.Marshal(reportJSON{
		Kind:    string(kind),
		Scope:   r.Target.Scope().String(),
		Target:  r.Target.String(),
		Message: r.Message,
	})
}

// UnmarshalJSON decodes a report produced by MarshalJSON.
func (r *Report) UnmarshalJSON(b []byte) error {
	var raw reportJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}

	kind, err := ParseReportKind(raw.Kind)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}

	scope, err := ParseScope(raw.Scope)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}

	target, err := ParseTarget(scope, raw.Target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}

	*r = Report{Kind: kind, Target: target, Message: raw.Message}

	return nil
}

// ParseReportJSON decodes a single JSON line.
func ParseReportJSON(line []byte) (Report, error) {
	var r Report
	if err := json.Unmarshal(line, &r); err != nil {
		if errors.Is(err, ErrDeserialize) {
			return Report{}, err
		}

		return Report{}, fmt.Errorf("%w: %w", ErrDeserialize, err)
	}

	return r, nil
}
