package adapter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	m "cruft.dev/pkg/cruft/internal/model"
)

// StdinPath selects standard input wherever a report file path is accepted.
const StdinPath = "-"

// ReportReader yields reports one at a time and returns io.EOF when exhausted.
type ReportReader interface {
	Next() (m.Report, error)
	Close() error
}

// ReportStore persists reports as JSON lines.
type ReportStore interface {
	SaveReports(path string, reports []m.Report) error
	LoadReports(path string) (ReportReader, error)
}

// JSONLinesStore reads and writes one JSON object per line.
type JSONLinesStore struct {
	stdin io.Reader
}

// NewReportStore returns a store reading "-" from os.Stdin.
func NewReportStore() *JSONLinesStore {
	return &JSONLinesStore{stdin: os.Stdin}
}

// NewReportStoreWithStdin returns a store reading "-" from r.
func NewReportStoreWithStdin(r io.Reader) *JSONLinesStore {
	return &JSONLinesStore{stdin: r}
}

// SaveReports writes reports to path, replacing its contents.
func (s *JSONLinesStore) SaveReports(path string, reports []m.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := WriteReports(w, reports); err != nil {
		_ = f.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report file: %w", err)
	}

	return f.Close()
}

// WriteReports encodes reports as JSON lines.
func WriteReports(w io.Writer, reports []m.Report) error {
	enc := json.NewEncoder(w)
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	}

	return nil
}

// LoadReports opens path, or stdin for "-", for streaming decode.
func (s *JSONLinesStore) LoadReports(path string) (ReportReader, error) {
	if path == StdinPath {
		return NewReportReader(io.NopCloser(s.stdin)), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}

	return NewReportReader(f), nil
}

type jsonLinesReader struct {
	rc      io.ReadCloser
	scanner *bufio.Scanner
	line    int
}

// NewReportReader decodes JSON lines from rc. Blank lines are skipped.
func NewReportReader(rc io.ReadCloser) ReportReader {
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return &jsonLinesReader{rc: rc, scanner: scanner}
}

func (r *jsonLinesReader) Next() (m.Report, error) {
	for r.scanner.Scan() {
		r.line++

		data := bytes.TrimSpace(r.scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		report, err := m.ParseReportJSON(data)
		if err != nil {
			return m.Report{}, fmt.Errorf("line %d: %w", r.line, err)
		}

		return report, nil
	}

	if err := r.scanner.Err(); err != nil {
		return m.Report{}, fmt.Errorf("read reports: %w", err)
	}

	return m.Report{}, io.EOF
}

func (r *jsonLinesReader) Close() error {
	return r.rc.Close()
}
