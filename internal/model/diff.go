package model

import "fmt"

// DiffOp marks a report as present only in the old or only in the new set.
type DiffOp byte

// Diff operations, printed as line prefixes.
const (
	DiffRemoved DiffOp = '-'
	DiffAdded   DiffOp = '+'
)

// DiffEntry is one report present in exactly one of two report sets.
type DiffEntry struct {
	Op     DiffOp
	Report Report
}

func (e DiffEntry) String() string {
	return fmt.Sprintf("%c %s", e.Op, e.Report)
}
