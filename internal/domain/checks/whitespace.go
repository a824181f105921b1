package checks

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	m "cruft.dev/pkg/cruft/internal/model"
)

type whitespaceCheck struct{}

func newWhitespaceCheck(Run) any {
	return whitespaceCheck{}
}

func allowedWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

func (whitespaceCheck) Run(recipe *RawRecipe, run Run) {
	target := recipe.Target()
	data := recipe.Data

	lines := strings.Split(string(data), "\n")
	if len(data) > 0 && data[len(data)-1] == '\n' {
		lines = lines[:len(lines)-1]
	}

	prevBlank := false

	for i, line := range lines {
		lineNo := i + 1

		col := 0
		for _, r := range line {
			col++

			if (unicode.IsSpace(r) && !allowedWhitespace(r)) || r == utf8.RuneError {
				run.Report(m.NewReport(m.WhitespaceInvalid, target, "line %d, column %d: %U", lineNo, col, r))
			}
		}

		blank := strings.TrimSpace(line) == ""

		switch {
		case blank && line != "":
			run.Report(m.NewReport(m.WhitespaceUnneeded, target, "line %d: whitespace-only line", lineNo))
		case !blank && strings.TrimRightFunc(line, unicode.IsSpace) != line:
			run.Report(m.NewReport(m.WhitespaceUnneeded, target, "line %d: trailing whitespace", lineNo))
		}

		if blank && (prevBlank || lineNo == 1 || lineNo == len(lines)) {
			run.Report(m.NewReport(m.WhitespaceUnneeded, target, "line %d: unneeded empty line", lineNo))
		}

		prevBlank = blank
	}

	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		run.Report(m.NewReport(m.WhitespaceUnneeded, target, "missing ending newline"))
	}
}
