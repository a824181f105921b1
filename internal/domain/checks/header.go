package checks

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"

	m "cruft.dev/pkg/cruft/internal/model"
)

const (
	copyrightHolder = "Gentoo Authors"
	licenseHeader   = "# Distributed under the terms of the GNU General Public License v2"
)

var copyrightRe = regexp.MustCompile(`^# Copyright (?:(\d{4})-)?(\d{4}) (.+)$`)

type headerCheck struct{}

func newHeaderCheck(Run) any {
	return headerCheck{}
}

func (headerCheck) Run(recipe *RawRecipe, run Run) {
	var lines []string

	sc := bufio.NewScanner(bytes.NewReader(recipe.Data))
	for len(lines) < 2 && sc.Scan() {
		lines = append(lines, sc.Text())
	}

	report := func(format string, args ...any) {
		run.Report(m.NewReport(m.HeaderInvalid, recipe.Target(), format, args...))
	}

	if len(lines) == 0 || !strings.HasPrefix(lines[0], "# Copyright") {
		report("missing copyright header")
		return
	}

	match := copyrightRe.FindStringSubmatch(lines[0])

	switch {
	case match == nil:
		report("invalid copyright: %s", lines[0])
	case match[1] != "" && !yearsOrdered(match[1], match[2]):
		report("invalid copyright years: %s", lines[0])
	case match[3] != copyrightHolder:
		report("invalid copyright holder: %s", match[3])
	}

	switch {
	case len(lines) < 2:
		report("missing license header")
	case lines[1] != licenseHeader:
		report("invalid license header: %s", lines[1])
	}
}

func yearsOrdered(start, end string) bool {
	a, errA := strconv.Atoi(start)
	b, errB := strconv.Atoi(end)

	return errA == nil && errB == nil && a < b
}
