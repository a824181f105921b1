package checks

import (
	"regexp"

	m "cruft.dev/pkg/cruft/internal/model"
)

var eapiRe = regexp.MustCompile(`(?m)^EAPI=(?:"([^"]*)"|'([^']*)'|([^\s#"']*))`)

// rawEapi extracts the EAPI assignment from recipe text without sourcing it.
func rawEapi(data []byte) string {
	match := eapiRe.FindSubmatch(data)
	if match == nil {
		return "0"
	}

	for _, group := range match[1:] {
		if len(group) > 0 {
			return string(group)
		}
	}

	return "0"
}

type eapiStatusCheck struct {
	banned     map[string]bool
	deprecated map[string]bool
}

func newEapiStatusCheck(run Run) any {
	cfg := run.Repo().Config()

	return &eapiStatusCheck{
		banned:     stringSet(cfg.EapisBanned),
		deprecated: stringSet(cfg.EapisDeprecated),
	}
}

func (c *eapiStatusCheck) Run(recipe *RawRecipe, run Run) {
	eapi := rawEapi(recipe.Data)

	switch {
	case c.deprecated[eapi]:
		run.Report(m.NewReport(m.EapiDeprecated, recipe.Target(), "%s", eapi))
	case c.banned[eapi]:
		run.Report(m.NewReport(m.EapiBanned, recipe.Target(), "%s", eapi))
	}
}
