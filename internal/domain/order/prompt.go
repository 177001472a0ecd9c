package order

import (
	"strings"

	"github.com/promptcart/promptcart/internal/domain/site"
)

// AssemblePrompt builds the order's full generation prompt as one Markdown
// document: an intro section naming the site and embedding the user's
// description (when a site configuration is present), then one subsection per
// item in the given order. Items without a prompt fragment are skipped
// entirely rather than rendered empty.
//
// Pure function of its inputs: no I/O, deterministic, idempotent. Identical
// inputs always produce byte-identical text.
func AssemblePrompt(cfg *site.Configuration, items []ReconciledItem) string {
	sections := make([]string, 0, len(items)+1)

	if cfg != nil {
		intro := "# Website: " + cfg.Name
		if desc := strings.TrimSpace(cfg.Description); desc != "" {
			intro += "\n\n" + desc
		}
		sections = append(sections, intro)
	}

	for _, it := range items {
		fragment := strings.TrimSpace(it.PromptFragment)
		if fragment == "" {
			continue
		}
		sections = append(sections, "## "+it.ProductName+"\n\n"+fragment)
	}

	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n") + "\n"
}
