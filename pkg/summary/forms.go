package summary

import (
	"regexp"
	"sort"

	"github.com/opencourtlab/guideway/pkg/domain"
)

// formCodePattern matches the shape of a court-form code embedded in prose:
// two to three uppercase letters, a hyphen, two to four digits (e.g. "FL-100",
// "SC-1500"). Word boundaries keep longer identifiers from matching.
var formCodePattern = regexp.MustCompile(`\b[A-Z]{2,3}-[0-9]{2,4}\b`)

// ScrapeFormCodes extracts form codes from free text. Best effort: prose can
// legitimately contain code-shaped strings, which is why an explicit Forms
// list on a node always overrides the scrape.
func ScrapeFormCodes(text string) []string {
	return formCodePattern.FindAllString(text, -1)
}

// CollectForms unions the form codes implicated by a visited trail: each
// node's explicit Forms list where present, otherwise codes scraped from its
// text. The result is deduplicated, case-preserved, and sorted ascending so
// repeated calls over the same trail are identical.
func CollectForms(path []domain.PathEntry) []string {
	seen := make(map[string]bool)
	for _, entry := range path {
		codes := entry.Node.Forms
		if len(codes) == 0 {
			codes = ScrapeFormCodes(entry.Node.Text)
		}
		for _, code := range codes {
			seen[code] = true
		}
	}

	forms := make([]string, 0, len(seen))
	for code := range seen {
		forms = append(forms, code)
	}
	sort.Strings(forms)
	return forms
}
