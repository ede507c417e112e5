package catalog

import (
	"strings"
	"unicode"
)

// TestTypeLabels maps single-letter test-type codes from the catalog to their
// human-readable category names. The set is fixed by the catalog itself.
var TestTypeLabels = map[string]string{
	"A": "Ability & Aptitude",
	"B": "Biodata & Situational Judgement",
	"C": "Competencies",
	"D": "Development & 360",
	"E": "Assessment Exercises",
	"K": "Knowledge & Skills",
	"P": "Personality & Behavior",
	"S": "Simulations",
}

// DecodeTestType translates a concatenated code string such as "KP" into a
// comma-separated list of category names. Whitespace between codes is
// ignored. Codes outside the known set are passed through unchanged rather
// than dropped, so the decode never loses catalog information it did not
// understand.
func DecodeTestType(code string) string {
	var labels []string
	for _, r := range code {
		if unicode.IsSpace(r) {
			continue
		}
		c := string(r)
		if label, ok := TestTypeLabels[c]; ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, c)
		}
	}
	return strings.Join(labels, ", ")
}
