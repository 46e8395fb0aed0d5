package dates

import "regexp"

// embeddedPatterns locate a date fragment inside regulatory free text.
// Ordered: the first pattern that matches wins, so the tighter
// PDUFA/target-action forms take priority over the looser quarter form.
var embeddedPatterns = []*regexp.Regexp{
	// "PDUFA date of March 15, 2026"
	regexp.MustCompile(`(?i)(?:PDUFA|target action|goal)\s*date\s*(?:of|is|:|set for)?\s*([A-Z][a-z]+\s+\d{1,2},?\s+\d{4})`),
	// "target action date: March 2026"
	regexp.MustCompile(`(?i)(?:target action|PDUFA)\s*date\s*(?:of|is|:|set for)?\s*([A-Z][a-z]+\s+\d{4})`),
	// "decision expected Q1 2026"
	regexp.MustCompile(`(?i)(?:decision|review|PDUFA)\s*(?:by|in|expected)\s*(Q[1-4]\s+\d{4})`),
	// "PDUFA date: 2026-03-15"
	regexp.MustCompile(`(?i)(?:PDUFA|target action|goal)\s*date[:\s]+(\d{4}-\d{2}-\d{2})`),
}

// ExtractFromText scans free text for an embedded target-action date and
// normalizes the captured fragment. Returns ok=false when no pattern
// matches or the fragment does not normalize.
func ExtractFromText(text string) (string, bool) {
	for _, re := range embeddedPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return Normalize(m[1])
	}
	return "", false
}
