// Package match maps free text to a company identity from a known universe.
// Both strategies are deterministic in universe order: the first company
// that matches wins and iteration stops. There is no scoring and no
// longest-match preference; callers that need a different winner reorder
// the universe.
package match

import "strings"

// minTokenLen: name tokens at or below this length are ignored by the
// token strategy, so connectives and short abbreviations cannot match.
const minTokenLen = 3

// ByAnyLongToken returns the first company whose display name contains at
// least one token longer than minTokenLen that appears, case-insensitively,
// as a substring of text.
func ByAnyLongToken(text string, universe []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, company := range universe {
		for _, word := range strings.Fields(strings.ToLower(company)) {
			if len(word) <= minTokenLen {
				continue
			}
			if strings.Contains(lower, word) {
				return company, true
			}
		}
	}
	return "", false
}

// ByFullNameSubstring returns the first company whose entire lowercased
// display name appears verbatim in text. Stricter than ByAnyLongToken on
// multi-word names: "Vertex Pharmaceuticals" only matches when both words
// appear together.
func ByFullNameSubstring(text string, universe []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, company := range universe {
		if strings.Contains(lower, strings.ToLower(company)) {
			return company, true
		}
	}
	return "", false
}
