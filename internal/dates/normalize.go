// Package dates converts the date shapes found in regulatory sources into
// canonical YYYY-MM-DD strings. It never guesses: when no rule applies the
// caller gets ok=false and chooses its own fallback.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Canonical is the output layout for every normalized date.
const Canonical = "2006-01-02"

// monthApproxDay is the day substituted when a source only gives a month or
// a quarter. Day 28, not the true end of month: downstream windowing was
// tuned against this value and every variant must agree.
const monthApproxDay = 28

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearMonthRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	compactRe   = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	quarterRe   = regexp.MustCompile(`(?i)^Q([1-4])\s+(\d{4})$`)
	monthYearRe = regexp.MustCompile(`(\d{1,2})/(\d{4})`)
)

// textualLayouts are tried in order; the first successful parse wins.
// Month-only layouts resolve to day 1 of the month.
var textualLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"January, 2006",
	"January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	Canonical,
}

// feedLayouts cover RFC-822-style publication timestamps from syndication
// feeds. Time of day and zone are discarded.
var feedLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
}

// Normalize converts a raw date value into canonical YYYY-MM-DD form.
// Recognized shapes: full ISO dates, YYYY-MM (day 28), compact YYYYMMDD,
// quarter labels ("Q1 2026" → last month of the quarter, day 28), long-form
// textual dates, and feed publication timestamps. Returns ok=false when
// nothing matches.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if isoDateRe.MatchString(s) {
		if _, err := time.Parse(Canonical, s); err == nil {
			return s, true
		}
		return "", false
	}

	if m := yearMonthRe.FindStringSubmatch(s); m != nil {
		if _, err := time.Parse("2006-01", s); err == nil {
			return fmt.Sprintf("%s-%s-%02d", m[1], m[2], monthApproxDay), true
		}
		return "", false
	}

	if m := compactRe.FindStringSubmatch(s); m != nil {
		candidate := m[1] + "-" + m[2] + "-" + m[3]
		if _, err := time.Parse(Canonical, candidate); err == nil {
			return candidate, true
		}
		return "", false
	}

	if d, ok := normalizeQuarter(s); ok {
		return d, true
	}

	if d, ok := normalizeTextual(s); ok {
		return d, true
	}

	for _, layout := range feedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(Canonical), true
		}
	}

	return "", false
}

// normalizeTextual parses long-form dates against the ordered layout list.
func normalizeTextual(s string) (string, bool) {
	for _, layout := range textualLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(Canonical), true
		}
	}
	return "", false
}

// normalizeQuarter resolves "Q1 2026" style labels to the last month of the
// quarter at the approximate day.
func normalizeQuarter(s string) (string, bool) {
	m := quarterRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	quarter, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%04d-%02d-%02d", year, quarter*3, monthApproxDay), true
}

// NormalizeMonthYear resolves "MM/YYYY" fragments, as found in label change
// notes, to day 1 of that month.
func NormalizeMonthYear(s string) (string, bool) {
	m := monthYearRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	month, _ := strconv.Atoi(m[1])
	if month < 1 || month > 12 {
		return "", false
	}
	return fmt.Sprintf("%s-%02d-01", m[2], month), true
}

// Today returns the canonical form of the current date.
func Today(now time.Time) string {
	return now.Format(Canonical)
}

// WithinLookback reports whether date falls no further than maxAgeDays in
// the past relative to now. Future dates always pass. Unparseable dates
// pass too: recency filtering is a suppression policy for known-old events,
// not a validity check.
func WithinLookback(date string, now time.Time, maxAgeDays int) bool {
	t, err := time.Parse(Canonical, date)
	if err != nil {
		return true
	}
	return !t.Before(now.AddDate(0, 0, -maxAgeDays))
}

// PreferFuture picks candidate over fallback when candidate is strictly
// later than now's canonical form, otherwise fallback. Both are compared as
// canonical strings.
func PreferFuture(candidate, fallback string, now time.Time) string {
	if candidate > Today(now) {
		return candidate
	}
	return fallback
}
