package model

// Sentinel values used across sources when a field cannot be determined.
const (
	// DateUnknown marks an event whose date could not be resolved.
	// Unknown-date events are kept through merges and sort last.
	DateUnknown = "unknown"

	// DrugUnspecified is the placeholder when a source cannot name the product.
	DrugUnspecified = "Unspecified"

	// dateMax is the sort key substituted for unknown/empty dates.
	dateMax = "9999-12-31"

	// SignatureTitleLen is how much of the title participates in the
	// dedup signature. Deliberately shorter than the stored title.
	SignatureTitleLen = 50
)

// Event is the canonical unit of output: one catalyst occurrence for one
// company, as consolidated from whichever source reported it first.
type Event struct {
	Company string `json:"company"`           // identity from the company universe, never free text
	Drug    string `json:"drug"`              // display name or DrugUnspecified
	Type    string `json:"type"`              // open label set: "FDA Approval", "AdComm", "Press Release", ...
	Date    string `json:"date"`              // YYYY-MM-DD or DateUnknown
	Title   string `json:"title"`             // headline, truncated at build time for display
	Link    string `json:"link"`              // source document URL; not part of identity
	Source  string `json:"source"`            // originating adapter name
	Details string `json:"details,omitempty"` // free-text elaboration, label updates only
}

// Signature returns the dedup identity of the event: company, date, and the
// first SignatureTitleLen runes of the title. Two events with equal
// signatures are the same event regardless of link, source, or details.
func (e Event) Signature() string {
	title := e.Title
	if r := []rune(title); len(r) > SignatureTitleLen {
		title = string(r[:SignatureTitleLen])
	}
	return e.Company + "\x1f" + e.Date + "\x1f" + title
}

// SortKey returns the key used for chronological ordering. Unknown and empty
// dates map to a far-future sentinel so they land after every dated event.
func (e Event) SortKey() string {
	if e.Date == "" || e.Date == DateUnknown {
		return dateMax
	}
	return e.Date
}

// BeforeCutoff reports whether the event is stale relative to the retention
// cutoff. Unknown and empty dates are exempt: they are never purged for age.
func (e Event) BeforeCutoff(cutoff string) bool {
	if e.Date == "" || e.Date == DateUnknown {
		return false
	}
	return e.Date < cutoff
}
