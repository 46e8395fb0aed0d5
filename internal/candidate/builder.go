// Package candidate assembles well-formed events from the raw records that
// source adapters produce. The builder owns the cross-source rules (title
// bound, drug placeholder, entity-match requirement) while the per-source
// choices (matching strategy, no-date fallback) are injected.
package candidate

import (
	"time"

	"github.com/rxwatch/catalyst/internal/dates"
	"github.com/rxwatch/catalyst/internal/match"
	"github.com/rxwatch/catalyst/internal/model"
)

// Raw is one candidate record as produced by a source adapter, before
// normalization and entity matching.
type Raw struct {
	MatchText string // free text to match a company against; ignored when Company is preset
	Company   string // preset identity for sources that query per company
	Drug      string
	Type      string
	RawDate   string // any shape the date normalizer understands
	Title     string
	Link      string
	Source    string
	Details   string
}

// DatePolicy selects the fallback applied when the normalizer yields no
// date. Sources differ here deliberately; the choice is configuration,
// not builder behavior.
type DatePolicy int

const (
	// DateDrop discards the candidate entirely.
	DateDrop DatePolicy = iota
	// DateToday substitutes the current date.
	DateToday
	// DateKeepUnknown substitutes the unknown-date sentinel.
	DateKeepUnknown
)

// Strategy selects which entity-matching operation the builder uses.
type Strategy int

const (
	// MatchAnyLongToken matches on any name token longer than three characters.
	MatchAnyLongToken Strategy = iota
	// MatchFullName requires the whole display name as a substring.
	MatchFullName
)

// Builder composes adapter output, the date normalizer, and the entity
// matcher into canonical events.
type Builder struct {
	Universe    []string
	Strategy    Strategy
	DatePolicy  DatePolicy
	TitleMaxLen int
	Now         func() time.Time // injectable clock for tests
}

// NewBuilder returns a builder with the given universe and per-source policy.
func NewBuilder(universe []string, strategy Strategy, policy DatePolicy, titleMaxLen int) *Builder {
	if titleMaxLen <= 0 {
		titleMaxLen = 200
	}
	return &Builder{
		Universe:    universe,
		Strategy:    strategy,
		DatePolicy:  policy,
		TitleMaxLen: titleMaxLen,
		Now:         time.Now,
	}
}

// Build assembles a canonical event from a raw record. Returns ok=false
// when the candidate must be dropped: no owning company could be matched,
// or the date is missing under the DateDrop policy.
func (b *Builder) Build(raw Raw) (model.Event, bool) {
	company := raw.Company
	if company == "" {
		var ok bool
		switch b.Strategy {
		case MatchFullName:
			company, ok = match.ByFullNameSubstring(raw.MatchText, b.Universe)
		default:
			company, ok = match.ByAnyLongToken(raw.MatchText, b.Universe)
		}
		if !ok {
			return model.Event{}, false
		}
	}

	date, ok := dates.Normalize(raw.RawDate)
	if !ok {
		switch b.DatePolicy {
		case DateToday:
			date = dates.Today(b.Now())
		case DateKeepUnknown:
			date = model.DateUnknown
		default:
			return model.Event{}, false
		}
	}

	drug := raw.Drug
	if drug == "" {
		drug = model.DrugUnspecified
	}

	title := raw.Title
	if r := []rune(title); len(r) > b.TitleMaxLen {
		title = string(r[:b.TitleMaxLen])
	}

	return model.Event{
		Company: company,
		Drug:    drug,
		Type:    raw.Type,
		Date:    date,
		Title:   title,
		Link:    raw.Link,
		Source:  raw.Source,
		Details: raw.Details,
	}, true
}
