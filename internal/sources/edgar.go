package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rxwatch/catalyst/internal/candidate"
	"github.com/rxwatch/catalyst/internal/dates"
	"github.com/rxwatch/catalyst/internal/model"
)

// Edgar walks recent 8-K filings for each configured company and pulls
// target-action dates out of the filing text. A filing that mentions the
// regulatory keywords but carries no extractable date still becomes an
// event dated by the filing itself.
type Edgar struct {
	deps    Deps
	cfg     model.EdgarConfig
	builder *candidate.Builder
}

// NewEdgar builds the SEC EDGAR 8-K source.
func NewEdgar(deps Deps) *Edgar {
	return &Edgar{
		deps: deps,
		cfg:  deps.Config.Sources.Edgar,
		builder: candidate.NewBuilder(
			deps.Universe,
			candidate.MatchAnyLongToken, // unused: CIKs map to known companies
			candidate.DateKeepUnknown,
			deps.Config.Builder.TitleMaxLen,
		),
	}
}

func (s *Edgar) Name() string { return "edgar" }

// The EDGAR company browse endpoint serves a tiny fixed Atom schema; the
// direct filing href is all we need from each entry.
type edgarFeed struct {
	Entries []edgarEntry `xml:"entry"`
}

type edgarEntry struct {
	Title   string    `xml:"title"`
	Link    edgarLink `xml:"link"`
	Updated string    `xml:"updated"`
}

type edgarLink struct {
	Href string `xml:"href,attr"`
}

// Fetch walks each company's recent 8-K index. Failures for one company
// are logged and do not stop the rest.
func (s *Edgar) Fetch(ctx context.Context) ([]model.Event, error) {
	companies := make([]string, 0, len(s.cfg.CIKs))
	for company := range s.cfg.CIKs {
		companies = append(companies, company)
	}
	sort.Strings(companies)

	var events []model.Event
	for _, company := range companies {
		cik := s.cfg.CIKs[company]
		filings, err := s.filingIndex(ctx, cik)
		if err != nil {
			s.deps.Logger.Warn("filing index failed",
				zap.String("company", company), zap.String("cik", cik), zap.Error(err))
			continue
		}

		for _, filing := range filings {
			filingDate := filing.Updated
			if len(filingDate) >= 10 {
				filingDate = filingDate[:10]
			}
			if !dates.WithinLookback(filingDate, s.deps.Now(), s.cfg.LookbackDays) {
				continue
			}
			if filing.Link.Href == "" {
				continue
			}

			body, err := s.deps.Fetcher.Get(ctx, filing.Link.Href)
			if err != nil {
				s.deps.Logger.Debug("filing fetch failed",
					zap.String("url", filing.Link.Href), zap.Error(err))
				continue
			}
			text := string(body)
			if !containsAnyKeyword(text, s.cfg.Keywords) {
				continue
			}

			raw := candidate.Raw{
				Company: company,
				Type:    "FDA Announcement",
				RawDate: filingDate,
				Title:   filing.Title,
				Link:    filing.Link.Href,
				Source:  "SEC EDGAR 8-K",
			}
			if actionDate, ok := dates.ExtractFromText(text); ok {
				raw.Type = "PDUFA Date"
				raw.RawDate = actionDate
				raw.Title = "FDA Target Action Date - " + filing.Title
			}

			if ev, ok := s.builder.Build(raw); ok {
				events = append(events, ev)
			}
		}
	}

	return events, nil
}

// filingIndex fetches the Atom index of recent 8-K filings for one CIK.
func (s *Edgar) filingIndex(ctx context.Context, cik string) ([]edgarEntry, error) {
	// EDGAR wants the CIK zero-padded to ten digits.
	if len(cik) < 10 {
		cik = strings.Repeat("0", 10-len(cik)) + cik
	}
	url := fmt.Sprintf(
		"%s/cgi-bin/browse-edgar?action=getcompany&CIK=%s&type=8-K&dateb=&owner=include&count=%d&output=atom",
		s.cfg.BaseURL, cik, s.cfg.FilingCount,
	)

	body, err := s.deps.Fetcher.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}

	var feed edgarFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return feed.Entries, nil
}
