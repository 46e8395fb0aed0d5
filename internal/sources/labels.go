package sources

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rxwatch/catalyst/internal/candidate"
	"github.com/rxwatch/catalyst/internal/dates"
	"github.com/rxwatch/catalyst/internal/model"
)

// Labels queries the openFDA drug label API for recent major changes on a
// curated set of brands. openFDA needs exact brand-name queries, so the
// company-to-brand map comes from config rather than the universe.
type Labels struct {
	deps    Deps
	cfg     model.LabelsConfig
	builder *candidate.Builder
}

// NewLabels builds the openFDA label-update source.
func NewLabels(deps Deps) *Labels {
	return &Labels{
		deps: deps,
		cfg:  deps.Config.Sources.Labels,
		builder: candidate.NewBuilder(
			deps.Universe,
			candidate.MatchAnyLongToken, // unused: company is always preset here
			candidate.DateKeepUnknown,
			deps.Config.Builder.TitleMaxLen,
		),
	}
}

func (s *Labels) Name() string { return "labels" }

type labelResponse struct {
	Results []labelResult `json:"results"`
}

type labelResult struct {
	EffectiveTime      string       `json:"effective_time"`
	RecentMajorChanges []string     `json:"recent_major_changes"`
	OpenFDA            labelOpenFDA `json:"openfda"`
}

type labelOpenFDA struct {
	SPLSetID []string `json:"spl_set_id"`
}

// Fetch checks each curated brand for recent major label changes within
// the lookback window.
func (s *Labels) Fetch(ctx context.Context) ([]model.Event, error) {
	companies := make([]string, 0, len(s.cfg.KeyDrugs))
	for company := range s.cfg.KeyDrugs {
		companies = append(companies, company)
	}
	sort.Strings(companies)

	var events []model.Event
	for _, company := range companies {
		brand := s.cfg.KeyDrugs[company]

		params := url.Values{}
		params.Set("search", fmt.Sprintf("openfda.brand_name:%q", brand))
		params.Set("limit", "1")

		var resp labelResponse
		if err := s.deps.Fetcher.GetJSON(ctx, s.cfg.URL, params, &resp); err != nil {
			s.deps.Logger.Warn("label lookup failed",
				zap.String("brand", brand), zap.Error(err))
			continue
		}
		if len(resp.Results) == 0 {
			continue
		}
		label := resp.Results[0]
		if len(label.RecentMajorChanges) == 0 {
			continue
		}

		rawDate := label.EffectiveTime // compact YYYYMMDD
		// Change notes often carry their own effective month ("MM/YYYY"),
		// which is more specific than the label's overall timestamp.
		for _, change := range label.RecentMajorChanges {
			if d, ok := dates.NormalizeMonthYear(change); ok {
				rawDate = d
				break
			}
		}

		if normalized, ok := dates.Normalize(rawDate); ok {
			if !dates.WithinLookback(normalized, s.deps.Now(), s.cfg.LookbackDays) {
				continue
			}
		}

		ev, ok := s.builder.Build(candidate.Raw{
			Company: company,
			Drug:    brand,
			Type:    "Label Update",
			RawDate: rawDate,
			Title:   fmt.Sprintf("Label Update: %s", label.RecentMajorChanges[0]),
			Link:    labelLink(label, brand),
			Source:  "openFDA",
			Details: strings.Join(label.RecentMajorChanges, " | "),
		})
		if ok {
			events = append(events, ev)
		}
	}

	return events, nil
}

// labelLink prefers the DailyMed document for the label's SPL set; without
// one it falls back to an FDA search for the brand.
func labelLink(label labelResult, brand string) string {
	if len(label.OpenFDA.SPLSetID) > 0 {
		return "https://dailymed.nlm.nih.gov/dailymed/lookup.cfm?setid=" + label.OpenFDA.SPLSetID[0]
	}
	return "https://www.accessdata.fda.gov/scripts/cder/daf/index.cfm?event=BasicSearch.process&SearchTerm=" + url.QueryEscape(brand)
}
