package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rxwatch/catalyst/internal/candidate"
	"github.com/rxwatch/catalyst/internal/model"
)

// Approvals queries the openFDA drug application API for recently approved
// submissions and matches their sponsors against the universe.
type Approvals struct {
	deps    Deps
	cfg     model.ApprovalConfig
	builder *candidate.Builder
}

// NewApprovals builds the openFDA approvals source.
func NewApprovals(deps Deps) *Approvals {
	return &Approvals{
		deps: deps,
		cfg:  deps.Config.Sources.Approval,
		builder: candidate.NewBuilder(
			deps.Universe,
			candidate.MatchAnyLongToken,
			candidate.DateDrop, // an approval event without a date is useless
			deps.Config.Builder.TitleMaxLen,
		),
	}
}

func (s *Approvals) Name() string { return "approvals" }

type drugsFDAResponse struct {
	Results []drugsFDAResult `json:"results"`
}

type drugsFDAResult struct {
	SponsorName       string               `json:"sponsor_name"`
	ApplicationNumber string               `json:"application_number"`
	Products          []drugsFDAProduct    `json:"products"`
	Submissions       []drugsFDASubmission `json:"submissions"`
}

type drugsFDAProduct struct {
	BrandName string `json:"brand_name"`
}

type drugsFDASubmission struct {
	SubmissionStatus     string `json:"submission_status"`
	SubmissionStatusDate string `json:"submission_status_date"`
	SubmissionType       string `json:"submission_type"`
}

// Fetch returns one approval event per matched application, taking the
// first approved submission listed for each.
func (s *Approvals) Fetch(ctx context.Context) ([]model.Event, error) {
	params := url.Values{}
	params.Set("search", "submissions.submission_status:AP")
	params.Set("limit", fmt.Sprintf("%d", s.cfg.Limit))

	var resp drugsFDAResponse
	if err := s.deps.Fetcher.GetJSON(ctx, s.cfg.URL, params, &resp); err != nil {
		return nil, fmt.Errorf("query drugsfda: %w", err)
	}

	var events []model.Event
	for _, result := range resp.Results {
		if len(result.Products) == 0 {
			continue
		}

		for _, sub := range result.Submissions {
			if sub.SubmissionStatus != "AP" {
				continue
			}

			brand := result.Products[0].BrandName
			if brand == "" {
				brand = model.DrugUnspecified
			}
			subType := sub.SubmissionType
			if subType == "" {
				subType = "Application"
			}

			ev, ok := s.builder.Build(candidate.Raw{
				MatchText: result.SponsorName,
				Drug:      brand,
				Type:      "FDA Approval",
				RawDate:   sub.SubmissionStatusDate, // compact YYYYMMDD
				Title:     fmt.Sprintf("%s - %s Approved", brand, subType),
				Link:      approvalLink(result.ApplicationNumber),
				Source:    "openFDA",
			})
			if ok {
				events = append(events, ev)
			}
			break // only the most recent approval per application
		}
	}

	return events, nil
}

// approvalLink points at the FDA application overview for the given
// application number, minus its NDA/ANDA/BLA prefix.
func approvalLink(applicationNumber string) string {
	n := applicationNumber
	for _, prefix := range []string{"ANDA", "NDA", "BLA"} {
		n = strings.ReplaceAll(n, prefix, "")
	}
	return "https://www.accessdata.fda.gov/scripts/cder/daf/index.cfm?event=overview.process&ApplNo=" + n
}
