package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/rxwatch/catalyst/internal/candidate"
	"github.com/rxwatch/catalyst/internal/dates"
	"github.com/rxwatch/catalyst/internal/model"
)

// Trials queries the ClinicalTrials.gov v2 API for late-stage trials per
// sponsor and emits their expected completion dates. Months without a day
// come back as YYYY-MM and normalize to day 28.
type Trials struct {
	deps    Deps
	cfg     model.TrialsConfig
	builder *candidate.Builder
}

// NewTrials builds the ClinicalTrials.gov source.
func NewTrials(deps Deps) *Trials {
	return &Trials{
		deps: deps,
		cfg:  deps.Config.Sources.Trials,
		builder: candidate.NewBuilder(
			deps.Universe,
			candidate.MatchAnyLongToken, // unused: sponsor names are preset
			candidate.DateDrop,          // a completion event is its date
			deps.Config.Builder.TitleMaxLen,
		),
	}
}

func (s *Trials) Name() string { return "trials" }

type studiesResponse struct {
	Studies []study `json:"studies"`
}

type study struct {
	ProtocolSection protocolSection `json:"protocolSection"`
}

type protocolSection struct {
	Identification identificationModule `json:"identificationModule"`
	Status         statusModule         `json:"statusModule"`
	Design         designModule         `json:"designModule"`
	Conditions     conditionsModule     `json:"conditionsModule"`
	Arms           armsModule           `json:"armsInterventionsModule"`
}

type identificationModule struct {
	NCTID         string `json:"nctId"`
	BriefTitle    string `json:"briefTitle"`
	OfficialTitle string `json:"officialTitle"`
}

type statusModule struct {
	OverallStatus         string     `json:"overallStatus"`
	PrimaryCompletionDate dateStruct `json:"primaryCompletionDateStruct"`
}

type dateStruct struct {
	Date string `json:"date"`
}

type designModule struct {
	Phases []string `json:"phases"`
}

type conditionsModule struct {
	Conditions []string `json:"conditions"`
}

type armsModule struct {
	Interventions []intervention `json:"interventions"`
}

type intervention struct {
	Name string `json:"name"`
}

// Fetch searches each sponsor and phase. A failed sponsor query is logged
// and the remaining sponsors still run.
func (s *Trials) Fetch(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	for _, sponsor := range s.cfg.Sponsors {
		for _, phase := range s.cfg.Phases {
			studies, err := s.search(ctx, sponsor, phase)
			if err != nil {
				s.deps.Logger.Warn("trial search failed",
					zap.String("sponsor", sponsor), zap.String("phase", phase), zap.Error(err))
				continue
			}
			events = append(events, s.extract(studies, sponsor)...)
		}
	}
	return events, nil
}

func (s *Trials) search(ctx context.Context, sponsor, phase string) ([]study, error) {
	params := url.Values{}
	params.Set("query.spons", sponsor)
	params.Set("filter.overallStatus", "ACTIVE_NOT_RECRUITING,COMPLETED")
	params.Set("filter.phase", phase)
	params.Set("pageSize", fmt.Sprintf("%d", s.cfg.PageSize))
	params.Set("fields", "NCTId,BriefTitle,OfficialTitle,OverallStatus,Phase,PrimaryCompletionDate,LeadSponsorName,Condition,InterventionName")

	var resp studiesResponse
	if err := s.deps.Fetcher.GetJSON(ctx, s.cfg.URL, params, &resp); err != nil {
		return nil, err
	}
	return resp.Studies, nil
}

// extract builds completion events for one sponsor's studies, suppressing
// completions further back than the lookback window.
func (s *Trials) extract(studies []study, sponsor string) []model.Event {
	var events []model.Event
	for _, st := range studies {
		p := st.ProtocolSection

		completion, ok := dates.Normalize(p.Status.PrimaryCompletionDate.Date)
		if !ok {
			continue
		}
		if !dates.WithinLookback(completion, s.deps.Now(), s.cfg.LookbackDays) {
			continue
		}

		phaseStr := "Phase 3"
		if len(p.Design.Phases) > 0 {
			phaseStr = strings.ReplaceAll(strings.Join(p.Design.Phases, ", "), "PHASE", "Phase ")
		}

		condition := "Various"
		if len(p.Conditions.Conditions) > 0 {
			condition = p.Conditions.Conditions[0]
		}

		drug := model.DrugUnspecified
		if len(p.Arms.Interventions) > 0 && p.Arms.Interventions[0].Name != "" {
			drug = p.Arms.Interventions[0].Name
			if r := []rune(drug); len(r) > 50 {
				drug = string(r[:50])
			}
		}

		ev, ok := s.builder.Build(candidate.Raw{
			Company: sponsor,
			Drug:    drug,
			Type:    phaseStr + " Completion",
			RawDate: completion,
			Title:   fmt.Sprintf("%s: %s - Trial Completion Expected", drug, condition),
			Link:    "https://clinicaltrials.gov/study/" + p.Identification.NCTID,
			Source:  "ClinicalTrials.gov",
		})
		if ok {
			events = append(events, ev)
		}
	}
	return events
}
