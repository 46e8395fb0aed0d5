package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/rxwatch/catalyst/internal/candidate"
	"github.com/rxwatch/catalyst/internal/model"
)

// AdComm scrapes the FDA Advisory Committee calendar page. Calendar rows
// name the sponsor in running text, so this source uses the strict
// full-name matching strategy: a lone token like "Gilead" inside an
// unrelated committee row is not enough.
type AdComm struct {
	deps    Deps
	cfg     model.AdCommConfig
	builder *candidate.Builder
}

// NewAdComm builds the advisory-committee calendar source.
func NewAdComm(deps Deps) *AdComm {
	return &AdComm{
		deps: deps,
		cfg:  deps.Config.Sources.AdComm,
		builder: candidate.NewBuilder(
			deps.Universe,
			candidate.MatchFullName,
			candidate.DateKeepUnknown,
			deps.Config.Builder.TitleMaxLen,
		),
	}
}

func (s *AdComm) Name() string { return "adcomm" }

// Fetch scrapes the calendar and returns one candidate per matched row.
// Rows without a parsable date keep the unknown sentinel; the committee
// meeting is still worth surfacing.
func (s *AdComm) Fetch(ctx context.Context) ([]model.Event, error) {
	body, err := s.deps.Fetcher.Get(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	rows := findAll(doc, func(n *html.Node) bool {
		return hasClass(n, "views-row")
	})
	if len(rows) == 0 {
		s.deps.Logger.Warn("no rows in advisory calendar, layout may have changed",
			zap.String("url", s.cfg.URL))
	}

	var events []model.Event
	for _, row := range rows {
		text := nodeText(row)

		rawDate := ""
		if timeNode := findFirst(row, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "time"
		}); timeNode != nil {
			rawDate = attr(timeNode, "datetime")
			if rawDate == "" {
				rawDate = nodeText(timeNode)
			}
		}

		title := "Advisory Committee Meeting"
		link := s.cfg.URL
		if anchor := findFirst(row, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "a"
		}); anchor != nil {
			if t := nodeText(anchor); t != "" {
				title = t
			}
			if href := attr(anchor, "href"); href != "" {
				if strings.HasPrefix(href, "http") {
					link = href
				} else {
					link = "https://www.fda.gov" + href
				}
			}
		}

		ev, ok := s.builder.Build(candidate.Raw{
			MatchText: text,
			Type:      "AdComm",
			RawDate:   rawDate,
			Title:     title,
			Link:      link,
			Source:    "FDA Calendar",
		})
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}
