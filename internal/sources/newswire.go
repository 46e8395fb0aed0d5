package sources

import (
	"context"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/rxwatch/catalyst/internal/candidate"
	"github.com/rxwatch/catalyst/internal/model"
)

// Newswire scans press-release RSS feeds for regulatory announcements. An
// entry becomes a candidate only when it passes the keyword screen and a
// universe company matches its text.
type Newswire struct {
	deps    Deps
	cfg     model.NewswireConfig
	parser  *gofeed.Parser
	builder *candidate.Builder
}

// NewNewswire builds the RSS press-release source.
func NewNewswire(deps Deps) *Newswire {
	b := candidate.NewBuilder(
		deps.Universe,
		candidate.MatchAnyLongToken,
		candidate.DateToday, // a press release without a timestamp ran today
		deps.Config.Builder.TitleMaxLen,
	)
	if deps.Now != nil {
		b.Now = deps.Now
	}
	return &Newswire{
		deps:    deps,
		cfg:     deps.Config.Sources.Newswire,
		parser:  gofeed.NewParser(),
		builder: b,
	}
}

func (s *Newswire) Name() string { return "newswire" }

// Fetch scans every configured feed. A broken feed is logged and skipped;
// the remaining feeds still contribute.
func (s *Newswire) Fetch(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	for _, feed := range s.cfg.Feeds {
		body, err := s.deps.Fetcher.Get(ctx, feed.URL)
		if err != nil {
			s.deps.Logger.Warn("feed fetch failed",
				zap.String("feed", feed.Name), zap.Error(err))
			continue
		}

		parsed, err := s.parser.ParseString(string(body))
		if err != nil {
			s.deps.Logger.Warn("feed parse failed",
				zap.String("feed", feed.Name), zap.Error(err))
			continue
		}

		for _, item := range parsed.Items {
			content := item.Title + " " + item.Description
			if !containsAnyKeyword(content, s.cfg.Keywords) {
				continue
			}

			rawDate := item.Published
			if item.PublishedParsed != nil {
				rawDate = item.PublishedParsed.Format("2006-01-02")
			}

			link := item.Link
			if link == "" {
				link = feed.URL
			}

			ev, ok := s.builder.Build(candidate.Raw{
				MatchText: content,
				Type:      "Press Release",
				RawDate:   rawDate,
				Title:     item.Title,
				Link:      link,
				Source:    feed.Name,
			})
			if ok {
				events = append(events, ev)
			}
		}
	}

	return events, nil
}
