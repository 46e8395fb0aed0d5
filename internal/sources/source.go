// Package sources holds the adapters that turn third-party providers into
// candidate events. Adapters share one contract: given the company
// universe and their config, produce raw candidates; on any network or
// parse failure they log and come back empty rather than abort the run.
package sources

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rxwatch/catalyst/internal/fetch"
	"github.com/rxwatch/catalyst/internal/model"
)

// Source produces candidate events from one data provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Event, error)
}

// Deps is everything an adapter needs beyond its own config section.
type Deps struct {
	Fetcher  *fetch.Fetcher
	Universe []string
	Config   *model.Config
	Logger   *zap.Logger
	Now      func() time.Time
}

// All builds every enabled source in a fixed order.
func All(deps Deps) []Source {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	candidates := []Source{
		NewAdComm(deps),
		NewApprovals(deps),
		NewLabels(deps),
		NewNewswire(deps),
		NewEdgar(deps),
		NewTrials(deps),
	}

	var enabled []Source
	for _, s := range candidates {
		if deps.Config.SourceEnabled(s.Name()) {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// containsAnyKeyword reports whether text contains at least one of the
// keywords, case-insensitively.
func containsAnyKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
