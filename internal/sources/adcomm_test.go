package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rxwatch/catalyst/internal/model"
)

const adcommPage = `<!DOCTYPE html>
<html><body>
<div class="views-row">
  <time datetime="2026-04-10">April 10, 2026</time>
  <a href="/advisory-committees/odac-biktarvy">ODAC Meeting: Gilead Sciences Biktarvy supplemental application</a>
</div>
<div class="views-row">
  <a href="/advisory-committees/cber-general">CBER general session on Vertex manufacturing</a>
</div>
<div class="views-row">
  <time datetime="2026-05-02">May 2, 2026</time>
  <a href="https://www.fda.gov/advisory-committees/psychopharm">Psychopharmacologic Drugs Advisory Committee</a>
</div>
</body></html>`

func TestAdComm_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(adcommPage))
	}))
	defer srv.Close()

	deps, cfg := testDeps(t, []string{"Gilead Sciences", "Vertex Pharmaceuticals"})
	cfg.Sources.AdComm.URL = srv.URL

	events, err := NewAdComm(deps).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Row 1 names "Gilead Sciences" in full. Row 2 only says "Vertex",
	// which the full-name strategy rejects. Row 3 names no company.
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %v", len(events), events)
	}

	ev := events[0]
	if ev.Company != "Gilead Sciences" {
		t.Errorf("expected company Gilead Sciences, got %q", ev.Company)
	}
	if ev.Type != "AdComm" {
		t.Errorf("expected type AdComm, got %q", ev.Type)
	}
	if ev.Date != "2026-04-10" {
		t.Errorf("expected date from <time datetime>, got %q", ev.Date)
	}
	if ev.Link != "https://www.fda.gov/advisory-committees/odac-biktarvy" {
		t.Errorf("relative href not resolved: %q", ev.Link)
	}
	if ev.Source != "FDA Calendar" {
		t.Errorf("expected source FDA Calendar, got %q", ev.Source)
	}
}

func TestAdComm_RowWithoutDateKeepsUnknown(t *testing.T) {
	page := `<div class="views-row">
	  <a href="/meetings/gild">Advisory committee to review Gilead Sciences application</a>
	</div>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	deps, cfg := testDeps(t, []string{"Gilead Sciences"})
	cfg.Sources.AdComm.URL = srv.URL

	events, err := NewAdComm(deps).Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Date != model.DateUnknown {
		t.Errorf("expected unknown-date sentinel, got %q", events[0].Date)
	}
}

func TestAdComm_FetchErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	deps, cfg := testDeps(t, []string{"Gilead Sciences"})
	cfg.Sources.AdComm.URL = srv.URL

	if _, err := NewAdComm(deps).Fetch(context.Background()); err == nil {
		t.Error("expected error for 502 calendar page")
	}
}
