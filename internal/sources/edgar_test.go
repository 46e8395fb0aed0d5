package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func edgarAtom(base string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="ISO-8859-1"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>8-K filings for VERTEX PHARMACEUTICALS INC</title>
  <entry>
    <title>8-K - Current report</title>
    <link rel="alternate" href="%s/filings/pdufa.htm"/>
    <updated>2026-03-01T16:30:00-05:00</updated>
  </entry>
  <entry>
    <title>8-K - Current report</title>
    <link rel="alternate" href="%s/filings/earnings.htm"/>
    <updated>2026-02-20T16:30:00-05:00</updated>
  </entry>
  <entry>
    <title>8-K - Current report</title>
    <link rel="alternate" href="%s/filings/ancient.htm"/>
    <updated>2020-01-05T16:30:00-05:00</updated>
  </entry>
</feed>`, base, base, base)
}

func TestEdgar_Fetch(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/cgi-bin/browse-edgar"):
			if cik := r.URL.Query().Get("CIK"); cik != "0000875320" {
				t.Errorf("expected zero-padded CIK, got %q", cik)
			}
			_, _ = w.Write([]byte(edgarAtom(srv.URL)))
		case r.URL.Path == "/filings/pdufa.htm":
			_, _ = w.Write([]byte("The Company announced that the FDA has assigned a PDUFA target action date of July 15, 2026 for its NDA."))
		case r.URL.Path == "/filings/earnings.htm":
			_, _ = w.Write([]byte("The Company reported financial results for the fourth quarter."))
		default:
			t.Errorf("unexpected filing request: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	deps, cfg := testDeps(t, []string{"Vertex Pharmaceuticals"})
	cfg.Sources.Edgar.BaseURL = srv.URL
	cfg.Sources.Edgar.CIKs = map[string]string{"Vertex Pharmaceuticals": "875320"}
	cfg.Sources.Edgar.Keywords = []string{"FDA", "PDUFA"}
	cfg.Sources.Edgar.LookbackDays = 365

	events, err := NewEdgar(deps).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The PDUFA filing yields an event dated by the extracted target
	// action date. The earnings filing fails the keyword screen. The
	// third filing is outside the lookback window and is never fetched.
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %v", len(events), events)
	}

	ev := events[0]
	if ev.Company != "Vertex Pharmaceuticals" {
		t.Errorf("expected preset company, got %q", ev.Company)
	}
	if ev.Type != "PDUFA Date" {
		t.Errorf("expected type PDUFA Date, got %q", ev.Type)
	}
	if ev.Date != "2026-07-15" {
		t.Errorf("expected extracted action date, got %q", ev.Date)
	}
	if !strings.HasPrefix(ev.Title, "FDA Target Action Date") {
		t.Errorf("unexpected title %q", ev.Title)
	}
	if ev.Source != "SEC EDGAR 8-K" {
		t.Errorf("unexpected source %q", ev.Source)
	}
}

func TestEdgar_IndexFailureSkipsCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	deps, cfg := testDeps(t, []string{"Vertex Pharmaceuticals"})
	cfg.Sources.Edgar.BaseURL = srv.URL
	cfg.Sources.Edgar.CIKs = map[string]string{"Vertex Pharmaceuticals": "875320"}

	events, err := NewEdgar(deps).Fetch(context.Background())
	if err != nil {
		t.Fatalf("an index failure must not abort the source: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
}
