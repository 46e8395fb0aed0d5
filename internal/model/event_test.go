package model

import (
	"strings"
	"testing"
)

func TestSignature_IgnoresLinkSourceDetails(t *testing.T) {
	a := Event{Company: "Gilead", Date: "2024-05-01", Title: "Biktarvy label update",
		Link: "https://a.example.com", Source: "openFDA", Details: "x"}
	b := Event{Company: "Gilead", Date: "2024-05-01", Title: "Biktarvy label update",
		Link: "https://b.example.com", Source: "newswire"}

	if a.Signature() != b.Signature() {
		t.Error("link, source, and details must not affect the signature")
	}
}

func TestSignature_TitleTruncatedAtFiftyRunes(t *testing.T) {
	base := strings.Repeat("a", SignatureTitleLen)
	a := Event{Company: "Gilead", Date: "2024-05-01", Title: base + " trailing detail"}
	b := Event{Company: "Gilead", Date: "2024-05-01", Title: base + " different trailing detail"}
	c := Event{Company: "Gilead", Date: "2024-05-01", Title: base[:SignatureTitleLen-1] + "z"}

	if a.Signature() != b.Signature() {
		t.Error("titles agreeing on the first 50 runes must share a signature")
	}
	if a.Signature() == c.Signature() {
		t.Error("titles differing inside the first 50 runes must not share a signature")
	}
}

func TestSignature_FieldsCannotBleed(t *testing.T) {
	// Without a separator, ("AB","C") and ("A","BC") would collide.
	a := Event{Company: "AB", Date: "C", Title: "t"}
	b := Event{Company: "A", Date: "BC", Title: "t"}
	if a.Signature() == b.Signature() {
		t.Error("adjacent fields collided in the signature")
	}
}

func TestSortKey(t *testing.T) {
	dated := Event{Date: "2026-03-01"}
	unknown := Event{Date: DateUnknown}
	empty := Event{}

	if dated.SortKey() != "2026-03-01" {
		t.Errorf("unexpected key %q", dated.SortKey())
	}
	if unknown.SortKey() <= dated.SortKey() {
		t.Error("unknown dates must sort after every dated event")
	}
	if empty.SortKey() != unknown.SortKey() {
		t.Error("empty and unknown dates must share the sentinel key")
	}
}

func TestBeforeCutoff(t *testing.T) {
	cutoff := "2024-01-01"

	if !(Event{Date: "2023-12-31"}).BeforeCutoff(cutoff) {
		t.Error("expected pre-cutoff date to be stale")
	}
	if (Event{Date: "2024-01-01"}).BeforeCutoff(cutoff) {
		t.Error("the cutoff date itself is retained")
	}
	if (Event{Date: DateUnknown}).BeforeCutoff(cutoff) {
		t.Error("unknown dates are never purged for age")
	}
	if (Event{}).BeforeCutoff(cutoff) {
		t.Error("empty dates are never purged for age")
	}
}
