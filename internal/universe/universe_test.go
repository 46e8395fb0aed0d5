package universe

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead_NameColumn(t *testing.T) {
	csv := "Symbol,Name,Market Cap\nVRTX,Vertex Pharmaceuticals,100B\nGILD,Gilead Sciences,90B\n"
	got, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Vertex Pharmaceuticals", "Gilead Sciences"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRead_NamePreferredOverSymbol(t *testing.T) {
	// "Name" wins even though "Symbol" appears first in the header.
	csv := "Symbol,Name\nMRNA,Moderna\n"
	got, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "Moderna" {
		t.Errorf("expected [Moderna], got %v", got)
	}
}

func TestRead_SymbolFallback(t *testing.T) {
	csv := "Symbol,Market Cap\nAMGN,140B\nREGN,80B\n"
	got, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"AMGN", "REGN"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRead_BOMOnFirstHeaderCell(t *testing.T) {
	csv := "\ufeffName\nVertex Pharmaceuticals\n"
	got, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("BOM-prefixed header rejected: %v", err)
	}
	if len(got) != 1 || got[0] != "Vertex Pharmaceuticals" {
		t.Errorf("expected [Vertex Pharmaceuticals], got %v", got)
	}
}

func TestRead_SkipsBlankAndShortRows(t *testing.T) {
	csv := "Symbol,Name\nVRTX,Vertex Pharmaceuticals\nGILD,\nAMGN\n,  \nMRNA,Moderna\n"
	got, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Vertex Pharmaceuticals", "Moderna"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRead_PreservesFileOrder(t *testing.T) {
	csv := "Name\nZentalis\nAlnylam\nMirati\n"
	got, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Zentalis", "Alnylam", "Mirati"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order not preserved: expected %v, got %v", want, got)
	}
}

func TestRead_NoRecognizedColumn(t *testing.T) {
	if _, err := Read(strings.NewReader("Ticker,Sector\nVRTX,Biotech\n")); err == nil {
		t.Error("expected error for unrecognized header")
	}
}

func TestRead_EmptyFile(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.csv")
	if err := os.WriteFile(path, []byte("Name\nVertex Pharmaceuticals\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "Vertex Pharmaceuticals" {
		t.Errorf("expected [Vertex Pharmaceuticals], got %v", got)
	}

	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
