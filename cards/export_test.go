package cards

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testDeck() *Deck {
	return &Deck{
		Cards: []*Card{
			{Front: "q1", Back: "a1"},
			{Front: "q2", Back: "a2", TableIndex: 1, RowIndex: 3},
		},
		Media: []*MediaFile{
			{Filename: "img.png", Data: []byte("DATA")},
		},
	}
}

func TestExportTSV(t *testing.T) {
	got, err := NewExporter().ExportToString(testDeck())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	want := "q1\ta1\nq2\ta2\n"
	if got != want {
		t.Errorf("TSV = %q, want %q", got, want)
	}
}

func TestExportTSVEscaping(t *testing.T) {
	deck := &Deck{
		Cards: []*Card{
			{Front: "line\none", Back: "tab\there"},
		},
	}

	got, err := NewExporter().ExportToString(deck)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	want := "line one\ttab here\n"
	if got != want {
		t.Errorf("TSV = %q, want %q", got, want)
	}
}

func TestExportJSON(t *testing.T) {
	got, err := NewExporterWithConfig(JSONExportConfig()).ExportToString(testDeck())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var decoded exportedDeck
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(decoded.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(decoded.Cards))
	}
	if decoded.Cards[0].Front != "q1" || decoded.Cards[0].Back != "a1" {
		t.Errorf("card 0 = %q / %q, want q1 / a1", decoded.Cards[0].Front, decoded.Cards[0].Back)
	}
	if decoded.Cards[1].TableIndex != 1 || decoded.Cards[1].RowIndex != 3 {
		t.Errorf("card 1 position = (%d, %d), want (1, 3)",
			decoded.Cards[1].TableIndex, decoded.Cards[1].RowIndex)
	}
	if len(decoded.Cards[0].Hash) != 16 {
		t.Errorf("hash = %q, want 16 hex digits", decoded.Cards[0].Hash)
	}
	if len(decoded.Media) != 1 || decoded.Media[0] != "img.png" {
		t.Errorf("media = %v, want [img.png]", decoded.Media)
	}
}

func TestExportJSONWithoutHash(t *testing.T) {
	cfg := ExportConfig{Format: ExportFormatJSON}
	got, err := NewExporterWithConfig(cfg).ExportToString(testDeck())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if strings.Contains(got, "hash") {
		t.Errorf("output = %q, want no hash fields", got)
	}
}

func TestExportMarkdown(t *testing.T) {
	deck := &Deck{
		Cards: []*Card{
			{Front: "<b>bold</b> question", Back: "plain answer"},
			{Front: "second", Back: "card"},
		},
	}

	got, err := NewExporterWithConfig(MarkdownExportConfig()).ExportToString(deck)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	for _, want := range []string{
		"## Card 1",
		"## Card 2",
		"**Front**",
		"**Back**",
		"**bold** question",
		"plain answer",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.tsv")
	if err := NewExporter().ExportToFile(testDeck(), path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if string(data) != "q1\ta1\nq2\ta2\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	e := NewExporterWithConfig(ExportConfig{Format: ExportFormat(99)})
	if _, err := e.ExportToString(testDeck()); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestExportFormatString(t *testing.T) {
	tests := []struct {
		format ExportFormat
		want   string
	}{
		{ExportFormatTSV, "tsv"},
		{ExportFormatJSON, "json"},
		{ExportFormatMarkdown, "markdown"},
		{ExportFormat(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestExportFileExtension(t *testing.T) {
	tests := []struct {
		format ExportFormat
		want   string
	}{
		{ExportFormatTSV, ".tsv"},
		{ExportFormatJSON, ".json"},
		{ExportFormatMarkdown, ".md"},
		{ExportFormat(99), ".txt"},
	}

	for _, tt := range tests {
		if got := tt.format.FileExtension(); got != tt.want {
			t.Errorf("FileExtension() = %q, want %q", got, tt.want)
		}
	}
}

func TestDeckConveniences(t *testing.T) {
	deck := testDeck()

	tsv, err := deck.TSV()
	if err != nil {
		t.Fatalf("TSV failed: %v", err)
	}
	if tsv != "q1\ta1\nq2\ta2\n" {
		t.Errorf("TSV = %q", tsv)
	}

	jsonOut, err := deck.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !json.Valid([]byte(jsonOut)) {
		t.Error("JSON output is not valid JSON")
	}

	md, err := deck.Markdown()
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if !strings.Contains(md, "## Card 1") {
		t.Errorf("Markdown = %q, want card sections", md)
	}
}
