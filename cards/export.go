package cards

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// ExportFormat defines the available deck export formats.
type ExportFormat int

const (
	// ExportFormatTSV exports front TAB back, one card per line. This is
	// the shape flashcard programs import directly.
	ExportFormatTSV ExportFormat = iota
	// ExportFormatJSON exports the full deck as a JSON object.
	ExportFormatJSON
	// ExportFormatMarkdown exports each card as a Markdown section with
	// the HTML sides converted to Markdown.
	ExportFormatMarkdown
)

// String returns a human-readable representation of the export format.
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatTSV:
		return "tsv"
	case ExportFormatJSON:
		return "json"
	case ExportFormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format.
func (ef ExportFormat) FileExtension() string {
	switch ef {
	case ExportFormatTSV:
		return ".tsv"
	case ExportFormatJSON:
		return ".json"
	case ExportFormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// ExportConfig holds deck export options.
type ExportConfig struct {
	// Format specifies the export format.
	Format ExportFormat

	// IncludeHash adds a stable content hash to each card (JSON only).
	IncludeHash bool

	// PrettyPrint enables indented output for JSON.
	PrettyPrint bool
}

// DefaultExportConfig returns the default configuration: plain TSV.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{Format: ExportFormatTSV}
}

// JSONExportConfig returns a configuration for pretty-printed JSON export.
func JSONExportConfig() ExportConfig {
	return ExportConfig{
		Format:      ExportFormatJSON,
		IncludeHash: true,
		PrettyPrint: true,
	}
}

// MarkdownExportConfig returns a configuration for Markdown export.
func MarkdownExportConfig() ExportConfig {
	return ExportConfig{Format: ExportFormatMarkdown}
}

// Exporter writes decks in the configured format.
type Exporter struct {
	config ExportConfig
	conv   *converter.Converter
}

// NewExporter creates an exporter with the default configuration.
func NewExporter() *Exporter {
	return &Exporter{config: DefaultExportConfig()}
}

// NewExporterWithConfig creates an exporter with a custom configuration.
func NewExporterWithConfig(config ExportConfig) *Exporter {
	return &Exporter{config: config}
}

// ExportedCard is a card prepared for structured export.
type ExportedCard struct {
	Front      string `json:"front"`
	Back       string `json:"back"`
	TableIndex int    `json:"table_index"`
	RowIndex   int    `json:"row_index"`
	Hash       string `json:"hash,omitempty"`
}

// exportedDeck is the serialized shape of a deck.
type exportedDeck struct {
	Cards []ExportedCard `json:"cards"`
	Media []string       `json:"media"`
}

// Export writes the deck to w in the configured format.
func (e *Exporter) Export(deck *Deck, w io.Writer) error {
	switch e.config.Format {
	case ExportFormatTSV:
		return e.exportTSV(deck, w)
	case ExportFormatJSON:
		return e.exportJSON(deck, w)
	case ExportFormatMarkdown:
		return e.exportMarkdown(deck, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile writes the deck to a file.
func (e *Exporter) ExportToFile(deck *Deck, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	return e.Export(deck, f)
}

// ExportToString returns the deck rendered to a string.
func (e *Exporter) ExportToString(deck *Deck) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(deck, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// tsvEscaper collapses the characters that would break the row structure.
// They are insignificant whitespace in HTML content, so a space is a
// faithful replacement.
var tsvEscaper = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ")

// exportTSV writes one card per line, front and back separated by a tab.
func (e *Exporter) exportTSV(deck *Deck, w io.Writer) error {
	var sb strings.Builder
	for _, card := range deck.Cards {
		sb.WriteString(tsvEscaper.Replace(card.Front))
		sb.WriteByte('\t')
		sb.WriteString(tsvEscaper.Replace(card.Back))
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// exportJSON writes the deck as one JSON object with cards and the media
// manifest.
func (e *Exporter) exportJSON(deck *Deck, w io.Writer) error {
	out := exportedDeck{
		Cards: make([]ExportedCard, len(deck.Cards)),
		Media: make([]string, len(deck.Media)),
	}

	for i, card := range deck.Cards {
		out.Cards[i] = ExportedCard{
			Front:      card.Front,
			Back:       card.Back,
			TableIndex: card.TableIndex,
			RowIndex:   card.RowIndex,
		}
		if e.config.IncludeHash {
			out.Cards[i].Hash = fmt.Sprintf("%016x", card.Hash())
		}
	}
	for i, m := range deck.Media {
		out.Media[i] = m.Filename
	}

	encoder := json.NewEncoder(w)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}

// exportMarkdown writes each card as its own section.
func (e *Exporter) exportMarkdown(deck *Deck, w io.Writer) error {
	if e.conv == nil {
		e.conv = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		)
	}

	var sb strings.Builder
	for i, card := range deck.Cards {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## Card %d\n\n", i+1)

		front, err := e.markdownSide(card.Front)
		if err != nil {
			return fmt.Errorf("converting card %d front: %w", i+1, err)
		}
		back, err := e.markdownSide(card.Back)
		if err != nil {
			return fmt.Errorf("converting card %d back: %w", i+1, err)
		}

		sb.WriteString("**Front**\n\n")
		sb.WriteString(front)
		sb.WriteString("\n\n**Back**\n\n")
		sb.WriteString(back)
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// markdownSide converts one side's HTML to Markdown. Empty sides stay empty.
func (e *Exporter) markdownSide(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	md, err := e.conv.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// Deck conveniences for the common formats.

// TSV exports the deck as tab-separated values.
func (d *Deck) TSV() (string, error) {
	return NewExporter().ExportToString(d)
}

// JSON exports the deck as a pretty-printed JSON object.
func (d *Deck) JSON() (string, error) {
	return NewExporterWithConfig(JSONExportConfig()).ExportToString(d)
}

// Markdown exports the deck as Markdown sections.
func (d *Deck) Markdown() (string, error) {
	return NewExporterWithConfig(MarkdownExportConfig()).ExportToString(d)
}
