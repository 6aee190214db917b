package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/chartula"
	"github.com/tsawler/chartula/cards"
)

// Run executes the cards command.
func (c *CardsCmd) Run(deps *Dependencies) error {
	ext := chartula.Open(c.File)
	if c.MaxTables > 0 {
		ext = ext.MaxTables(c.MaxTables)
	}
	if c.SkipEmpty {
		ext = ext.SkipEmptyCells()
	}
	if c.ScaleImages {
		ext = ext.ScaleImages()
	}
	if c.MediaPrefix != "" {
		ext = ext.MediaPrefix(c.MediaPrefix)
	}
	if c.OCR {
		ext = ext.AltTextOCR()
	}

	deck, warnings, err := ext.Deck()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Out, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cfg := exportConfig(c.Format)
	deckPath := filepath.Join(c.Out, deckFilename(c.File, cfg.Format))
	exporter := cards.NewExporterWithConfig(cfg)
	if err := exporter.ExportToFile(deck, deckPath); err != nil {
		return err
	}
	if err := deck.WriteMedia(c.Out); err != nil {
		return err
	}

	if len(warnings) > 0 {
		fmt.Fprintln(deps.Stderr, chartula.FormatWarnings(warnings))
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s\n", deckPath)
	for _, m := range deck.Media {
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", filepath.Join(c.Out, m.Filename))
	}
	fmt.Fprintln(deps.Stdout, chartula.ImportSummary(len(deck.Cards), len(warnings)))
	return nil
}

// exportConfig maps a format name to an export configuration. Kong has
// already validated the name against the enum.
func exportConfig(name string) cards.ExportConfig {
	switch name {
	case "json":
		return cards.JSONExportConfig()
	case "markdown":
		return cards.MarkdownExportConfig()
	default:
		return cards.DefaultExportConfig()
	}
}

// deckFilename names the deck file after the input archive.
func deckFilename(input string, format cards.ExportFormat) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "deck"
	}
	return stem + format.FileExtension()
}
