package chartula

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tsawler/chartula/cards"
	"github.com/tsawler/chartula/format"
	"github.com/tsawler/chartula/mhtdoc"
	"github.com/tsawler/chartula/ocr"
	"github.com/tsawler/chartula/tables"
)

// Extractor provides a fluent interface for extracting flashcards from MHT
// web archives and bare HTML documents. Each configuration method returns a
// new Extractor instance, making it safe for concurrent use and allowing
// method chaining.
type Extractor struct {
	// Source
	filename string

	// Decoded archive
	reader *mhtdoc.Reader

	// Lifecycle
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool // true if reader has been opened

	// Configuration
	options extractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		reader:       e.reader,
		ownsReader:   e.ownsReader,
		readerOpened: e.readerOpened,
		options:      e.options.clone(),
		err:          e.err,
		warnings:     append([]Warning(nil), e.warnings...),
	}
}

// ensureReader opens and decodes the archive if not already open.
// The content is sniffed first; the filename extension is only a fallback,
// since archives are often saved under misleading extensions.
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	data, err := os.ReadFile(e.filename)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	f := format.DetectFromMagic(data)
	if f == format.Unknown {
		f = format.Detect(e.filename)
	}

	switch f {
	case format.MHT:
		r, err := mhtdoc.OpenReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to open MHT: %w", err)
		}
		e.reader = r

	case format.HTML:
		// A bare HTML document runs through the same pipeline with an
		// empty resource registry.
		e.reader = mhtdoc.FromHTML(data, "")

	default:
		return fmt.Errorf("unsupported file format: %s", f)
	}

	e.ownsReader = true
	e.readerOpened = true
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.reader != nil {
		err := e.reader.Close()
		e.reader = nil
		e.ownsReader = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// MaxTables limits how many tables are converted to cards, counted in
// document order. Zero means no limit (the default).
//
// Example:
//
//	cards, _, err := chartula.Open("deck.mht").MaxTables(1).Cards()
func (e *Extractor) MaxTables(n int) *Extractor {
	newExt := e.clone()
	newExt.options.maxTables = n
	return newExt
}

// SkipEmptyCells configures the extractor to silently drop rows whose front
// or back cell is empty or whitespace-only.
//
// Example:
//
//	cards, _, err := chartula.Open("deck.mht").SkipEmptyCells().Cards()
func (e *Extractor) SkipEmptyCells() *Extractor {
	newExt := e.clone()
	newExt.options.skipEmptyCells = true
	return newExt
}

// MediaPrefix prepends a static prefix to every exported media filename,
// keeping one deck's media distinguishable in a shared collection folder.
//
// Example:
//
//	deck, _, err := chartula.Open("deck.mht").MediaPrefix("geo-").Deck()
func (e *Extractor) MediaPrefix(prefix string) *Extractor {
	newExt := e.clone()
	newExt.options.mediaPrefix = prefix
	return newExt
}

// ScaleImages stamps width and height attributes on rewritten images whose
// dimensions could be read, so the importing program renders them at their
// natural size.
//
// Example:
//
//	deck, _, err := chartula.Open("deck.mht").ScaleImages().Deck()
func (e *Extractor) ScaleImages() *Extractor {
	newExt := e.clone()
	newExt.options.scaleImages = true
	return newExt
}

// AltTextOCR fills in missing alt attributes on rewritten images by running
// OCR over the exported image bytes. Requires a binary built with the "ocr"
// tag and a Tesseract installation; otherwise the import proceeds without
// alt text and a warning is recorded.
//
// Example:
//
//	deck, warnings, err := chartula.Open("deck.mht").AltTextOCR().Deck()
func (e *Extractor) AltTextOCR() *Extractor {
	newExt := e.clone()
	newExt.options.altTextOCR = true
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Cards extracts flashcards from every table in the archive.
// This is a terminal operation that closes the underlying reader.
//
// Returns the cards in (table, row) order, any warnings encountered during
// processing, and an error if the archive could not be decoded. Warnings
// indicate non-fatal issues (an undecodable part, a missing image, a row
// that could not become a card) where the import succeeded but the deck may
// be smaller than the document suggests.
//
// Example:
//
//	cards, warnings, err := chartula.Open("deck.mht").Cards()
//	if len(warnings) > 0 {
//	    log.Println(chartula.FormatWarnings(warnings))
//	}
func (e *Extractor) Cards() ([]*cards.Card, []Warning, error) {
	deck, warnings, err := e.Deck()
	if err != nil {
		return nil, warnings, err
	}
	return deck.Cards, warnings, nil
}

// Deck extracts flashcards together with the media files they reference.
// The caller is responsible for storing each media file under its Filename
// (see [cards.Deck.WriteMedia]).
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	deck, warnings, err := chartula.Open("deck.mht").ScaleImages().Deck()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := deck.WriteMedia("out"); err != nil {
//	    log.Fatal(err)
//	}
func (e *Extractor) Deck() (*cards.Deck, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	return e.buildDeck()
}

// Tables extracts the raw tables from the archive's root document without
// converting them to cards.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	tbls, _, err := chartula.Open("deck.mht").Tables()
//	for _, tbl := range tbls {
//	    fmt.Printf("table %d: %d rows\n", tbl.Index, len(tbl.Rows))
//	}
func (e *Extractor) Tables() ([]*tables.Table, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	tbls, err := e.extractTables()
	if err != nil {
		return nil, e.collectWarnings(), err
	}
	return tbls, e.collectWarnings(), nil
}

// Parts returns the decoded MIME parts of the archive in file order.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	parts, _, err := chartula.Open("deck.mht").Parts()
//	for _, p := range parts {
//	    fmt.Printf("%s %s (%d bytes)\n", p.MediaType, p.ContentLocation, len(p.Body))
//	}
func (e *Extractor) Parts() ([]*mhtdoc.Part, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	return e.reader.Parts(), e.collectWarnings(), nil
}

// TSV extracts flashcards and renders them as tab-separated values, one
// front TAB back line per card, the shape flashcard programs import
// directly. Media files are not written; use Deck for those.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	tsv, warnings, err := chartula.Open("deck.mht").TSV()
func (e *Extractor) TSV() (string, []Warning, error) {
	deck, warnings, err := e.Deck()
	if err != nil {
		return "", warnings, err
	}

	out, err := deck.TSV()
	if err != nil {
		return "", warnings, err
	}
	return out, warnings, nil
}

// Markdown extracts flashcards and renders them as Markdown sections with
// the HTML sides converted to Markdown.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	md, warnings, err := chartula.Open("deck.mht").Markdown()
func (e *Extractor) Markdown() (string, []Warning, error) {
	deck, warnings, err := e.Deck()
	if err != nil {
		return "", warnings, err
	}

	out, err := deck.Markdown()
	if err != nil {
		return "", warnings, err
	}
	return out, warnings, nil
}

// TableCount returns the number of tables in the archive's root document.
// Note: This does NOT close the reader, allowing further operations.
//
// Example:
//
//	ext := chartula.Open("deck.mht")
//	defer ext.Close()
//	count, err := ext.TableCount()
func (e *Extractor) TableCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	if err := e.ensureReader(); err != nil {
		return 0, err
	}

	tbls, err := e.extractTables()
	if err != nil {
		return 0, err
	}
	return len(tbls), nil
}

// PartCount returns the number of decoded MIME parts in the archive.
// Note: This does NOT close the reader, allowing further operations.
//
// Example:
//
//	ext := chartula.Open("deck.mht")
//	defer ext.Close()
//	count, err := ext.PartCount()
func (e *Extractor) PartCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	if err := e.ensureReader(); err != nil {
		return 0, err
	}

	return e.reader.PartCount(), nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// extractTables parses the root document and collects its tables.
func (e *Extractor) extractTables() ([]*tables.Table, error) {
	tbls, err := tables.Extract(e.reader.Root().Text())
	if err != nil {
		return nil, fmt.Errorf("extracting tables: %w", err)
	}
	return tbls, nil
}

// buildDeck runs the card pipeline over the open reader.
func (e *Extractor) buildDeck() (*cards.Deck, []Warning, error) {
	tbls, err := e.extractTables()
	if err != nil {
		return nil, e.collectWarnings(), err
	}

	cfg := cards.Config{
		MaxTables:      e.options.maxTables,
		SkipEmptyCells: e.options.skipEmptyCells,
		MediaPrefix:    e.options.mediaPrefix,
		ScaleImages:    e.options.scaleImages,
	}

	if e.options.altTextOCR {
		client, err := ocr.New()
		if err != nil {
			e.warnings = append(e.warnings, Warning{
				Kind:    WarningOCR,
				Message: fmt.Sprintf("alt text recognition unavailable: %v", err),
			})
		} else {
			defer client.Close()
			cfg.AltText = client
		}
	}

	builder := cards.NewBuilder(e.reader.Registry(), cfg)
	deck := builder.Build(tbls)

	warnings := e.collectWarnings()
	for _, w := range builder.Warnings() {
		warnings = append(warnings, cardWarning(w))
	}
	return deck, warnings, nil
}

// collectWarnings converts the reader's decode warnings to the public form
// and appends any accumulated extractor warnings.
func (e *Extractor) collectWarnings() []Warning {
	var out []Warning
	if e.reader != nil {
		for _, w := range e.reader.Warnings() {
			out = append(out, partWarning(w))
		}
	}
	out = append(out, e.warnings...)
	return out
}
