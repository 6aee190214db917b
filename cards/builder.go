package cards

import (
	"fmt"

	"github.com/tsawler/chartula/mhtdoc"
	"github.com/tsawler/chartula/tables"
)

// WarningKind classifies a conversion warning.
type WarningKind int

const (
	// WarningUnresolvedReference marks an image reference no archive part
	// satisfies. The reference is left untouched on the emitted card.
	WarningUnresolvedReference WarningKind = iota

	// WarningUnconvertibleRow marks a row with fewer than two cells.
	WarningUnconvertibleRow
)

// String returns a human-readable name for the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarningUnresolvedReference:
		return "unresolved reference"
	case WarningUnconvertibleRow:
		return "unconvertible row"
	default:
		return "unknown"
	}
}

// Warning describes a non-fatal problem found while building cards.
type Warning struct {
	Kind       WarningKind
	TableIndex int
	RowIndex   int
	Message    string
}

// AltTexter produces alternative text for an image payload. The typical
// implementation runs OCR over the image; a nil AltTexter leaves alt
// attributes alone.
type AltTexter interface {
	AltText(data []byte) (string, error)
}

// Config holds card building configuration.
type Config struct {
	// MaxTables caps how many tables are converted, in document order.
	// Zero or negative means every table.
	MaxTables int

	// SkipEmptyCells drops rows whose front or back side ends up empty
	// instead of emitting a card with a blank side. Skips requested this
	// way are counted, not warned about.
	SkipEmptyCells bool

	// MediaPrefix is prepended to every exported media filename. Useful to
	// keep one conversion's files grouped inside a flat media collection.
	MediaPrefix string

	// ScaleImages stamps rewritten image tags with explicit width and
	// height attributes read from the decoded image, so cards lay out at
	// natural size before media finishes loading.
	ScaleImages bool

	// AltText, when set, fills in missing alt attributes on rewritten
	// images.
	AltText AltTexter
}

// DefaultConfig returns the default building configuration: every table,
// every row, bare filenames.
func DefaultConfig() Config {
	return Config{}
}

// Builder converts extracted tables into cards, resolving image references
// through the archive's resource registry.
//
// A Builder is single-use: it accumulates media files and warnings for
// exactly one conversion. Create a new one per document.
type Builder struct {
	cfg      Config
	registry *mhtdoc.Registry
	media    *mediaExporter
	warnings []Warning
}

// NewBuilder creates a builder over the given registry.
func NewBuilder(registry *mhtdoc.Registry, cfg Config) *Builder {
	return &Builder{
		cfg:      cfg,
		registry: registry,
		media:    newMediaExporter(cfg.MediaPrefix),
	}
}

// Build converts tables into a deck. Cards come out ordered by source table
// and row. Unresolvable references and unusable rows become warnings, never
// errors: a partial deck beats no deck.
func (b *Builder) Build(tbls []*tables.Table) *Deck {
	deck := &Deck{}

	limit := len(tbls)
	if b.cfg.MaxTables > 0 && b.cfg.MaxTables < limit {
		limit = b.cfg.MaxTables
	}

	for _, tbl := range tbls[:limit] {
		for _, row := range tbl.Rows {
			b.buildRow(deck, tbl.Index, row)
		}
	}

	deck.Media = b.media.files
	return deck
}

func (b *Builder) buildRow(deck *Deck, tableIndex int, row tables.Row) {
	if !row.Convertible() {
		deck.SkippedRows++
		b.warnf(WarningUnconvertibleRow, tableIndex, row.Index,
			"table %d row %d has %d cell(s), need at least 2", tableIndex, row.Index, len(row.Cells))
		return
	}

	// Cells beyond the first two are ignored.
	front := b.rewriteCell(tableIndex, row.Index, row.Cells[0].HTML)
	back := b.rewriteCell(tableIndex, row.Index, row.Cells[1].HTML)

	if b.cfg.SkipEmptyCells && (front == "" || back == "") {
		deck.SkippedRows++
		return
	}

	deck.Cards = append(deck.Cards, &Card{
		Front:      front,
		Back:       back,
		TableIndex: tableIndex,
		RowIndex:   row.Index,
	})
}

// Warnings returns the problems recorded while building, in encounter order.
func (b *Builder) Warnings() []Warning {
	return b.warnings
}

func (b *Builder) warnf(kind WarningKind, tableIndex, rowIndex int, format string, args ...interface{}) {
	b.warnings = append(b.warnings, Warning{
		Kind:       kind,
		TableIndex: tableIndex,
		RowIndex:   rowIndex,
		Message:    fmt.Sprintf(format, args...),
	})
}
