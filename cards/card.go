package cards

import (
	"github.com/cespare/xxhash/v2"
)

// Card is one front/back flashcard produced from a table row.
type Card struct {
	// Front and Back hold the source cell HTML after image references were
	// rewritten to exported media filenames.
	Front string
	Back  string

	// TableIndex and RowIndex locate the source row, both starting at 0.
	TableIndex int
	RowIndex   int
}

// Hash returns a stable content hash of the card's two sides. Cards with
// identical content hash identically across runs, which lets importers
// recognize repeated conversions of the same page.
func (c *Card) Hash() uint64 {
	d := xxhash.New()
	d.WriteString(c.Front)
	d.Write([]byte{0})
	d.WriteString(c.Back)
	return d.Sum64()
}

// Deck is the complete output of one conversion.
type Deck struct {
	// Cards in (table, row) source order.
	Cards []*Card

	// Media holds every exported file, in first-reference order. Only
	// resources some card actually points at are exported.
	Media []*MediaFile

	// SkippedRows counts rows that produced no card.
	SkippedRows int
}
