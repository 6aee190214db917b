// Package cards turns extracted tables into flashcards.
//
// Each convertible table row becomes one card: the first cell is the front,
// the second the back, and any further cells are ignored. Cards keep their
// cell HTML, so formatting and embedded images survive into the importing
// program.
//
// # Image Handling
//
// Image references inside a cell are resolved through the archive's
// resource registry. A resolved image is exported as a [MediaFile] with a
// flat, collision-free filename, and the card's src attribute is rewritten
// to that filename. Only referenced resources are exported, and a resource
// referenced many times is exported once.
//
// An unresolvable reference is left in place and recorded as a warning; the
// card is still emitted. Conversion never fails on content: the result of a
// messy document is a smaller deck plus warnings, not an error.
//
// Media sources and cid: anchors get the same treatment, so archived audio
// and linked attachments travel with the deck. Ordinary hyperlinks are left
// alone.
//
// # Building
//
// Create a [Builder] per conversion and feed it the extracted tables:
//
//	builder := cards.NewBuilder(reader.Registry(), cards.DefaultConfig())
//	deck := builder.Build(tbls)
//	warnings := builder.Warnings()
//
// Behavior is controlled by [Config]:
//
//   - MaxTables - cap how many tables are converted
//   - SkipEmptyCells - drop rows with an empty side
//   - MediaPrefix - prefix exported media filenames
//   - ScaleImages - stamp width/height attributes on rewritten images
//   - AltText - fill in missing alt text, typically via OCR
//
// # Export
//
// Decks export as TSV (one front TAB back line per card, ready for
// flashcard import), JSON (cards plus a media manifest), or Markdown.
// [Deck.WriteMedia] writes the exported media files next to the deck.
package cards
