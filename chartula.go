// Package chartula provides a fluent API for extracting flashcards from MHT
// web archives and bare HTML documents.
//
// An archive saved from a browser carries an HTML page plus the images it
// references. Every table in the page becomes a run of cards: the first
// cell of a row is the card front, the second the back, and embedded image
// references are rewritten to exported media files.
//
// Basic usage:
//
//	cards, warnings, err := chartula.Open("deck.mht").Cards()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", chartula.FormatWarnings(warnings))
//	}
//
// With options:
//
//	deck, _, err := chartula.Open("deck.mht").
//	    MaxTables(2).
//	    SkipEmptyCells().
//	    ScaleImages().
//	    Deck()
//
// For advanced use cases, the lower-level mhtdoc, tables and cards packages
// are also available.
package chartula

import (
	"github.com/tsawler/chartula/mhtdoc"
)

// Open opens a web archive (or bare HTML file) and returns an Extractor for
// fluent configuration. The returned Extractor must be closed when done,
// either explicitly via Close() or implicitly when calling a terminal
// operation like Cards().
//
// Example:
//
//	cards, warnings, err := chartula.Open("deck.mht").Cards()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-decoded mhtdoc.Reader.
// This is useful when you need more control over the reader lifecycle.
// Note: The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := mhtdoc.Open("deck.mht")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	cards, warnings, err := chartula.FromReader(r).Cards()
func FromReader(r *mhtdoc.Reader) *Extractor {
	return &Extractor{
		reader:       r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := chartula.Must(chartula.Open("deck.mht").TableCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustCards is a helper that wraps a call to Cards() or another terminal
// operation and panics if the error is non-nil. It discards warnings and
// returns just the value. It is intended for use in scripts or tests where
// error handling would be cumbersome.
//
// Example:
//
//	cards := chartula.MustCards(chartula.Open("deck.mht").Cards())
func MustCards[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
