package main

import (
	"context"
	"io"
)

// Dependencies holds the context and writers commands run with.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Cards  CardsCmd  `cmd:"" help:"Convert an archive's tables into a flashcard deck"`
	Unpack UnpackCmd `cmd:"" help:"Extract every MIME part of an archive into a directory"`
	Info   InfoCmd   `cmd:"" help:"Show an archive's parts and tables without converting"`
}

// CardsCmd is the "cards" subcommand.
type CardsCmd struct {
	File        string `arg:"" help:"Web archive (.mht/.mhtml) or HTML file"`
	Out         string `short:"o" default:"." help:"Output directory for the deck and its media"`
	Format      string `short:"f" default:"tsv" enum:"tsv,json,markdown" help:"Deck format"`
	MaxTables   int    `help:"Convert only the first N tables (0 = all)"`
	SkipEmpty   bool   `help:"Silently drop rows with an empty front or back"`
	ScaleImages bool   `help:"Stamp width/height attributes on rewritten images"`
	MediaPrefix string `help:"Prefix for exported media filenames"`
	OCR         bool   `help:"Fill in missing image alt text via OCR (needs the ocr build tag)"`
}

// UnpackCmd is the "unpack" subcommand.
type UnpackCmd struct {
	File string `arg:"" help:"Web archive (.mht/.mhtml)"`
	Out  string `short:"o" default:"." help:"Output directory for the parts"`
}

// InfoCmd is the "info" subcommand.
type InfoCmd struct {
	File string `arg:"" help:"Web archive (.mht/.mhtml) or HTML file"`
}
