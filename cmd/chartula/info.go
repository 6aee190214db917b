package main

import (
	"bytes"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/chartula"
	"github.com/tsawler/chartula/format"
	"github.com/tsawler/chartula/mhtdoc"
)

// Run executes the info command.
func (c *InfoCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	f := format.DetectFromMagic(data)
	if f == format.Unknown {
		f = format.Detect(c.File)
	}

	parts, warnings, err := chartula.Open(c.File).Parts()
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Format: %s\n", f)
	fmt.Fprintf(deps.Stdout, "Parts:  %d\n\n", len(parts))

	for _, p := range parts {
		line := fmt.Sprintf("%3d  %-28s %-18s %8d bytes", p.Index, partType(p), p.Encoding, len(p.Body))
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(p.Body)); err == nil {
			line += fmt.Sprintf("  %dx%d", cfg.Width, cfg.Height)
		}
		if loc := partLocation(p); loc != "" {
			line += "  " + loc
		}
		fmt.Fprintln(deps.Stdout, line)
	}

	tbls, _, err := chartula.Open(c.File).Tables()
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "\nTables: %d\n", len(tbls))
	for _, t := range tbls {
		fmt.Fprintf(deps.Stdout, "%3d  %d rows, %d convertible\n", t.Index, len(t.Rows), t.ConvertibleRows())
	}

	for _, w := range warnings {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", w.Message)
	}
	return nil
}

// partType renders the media type with the charset when one is declared.
func partType(p *mhtdoc.Part) string {
	if p.MediaType == "" {
		return "(unknown)"
	}
	if cs := p.Charset(); cs != "" {
		return p.MediaType + "; " + cs
	}
	return p.MediaType
}

// partLocation prefers the content location, falling back to the content ID.
func partLocation(p *mhtdoc.Part) string {
	if p.ContentLocation != "" {
		return p.ContentLocation
	}
	if p.ContentID != "" {
		return "cid:" + p.ContentID
	}
	return ""
}
