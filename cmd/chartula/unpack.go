package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tsawler/chartula/mhtdoc"
)

// Run executes the unpack command.
func (c *UnpackCmd) Run(deps *Dependencies) error {
	r, err := mhtdoc.Open(c.File)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := os.MkdirAll(c.Out, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := r.Root()
	taken := make(map[string]bool)
	for _, p := range r.Parts() {
		name := claimName(taken, partFilename(p, p == root))
		dest := filepath.Join(c.Out, name)
		if err := os.WriteFile(dest, p.Body, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		fmt.Fprintf(deps.Stdout, "%-24s %s (%d bytes)\n", name, p.MediaType, len(p.Body))
	}

	for _, w := range r.Warnings() {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", w.Message)
	}
	fmt.Fprintf(deps.Stdout, "Unpacked %d parts to %s\n", r.PartCount(), c.Out)
	return nil
}

// partFilename picks an output name for a part. The root document becomes
// index.html so the unpacked directory opens in a browser.
func partFilename(p *mhtdoc.Part, isRoot bool) string {
	if isRoot && p.IsHTML() {
		return "index.html"
	}

	name := p.Filename
	if name == "" && p.ContentLocation != "" {
		name = locationName(p.ContentLocation)
	}
	if name == "" {
		name = p.ContentID
	}
	name = safeName(name)
	if name == "" {
		name = fmt.Sprintf("part-%d", p.Index)
	}
	if path.Ext(name) == "" {
		name += extensionGuess(p.MediaType)
	}
	return name
}

// locationName reduces a content location to its last path element.
func locationName(location string) string {
	location = strings.TrimPrefix(location, "cid:")
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	location = strings.TrimRight(location, "/")
	if location == "" {
		return ""
	}
	return path.Base(location)
}

// safeName strips characters that do not belong in a local filename.
func safeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '@', ' ':
			return '-'
		}
		return r
	}, name)
	return strings.Trim(name, "-. ")
}

// extensionGuess supplies a file extension for common archive part types.
func extensionGuess(mediaType string) string {
	switch mediaType {
	case "text/html":
		return ".html"
	case "text/css":
		return ".css"
	case "text/plain":
		return ".txt"
	case "text/javascript", "application/javascript":
		return ".js"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}

// claimName reserves name in taken, appending -1, -2, ... before the
// extension until the name is free.
func claimName(taken map[string]bool, name string) string {
	if !taken[name] {
		taken[name] = true
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if !taken[candidate] {
			taken[candidate] = true
			return candidate
		}
	}
}
