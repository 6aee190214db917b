// Package format provides input format detection for the chartula library.
package format

import (
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// MHT indicates a MIME-encapsulated web archive (.mht/.mhtml).
	MHT
	// HTML indicates a bare HTML document.
	HTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case MHT:
		return "MHT"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case MHT:
		return ".mht"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mht", ".mhtml", ".eml":
		return MHT
	case ".html", ".htm":
		return HTML
	default:
		return Unknown
	}
}

// DetectFromMagic inspects leading bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from the content alone.
func DetectFromMagic(data []byte) Format {
	if len(data) == 0 {
		return Unknown
	}

	// A web archive opens with a MIME header block, not markup.
	if detectMHTMagic(data) {
		return MHT
	}

	// HTML detection: check for <!DOCTYPE or <html or <?xml
	if detectHTMLMagic(data) {
		return HTML
	}

	return Unknown
}

// detectMHTMagic checks if the data looks like the header block of a MIME
// web archive. Saved archives start with headers such as
// "From: <Saved by ...>", "MIME-Version: 1.0" and
// "Content-Type: multipart/related".
func detectMHTMagic(data []byte) bool {
	window := strings.ToUpper(string(data[:min(512, len(data))]))

	// Markup before any header line rules out a MIME message.
	trimmed := strings.TrimLeft(window, " \t\r\n")
	if strings.HasPrefix(trimmed, "<") {
		return false
	}

	if strings.Contains(window, "MIME-VERSION:") {
		return true
	}
	if strings.Contains(window, "MULTIPART/RELATED") {
		return true
	}

	return false
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	// Trim leading whitespace
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		return false
	}
	data = data[start:]

	// Check for common HTML signatures (case-insensitive for DOCTYPE)
	upper := strings.ToUpper(string(data))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper[:min(500, len(upper))], "<HTML") {
		return true
	}

	return false
}

// DetectFromReader inspects the content to determine format.
// This is more reliable than extension-based detection since exported
// archives are often saved under misleading extensions.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	return DetectFromMagic(magic), nil
}
