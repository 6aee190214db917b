package cards

import (
	"bytes"
	"fmt"
	"image"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/chartula/mhtdoc"
)

// MediaFile is one exported resource referenced by at least one card.
type MediaFile struct {
	// Filename is the flat, collision-free name cards refer to.
	Filename string

	// Data is the decoded payload.
	Data []byte

	// Width and Height are the pixel dimensions, or zero when the payload
	// is not a decodable image.
	Width  int
	Height int
}

// mediaExporter hands out media files for archive parts, deduplicating by
// part and keeping filenames unique within one conversion.
type mediaExporter struct {
	prefix string
	byPart map[*mhtdoc.Part]*MediaFile
	taken  map[string]bool
	files  []*MediaFile
}

func newMediaExporter(prefix string) *mediaExporter {
	return &mediaExporter{
		prefix: prefix,
		byPart: make(map[*mhtdoc.Part]*MediaFile),
		taken:  make(map[string]bool),
	}
}

// export returns the media file for a part, creating it on first reference.
// Every reference to the same part shares one file.
func (e *mediaExporter) export(part *mhtdoc.Part) *MediaFile {
	if f, ok := e.byPart[part]; ok {
		return f
	}

	f := &MediaFile{
		Filename: e.claim(e.prefix + mediaBasename(part)),
		Data:     part.Body,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(part.Body)); err == nil {
		f.Width, f.Height = cfg.Width, cfg.Height
	}

	e.byPart[part] = f
	e.files = append(e.files, f)
	return f
}

// claim reserves a filename, appending -1, -2, ... before the extension
// until the name is free. First come, first served keeps the outcome
// deterministic for a given reference order.
func (e *mediaExporter) claim(name string) string {
	if !e.taken[name] {
		e.taken[name] = true
		return name
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if !e.taken[candidate] {
			e.taken[candidate] = true
			return candidate
		}
	}
}

// mediaBasename derives a filename from the part's location or content ID,
// adding an extension from the media type when the name carries none.
func mediaBasename(p *mhtdoc.Part) string {
	name := ""
	if p.ContentLocation != "" {
		name = locationBasename(p.ContentLocation)
	}
	if name == "" && p.ContentID != "" {
		name = p.ContentID
	}

	name = sanitizeName(name)
	if name == "" {
		name = "media"
	}
	if path.Ext(name) == "" {
		name += extensionFor(p.MediaType)
	}
	return name
}

// locationBasename extracts the final path element of a location URL.
func locationBasename(location string) string {
	base := location
	if u, err := url.Parse(location); err == nil {
		switch {
		case u.Opaque != "":
			base = path.Base(u.Opaque)
		case u.Path != "":
			base = path.Base(u.Path)
		default:
			return ""
		}
	} else {
		base = path.Base(location)
	}

	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	return base
}

// sanitizeName keeps filenames portable: anything outside letters, digits,
// dot, dash and underscore becomes a dash.
func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	return strings.Trim(sb.String(), "-.")
}

// extensionFor maps common web media types to a file extension. The table is
// fixed so exported names never depend on the host's MIME database.
func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp", "image/x-ms-bmp":
		return ".bmp"
	case "image/tiff":
		return ".tif"
	case "image/svg+xml":
		return ".svg"
	case "image/x-icon", "image/vnd.microsoft.icon":
		return ".ico"
	case "audio/mpeg":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	default:
		return ""
	}
}

// WriteMedia writes every media file into dir. The directory must exist.
func (d *Deck) WriteMedia(dir string) error {
	for _, m := range d.Media {
		if err := os.WriteFile(filepath.Join(dir, m.Filename), m.Data, 0644); err != nil {
			return fmt.Errorf("writing media file %s: %w", m.Filename, err)
		}
	}
	return nil
}
