package mhtdoc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/textproto"
	"os"
	"strings"

	"github.com/tsawler/chartula/internal/filters"
)

// Reader-related errors.
var (
	ErrMalformedContainer = errors.New("mht: malformed MIME container")
	ErrMissingRoot        = errors.New("mht: no root HTML document found")
)

// maxPreambleScan bounds how far into the body the opening boundary line may
// appear before the container is rejected as malformed.
const maxPreambleScan = 64 * 1024

// Reader provides access to the decoded parts of a web archive.
type Reader struct {
	parts    []*Part
	root     *Part
	registry *Registry
	warnings []Warning
}

// Open decodes a web archive from a path.
func Open(filePath string) (*Reader, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return parse(data)
}

// OpenReader decodes a web archive from r. The input is read fully up front;
// there is no streaming contract.
func OpenReader(r io.Reader) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return parse(data)
}

// FromHTML wraps a bare HTML document in a single-part Reader with an empty
// registry. This backs the degraded path where the input is a plain saved
// page rather than an archive: references cannot be resolved, but tables can
// still be extracted.
func FromHTML(data []byte, location string) *Reader {
	part := &Part{
		ContentType:     "text/html",
		MediaType:       "text/html",
		ContentLocation: location,
		Body:            data,
	}
	return &Reader{
		parts:    []*Part{part},
		root:     part,
		registry: NewRegistry(nil, location),
	}
}

// parse decodes the archive structure: top-level headers, boundary, parts.
func parse(data []byte) (*Reader, error) {
	tp := textproto.NewReader(bufio.NewReader(bytes.NewReader(data)))
	header, err := tp.ReadMIMEHeader()
	if err != nil {
		return nil, ErrMalformedContainer
	}

	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return nil, ErrMalformedContainer
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, ErrMalformedContainer
	}

	body, err := io.ReadAll(tp.R)
	if err != nil {
		return nil, ErrMalformedContainer
	}

	segments, err := splitParts(body, boundary)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, ErrMalformedContainer
	}

	r := &Reader{}
	for i, segment := range segments {
		part, warns := parsePart(i, segment)
		r.parts = append(r.parts, part)
		r.warnings = append(r.warnings, warns...)
	}

	// The root document is the first HTML part that is not an attachment.
	// Exports ship the page itself without a disposition filename.
	for _, p := range r.parts {
		if p.IsHTML() && p.Filename == "" {
			r.root = p
			break
		}
	}
	if r.root == nil {
		return nil, ErrMissingRoot
	}

	r.registry = NewRegistry(r.parts, r.root.ContentLocation)
	return r, nil
}

// splitParts cuts the multipart body into boundary-delimited segments.
// Content before the first boundary (the preamble) and after the closing
// boundary (the epilogue) is discarded. A missing closing boundary is
// tolerated; a missing opening boundary is not.
func splitParts(body []byte, boundary string) ([][]byte, error) {
	delim := []byte("--" + boundary)
	closeDelim := []byte("--" + boundary + "--")

	var segments [][]byte
	segStart := -1

	offset := 0
	for offset < len(body) {
		lineStart := offset
		lineEnd := bytes.IndexByte(body[offset:], '\n')
		if lineEnd < 0 {
			lineEnd = len(body)
			offset = len(body)
		} else {
			lineEnd += offset
			offset = lineEnd + 1
		}

		// Boundary lines may carry transport padding after the delimiter.
		line := bytes.TrimRight(body[lineStart:lineEnd], " \t\r")
		isClose := bytes.Equal(line, closeDelim)
		if !isClose && !bytes.Equal(line, delim) {
			if segStart < 0 && lineStart > maxPreambleScan {
				return nil, ErrMalformedContainer
			}
			continue
		}

		if segStart >= 0 {
			segments = append(segments, trimTrailingBreak(body[segStart:lineStart]))
		}
		if isClose {
			return segments, nil
		}
		segStart = offset
	}

	// Truncated archive with no closing boundary: keep what we have.
	if segStart >= 0 {
		segments = append(segments, trimTrailingBreak(body[segStart:]))
	}
	return segments, nil
}

// trimTrailingBreak removes the single line break that belongs to the
// following boundary delimiter, not to the part content.
func trimTrailingBreak(b []byte) []byte {
	if bytes.HasSuffix(b, []byte("\r\n")) {
		return b[:len(b)-2]
	}
	if bytes.HasSuffix(b, []byte("\n")) {
		return b[:len(b)-1]
	}
	return b
}

// parsePart decodes one boundary segment into a Part. Decode problems are
// recovered per part: the raw body is kept and a warning recorded, since the
// remaining parts may still be perfectly usable.
func parsePart(index int, segment []byte) (*Part, []Warning) {
	var warnings []Warning

	tp := textproto.NewReader(bufio.NewReader(bytes.NewReader(segment)))
	header, err := tp.ReadMIMEHeader()
	if err != nil && len(header) == 0 {
		header = textproto.MIMEHeader{}
	}
	body, _ := io.ReadAll(tp.R)

	part := &Part{
		Index:           index,
		ContentType:     header.Get("Content-Type"),
		ContentLocation: strings.TrimSpace(header.Get("Content-Location")),
		ContentID:       strings.Trim(strings.TrimSpace(header.Get("Content-ID")), "<>"),
	}

	if mediaType, params, err := mime.ParseMediaType(part.ContentType); err == nil {
		part.MediaType = mediaType
		part.Params = params
	}
	part.Filename = attachmentFilename(header, part.Params)

	rawEncoding := header.Get("Content-Transfer-Encoding")
	enc, known := ParseEncoding(rawEncoding)
	if !known {
		warnings = append(warnings, Warning{
			PartIndex: index,
			Message:   fmt.Sprintf("%s: unrecognized transfer encoding %q; body left undecoded", partLabel(index, part.ContentLocation), rawEncoding),
		})
	}
	part.Encoding = enc

	switch enc {
	case EncodingBase64:
		decoded, err := filters.Base64Decode(body)
		if err != nil {
			warnings = append(warnings, Warning{
				PartIndex: index,
				Message:   fmt.Sprintf("%s: %v; body left undecoded", partLabel(index, part.ContentLocation), err),
			})
			part.Body = body
		} else {
			part.Body = decoded
		}
	case EncodingQuotedPrintable:
		part.Body = filters.QuotedPrintableDecode(body)
	default:
		part.Body = body
	}

	return part, warnings
}

// attachmentFilename extracts the attachment filename, preferring the
// Content-Disposition filename over the media type name parameter.
func attachmentFilename(header textproto.MIMEHeader, typeParams map[string]string) string {
	name := ""
	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			name = params["filename"]
		}
	}
	if name == "" && typeParams != nil {
		name = typeParams["name"]
	}
	if name == "" {
		return ""
	}
	if decoded, err := new(mime.WordDecoder).DecodeHeader(name); err == nil {
		name = decoded
	}
	return name
}

// partLabel names a part for warning messages.
func partLabel(index int, location string) string {
	if location != "" {
		return fmt.Sprintf("part %d (%s)", index, location)
	}
	return fmt.Sprintf("part %d", index)
}

// Close releases resources associated with the Reader.
// The archive is fully decoded in memory, so there is nothing to release;
// the method exists for lifecycle symmetry with the callers that own one.
func (r *Reader) Close() error {
	return nil
}

// Parts returns all decoded parts in file order.
func (r *Reader) Parts() []*Part {
	return r.parts
}

// PartCount returns the number of decoded parts.
func (r *Reader) PartCount() int {
	return len(r.parts)
}

// Root returns the root HTML document part.
func (r *Reader) Root() *Part {
	return r.root
}

// BaseLocation returns the root document's content location, which relative
// references inside the document resolve against. May be empty.
func (r *Reader) BaseLocation() string {
	return r.root.ContentLocation
}

// Registry returns the archive's resource registry.
func (r *Reader) Registry() *Registry {
	return r.registry
}

// Warnings returns the non-fatal problems encountered while decoding parts.
func (r *Reader) Warnings() []Warning {
	return r.warnings
}
