package mhtdoc

import (
	"strings"
)

// Encoding identifies a MIME content-transfer-encoding. The set is closed by
// the MIME standard, so parts dispatch over these values with a plain switch.
type Encoding int

const (
	// EncodingIdentity covers 7bit, 8bit, binary and an absent header.
	EncodingIdentity Encoding = iota
	// EncodingBase64 indicates a base64-wrapped body.
	EncodingBase64
	// EncodingQuotedPrintable indicates a quoted-printable body.
	EncodingQuotedPrintable
)

// String returns the canonical header token for the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingBase64:
		return "base64"
	case EncodingQuotedPrintable:
		return "quoted-printable"
	default:
		return "identity"
	}
}

// ParseEncoding maps a Content-Transfer-Encoding header value to an Encoding.
// The second return value is false for tokens outside the closed set; callers
// treat those as identity and record a warning.
func ParseEncoding(value string) (Encoding, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "7bit", "8bit", "binary":
		return EncodingIdentity, true
	case "base64":
		return EncodingBase64, true
	case "quoted-printable":
		return EncodingQuotedPrintable, true
	default:
		return EncodingIdentity, false
	}
}

// Part is one decoded body part of a web archive. Parts are immutable after
// the Reader constructs them.
type Part struct {
	// Index is the part's position in file order, starting at 0. File order
	// is significant: when two parts claim the same content location, the
	// later one supersedes the earlier in the Registry.
	Index int

	// ContentType is the raw Content-Type header value.
	ContentType string

	// MediaType is the normalized type/subtype, e.g. "text/html" or
	// "image/png". Empty when the header was missing or unparseable.
	MediaType string

	// Params holds the media type parameters (charset and friends).
	Params map[string]string

	// ContentLocation is the resource URL this part was saved under, if any.
	ContentLocation string

	// ContentID is the part's Content-ID with angle brackets stripped, if any.
	ContentID string

	// Filename is the attachment filename from Content-Disposition or the
	// media type name parameter. The root document part has none.
	Filename string

	// Encoding is the transfer encoding the body was wrapped in.
	Encoding Encoding

	// Body is the transfer-decoded payload. When transfer decoding failed the
	// raw bytes are kept instead and the Reader records a warning.
	Body []byte
}

// IsHTML reports whether the part carries an HTML document.
func (p *Part) IsHTML() bool {
	return p.MediaType == "text/html"
}

// IsText reports whether the part carries textual content.
func (p *Part) IsText() bool {
	return strings.HasPrefix(p.MediaType, "text/")
}

// Charset returns the declared charset parameter, or "" if none.
func (p *Part) Charset() string {
	return p.Params["charset"]
}

// Text returns the body decoded to a string using the declared charset,
// falling back to UTF-8 and then ISO-8859-1. Invalid byte sequences are
// substituted rather than rejected: a partially garbled document is still
// worth more than no document.
func (p *Part) Text() string {
	return decodeText(p.Body, p.Charset())
}

// Warning describes a non-fatal problem encountered while decoding a part.
type Warning struct {
	PartIndex int
	Message   string
}
