// Package filters provides MIME content-transfer-encoding decoders.
//
// Bodies inside a web archive are wrapped in one of a small, closed set of
// transfer encodings. This package implements the byte-level decoders; the
// mhtdoc package decides which one applies to a given part.
//
// # Supported Encodings
//
// Base64Decode:
//
//	decoded, err := filters.Base64Decode(data)
//
// Decodes standard base64 with MIME line wrapping. Whitespace is ignored and
// missing trailing padding is tolerated.
//
// QuotedPrintableDecode:
//
//	decoded := filters.QuotedPrintableDecode(data)
//
// Decodes quoted-printable bodies: =XX hex escapes and soft line breaks.
// Decoding is total - malformed escapes pass through unchanged, so a sloppy
// exporter degrades the output instead of failing it.
//
// Identity encodings (7bit, 8bit, binary, or no header at all) need no
// decoder; callers use the body bytes directly.
package filters
