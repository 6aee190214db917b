package filters

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

// Base64Decode decodes base64 transfer-encoded data as it appears in MIME
// bodies. Line breaks and other whitespace are ignored, and missing trailing
// padding is tolerated since some exporters drop it.
func Base64Decode(data []byte) ([]byte, error) {
	compact := make([]byte, 0, len(data))
	for _, c := range data {
		if isWhitespace(c) {
			continue
		}
		compact = append(compact, c)
	}

	if len(compact) == 0 {
		return nil, nil
	}

	// Re-pad to a multiple of four. A remainder of one can never be valid.
	if n := len(compact) % 4; n != 0 {
		if n == 1 {
			return nil, fmt.Errorf("invalid base64 length %d", len(compact))
		}
		compact = append(compact, bytes.Repeat([]byte{'='}, 4-n)...)
	}

	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(compact)))
	n, err := base64.StdEncoding.Decode(decoded, compact)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}

	return decoded[:n], nil
}

// QuotedPrintableDecode decodes quoted-printable transfer-encoded data.
// An = followed by two hex digits yields the encoded byte; an = at the end
// of a line is a soft break and is removed along with the line ending.
// Malformed escapes are passed through unchanged rather than rejected,
// matching how mail readers treat sloppy exporters.
func QuotedPrintableDecode(data []byte) []byte {
	var result bytes.Buffer

	i := 0
	for i < len(data) {
		c := data[i]
		if c != '=' {
			result.WriteByte(c)
			i++
			continue
		}

		// Soft line break: =\n or =\r\n
		if i+1 < len(data) && data[i+1] == '\n' {
			i += 2
			continue
		}
		if i+2 < len(data) && data[i+1] == '\r' && data[i+2] == '\n' {
			i += 3
			continue
		}

		// Hex escape
		if i+2 < len(data) {
			hi, err1 := hexDigitToByte(data[i+1])
			lo, err2 := hexDigitToByte(data[i+2])
			if err1 == nil && err2 == nil {
				result.WriteByte(hi<<4 | lo)
				i += 3
				continue
			}
		}

		// Trailing = or invalid escape: keep the byte as-is.
		result.WriteByte(c)
		i++
	}

	return result.Bytes()
}

// hexDigitToByte converts a hexadecimal character to its numeric value (0-15).
func hexDigitToByte(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit: %c", c)
	}
}

// isWhitespace reports whether c is a MIME whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
