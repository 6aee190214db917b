package mhtdoc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

// decodeText converts raw bytes to a string honoring the declared charset
// label. Unknown labels and invalid sequences degrade instead of failing:
// valid UTF-8 passes through, anything else falls back to ISO-8859-1, which
// maps every byte.
func decodeText(data []byte, label string) string {
	if label = strings.TrimSpace(label); label != "" {
		// A UTF-8 label takes the validity check below instead of the
		// decoder, which would mask mislabeled documents by substituting
		// replacement runes.
		if enc, name := charset.Lookup(label); enc != nil && name != "utf-8" {
			if decoded, err := enc.NewDecoder().Bytes(data); err == nil && utf8.Valid(decoded) {
				return string(decoded)
			}
		}
	}

	if utf8.Valid(data) {
		return string(data)
	}

	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(decoded)
}
