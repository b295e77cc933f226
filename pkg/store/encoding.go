package store

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// normalizeUTF8 converts a latin-1 store file to UTF-8 before decoding.
// Old collector versions wrote the file in the platform encoding, so a
// store migrated from one of them may not be valid UTF-8.
func normalizeUTF8(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return b
	}

	return out
}
