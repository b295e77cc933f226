package caixa

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// The API serves numeric fields inconsistently: drawn balls arrive as
// zero-padded strings ("04"), prize values as JSON numbers, and older
// payloads mix the two. flexInt and flexFloat accept either form and fail
// closed on anything else, so a value that cannot be normalized surfaces
// as ErrMalformed instead of a silent default.

// flexInt is an integer decoded from a JSON number or numeric string.
type flexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *flexInt) UnmarshalJSON(b []byte) error {
	s, err := unquote(b)
	if err != nil {
		return err
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrMalformed, s)
	}

	*f = flexInt(n)

	return nil
}

// flexFloat is a float decoded from a JSON number or numeric string.
type flexFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s, err := unquote(b)
	if err != nil {
		return err
	}

	// Older payloads use a comma decimal separator.
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", ErrMalformed, s)
	}

	*f = flexFloat(v)

	return nil
}

// unquote strips the quotes from a JSON string token and trims whitespace.
// Raw number tokens pass through unchanged.
func unquote(b []byte) (string, error) {
	s := strings.TrimSpace(string(b))

	if strings.HasPrefix(s, `"`) {
		var q string
		if err := json.Unmarshal(b, &q); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		s = strings.TrimSpace(q)
	}

	if s == "" || s == "null" {
		return "", fmt.Errorf("%w: empty numeric field", ErrMalformed)
	}

	return s, nil
}

// normalizeUTF8 converts latin-1 payloads to UTF-8. The API has served
// both encodings over time; location and observation fields carry accented
// text that breaks JSON decoding when left as latin-1.
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
