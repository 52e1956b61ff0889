package transform

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// RepairEncoding undoes mojibake produced by a scraper that decoded UTF-8
// bytes as Latin-1. The string is mapped back to its Latin-1 byte sequence
// and re-read as UTF-8; if the bytes are not valid UTF-8, or the string
// contains runes outside Latin-1, the input is returned unchanged. Repair is
// a recoverable no-op, never an error.
func RepairEncoding(s string) string {
	raw, _, err := transform.Bytes(charmap.ISO8859_1.NewEncoder(), []byte(s))
	if err != nil {
		return s
	}

	if !utf8.Valid(raw) {
		return s
	}

	return string(raw)
}
