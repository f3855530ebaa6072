package core

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewCleanReader returns a reader that drops a leading UTF-8 BOM, as written
// by spreadsheet tools on Windows, and replaces each invalid UTF-8 byte with
// U+FFFD. Input is cleaned as it streams.
func NewCleanReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
}
