package runner

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// toUTF8 keeps results JSON-safe. Several of the wrapped toolchains print
// in the console code page on Windows; anything that is not valid UTF-8 is
// decoded as Windows-1252, which maps every byte.
func toUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(decoded)
}
