package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// FormatJSON parses text as JSON and re-renders it with 4-space indentation.
// Characters outside ASCII are written verbatim, never as \u escapes, so
// transcripts in any script survive formatting unchanged. Numbers are kept as
// their source literals (json.Number), so integers beyond float64 precision
// round-trip exactly.
func FormatJSON(text string) (string, error) {
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return "", newFormatError(err)
	}

	// json.Unmarshal rejects trailing content; a Decoder stops at the first
	// complete value, so check for leftovers explicitly
	if _, err := decoder.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected content after top-level value")
		}
		return "", newFormatError(err)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(value); err != nil {
		return "", newFormatError(err)
	}

	// Encode appends a trailing newline that is not part of the formatted value
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
