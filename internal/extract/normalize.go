package extract

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// decodeText decodes raw bytes into a string. UTF-8 content passes
// through; anything else falls back to Latin-1, which maps every byte
// to a rune so the result stays deterministic for fixed input bytes.
// NUL bytes mark binary content hiding behind a text extension and
// fail with ErrUndecodableText.
func decodeText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", ErrUndecodableText
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String(), nil
}

// NormalizeText canonicalizes extracted text: CRLF to LF, trailing
// whitespace stripped per line, runs of blank lines collapsed to one,
// and outer whitespace trimmed.
// Parameters:
//   - text: raw extracted text.
// Returns:
//   - string: normalized text.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// normalizeSpaces collapses all whitespace runs into single spaces.
// Used for single-line metadata values.
func normalizeSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
