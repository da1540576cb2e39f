package extract

import (
	"strings"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

// PlainTextExtractor handles text/plain content.
type PlainTextExtractor struct{}

// Extract decodes the bytes as text.
// Parameters:
//   - data: raw file content.
// Returns:
//   - string: decoded text.
//   - domain.MetadataMap: always empty for plain text.
//   - error: non-nil if the bytes cannot be decoded.
func (e *PlainTextExtractor) Extract(data []byte) (string, domain.MetadataMap, error) {
	text, err := decodeText(data)
	if err != nil {
		return "", nil, err
	}
	return text, domain.MetadataMap{}, nil
}

// MarkdownExtractor handles text/markdown content. The body is kept
// as-is; the first top-level heading becomes the title metadata.
type MarkdownExtractor struct{}

// Extract decodes markdown and pulls the title from the first heading.
func (e *MarkdownExtractor) Extract(data []byte) (string, domain.MetadataMap, error) {
	text, err := decodeText(data)
	if err != nil {
		return "", nil, err
	}

	metadata := domain.MetadataMap{}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			metadata["title"] = normalizeSpaces(strings.TrimPrefix(trimmed, "# "))
			break
		}
	}
	return text, metadata, nil
}
