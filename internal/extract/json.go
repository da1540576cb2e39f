package extract

import (
	"encoding/json"
	"fmt"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

// JSONExtractor handles application/json content. The document body is
// the source text itself; parsing only validates well-formedness.
type JSONExtractor struct{}

// Extract validates and decodes JSON content.
func (e *JSONExtractor) Extract(data []byte) (string, domain.MetadataMap, error) {
	if !json.Valid(data) {
		return "", nil, fmt.Errorf("%w: invalid JSON", ErrCorruptInput)
	}
	text, err := decodeText(data)
	if err != nil {
		return "", nil, err
	}
	return text, domain.MetadataMap{}, nil
}
