package extract

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

// CSVExtractor handles delimiter-separated values. Comma selects the
// delimiter, so the same implementation covers CSV and TSV.
type CSVExtractor struct {
	Comma rune
}

// Extract parses the records and renders them one row per line with
// tab-joined cells.
// Parameters:
//   - data: raw file content.
// Returns:
//   - string: rendered rows.
//   - domain.MetadataMap: row and column counts.
//   - error: ErrCorruptInput if the records cannot be parsed.
func (e *CSVExtractor) Extract(data []byte) (string, domain.MetadataMap, error) {
	text, err := decodeText(data)
	if err != nil {
		return "", nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = e.Comma
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrCorruptInput, err)
	}

	var b strings.Builder
	columns := 0
	for i, record := range records {
		if len(record) > columns {
			columns = len(record)
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(record, "\t"))
	}

	metadata := domain.MetadataMap{
		"rows":    strconv.Itoa(len(records)),
		"columns": strconv.Itoa(columns),
	}
	return b.String(), metadata, nil
}
