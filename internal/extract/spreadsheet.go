package extract

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetExtractor handles xlsx workbooks. Each sheet is rendered
// as its name followed by tab-joined rows; workbook properties feed
// the metadata map.
type SpreadsheetExtractor struct{}

// Extract opens the workbook and renders every sheet.
// Parameters:
//   - data: raw file content.
// Returns:
//   - string: rendered sheets.
//   - domain.MetadataMap: sheet names plus document properties.
//   - error: ErrCorruptInput if the workbook cannot be opened.
func (e *SpreadsheetExtractor) Extract(data []byte) (string, domain.MetadataMap, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrCorruptInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	var b strings.Builder
	for i, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", nil, fmt.Errorf("%w: sheet %s: %v", ErrCorruptInput, sheet, err)
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(sheet)
		for _, row := range rows {
			b.WriteByte('\n')
			b.WriteString(strings.Join(row, "\t"))
		}
	}

	metadata := domain.MetadataMap{
		"sheet_count": strconv.Itoa(len(sheets)),
		"sheets":      strings.Join(sheets, ", "),
	}
	if props, err := f.GetDocProps(); err == nil && props != nil {
		if props.Title != "" {
			metadata["title"] = props.Title
		}
		if props.Creator != "" {
			metadata["created_by"] = props.Creator
		}
		if props.Subject != "" {
			metadata["subject"] = props.Subject
		}
		if props.Keywords != "" {
			metadata["keywords"] = props.Keywords
		}
	}

	return b.String(), metadata, nil
}
