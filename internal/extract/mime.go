package extract

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MIME types handled by the default registry.
const (
	MIMEPlainText   = "text/plain"
	MIMEMarkdown    = "text/markdown"
	MIMECSV         = "text/csv"
	MIMETSV         = "text/tab-separated-values"
	MIMEHTML        = "text/html"
	MIMEJSON        = "application/json"
	MIMESpreadsheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// extensionMIMEMap resolves well-known extensions ahead of content
// sniffing. Text formats like markdown and TSV are indistinguishable
// from plain text by content alone.
var extensionMIMEMap = map[string]string{
	".txt":      MIMEPlainText,
	".text":     MIMEPlainText,
	".md":       MIMEMarkdown,
	".markdown": MIMEMarkdown,
	".csv":      MIMECSV,
	".tsv":      MIMETSV,
	".html":     MIMEHTML,
	".htm":      MIMEHTML,
	".json":     MIMEJSON,
	".xlsx":     MIMESpreadsheet,
}

// DetectMIME determines the MIME type of a file from its extension,
// falling back to content sniffing.
// Parameters:
//   - path: source file path, used for the extension lookup.
//   - data: file content for sniffing.
// Returns:
//   - string: detected MIME type without parameters.
func DetectMIME(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mime, ok := extensionMIMEMap[ext]; ok {
		return mime
	}

	mt := mimetype.Detect(data)
	// Strip parameters such as "; charset=utf-8"
	full := mt.String()
	if idx := strings.Index(full, ";"); idx != -1 {
		full = strings.TrimSpace(full[:idx])
	}
	return full
}
