package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestExtractPlainText(t *testing.T) {
	path := writeTemp(t, "a.txt", []byte("hello"))

	doc, err := NewPipeline().ExtractFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "hello", doc.Text)
	assert.Equal(t, MIMEPlainText, doc.MIMEType)
	assert.Equal(t, domain.DocumentStatusPending, doc.Status)
	assert.Len(t, doc.ContentHash, 64)
	assert.Equal(t, int64(5), doc.FileSize)
}

func TestExtractDeterministic(t *testing.T) {
	content := []byte("same bytes\r\nsame text\r\n\r\n\r\nend")
	p := NewPipeline()

	first, err := p.ExtractFile(context.Background(), writeTemp(t, "one.txt", content))
	require.NoError(t, err)
	second, err := p.ExtractFile(context.Background(), writeTemp(t, "two.txt", content))
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.ContentHash, second.ContentHash)
}

func TestExtractMarkdownTitle(t *testing.T) {
	path := writeTemp(t, "doc.md", []byte("# Release  Notes\n\nbody text\n"))

	doc, err := NewPipeline().ExtractFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Release Notes", doc.Metadata["title"])
	assert.Equal(t, MIMEMarkdown, doc.MIMEType)
}

func TestExtractCSV(t *testing.T) {
	path := writeTemp(t, "data.csv", []byte("name,qty\nwidget,3\nbolt,7\n"))

	doc, err := NewPipeline().ExtractFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "name\tqty\nwidget\t3\nbolt\t7", doc.Text)
	assert.Equal(t, "3", doc.Metadata["rows"])
	assert.Equal(t, "2", doc.Metadata["columns"])
}

func TestExtractCSVCorrupt(t *testing.T) {
	path := writeTemp(t, "bad.csv", []byte("a,\"unterminated\nb,2"))

	_, err := NewPipeline().ExtractFile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, IsExtractionError(err))
	assert.ErrorIs(t, err, ErrCorruptInput)
}

func TestExtractHTML(t *testing.T) {
	page := []byte(`<!DOCTYPE html><html><head><title>Index Page</title>
<style>body { color: red }</style></head>
<body><script>var x = 1;</script><h1>Heading</h1><p>Paragraph text.</p></body></html>`)
	path := writeTemp(t, "page.html", page)

	doc, err := NewPipeline().ExtractFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Index Page", doc.Metadata["title"])
	assert.Contains(t, doc.Text, "Heading")
	assert.Contains(t, doc.Text, "Paragraph text.")
	assert.NotContains(t, doc.Text, "color: red")
	assert.NotContains(t, doc.Text, "var x")
}

func TestExtractJSONCorrupt(t *testing.T) {
	path := writeTemp(t, "broken.json", []byte(`{"key": `))

	_, err := NewPipeline().ExtractFile(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptInput)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	// zip magic bytes without xlsx structure sniff as application/zip
	path := writeTemp(t, "archive.zip", []byte("PK\x03\x04somebytes"))

	_, err := NewPipeline().ExtractFile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, IsExtractionError(err))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractBinaryMasqueradingAsText(t *testing.T) {
	path := writeTemp(t, "blob.txt", []byte("head\x00\x00binary tail"))

	_, err := NewPipeline().ExtractFile(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndecodableText)

	var exErr *Error
	assert.True(t, errors.As(err, &exErr))
}

func TestSupportedMIMETypes(t *testing.T) {
	p := NewPipeline()

	assert.True(t, p.Supported(MIMEPlainText))
	assert.False(t, p.Supported("application/zip"))

	types := p.SupportedMIMETypes()
	assert.Contains(t, types, MIMEPlainText)
	assert.Contains(t, types, MIMESpreadsheet)
	assert.True(t, sort.StringsAreSorted(types))
}

func TestExtractReadFailure(t *testing.T) {
	_, err := NewPipeline().ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, IsExtractionError(err))

	var ee *Error
	require.True(t, errors.As(err, &ee))
	assert.Contains(t, ee.Error(), "missing.txt")
}

func TestDetectMIMEExtensionFirst(t *testing.T) {
	testCases := []struct {
		path string
		data []byte
		want string
	}{
		{path: "notes.md", data: []byte("plain looking text"), want: MIMEMarkdown},
		{path: "table.tsv", data: []byte("a\tb"), want: MIMETSV},
		{path: "noext", data: []byte("just text"), want: MIMEPlainText},
		{path: "report.xlsx", data: []byte("PK\x03\x04"), want: MIMESpreadsheet},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectMIME(tc.path, tc.data))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "crlf", in: "a\r\nb\r\n", want: "a\nb"},
		{name: "trailing spaces", in: "a   \nb\t\n", want: "a\nb"},
		{name: "blank run collapse", in: "a\n\n\n\nb", want: "a\n\nb"},
		{name: "outer trim", in: "\n\n  hello  \n\n", want: "hello"},
		{name: "empty", in: "", want: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeText(tc.in))
		})
	}
}
