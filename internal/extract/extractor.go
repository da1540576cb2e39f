package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

// Extractor converts raw file bytes of one format into text and
// metadata. Implementations must be deterministic: the same bytes
// always yield the same output.
type Extractor interface {
	Extract(data []byte) (string, domain.MetadataMap, error)
}

// Pipeline turns an input file into a populated Document. Extractors
// are selected by MIME type from a registry built at construction.
type Pipeline struct {
	registry map[string]Extractor
}

// NewPipeline creates a pipeline with the default extractor registry.
// Parameters: none.
// Returns:
//   - *Pipeline: pipeline with all built-in formats registered.
func NewPipeline() *Pipeline {
	p := &Pipeline{registry: make(map[string]Extractor)}

	plain := &PlainTextExtractor{}
	p.Register(MIMEPlainText, plain)
	p.Register(MIMEMarkdown, &MarkdownExtractor{})
	p.Register(MIMECSV, &CSVExtractor{Comma: ','})
	p.Register(MIMETSV, &CSVExtractor{Comma: '\t'})
	p.Register(MIMEHTML, &HTMLExtractor{})
	p.Register(MIMEJSON, &JSONExtractor{})
	p.Register(MIMESpreadsheet, &SpreadsheetExtractor{})

	return p
}

// Register binds an extractor to a MIME type, replacing any existing
// binding.
// Parameters:
//   - mime: MIME type without parameters.
//   - e: extractor implementation.
// Returns: none.
func (p *Pipeline) Register(mime string, e Extractor) {
	p.registry[mime] = e
}

// Supported reports whether a MIME type has a registered extractor.
func (p *Pipeline) Supported(mime string) bool {
	_, ok := p.registry[mime]
	return ok
}

// SupportedMIMETypes returns the registered MIME types, sorted.
func (p *Pipeline) SupportedMIMETypes() []string {
	types := make([]string, 0, len(p.registry))
	for mime := range p.registry {
		types = append(types, mime)
	}
	sort.Strings(types)
	return types
}

// ExtractFile reads a file and produces a Document with text and
// metadata populated. The only side effect is reading the input file.
// Parameters:
//   - ctx: context for cancellation.
//   - path: source file path.
// Returns:
//   - *domain.Document: document in Pending status with content filled in.
//   - error: *Error wrapping the cause (read failure, unsupported
//     format, corrupt input).
func (p *Pipeline) ExtractFile(ctx context.Context, path string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("read failure: %w", err)}
	}

	hash := sha256.Sum256(data)

	mime := DetectMIME(path, data)
	if !p.Supported(mime) {
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)}
	}

	text, metadata, err := p.registry[mime].Extract(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if metadata == nil {
		metadata = domain.MetadataMap{}
	}

	now := time.Now()
	return &domain.Document{
		ID:          uuid.New().String(),
		SourcePath:  path,
		ContentHash: hex.EncodeToString(hash[:]),
		FileSize:    int64(len(data)),
		MIMEType:    mime,
		Text:        NormalizeText(text),
		Metadata:    metadata,
		Status:      domain.DocumentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
