package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

const entriesFile = "manifest.jsonl"

// Sink writes per-document manifest entries and per-job summaries to
// the output location. Entries append to a single JSONL file so
// incremental runs never clobber prior output; summaries are one file
// per job.
type Sink struct {
	dir string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// Options configures sink behavior.
type Options struct {
	// Overwrite truncates the entries file instead of appending.
	// Prior runs' output is only discarded on explicit instruction.
	Overwrite bool
}

// NewSink creates a sink writing into dir, creating it if needed.
// Parameters:
//   - dir: output directory.
//   - opts: sink options; nil appends.
// Returns:
//   - *Sink: open sink.
//   - error: non-nil if the directory or entries file cannot be opened.
func NewSink(dir string, opts *Options) (*Sink, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if opts.Overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	file, err := os.OpenFile(filepath.Join(dir, entriesFile), flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}

	return &Sink{dir: dir, file: file, enc: json.NewEncoder(file)}, nil
}

// WriteEntry appends one document entry to the manifest.
// Parameters:
//   - entry: terminal per-document record.
// Returns:
//   - error: non-nil if encoding or the write fails.
func (s *Sink) WriteEntry(entry *domain.ManifestEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(entry)
}

// WriteSummary writes the per-job roll-up to its own file, named by
// job ID so repeat runs coexist.
// Parameters:
//   - summary: job summary record.
// Returns:
//   - error: non-nil if the write fails.
func (s *Sink) WriteSummary(summary *domain.ManifestSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, fmt.Sprintf("summary-%s.json", summary.JobID))
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Path returns the entries file location.
func (s *Sink) Path() string {
	return filepath.Join(s.dir, entriesFile)
}

// Close flushes and closes the entries file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
