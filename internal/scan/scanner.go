package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner discovers pending files under the input directory. One
// Snapshot call fixes the file set for a job; FetchBatch then pages
// through it with a path cursor, matching how upstream sources are
// consumed batch by batch.
type Scanner struct {
	root       string
	extensions map[string]struct{}
	skipHidden bool

	files []string
}

// New creates a scanner over the given input directory.
// Parameters:
//   - root: input directory (read-only mount).
//   - extensions: extensions to include without dots; empty means all.
//   - skipHidden: skip dot-prefixed files and directories.
// Returns:
//   - *Scanner: scanner bound to the directory.
func New(root string, extensions []string, skipHidden bool) *Scanner {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			exts[e] = struct{}{}
		}
	}
	return &Scanner{root: root, extensions: exts, skipHidden: skipHidden}
}

// Root returns the scanned input directory.
func (s *Scanner) Root() string {
	return s.root
}

// Snapshot walks the input directory once and fixes the sorted file
// set for this job.
// Parameters:
//   - ctx: context for cancellation.
// Returns:
//   - int: number of files discovered.
//   - error: non-nil if the root is missing or unreadable.
func (s *Scanner) Snapshot(ctx context.Context) (int, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return 0, fmt.Errorf("input directory %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("input path %s is not a directory", s.root)
	}

	var files []string
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// unreadable entries surface later as per-file read failures
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if s.skipHidden && strings.HasPrefix(name, ".") && path != s.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if len(s.extensions) > 0 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
			if _, ok := s.extensions[ext]; !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return 0, err
	}

	sort.Strings(files)
	s.files = files
	return len(files), nil
}

// FetchBatch returns up to limit file paths after the cursor.
// Parameters:
//   - ctx: context for cancellation.
//   - cursor: last path of the previous batch, or empty for the first.
//   - limit: maximum paths to return.
// Returns:
//   - paths: batch of file paths.
//   - nextCursor: cursor for the next batch, or empty when exhausted.
//   - err: context error on cancellation.
func (s *Scanner) FetchBatch(ctx context.Context, cursor string, limit int) (paths []string, nextCursor string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	start := 0
	if cursor != "" {
		start = sort.SearchStrings(s.files, cursor)
		if start < len(s.files) && s.files[start] == cursor {
			start++
		}
	}
	if start >= len(s.files) {
		return nil, "", nil
	}

	end := start + limit
	if limit <= 0 || end > len(s.files) {
		end = len(s.files)
	}

	batch := s.files[start:end]
	if end < len(s.files) {
		nextCursor = batch[len(batch)-1]
	}
	return batch, nextCursor, nil
}
