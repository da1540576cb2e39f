package extract

import (
	"errors"
	"fmt"
)

// Sentinel causes for extraction failures. All extraction errors are
// permanent: re-running on the same bytes cannot succeed.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrCorruptInput      = errors.New("corrupt input")
	ErrUndecodableText   = errors.New("could not decode text content")
)

// Error wraps a per-file extraction failure with the source path.
type Error struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsExtractionError reports whether err is an extraction failure.
// Parameters:
//   - err: error to inspect.
// Returns:
//   - bool: true if err wraps an *Error.
func IsExtractionError(err error) bool {
	var ee *Error
	return errors.As(err, &ee)
}
