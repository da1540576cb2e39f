package coordinator

import "fmt"

// ConfigError is a job-level configuration failure. It aborts the run
// before any document work starts, unlike per-file errors which only
// mark their document as failed.
type ConfigError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
