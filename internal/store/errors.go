package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

// Error wraps a backing-store failure with the target it came from and
// whether the failure is retryable. Transient covers network-level
// failures (connection refused, timeouts); anything rooted in the data
// or the schema is permanent.
type Error struct {
	Target    domain.TargetName
	Op        string
	Err       error
	Transient bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s %s failed (%s): %v", e.Target, e.Op, kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a retryable store failure.
// Untyped errors are classified by inspection; a typed *Error carries
// its own flag.
// Parameters:
//   - err: error to inspect.
// Returns:
//   - bool: true if the operation may succeed on retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Transient
	}
	return classifyTransient(err)
}

// classifyTransient inspects raw errors from driver code for
// network-level failure signatures.
func classifyTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || isConnError(netErr)
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func isConnError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// wrapOp builds a typed store error, classifying untyped causes.
func wrapOp(target domain.TargetName, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return &Error{Target: target, Op: op, Err: err, Transient: classifyTransient(err)}
}

// transientOp builds a typed transient store error.
func transientOp(target domain.TargetName, op string, err error) *Error {
	return &Error{Target: target, Op: op, Err: err, Transient: true}
}

// permanentOp builds a typed permanent store error.
func permanentOp(target domain.TargetName, op string, err error) *Error {
	return &Error{Target: target, Op: op, Err: err, Transient: false}
}
