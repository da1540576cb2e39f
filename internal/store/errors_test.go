package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

func TestIsTransient(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{
			name: "typed transient",
			err:  &Error{Target: domain.TargetPostgres, Op: "upsert", Err: errors.New("refused"), Transient: true},
			want: true,
		},
		{
			name: "typed permanent",
			err:  &Error{Target: domain.TargetMySQL, Op: "upsert", Err: errors.New("constraint violation")},
			want: false,
		},
		{
			name: "wrapped typed transient",
			err:  fmt.Errorf("retrying: %w", &Error{Target: domain.TargetMongoDB, Op: "connect", Err: errors.New("down"), Transient: true}),
			want: true,
		},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "connection refused", err: syscall.ECONNREFUSED, want: true},
		{
			name: "net op error",
			err:  &net.OpError{Op: "dial", Err: errors.New("no route to host")},
			want: true,
		},
		{name: "plain error", err: errors.New("schema mismatch"), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransient(tc.err); got != tc.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Target: domain.TargetElasticsearch, Op: "upsert", Err: errors.New("boom"), Transient: true}
	msg := err.Error()
	for _, want := range []string{"elasticsearch", "upsert", "transient", "boom"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}

	cause := errors.New("root cause")
	if !errors.Is(&Error{Err: cause}, cause) {
		t.Error("Unwrap should expose the cause")
	}
}
