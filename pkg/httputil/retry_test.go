package httputil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/castgraph/pkg/cache"
)

func TestRetry(t *testing.T) {
	transient := cache.Retryable(errors.New("503"))
	permanent := errors.New("404")

	tests := []struct {
		name      string
		attempts  int
		failures  []error
		wantCalls int
		wantErr   error
	}{
		{"success first try", 3, nil, 1, nil},
		{"recovers after transient", 3, []error{transient}, 2, nil},
		{"permanent stops immediately", 3, []error{permanent}, 1, permanent},
		{"exhausts attempts", 2, []error{transient, transient, transient}, 2, transient},
		{"zero attempts runs once", 0, nil, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		return cache.Retryable(errors.New("flaky"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
