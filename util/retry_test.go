package util //import "github.com/hondana-dev/hondana/util"

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() (bool, error) {
		attempts++
		if attempts < 3 {
			return true, errors.New("transient")
		}
		return false, nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	attempts := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() (bool, error) {
		attempts++
		return false, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Expected the permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("Expected a single attempt, got %d", attempts)
	}
}

func TestRetryReturnsLastErrorWhenExhausted(t *testing.T) {
	last := errors.New("still failing")
	attempts := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() (bool, error) {
		attempts++
		return true, last
	})
	if !errors.Is(err, last) {
		t.Fatalf("Expected the last error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Retry(ctx, 10, time.Minute, func() (bool, error) {
		attempts++
		cancel()
		return true, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("Cancellation must stop the backoff wait, got %d attempts", attempts)
	}
}
