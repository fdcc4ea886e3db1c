package extraction

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_Wait(t *testing.T) {
	p := DefaultRetryPolicy()

	tests := []struct {
		class FailureClass
		want  time.Duration
	}{
		{FailureRateLimited, 30 * time.Second},
		{FailureStatus, 5 * time.Second},
		{FailureMalformed, 5 * time.Second},
		{FailureTransport, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			if got := p.Wait(tt.class); got != tt.want {
				t.Errorf("Wait(%s) = %v, want %v", tt.class, got, tt.want)
			}
		})
	}

	if p.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", p.Attempts)
	}
}

func TestSleep_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep() error = %v, want context.Canceled", err)
	}
}

func TestExtractionError_Class(t *testing.T) {
	tests := []struct {
		code string
		want FailureClass
	}{
		{ErrCodeRateLimitExceeded, FailureRateLimited},
		{ErrCodeAPIError, FailureStatus},
		{ErrCodeInvalidFormat, FailureMalformed},
		{ErrCodeTransport, FailureTransport},
	}

	for _, tt := range tests {
		err := &ExtractionError{Op: "Extract", Code: tt.code}
		if got := err.Class(); got != tt.want {
			t.Errorf("Class() for %s = %s, want %s", tt.code, got, tt.want)
		}
	}
}
