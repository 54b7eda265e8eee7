package helper

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		failUntil int
		config    RetryConfig
		wantErr   bool
	}{
		{
			name:      "succeeds first try",
			failUntil: 0,
			config:    RetryConfig{Count: 3, Delay: time.Millisecond},
			wantErr:   false,
		},
		{
			name:      "succeeds after retries",
			failUntil: 2,
			config:    RetryConfig{Count: 3, Delay: time.Millisecond},
			wantErr:   false,
		},
		{
			name:      "fails after exhausting retries",
			failUntil: 10,
			config:    RetryConfig{Count: 2, Delay: time.Millisecond},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			effector := func(ctx context.Context) error {
				calls++
				if calls <= tt.failUntil {
					return errors.New("effector failed")
				}
				return nil
			}

			err := Retry(effector, tt.config)(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	effector := func(ctx context.Context) error {
		cancel()
		return errors.New("effector failed")
	}

	err := Retry(effector, RetryConfig{Count: 3, Delay: time.Minute})(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}

func TestGetExpBackoff(t *testing.T) {
	tests := []struct {
		name      string
		delay     time.Duration
		iteration int
		want      time.Duration
	}{
		{"first iteration", time.Second, 1, time.Second},
		{"second iteration", time.Second, 2, 2 * time.Second},
		{"third iteration", time.Second, 3, 4 * time.Second},
		{"zero iteration", time.Second, 0, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExpBackoff(tt.delay, tt.iteration); got != tt.want {
				t.Errorf("getExpBackoff() = %v, want %v", got, tt.want)
			}
		})
	}
}
