package probes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewResult_TruncatesDetail(t *testing.T) {
	long := strings.Repeat("x", 500)
	res := NewResult("api", StatusFail, long, time.Second)

	assert.Equal(t, "api", res.Name)
	assert.Equal(t, StatusFail, res.Status)
	assert.Len(t, res.Detail, maxDetailLen)
}

func TestFail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantDetail string
	}{
		{
			name:       "plain error",
			err:        errors.New("connection refused"),
			wantDetail: "connection refused",
		},
		{
			name:       "deadline exceeded",
			err:        context.DeadlineExceeded,
			wantDetail: "timed out",
		},
		{
			name:       "wrapped deadline",
			err:        errors.Join(errors.New("request failed"), context.DeadlineExceeded),
			wantDetail: "timed out",
		},
		{
			name:       "nil error",
			err:        nil,
			wantDetail: "unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Fail("db", tt.err, time.Millisecond)
			assert.Equal(t, StatusFail, res.Status)
			assert.Equal(t, tt.wantDetail, res.Detail)
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than limit", "abc", 5, "abc"},
		{"exact limit", "abcde", 5, "abcde"},
		{"over limit", "abcdef", 5, "abcde"},
		{"multibyte runes", "héllo wörld", 5, "héllo"},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
		})
	}
}

func TestErrInvalidConfig_Error(t *testing.T) {
	err := ErrInvalidConfig{ProbeName: "mesh", Field: "timeout", Reason: "must be positive"}
	assert.Equal(t, `invalid configuration field "timeout" in probe "mesh": must be positive`, err.Error())
}
