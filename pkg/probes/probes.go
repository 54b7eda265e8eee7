package probes

import (
	"context"
	"errors"
	"time"

	"github.com/tverkroost/envcheck/internal/helper"
)

// DefaultRetry provides a default configuration for the retry mechanism.
// A single attempt is final; probes that want retries opt in explicitly.
var DefaultRetry = helper.RetryConfig{
	Count: 1,
	Delay: time.Second,
}

// maxDetailLen bounds the detail string of a result so failure messages
// from downstream services cannot blow up the report.
const maxDetailLen = 80

// Status is the verdict of a single probe run.
type Status string

const (
	StatusOK       Status = "OK"
	StatusDegraded Status = "DEGRADED"
	StatusFail     Status = "FAIL"
	StatusSkipped  Status = "SKIPPED"
)

// Probe implementations perform one bounded check against a single
// external dependency and report the outcome.
//
// Run is called once per invocation with a context carrying the probe's
// deadline. Implementations must honor cancellation, must not panic, and
// must convert every failure (connection, timeout, protocol, auth) into a
// Result with StatusFail instead of propagating it.
type Probe interface {
	// Name returns the component name shown in the report.
	Name() string
	// Run performs the check and returns its result.
	Run(ctx context.Context) Result
}

// Config is the interface all probe configurations implement.
type Config interface {
	// For returns the name of the probe being configured
	For() string
	// Validate checks if the configuration is valid
	Validate() error
}

// Result encapsulates the outcome of a probe run. Immutable once produced.
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Detail   string        `json:"detail"`
	Duration time.Duration `json:"duration"`
}

// NewResult builds a Result with the detail truncated to the report width.
func NewResult(name string, status Status, detail string, duration time.Duration) Result {
	return Result{
		Name:     name,
		Status:   status,
		Detail:   Truncate(detail, maxDetailLen),
		Duration: duration,
	}
}

// Fail converts an error into a failed Result. Deadline errors are reported
// as a timeout so the operator can tell a slow service from a broken one.
func Fail(name string, err error, duration time.Duration) Result {
	detail := "unknown error"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		detail = "timed out"
	case err != nil:
		detail = err.Error()
	}
	return NewResult(name, StatusFail, detail, duration)
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
