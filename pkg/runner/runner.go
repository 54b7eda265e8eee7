package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tverkroost/envcheck/internal/logger"
	"github.com/tverkroost/envcheck/pkg/probes"
)

// Verdict is the aggregated health of a whole run.
type Verdict string

const (
	VerdictHealthy   Verdict = "HEALTHY"
	VerdictDegraded  Verdict = "DEGRADED"
	VerdictUnhealthy Verdict = "UNHEALTHY"
)

// ErrNoProbes is returned when a run is started without any probes.
// This is the only fatal path; individual probe failures never abort a run.
var ErrNoProbes = errors.New("no probes configured")

// Report is the immutable outcome of one run. Results keep the order the
// probes were passed in, regardless of execution mode.
type Report struct {
	Results   []probes.Result `json:"results"`
	Overall   Verdict         `json:"overall"`
	Timestamp time.Time       `json:"timestamp"`
}

// Runner executes an ordered set of probes and aggregates their results.
type Runner struct {
	// Timeout caps a single probe run. A probe overrunning it is
	// abandoned and reported as failed, without delaying its siblings.
	Timeout time.Duration
	// Parallel runs all probes concurrently. Probes are independent, so
	// any interleaving is safe; order is restored in the report.
	Parallel bool
}

// New creates a Runner with the given per-probe timeout
func New(timeout time.Duration, parallel bool) *Runner {
	return &Runner{Timeout: timeout, Parallel: parallel}
}

// Run executes all probes and builds the report. Probe failures are part
// of the report, never an error.
func (r *Runner) Run(ctx context.Context, ps []probes.Probe) (Report, error) {
	if len(ps) == 0 {
		return Report{}, ErrNoProbes
	}

	log := logger.FromContext(ctx)
	log.DebugContext(ctx, "Starting probe run", "probes", len(ps), "parallel", r.Parallel)

	results := make([]probes.Result, len(ps))
	if r.Parallel {
		var wg sync.WaitGroup
		for i, p := range ps {
			i, p := i, p
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = r.execute(ctx, p)
			}()
		}
		wg.Wait()
	} else {
		for i, p := range ps {
			results[i] = r.execute(ctx, p)
		}
	}

	report := Report{
		Results:   results,
		Overall:   overall(results),
		Timestamp: time.Now().UTC(),
	}
	log.DebugContext(ctx, "Probe run finished", "overall", report.Overall)
	return report, nil
}

// execute runs one probe under its own deadline. When the deadline
// elapses, the probe goroutine is abandoned and a timeout failure is
// reported in its place; the goroutine drains into a buffered channel.
func (r *Runner) execute(ctx context.Context, p probes.Probe) probes.Result {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	start := time.Now()
	done := make(chan probes.Result, 1)
	go func() {
		done <- p.Run(ctx)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return probes.Fail(p.Name(), ctx.Err(), time.Since(start))
	}
}

// overall derives the aggregate verdict: HEALTHY iff every result is OK,
// UNHEALTHY if any failed, DEGRADED otherwise.
func overall(results []probes.Result) Verdict {
	verdict := VerdictHealthy
	for _, res := range results {
		switch res.Status {
		case probes.StatusFail:
			return VerdictUnhealthy
		case probes.StatusDegraded, probes.StatusSkipped:
			verdict = VerdictDegraded
		}
	}
	return verdict
}
