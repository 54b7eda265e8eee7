package smoke

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/tverkroost/envcheck/internal/logger"
	"github.com/tverkroost/envcheck/pkg/probes"
)

const (
	configName = "smoke"
	minTimeout = 1 * time.Second
)

var (
	_ probes.Probe  = (*Probe)(nil)
	_ probes.Config = (*Config)(nil)
)

// Config defines the configuration parameters for the smoke probes
type Config struct {
	// Host is the base URL of the model runtime.
	Host string `json:"host" yaml:"host"`
	// Model is the model the probes are run against.
	Model string `json:"model" yaml:"model"`
	// Timeout bounds one generation request. Generation on consumer
	// hardware is slow; this is typically tens of seconds.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// For returns the name of the probe
func (c *Config) For() string {
	return configName
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.Host)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "host", Reason: "host must be an 'http://' or 'https://' URL"}
	}
	if c.Model == "" {
		return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "model", Reason: "model must not be empty"}
	}
	if c.Timeout < minTimeout {
		return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "timeout", Reason: fmt.Sprintf("timeout must be at least %v", minTimeout)}
	}
	return nil
}

// Generator produces a completion for a prompt.
// Implemented by *ollama.Client.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Probe submits one canned prompt to a text-generation model and applies
// a heuristic validator to the returned text. The validator is shallow
// pattern matching over the completion, not execution: it approximates
// correctness and can report false positives as well as false negatives.
type Probe struct {
	spec  Spec
	model string
	gen   Generator

	mu       sync.Mutex
	response string
}

// New creates a smoke probe running spec against model
func New(spec Spec, model string, gen Generator) *Probe {
	return &Probe{spec: spec, model: model, gen: gen}
}

// Name returns the name of the probe
func (p *Probe) Name() string {
	return p.spec.Name
}

// Model returns the model the probe ran against
func (p *Probe) Model() string {
	return p.model
}

// Response returns the completion of the last run. Used when the run is
// recorded to the datastore.
func (p *Probe) Response() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.response
}

// Run generates the completion and applies the heuristic validator
func (p *Probe) Run(ctx context.Context) probes.Result {
	log := logger.FromContext(ctx).With("probe", p.Name(), "model", p.model)
	start := time.Now()

	resp, err := p.gen.Generate(ctx, p.model, p.spec.Prompt)
	if err != nil {
		log.WarnContext(ctx, "Generation failed", "error", err)
		return probes.Fail(p.Name(), err, time.Since(start))
	}

	p.mu.Lock()
	p.response = resp
	p.mu.Unlock()

	passed, detail := p.spec.Validate(resp)
	status := probes.StatusOK
	if !passed {
		status = probes.StatusFail
	}

	log.DebugContext(ctx, "Probe finished", "passed", passed, "detail", detail)
	return probes.NewResult(p.Name(), status, detail, time.Since(start))
}
