package models

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tverkroost/envcheck/internal/logger"
	"github.com/tverkroost/envcheck/internal/ollama"
	"github.com/tverkroost/envcheck/pkg/probes"
)

const (
	// ProbeName is the component name shown in the report.
	ProbeName = "Ollama"

	configName = "models"
	minTimeout = 1 * time.Second

	// maxSampleNames limits how many model names appear in the detail.
	maxSampleNames = 3
)

var (
	_ probes.Probe  = (*Probe)(nil)
	_ probes.Config = (*Config)(nil)
)

// Config defines the configuration parameters for the model-list probe
type Config struct {
	// Host is the base URL of the model runtime, e.g. "http://localhost:11434".
	Host    string        `json:"host" yaml:"host"`
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
	if c.Timeout < minTimeout {
		return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "timeout", Reason: fmt.Sprintf("timeout must be at least %v", minTimeout)}
	}
	return nil
}

// Lister returns the models installed on the runtime.
// Implemented by *ollama.Client.
type Lister interface {
	ListModels(ctx context.Context) ([]ollama.Model, error)
}

// Probe checks that the model runtime answers its models listing and has
// at least one model installed. A reachable runtime with no models is
// degraded, not failed: the service is up but cannot serve completions.
type Probe struct {
	config Config
	lister Lister
}

// New creates a model-list probe from the given config
func New(cfg Config) *Probe {
	return &Probe{
		config: cfg,
		lister: ollama.New(cfg.Host, cfg.Timeout),
	}
}

// NewWithLister creates a model-list probe with a custom lister
func NewWithLister(cfg Config, l Lister) *Probe {
	return &Probe{config: cfg, lister: l}
}

// Name returns the name of the probe
func (p *Probe) Name() string {
	return ProbeName
}

// Run fetches the models listing and derives the verdict from it
func (p *Probe) Run(ctx context.Context) probes.Result {
	log := logger.FromContext(ctx).With("probe", p.Name())
	start := time.Now()

	list, err := p.lister.ListModels(ctx)
	if err != nil {
		log.WarnContext(ctx, "Models listing failed", "error", err)
		return probes.Fail(p.Name(), err, time.Since(start))
	}

	if len(list) == 0 {
		log.WarnContext(ctx, "Model runtime has no models loaded")
		return probes.NewResult(p.Name(), probes.StatusDegraded, "no models loaded", time.Since(start))
	}

	names := make([]string, 0, maxSampleNames)
	for _, m := range list[:min(len(list), maxSampleNames)] {
		names = append(names, m.Name)
	}

	log.DebugContext(ctx, "Model runtime responding", "models", len(list))
	detail := fmt.Sprintf("%d models: %s", len(list), strings.Join(names, ", "))
	return probes.NewResult(p.Name(), probes.StatusOK, detail, time.Since(start))
}
