package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tverkroost/envcheck/internal/helper"
	"github.com/tverkroost/envcheck/internal/logger"
	"github.com/tverkroost/envcheck/pkg/probes"
)

const (
	// ProbeName is the component name shown in the report.
	ProbeName = "API Server"

	configName = "api"
	minTimeout = 1 * time.Second
)

var (
	_ probes.Probe  = (*Probe)(nil)
	_ probes.Config = (*Config)(nil)
)

// Config defines the configuration parameters for the API liveness probe
type Config struct {
	// Host is the base URL of the API server, e.g. "http://localhost:8000".
	Host    string             `json:"host" yaml:"host"`
	Timeout time.Duration      `json:"timeout" yaml:"timeout"`
	Retry   helper.RetryConfig `json:"retry" yaml:"retry"`
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

// Probe checks the liveness of the API server by requesting its health
// endpoint. The endpoint is considered alive iff it answers 200 within
// the configured timeout.
type Probe struct {
	config Config
	client *http.Client
}

// New creates an API liveness probe from the given config
func New(cfg Config) *Probe {
	return &Probe{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the name of the probe
func (p *Probe) Name() string {
	return ProbeName
}

// Run performs the liveness check. Every failure is downgraded to a
// FAIL result; the error never propagates.
func (p *Probe) Run(ctx context.Context) probes.Result {
	log := logger.FromContext(ctx).With("probe", p.Name())
	start := time.Now()

	getHealthRetry := helper.Retry(func(ctx context.Context) error {
		return getHealth(ctx, p.client, p.config.Host+"/health")
	}, p.config.Retry)

	if err := getHealthRetry(ctx); err != nil {
		log.WarnContext(ctx, "API server health request failed", "error", err)
		return probes.Fail(p.Name(), err, time.Since(start))
	}

	log.DebugContext(ctx, "API server responding")
	return probes.NewResult(p.Name(), probes.StatusOK, fmt.Sprintf("%s responding", p.config.Host), time.Since(start))
}

// getHealth performs an HTTP get request and returns ok if status code is 200
func getHealth(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed, status is %s", resp.Status)
	}

	return nil
}
