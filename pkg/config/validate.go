package config

import (
	"context"
	"fmt"

	"github.com/tverkroost/envcheck/internal/logger"
	"github.com/tverkroost/envcheck/pkg/probes"
	"github.com/tverkroost/envcheck/pkg/probes/smoke"
)

// Validate checks the whole configuration. It runs once before any probe
// starts; a failure here is the only condition that aborts a run.
func (c *Config) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)

	checks := []probes.Config{
		&c.API,
		&c.Mesh,
		&smoke.Config{Host: c.Model.Host, Model: c.Model.Default, Timeout: c.Model.Timeout},
	}
	if c.HasDB() {
		checks = append(checks, &c.DB)
	}

	for _, cfg := range checks {
		if err := cfg.Validate(); err != nil {
			log.ErrorContext(ctx, "Configuration invalid", "probe", cfg.For(), "error", err)
			return err
		}
	}

	if c.Record.Table == "" {
		return probes.ErrInvalidConfig{ProbeName: "record", Field: "table", Reason: "table must not be empty"}
	}

	for tag, model := range c.Model.Routes {
		if model == "" {
			return probes.ErrInvalidConfig{ProbeName: "model", Field: "routes", Reason: fmt.Sprintf("route for tag %q has no model", tag)}
		}
	}

	return nil
}
