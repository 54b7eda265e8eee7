package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tverkroost/envcheck/internal/logger"
	"github.com/tverkroost/envcheck/pkg/probes"
)

const (
	// ProbeName is the component name shown in the report.
	ProbeName = "PostgreSQL"

	configName = "db"
	minTimeout = 1 * time.Second
)

var (
	_ probes.Probe  = (*Probe)(nil)
	_ probes.Config = (*Config)(nil)
)

// Config defines the configuration parameters for the database probe.
// Credentials are resolved by the driver from the environment (PGPASSWORD,
// ~/.pgpass), never carried in the config.
type Config struct {
	Host    string        `json:"host" yaml:"host"`
	Port    uint16        `json:"port" yaml:"port"`
	Name    string        `json:"name" yaml:"name"`
	User    string        `json:"user" yaml:"user"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// For returns the name of the probe
func (c *Config) For() string {
	return configName
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Host == "" {
		return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "host", Reason: "host must not be empty"}
	}
	if c.Port == 0 {
		return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "port", Reason: "port must not be 0"}
	}
	if c.Name == "" {
		return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "name", Reason: "database name must not be empty"}
	}
	if c.User == "" {
		return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "user", Reason: "user must not be empty"}
	}
	if c.Timeout < minTimeout {
		return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "timeout", Reason: fmt.Sprintf("timeout must be at least %v", minTimeout)}
	}
	return nil
}

// DSN renders the connection string for the configured target.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s connect_timeout=%d",
		c.Host, c.Port, c.Name, c.User, int(c.Timeout.Seconds()))
}

// Probe checks connectivity to the PostgreSQL database by opening a
// connection and executing a trivial query.
type Probe struct {
	config Config
	// ping opens a connection and runs the check query. Replaceable in tests.
	ping func(ctx context.Context) error
}

// New creates a database probe from the given config
func New(cfg Config) *Probe {
	p := &Probe{config: cfg}
	p.ping = p.selectOne
	return p
}

// Name returns the name of the probe
func (p *Probe) Name() string {
	return ProbeName
}

// Run performs the connectivity check. Connection, auth and timeout
// errors are downgraded to a FAIL result.
func (p *Probe) Run(ctx context.Context) probes.Result {
	log := logger.FromContext(ctx).With("probe", p.Name())
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	if err := p.ping(ctx); err != nil {
		log.WarnContext(ctx, "Database check failed", "error", err)
		return probes.Fail(p.Name(), err, time.Since(start))
	}

	log.DebugContext(ctx, "Database responding")
	detail := fmt.Sprintf("%s@%s", p.config.Name, p.config.Host)
	return probes.NewResult(p.Name(), probes.StatusOK, detail, time.Since(start))
}

// selectOne opens a fresh connection, runs `SELECT 1` and closes the
// connection again. The connection never outlives the probe run.
func (p *Probe) selectOne(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, p.config.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close(ctx)

	var one int
	if err := conn.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return nil
}
