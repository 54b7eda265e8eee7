package config

import (
	"time"

	"github.com/tverkroost/envcheck/internal/helper"
	"github.com/tverkroost/envcheck/pkg/classify"
	"github.com/tverkroost/envcheck/pkg/probes/api"
	"github.com/tverkroost/envcheck/pkg/probes/db"
	"github.com/tverkroost/envcheck/pkg/probes/mesh"
	"github.com/tverkroost/envcheck/pkg/store"
)

// Defaults for the probe targets. They match a single-machine setup with
// the API server and model runtime on their stock ports.
const (
	DefaultAPIHost      = "http://localhost:8000"
	DefaultModelHost    = "http://localhost:11434"
	DefaultModelTimeout = 60 * time.Second
	DefaultProbeTimeout = 10 * time.Second
	DefaultMeshTimeout  = 3 * time.Second
	DefaultDBPort       = 5432
	DefaultModel        = "deepseek-coder:33b"
)

// Config is the explicit, typed configuration of one invocation.
// It is assembled from defaults, environment, flags and the optional
// config file, then validated once before any probe starts.
type Config struct {
	API    api.Config   `json:"api" yaml:"api"`
	DB     db.Config    `json:"db" yaml:"db"`
	Model  ModelConfig  `json:"model" yaml:"model"`
	Mesh   mesh.Config  `json:"mesh" yaml:"mesh"`
	Record RecordConfig `json:"record" yaml:"record"`
}

// ModelConfig configures the model runtime probes.
type ModelConfig struct {
	// Host is the base URL of the model runtime.
	Host string `json:"host" yaml:"host"`
	// Timeout bounds a single generation request.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// Default is the model smoke probes run against when neither a flag
	// nor a route selects one.
	Default string `json:"default" yaml:"default"`
	// Routes maps prompt tags to specialist models.
	Routes map[classify.Tag]string `json:"routes" yaml:"routes"`
}

// RecordConfig configures persistence of smoke runs.
type RecordConfig struct {
	// Table is the externally-owned table rows are appended to.
	Table string `json:"table" yaml:"table"`
}

// New creates a Config carrying all defaults
func New() *Config {
	return &Config{
		API: api.Config{
			Host:    DefaultAPIHost,
			Timeout: DefaultProbeTimeout,
			Retry:   helper.RetryConfig{Count: 1, Delay: time.Second},
		},
		DB: db.Config{
			Host:    "localhost",
			Port:    DefaultDBPort,
			Timeout: DefaultProbeTimeout,
		},
		Model: ModelConfig{
			Host:    DefaultModelHost,
			Timeout: DefaultModelTimeout,
			Default: DefaultModel,
		},
		Mesh: mesh.Config{
			Timeout: DefaultMeshTimeout,
		},
		Record: RecordConfig{
			Table: store.DefaultTable,
		},
	}
}

// HasDB reports whether a database target is configured. The database
// probe is skipped entirely when name or user is missing, because the
// original setup treats the database as optional.
func (c *Config) HasDB() bool {
	return c.DB.Name != "" && c.DB.User != ""
}
