package mesh

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tverkroost/envcheck/internal/logger"
	"github.com/tverkroost/envcheck/pkg/probes"
)

const (
	// ProbeName is the component name shown in the report.
	ProbeName = "Mesh"

	configName = "mesh"
	minTimeout = 1 * time.Second

	// DefaultPort is the port dialed when a node does not specify one.
	// Nodes in the mesh are reached over SSH.
	DefaultPort = 22
)

var (
	_ probes.Probe  = (*Probe)(nil)
	_ probes.Config = (*Config)(nil)
)

// Node is one machine of the mesh
type Node struct {
	Name string `json:"name" yaml:"name"`
	Host string `json:"host" yaml:"host"`
	Port uint16 `json:"port" yaml:"port"`
}

// Addr returns the dialable address of the node
func (n Node) Addr() string {
	port := n.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(n.Host, strconv.Itoa(int(port)))
}

// Config defines the configuration parameters for the mesh probe
type Config struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	// Timeout bounds the dial attempt per node, not the whole probe.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// For returns the name of the probe
func (c *Config) For() string {
	return configName
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for _, n := range c.Nodes {
		if n.Host == "" {
			return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "nodes", Reason: fmt.Sprintf("node %q has no host", n.Name)}
		}
	}
	if c.Timeout < minTimeout {
		return probes.ErrInvalidConfig{ProbeName: c.For(), Field: "timeout", Reason: fmt.Sprintf("timeout must be at least %v", minTimeout)}
	}
	return nil
}

// Probe checks TCP reachability of every configured mesh node and
// aggregates the node verdicts into one result.
//
// Aggregation policy: all nodes reachable is OK, at least half is
// DEGRADED, fewer than half is FAIL. An empty node list is SKIPPED so a
// setup without a mesh does not fail its health check.
type Probe struct {
	config Config
	// dial attempts one TCP connection. Replaceable in tests.
	dial func(ctx context.Context, addr string) error
}

// New creates a mesh probe from the given config
func New(cfg Config) *Probe {
	p := &Probe{config: cfg}
	p.dial = p.dialTCP
	return p
}

// Name returns the name of the probe
func (p *Probe) Name() string {
	return ProbeName
}

// Run checks every node in a separate routine and aggregates the counts
func (p *Probe) Run(ctx context.Context) probes.Result {
	log := logger.FromContext(ctx).With("probe", p.Name())
	start := time.Now()

	if len(p.config.Nodes) == 0 {
		log.DebugContext(ctx, "No mesh nodes configured")
		return probes.NewResult(p.Name(), probes.StatusSkipped, "no nodes configured", time.Since(start))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var down []string
	reachable := 0

	for _, n := range p.config.Nodes {
		node := n
		wg.Add(1)
		l := log.With("node", node.Name, "addr", node.Addr())

		go func() {
			defer wg.Done()

			if err := p.dial(ctx, node.Addr()); err != nil {
				l.WarnContext(ctx, "Node unreachable", "error", err)
				mu.Lock()
				down = append(down, node.Name)
				mu.Unlock()
				return
			}

			l.DebugContext(ctx, "Node reachable")
			mu.Lock()
			reachable++
			mu.Unlock()
		}()
	}
	wg.Wait()

	total := len(p.config.Nodes)
	sort.Strings(down)

	detail := fmt.Sprintf("%d/%d nodes reachable", reachable, total)
	if len(down) > 0 {
		detail += fmt.Sprintf(", down: %s", strings.Join(down, ", "))
	}

	status := probes.StatusFail
	switch {
	case reachable == total:
		status = probes.StatusOK
	case reachable*2 >= total:
		status = probes.StatusDegraded
	}

	log.DebugContext(ctx, "Mesh check finished", "reachable", reachable, "total", total)
	return probes.NewResult(p.Name(), status, detail, time.Since(start))
}

// dialTCP attempts one TCP connection with the per-node timeout.
// The connection is closed immediately, reachability is all that matters.
func (p *Probe) dialTCP(ctx context.Context, addr string) error {
	d := net.Dialer{Timeout: p.config.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
