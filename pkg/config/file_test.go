package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tverkroost/envcheck/pkg/classify"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "envcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_LoadFile(t *testing.T) {
	path := writeFile(t, `
db:
  name: claude_memory
  user: claude_mcp
mesh:
  nodes:
    - name: node-gpu-primary
      host: 100.64.0.10
    - name: node-secondary
      host: 100.64.0.12
      port: 2222
model:
  default: llama3:8b
  routes:
    code: deepseek-coder:33b
`)

	cfg := New()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "claude_memory", cfg.DB.Name)
	assert.Equal(t, "claude_mcp", cfg.DB.User)
	require.Len(t, cfg.Mesh.Nodes, 2)
	assert.Equal(t, "node-gpu-primary", cfg.Mesh.Nodes[0].Name)
	assert.Equal(t, "100.64.0.12:2222", cfg.Mesh.Nodes[1].Addr())
	assert.Equal(t, "llama3:8b", cfg.Model.Default)
	assert.Equal(t, "deepseek-coder:33b", cfg.Model.Routes[classify.TagCode])

	// fields the file does not set keep their previous values
	assert.Equal(t, DefaultAPIHost, cfg.API.Host)
	assert.Equal(t, 60*time.Second, cfg.Model.Timeout)
}

func TestConfig_LoadFile_Missing(t *testing.T) {
	cfg := New()
	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestConfig_LoadFile_Malformed(t *testing.T) {
	path := writeFile(t, "mesh: [not: valid: yaml")
	cfg := New()
	assert.Error(t, cfg.LoadFile(path))
}
