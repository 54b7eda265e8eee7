package smoke

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tverkroost/envcheck/pkg/probes"
)

type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	return f.response, f.err
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: Config{Host: "http://localhost:11434", Model: "deepseek-coder:33b", Timeout: time.Minute},
		},
		{
			name:    "missing model",
			config:  Config{Host: "http://localhost:11434", Timeout: time.Minute},
			wantErr: true,
		},
		{
			name:    "bad host",
			config:  Config{Host: "localhost", Model: "llama3:8b", Timeout: time.Minute},
			wantErr: true,
		},
		{
			name:    "timeout too small",
			config:  Config{Host: "http://localhost:11434", Model: "llama3:8b", Timeout: time.Millisecond},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProbe_Run(t *testing.T) {
	spec := Specs(true)[0] // fibonacci

	tests := []struct {
		name       string
		gen        Generator
		wantStatus probes.Status
		wantDetail string
	}{
		{
			name:       "validator passes",
			gen:        &fakeGenerator{response: "def fibonacci(n):\n    return n"},
			wantStatus: probes.StatusOK,
			wantDetail: "Function generated correctly",
		},
		{
			name:       "validator rejects empty completion",
			gen:        &fakeGenerator{response: ""},
			wantStatus: probes.StatusFail,
			wantDetail: "No function definition found",
		},
		{
			name:       "generation fails",
			gen:        &fakeGenerator{err: errors.New("request failed, status is 404 Not Found")},
			wantStatus: probes.StatusFail,
			wantDetail: "request failed, status is 404 Not Found",
		},
		{
			name:       "generation times out",
			gen:        &fakeGenerator{err: context.DeadlineExceeded},
			wantStatus: probes.StatusFail,
			wantDetail: "timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(spec, "deepseek-coder:33b", tt.gen)

			res := p.Run(context.Background())

			assert.Equal(t, "fibonacci", res.Name)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantDetail, res.Detail)
		})
	}
}

func TestProbe_Response(t *testing.T) {
	completion := "def fibonacci(n):\n    return n"
	p := New(Specs(true)[0], "llama3:8b", &fakeGenerator{response: completion})

	assert.Empty(t, p.Response())
	p.Run(context.Background())
	assert.Equal(t, completion, p.Response())
	assert.Equal(t, "llama3:8b", p.Model())
}
