package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tverkroost/envcheck/internal/ollama"
	"github.com/tverkroost/envcheck/pkg/probes"
)

type fakeLister struct {
	models []ollama.Model
	err    error
}

func (f *fakeLister) ListModels(ctx context.Context) ([]ollama.Model, error) {
	return f.models, f.err
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: Config{Host: "http://localhost:11434", Timeout: 10 * time.Second},
		},
		{
			name:    "bad scheme",
			config:  Config{Host: "ftp://localhost", Timeout: 10 * time.Second},
			wantErr: true,
		},
		{
			name:    "timeout too small",
			config:  Config{Host: "http://localhost:11434", Timeout: time.Millisecond},
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
	tests := []struct {
		name       string
		lister     Lister
		wantStatus probes.Status
		wantDetail string
	}{
		{
			name: "models installed",
			lister: &fakeLister{models: []ollama.Model{
				{Name: "deepseek-coder:33b"},
				{Name: "llama3:8b"},
			}},
			wantStatus: probes.StatusOK,
			wantDetail: "2 models: deepseek-coder:33b, llama3:8b",
		},
		{
			name: "sample capped at three names",
			lister: &fakeLister{models: []ollama.Model{
				{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"},
			}},
			wantStatus: probes.StatusOK,
			wantDetail: "4 models: a, b, c",
		},
		{
			name:       "no models loaded",
			lister:     &fakeLister{models: nil},
			wantStatus: probes.StatusDegraded,
			wantDetail: "no models loaded",
		},
		{
			name:       "listing fails",
			lister:     &fakeLister{err: errors.New("connection refused")},
			wantStatus: probes.StatusFail,
			wantDetail: "connection refused",
		},
		{
			name:       "non-json response",
			lister:     &fakeLister{err: errors.New("failed to decode models listing: invalid character '<'")},
			wantStatus: probes.StatusFail,
			wantDetail: "failed to decode models listing: invalid character '<'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWithLister(Config{Host: "http://localhost:11434", Timeout: 10 * time.Second}, tt.lister)

			res := p.Run(context.Background())

			assert.Equal(t, ProbeName, res.Name)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantDetail, res.Detail)
		})
	}
}
