package cliconfig

import (
	"errors"
	"testing"
	"time"

	"github.com/aneoconsulting/logship/internal/domain"
	"github.com/aneoconsulting/logship/pkg/logship"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.URL != logship.DefaultURL {
		t.Errorf("URL = %v, want %v", cfg.URL, logship.DefaultURL)
	}
	if cfg.MaxBatchBytes != 100000 {
		t.Errorf("MaxBatchBytes = %v, want 100000", cfg.MaxBatchBytes)
	}
	if cfg.LenientStatus {
		t.Error("LenientStatus = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config { return DefaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "https url", mutate: func(c *Config) { c.URL = "https://seq.example.com/api/events/raw?clef" }},
		{name: "missing url", mutate: func(c *Config) { c.URL = "" }, wantErr: true},
		{name: "unsupported scheme", mutate: func(c *Config) { c.URL = "ftp://seq/api" }, wantErr: true},
		{name: "no host", mutate: func(c *Config) { c.URL = "http:///api/events/raw" }, wantErr: true},
		{name: "zero batch size", mutate: func(c *Config) { c.MaxBatchBytes = 0 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTPTimeout = 0 }, wantErr: true},
		{name: "negative debounce", mutate: func(c *Config) { c.Debounce = -time.Second }, wantErr: true},
		{name: "bad pushgateway url", mutate: func(c *Config) { c.PushgatewayURL = "not a url" }, wantErr: true},
		{name: "pushgateway url", mutate: func(c *Config) { c.PushgatewayURL = "http://pushgateway:9091" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error %v is not ErrInvalidConfig", err)
			}
		})
	}
}
