package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config but uses strings for durations to make TOML and
// YAML friendly.
type FileConfig struct {
	URL            string   `toml:"url" yaml:"url"`
	APIKey         string   `toml:"api_key" yaml:"api_key"`
	MaxBatchBytes  int      `toml:"max_batch_bytes" yaml:"max_batch_bytes"`
	HTTPTimeout    string   `toml:"http_timeout" yaml:"http_timeout"`
	LenientStatus  *bool    `toml:"lenient_status" yaml:"lenient_status"`
	DownloadDir    string   `toml:"download_dir" yaml:"download_dir"`
	AWSRegion      string   `toml:"aws_region" yaml:"aws_region"`
	Services       []string `toml:"services" yaml:"services"`
	PushgatewayURL string   `toml:"pushgateway_url" yaml:"pushgateway_url"`
	ReportPath     string   `toml:"report" yaml:"report"`
	Debounce       string   `toml:"debounce" yaml:"debounce"`
	LogLevel       string   `toml:"log_level" yaml:"log_level"`
	LogJSON        *bool    `toml:"log_json" yaml:"log_json"`
}

// LoadFileConfig reads and parses a config file from the given path.
// Files ending in .yaml or .yml are read as YAML, anything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &fc)
	default:
		err = toml.Unmarshal(b, &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.logship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".logship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", fc.URL, &cfg.URL)
	s.setString("api-key", fc.APIKey, &cfg.APIKey)
	s.setString("download-dir", fc.DownloadDir, &cfg.DownloadDir)
	s.setString("aws-region", fc.AWSRegion, &cfg.AWSRegion)
	s.setString("pushgateway-url", fc.PushgatewayURL, &cfg.PushgatewayURL)
	s.setString("report", fc.ReportPath, &cfg.ReportPath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setStrings("services", fc.Services, &cfg.Services)

	s.setInt("max-batch-bytes", fc.MaxBatchBytes, &cfg.MaxBatchBytes)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	s.setBool("lenient-status", fc.LenientStatus, &cfg.LenientStatus)
	s.setBool("log-json", fc.LogJSON, &cfg.LogJSON)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
