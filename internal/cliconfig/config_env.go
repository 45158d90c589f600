package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (LOGSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", os.Getenv("LOGSHIP_URL"), &cfg.URL)
	s.setString("api-key", os.Getenv("LOGSHIP_API_KEY"), &cfg.APIKey)
	s.setString("download-dir", os.Getenv("LOGSHIP_DOWNLOAD_DIR"), &cfg.DownloadDir)
	s.setString("aws-region", os.Getenv("LOGSHIP_AWS_REGION"), &cfg.AWSRegion)
	s.setString("pushgateway-url", os.Getenv("LOGSHIP_PUSHGATEWAY_URL"), &cfg.PushgatewayURL)
	s.setString("report", os.Getenv("LOGSHIP_REPORT"), &cfg.ReportPath)
	s.setString("log-level", os.Getenv("LOGSHIP_LOG_LEVEL"), &cfg.LogLevel)
	s.setStringsFromString("services", os.Getenv("LOGSHIP_SERVICES"), &cfg.Services)

	if err := s.setIntFromString("max-batch-bytes", os.Getenv("LOGSHIP_MAX_BATCH_BYTES"), &cfg.MaxBatchBytes); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("LOGSHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("LOGSHIP_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	s.setBoolFromString("lenient-status", os.Getenv("LOGSHIP_LENIENT_STATUS"), &cfg.LenientStatus)
	s.setBoolFromString("log-json", os.Getenv("LOGSHIP_LOG_JSON"), &cfg.LogJSON)

	return nil
}
