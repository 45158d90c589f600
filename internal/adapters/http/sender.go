package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aneoconsulting/logship/internal/ports"
)

// ClefContentType is the media type Seq registers for CLEF payloads.
const ClefContentType = "application/vnd.serilog.clef"

// maxErrorBody bounds how much of an error response is kept in the error.
const maxErrorBody = 512

// SenderConfig configures a ClefSender.
type SenderConfig struct {
	// URL is the raw ingestion endpoint, query string included.
	URL string

	// APIKey is sent as X-Seq-ApiKey when not empty.
	APIKey string

	// LenientStatus accepts any HTTP status as success.
	LenientStatus bool
}

// ClefSender implements ports.EventSender with one POST per batch.
type ClefSender struct {
	config SenderConfig
	client ports.HTTPClient
	logger ports.Logger
}

// NewClefSender creates a new HTTP CLEF sender.
func NewClefSender(config SenderConfig, client ports.HTTPClient, logger ports.Logger) *ClefSender {
	return &ClefSender{
		config: config,
		client: client,
		logger: logger,
	}
}

// Send posts body to the ingestion endpoint.
func (s *ClefSender) Send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", ClefContentType)
	if s.config.APIKey != "" {
		req.Header.Set("X-Seq-ApiKey", s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if s.config.LenientStatus {
		s.logger.Warn("ignoring error status",
			ports.Int("status", resp.StatusCode),
			ports.String("body", string(respBody)),
		)
		return nil
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
}

var _ ports.EventSender = (*ClefSender)(nil)
