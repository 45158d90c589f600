package logship

import (
	"github.com/aneoconsulting/logship/internal/app"
	"github.com/aneoconsulting/logship/internal/ports"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// SendEventEmitter receives one call per posted batch.
type SendEventEmitter = app.SendEventEmitter

// Option configures optional behavior of a Shipper.
type Option func(*options)

// options holds the optional configuration for a Shipper instance.
type options struct {
	httpClient ports.HTTPClient
	logger     ports.Logger
	emitter    app.SendEventEmitter
}

// WithHTTPClient sets a custom HTTP client for the ingestion endpoint.
// If not provided, a default client with the configured timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEmitter sets a handler notified after every batch post.
// Calls are made synchronously from the forwarding session.
func WithEmitter(emitter SendEventEmitter) Option {
	return func(o *options) {
		o.emitter = emitter
	}
}
