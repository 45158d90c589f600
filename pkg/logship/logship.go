package logship

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	httpAdapter "github.com/aneoconsulting/logship/internal/adapters/http"
	logAdapter "github.com/aneoconsulting/logship/internal/adapters/log"
	"github.com/aneoconsulting/logship/internal/adapters/source"
	"github.com/aneoconsulting/logship/internal/app"
	"github.com/aneoconsulting/logship/internal/domain"
	"github.com/aneoconsulting/logship/internal/ports"
)

// DefaultURL is the raw CLEF endpoint of a local Seq instance.
const DefaultURL = "http://localhost:9341/api/events/raw?clef"

// Report is the outcome of a forwarding call.
type Report = domain.Report

// ObjectFetcher downloads inputs from object storage.
type ObjectFetcher = ports.ObjectFetcher

// Errors returned by a Shipper, for use with errors.Is.
var (
	ErrDeliveryFailed    = domain.ErrDeliveryFailed
	ErrMalformedEvent    = domain.ErrMalformedEvent
	ErrInvalidConfig     = domain.ErrInvalidConfig
	ErrUnsupportedSource = domain.ErrUnsupportedSource
)

// Config holds the configuration of a Shipper.
type Config struct {
	// URL is the ingestion endpoint. Defaults to DefaultURL.
	URL string

	// APIKey is sent as X-Seq-ApiKey when set.
	APIKey string

	// MaxBatchBytes bounds each request body. Defaults to 100000.
	MaxBatchBytes int

	// HTTPTimeout applies to each post when no client is injected.
	HTTPTimeout time.Duration

	// LenientStatus treats every HTTP status as a successful post.
	LenientStatus bool

	// Services restricts the .log entries read from archives to those whose
	// second path segment is listed. Empty means all.
	Services []string
}

// SetDefaults fills unset fields with default values.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.MaxBatchBytes <= 0 {
		c.MaxBatchBytes = app.DefaultMaxBatchBytes
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidConfig)
	}
	if c.MaxBatchBytes <= 0 {
		return fmt.Errorf("%w: max batch bytes must be positive", ErrInvalidConfig)
	}
	return nil
}

// Shipper forwards log files to the ingestion endpoint.
// A Shipper runs one session at a time and is not safe for concurrent use.
type Shipper struct {
	config    Config
	forwarder *app.Forwarder
	logger    ports.Logger
}

// New creates a new Shipper with the given configuration.
func New(cfg Config, opts ...Option) (*Shipper, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logAdapter.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	sender := httpAdapter.NewClefSender(httpAdapter.SenderConfig{
		URL:           cfg.URL,
		APIKey:        cfg.APIKey,
		LenientStatus: cfg.LenientStatus,
	}, o.httpClient, o.logger)

	forwarder := app.NewForwarder(app.ForwarderConfig{MaxBatchBytes: cfg.MaxBatchBytes}, sender, o.logger, o.emitter)

	return &Shipper{
		config:    cfg,
		forwarder: forwarder,
		logger:    o.logger,
	}, nil
}

// ForwardReader ships the events read from r as one session.
func (s *Shipper) ForwardReader(ctx context.Context, name string, r io.Reader) (Report, error) {
	return s.forwarder.Forward(ctx, name, r)
}

// ForwardFile ships the events of a local file or archive.
// Archives are forwarded entry by entry; the first failing entry stops the
// walk and the report covers every entry processed so far.
func (s *Shipper) ForwardFile(ctx context.Context, path string) (Report, error) {
	var total Report
	if err := source.Check(path); err != nil {
		return total, err
	}
	s.logger.Debug("forwarding",
		ports.String("file", path),
		ports.String("kind", source.DetectKind(path).String()),
		ports.Any("services", s.config.Services),
	)

	err := source.Walk(path, s.config.Services, func(name string, r io.Reader) error {
		report, err := s.forwarder.Forward(ctx, name, r)
		total.Merge(report)
		return err
	})
	return total, err
}

// ForwardObject downloads bucket/key under downloadDir and ships it.
func (s *Shipper) ForwardObject(ctx context.Context, fetcher ObjectFetcher, bucket, key, downloadDir string) (Report, error) {
	dst := source.LocalPath(downloadDir, key)

	n, err := fetcher.Fetch(ctx, bucket, key, dst)
	if err != nil {
		return Report{}, err
	}
	s.logger.Info("downloaded",
		ports.String("bucket", bucket),
		ports.String("key", key),
		ports.String("file", filepath.ToSlash(dst)),
		ports.Int64("bytes", n),
	)
	return s.ForwardFile(ctx, dst)
}

// ForwardFiles ships several inputs in order. Every input is attempted;
// errors are joined.
func (s *Shipper) ForwardFiles(ctx context.Context, paths []string) (Report, error) {
	var (
		total Report
		errs  []error
	)
	for _, p := range paths {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		report, err := s.ForwardFile(ctx, p)
		total.Merge(report)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	return total, errors.Join(errs...)
}

// ForwardZip ships the selected entries of a ZIP archive.
func (s *Shipper) ForwardZip(ctx context.Context, path string) (Report, error) {
	if kind := source.DetectKind(path); kind != source.KindZip {
		return Report{}, fmt.Errorf("%w: %s is not a zip archive", ErrUnsupportedSource, path)
	}
	return s.ForwardFile(ctx, path)
}
