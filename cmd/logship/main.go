package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/aneoconsulting/logship/internal/adapters/fs"
	logAdapter "github.com/aneoconsulting/logship/internal/adapters/log"
	"github.com/aneoconsulting/logship/internal/cliconfig"
	"github.com/aneoconsulting/logship/internal/domain"
	"github.com/aneoconsulting/logship/internal/metrics"
	"github.com/aneoconsulting/logship/pkg/logship"
)

const helpDescription = `
Forward ArmoniK CLEF logs to a Seq raw ingestion endpoint.

Lines starting with '{' that parse as JSON objects carrying an "@t"
timestamp are posted in order, newline-delimited, in batches of at most
--max-batch-bytes. Whatever is still buffered when the input ends is
always posted before exiting.

Inputs can be plain or gzip-compressed files, zip archives, tarballs,
S3 objects, or files dropped into a watched directory.
`

var exampleUsage = strings.TrimSpace(`
  logship file core.json
  logship zip --services control,compute logs.zip
  logship s3 armonik-test-logs htcmock 812 1 core.json.tar.gz
  logship watch ./incoming --report run.json
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the state shared by every subcommand.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
	metrics *metrics.Collector

	// grouping labels the pushed metrics of this run.
	grouping map[string]string
}

func main() {
	c := &cli{
		cfg:     cliconfig.DefaultConfig(),
		log:     logAdapter.NewZerolog(logAdapter.Options{}),
		metrics: metrics.NewCollector(),
	}

	root := &cobra.Command{
		Use:               "logship",
		Short:             "Forward CLEF log events to a Seq raw ingestion endpoint",
		Long:              strings.TrimSpace(helpDescription),
		Example:           exampleUsage,
		Version:           fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.logship/config.toml)")
	flags.StringVar(&c.cfg.URL, "url", c.cfg.URL, "raw CLEF ingestion endpoint")
	flags.StringVar(&c.cfg.APIKey, "api-key", c.cfg.APIKey, "Seq API key sent as X-Seq-ApiKey")
	flags.IntVar(&c.cfg.MaxBatchBytes, "max-batch-bytes", c.cfg.MaxBatchBytes, "maximum bytes per request body")
	flags.DurationVar(&c.cfg.HTTPTimeout, "timeout", c.cfg.HTTPTimeout, "HTTP timeout per request")
	flags.BoolVar(&c.cfg.LenientStatus, "lenient-status", c.cfg.LenientStatus, "treat every HTTP status as delivered")
	flags.StringVar(&c.cfg.DownloadDir, "download-dir", c.cfg.DownloadDir, "directory for downloaded S3 objects")
	flags.StringVar(&c.cfg.AWSRegion, "aws-region", c.cfg.AWSRegion, "AWS region override")
	flags.StringSliceVar(&c.cfg.Services, "services", c.cfg.Services, "services whose .log archive entries are forwarded (default: all)")
	flags.StringVar(&c.cfg.PushgatewayURL, "pushgateway-url", c.cfg.PushgatewayURL, "Prometheus Pushgateway to push run metrics to")
	flags.StringVar(&c.cfg.ReportPath, "report", c.cfg.ReportPath, "write the run report as JSON to this path")
	flags.DurationVar(&c.cfg.Debounce, "debounce", c.cfg.Debounce, "quiet period before a watched file is forwarded")
	flags.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.BoolVar(&c.cfg.LogJSON, "log-json", c.cfg.LogJSON, "write logs as JSON")

	root.AddCommand(
		c.fileCommand(),
		c.zipCommand(),
		c.s3Command(),
		c.watchCommand(),
	)

	if err := root.Execute(); err != nil {
		c.log.Error().Err(err).Msg("logship")
		os.Exit(1)
	}
}

// loadConfig resolves the configuration as flags > env > file > defaults.
func (c *cli) loadConfig(cmd *cobra.Command, _ []string) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.log = logAdapter.NewZerolog(logAdapter.Options{
		Level: c.cfg.LogLevel,
		JSON:  c.cfg.LogJSON,
	})

	logCfg := c.cfg
	if len(logCfg.APIKey) > 0 {
		logCfg.APIKey = "*****"
	}
	c.log.Debug().Interface("config", logCfg).Msg("configuration")
	return nil
}

// shipper builds the library instance for the resolved configuration.
func (c *cli) shipper() (*logship.Shipper, error) {
	s, err := logship.New(logship.Config{
		URL:           c.cfg.URL,
		APIKey:        c.cfg.APIKey,
		MaxBatchBytes: c.cfg.MaxBatchBytes,
		HTTPTimeout:   c.cfg.HTTPTimeout,
		LenientStatus: c.cfg.LenientStatus,
		Services:      c.cfg.Services,
	},
		logship.WithLogger(logAdapter.NewZerologAdapterWithLogger(c.log)),
		logship.WithEmitter(c.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("create shipper: %w", err)
	}
	return s, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func (c *cli) signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			c.log.Info().Str("signal", sig.String()).Msg("received signal, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// finish publishes the run outcome and turns an incomplete run into an error.
func (c *cli) finish(ctx context.Context, report domain.Report, runErr error) error {
	ctx = context.WithoutCancel(ctx)
	errs := []error{runErr}

	c.metrics.ObserveReport(report)

	if c.cfg.ReportPath != "" {
		if err := fs.NewReportFile(c.cfg.ReportPath).Write(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("write report: %w", err))
		}
	}

	if c.cfg.PushgatewayURL != "" {
		if err := c.metrics.Push(ctx, c.cfg.PushgatewayURL, c.grouping); err != nil {
			c.log.Warn().Err(err).Str("url", c.cfg.PushgatewayURL).Msg("push metrics failed")
		}
	}

	c.log.Info().
		Int("sources", len(report.Sources)).
		Int("lines", report.Lines).
		Int("skipped", report.Skipped).
		Int("accepted", report.Accepted).
		Int("delivered", report.Delivered).
		Int("lost", report.Lost).
		Int("malformed", report.Malformed).
		Int("batches", report.Batches).
		Msg("run complete")

	if runErr == nil && !report.Complete() {
		errs = append(errs, fmt.Errorf("%w: %d of %d events lost", domain.ErrDeliveryFailed, report.Lost, report.Accepted))
	}
	return errors.Join(errs...)
}
