package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	logAdapter "github.com/aneoconsulting/logship/internal/adapters/log"
	"github.com/aneoconsulting/logship/internal/adapters/source"
	"github.com/aneoconsulting/logship/internal/adapters/watch"
	"github.com/aneoconsulting/logship/internal/domain"
)

func (c *cli) fileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>...",
		Short: "Forward plain, gzip-compressed or archived log files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd.Context())
			defer cancel()

			s, err := c.shipper()
			if err != nil {
				return err
			}
			report, err := s.ForwardFiles(ctx, args)
			return c.finish(ctx, report, err)
		},
	}
}

func (c *cli) zipCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zip <path>...",
		Short: "Forward the .json and selected .log entries of zip archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd.Context())
			defer cancel()

			s, err := c.shipper()
			if err != nil {
				return err
			}

			var (
				total  domain.Report
				runErr error
			)
			for _, path := range args {
				report, err := s.ForwardZip(ctx, path)
				total.Merge(report)
				if err != nil {
					runErr = fmt.Errorf("%s: %w", path, err)
					break
				}
			}
			return c.finish(ctx, total, runErr)
		},
	}
}

func (c *cli) s3Command() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "s3 <bucket> [<folder> <run_number> <run_attempt> <file_name>]",
		Short: "Download a log object from S3 and forward it",
		Long: `Download a log object from S3 and forward it.

The object key is <folder>/<run_number>/<run_attempt>/<file_name> unless
--key is given, in which case only the bucket is expected.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if key != "" {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(5)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd.Context())
			defer cancel()

			bucket := args[0]
			objectKey := key
			if objectKey == "" {
				objectKey = source.ObjectKey(args[1], args[2], args[3], args[4])
				c.grouping = map[string]string{"run": args[2], "attempt": args[3]}
			}

			fetcher, err := source.NewS3Fetcher(ctx, c.cfg.AWSRegion)
			if err != nil {
				return err
			}
			s, err := c.shipper()
			if err != nil {
				return err
			}

			report, err := s.ForwardObject(ctx, fetcher, bucket, objectKey, c.cfg.DownloadDir)
			return c.finish(ctx, report, err)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "explicit object key")
	return cmd
}

func (c *cli) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Forward log files as they appear in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.signalContext(cmd.Context())
			defer cancel()

			s, err := c.shipper()
			if err != nil {
				return err
			}

			var total domain.Report
			w := watch.New(args[0], c.cfg.Debounce, func(ctx context.Context, path string) error {
				report, err := s.ForwardFile(ctx, path)
				total.Merge(report)
				return err
			}, logAdapter.NewZerologAdapterWithLogger(c.log))

			err = w.Run(ctx)
			return c.finish(ctx, total, err)
		},
	}
}
