package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aneoconsulting/logship/internal/ports"
)

// S3API is the subset of the S3 client used by S3Fetcher.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher implements ports.ObjectFetcher on top of the AWS SDK.
type S3Fetcher struct {
	client S3API
}

// NewS3Fetcher loads the default AWS configuration (environment, shared
// config and SSO profiles) and creates an S3 client.
// region overrides the configured region when not empty.
func NewS3Fetcher(ctx context.Context, region string) (*S3Fetcher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3FetcherWithClient(s3.NewFromConfig(cfg)), nil
}

// NewS3FetcherWithClient creates a fetcher using an existing client.
func NewS3FetcherWithClient(client S3API) *S3Fetcher {
	return &S3Fetcher{client: client}
}

// Fetch downloads bucket/key to dst.
func (f *S3Fetcher) Fetch(ctx context.Context, bucket, key, dst string) (int64, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	tmp := dst + ".part"
	file, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(file, out.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return n, fmt.Errorf("download s3://%s/%s: %w", bucket, key, err)
	}
	return n, os.Rename(tmp, dst)
}

// ObjectKey builds the key under which CI runs store their logs:
// <folder>/<run number>/<run attempt>/<file name>.
func ObjectKey(folder, runNumber, runAttempt, fileName string) string {
	return path.Join(folder, runNumber, runAttempt, fileName)
}

// LocalPath returns where key is downloaded under dir, keeping the key layout.
func LocalPath(dir, key string) string {
	return filepath.Join(dir, filepath.FromSlash(key))
}

var _ ports.ObjectFetcher = (*S3Fetcher)(nil)
