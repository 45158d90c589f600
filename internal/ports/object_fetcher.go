package ports

import "context"

// ObjectFetcher downloads objects from blob storage to the local file system.
type ObjectFetcher interface {
	// Fetch downloads bucket/key into the file at dst, creating parent
	// directories as needed, and returns the number of bytes written.
	Fetch(ctx context.Context, bucket, key, dst string) (int64, error)
}
