package gcs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ParseURI splits a gs:// URI into bucket and object path.
func ParseURI(uri string) (Object, error) {
	// uri example: gs://my-bucket/path/to/file.pdf
	if !strings.HasPrefix(uri, "gs://") {
		return Object{}, fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Object{}, fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return Object{Bucket: parts[0], Path: parts[1]}, nil
}

// Fetcher reads objects with a single storage client. It never writes.
type Fetcher struct {
	client   *storage.Client
	maxBytes int64
}

// NewFetcher creates a storage client. With an empty credentialsFile,
// Application Default Credentials are used. Objects larger than maxBytes
// are rejected; zero means no limit.
func NewFetcher(ctx context.Context, credentialsFile string, maxBytes int64) (*Fetcher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewFetcher: creating storage client: %w", err)
	}
	return &Fetcher{client: client, maxBytes: maxBytes}, nil
}

// Close releases the storage client.
func (f *Fetcher) Close() error {
	return f.client.Close()
}

// Fetch downloads the object named by uri.
func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	obj, err := ParseURI(uri)
	if err != nil {
		return nil, "", err
	}

	rc, err := f.client.Bucket(obj.Bucket).Object(obj.Path).NewReader(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("fetch: reading object %s/%s: %w", obj.Bucket, obj.Path, err)
	}
	defer rc.Close()

	if f.maxBytes > 0 && rc.Attrs.Size > f.maxBytes {
		return nil, "", fmt.Errorf("fetch: object %s/%s is %d bytes, limit is %d", obj.Bucket, obj.Path, rc.Attrs.Size, f.maxBytes)
	}

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("fetch: reading bytes: %w", err)
	}

	return data, rc.Attrs.ContentType, nil
}
