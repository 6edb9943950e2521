package textsource

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
)

// GCS reads statements from Google Cloud Storage using gs://bucket/object URIs.
type GCS struct {
	client *storage.Client
}

// NewGCS creates a client using Application Default Credentials.
func NewGCS(ctx context.Context) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client}, nil
}

// Close releases the storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}

func (g *GCS) Extract(ctx context.Context, uri string) (string, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return "", err
	}

	r, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("open GCS object reader: %w", err)
	}
	data, err := readAll(r)
	if err != nil {
		return "", fmt.Errorf("read GCS object: %w", err)
	}
	return Decode(object, data)
}

// ParseGCSURI splits gs://bucket/path/to/object.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}
