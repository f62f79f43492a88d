// Package gcs stages uploaded statement files in Google Cloud Storage while
// they wait for the parsing collaborator.
package gcs

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// StorageService provides an interface for cloud storage operations.
// This interface enables mocking and testing of storage functionality.
type StorageService interface {
	// Upload streams r into the bucket under the given object name and
	// returns the resulting gs:// URI.
	Upload(ctx context.Context, bucketName, objectName string, r io.Reader) (string, error)

	// Fetch downloads file bytes from the given storage URI.
	Fetch(ctx context.Context, gcsURI string) ([]byte, error)
}

// Client is the concrete StorageService backed by Google Cloud Storage.
// It assumes Application Default Credentials are configured.
type Client struct{}

// NewClient creates a new storage client wrapper.
func NewClient() *Client {
	return &Client{}
}

// Upload streams the reader into the bucket. A per-upload timeout bounds
// slow links.
func (c *Client) Upload(ctx context.Context, bucketName, objectName string, r io.Reader) (string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("Upload: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("Upload: copy to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("Upload: finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", bucketName, objectName), nil
}

// Fetch downloads the file bytes from the given GCS URI.
func (c *Client) Fetch(ctx context.Context, gcsURI string) ([]byte, error) {
	bucketName, objectName, err := ParseURI(gcsURI)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("Fetch: read GCS object: %w", err)
	}
	return data, nil
}

// ParseURI splits a gs://bucket/object URI into its bucket and object parts.
func ParseURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("ParseURI: %q is not a gs:// URI", uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("ParseURI: %q has no bucket/object split", uri)
	}
	return bucket, object, nil
}

// Filename extracts the final path element of a GCS URI, for display.
func Filename(uri string) string {
	return path.Base(uri)
}
