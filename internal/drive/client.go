package drive

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// FileMeta is the subset of Drive metadata the pipeline needs
type FileMeta struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
}

// Client wraps a read-only Google Drive service. Construct once at process
// start and inject; the service is safe for concurrent use.
type Client struct {
	service *drive.Service
}

// NewClient creates a Drive client from a service-account credentials file
func NewClient(ctx context.Context, serviceAccountFile string) (*Client, error) {
	if _, err := os.Stat(serviceAccountFile); err != nil {
		return nil, fmt.Errorf("service account file %s not found: %w", serviceAccountFile, err)
	}

	service, err := drive.NewService(ctx,
		option.WithCredentialsFile(serviceAccountFile),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Client{service: service}, nil
}

// Fetch downloads the file content and its metadata in one operation.
// Any failure (not found, auth, I/O) is unrecoverable for the request;
// the caller cannot distinguish causes and should not try.
func (c *Client) Fetch(ctx context.Context, fileID string) ([]byte, *FileMeta, error) {
	meta, err := c.service.Files.Get(fileID).
		Fields("name, mimeType").
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("❌ Drive metadata lookup failed for %s: %v", fileID, err)
		return nil, nil, fmt.Errorf("drive metadata for %s: %w", fileID, err)
	}

	resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		log.Printf("❌ Drive download failed for %s: %v", fileID, err)
		return nil, nil, fmt.Errorf("drive download for %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("drive read for %s: %w", fileID, err)
	}

	return data, &FileMeta{Name: meta.Name, MimeType: meta.MimeType}, nil
}
