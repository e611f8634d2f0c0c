// Package storage defines the blob-storage port used for contact-form
// attachments.
package storage

import (
	"context"
	"io"
)

// BlobStorage stores uploaded files outside the database.
type BlobStorage interface {
	// Upload stores a blob under the given key and returns the result.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes a blob by its key.
	Delete(ctx context.Context, key string) error
}

// UploadInput holds the parameters for storing a blob.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult holds the outcome of a successful upload.
type UploadResult struct {
	Key       string
	SizeBytes int64
}
