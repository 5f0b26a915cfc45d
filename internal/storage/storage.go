package storage

import (
	"context"
	"io"
)

type UploadOptions struct {
	Folder   string
	Filename string
}

type UploadResult struct {
	PublicID  string
	SecureURL string
	Bytes     int64
	Format    string
}

// BlobStore abstracts the blob provider so services and tests do not touch
// the Cloudinary SDK directly.
type BlobStore interface {
	Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}
