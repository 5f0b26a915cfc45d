package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"fleet-api/internal/storage"
)

type fakeBlobStore struct {
	destroyErr   error
	destroyCalls []string
}

func (f *fakeBlobStore) Upload(ctx context.Context, file io.Reader, opts storage.UploadOptions) (*storage.UploadResult, error) {
	return &storage.UploadResult{PublicID: "fleet/test", SecureURL: "https://cdn.example/fleet/test"}, nil
}

func (f *fakeBlobStore) Destroy(ctx context.Context, publicID string) error {
	f.destroyCalls = append(f.destroyCalls, publicID)
	return f.destroyErr
}

func TestBestEffortDestroySwallowsProviderError(t *testing.T) {
	blobs := &fakeBlobStore{destroyErr: errors.New("provider down")}
	svc := NewDocumentService(nil, blobs, zerolog.Nop())

	svc.bestEffortDestroy(context.Background(), "fleet/doomed")

	if len(blobs.destroyCalls) != 1 || blobs.destroyCalls[0] != "fleet/doomed" {
		t.Fatalf("expected one destroy call for fleet/doomed, got %v", blobs.destroyCalls)
	}
}
