package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryStore struct {
	client    *cloudinary.Cloudinary
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStore{
		client:    client,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
	}, nil
}

type UploadSignature struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	Folder    string `json:"folder"`
	CloudName string `json:"cloudName"`
	APIKey    string `json:"apiKey"`
}

// SignUpload produces a short-lived signature for browser-direct uploads via
// the upload widget, so files skip the API server entirely.
func (s *CloudinaryStore) SignUpload() (*UploadSignature, error) {
	timestamp := time.Now().Unix()
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	params.Set("folder", s.folder)
	params.Set("source", "uw")
	params.Set("resource_type", "auto")

	signature, err := api.SignParameters(params, s.apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary sign: %w", err)
	}
	return &UploadSignature{
		Timestamp: timestamp,
		Signature: signature,
		Folder:    s.folder,
		CloudName: s.cloudName,
		APIKey:    s.apiKey,
	}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error) {
	folder := opts.Folder
	if folder == "" {
		folder = s.folder
	}
	resp, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return &UploadResult{
		PublicID:  resp.PublicID,
		SecureURL: resp.SecureURL,
		Bytes:     int64(resp.Bytes),
		Format:    resp.Format,
	}, nil
}

func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	resp, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}
	return nil
}
