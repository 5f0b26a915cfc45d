package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
	"fleet-api/internal/storage"
)

type DocumentService struct {
	documentRepo *repository.DocumentRepository
	blobs        storage.BlobStore
	log          zerolog.Logger
}

func NewDocumentService(documentRepo *repository.DocumentRepository, blobs storage.BlobStore, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		blobs:        blobs,
		log:          log,
	}
}

type CreateDocumentInput struct {
	Type      string
	OwnerType string
	OwnerID   string
	Filename  string
	Expiry    *string
	Notes     *string
	File      io.Reader
}

func (s *DocumentService) Create(ctx context.Context, principal model.Principal, input CreateDocumentInput) (*model.Document, error) {
	if s.blobs == nil {
		return nil, ErrStorageDisabled
	}
	ownerType := model.DocumentOwnerType(input.OwnerType)
	if !ownerType.Valid() || input.OwnerID == "" || input.File == nil {
		return nil, ErrInvalidInput
	}

	uploaded, err := s.blobs.Upload(ctx, input.File, storage.UploadOptions{Filename: input.Filename})
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		OrgID:     principal.OrgID,
		Type:      input.Type,
		OwnerType: ownerType,
		OwnerID:   input.OwnerID,
		Provider:  "cloudinary",
		PublicID:  uploaded.PublicID,
		SecureURL: uploaded.SecureURL,
		Bytes:     uploaded.Bytes,
		Format:    uploaded.Format,
		Expiry:    input.Expiry,
		Notes:     input.Notes,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		// The row failed but the blob is already up; drop it so storage does
		// not accumulate orphans.
		s.bestEffortDestroy(ctx, uploaded.PublicID)
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, principal model.Principal, id string) (*model.Document, error) {
	if !validID(id) {
		return nil, ErrInvalidInput
	}
	doc, err := s.documentRepo.GetByID(ctx, principal.OrgID.String(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, principal model.Principal, filter repository.DocumentListFilter) ([]model.Document, error) {
	if filter.OwnerType != "" && !model.DocumentOwnerType(filter.OwnerType).Valid() {
		return nil, ErrInvalidInput
	}
	if filter.Limit <= 0 || filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.documentRepo.List(ctx, principal.OrgID.String(), filter)
}

// Delete removes the metadata row, then tries to drop the provider blob.
// A failed provider delete is logged and swallowed; the row is authoritative.
func (s *DocumentService) Delete(ctx context.Context, principal model.Principal, id string) error {
	doc, err := s.Get(ctx, principal, id)
	if err != nil {
		return err
	}

	affected, err := s.documentRepo.Delete(ctx, principal.OrgID.String(), id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.bestEffortDestroy(ctx, doc.PublicID)
	return nil
}

func (s *DocumentService) bestEffortDestroy(ctx context.Context, publicID string) {
	if s.blobs == nil {
		return
	}
	if err := s.blobs.Destroy(ctx, publicID); err != nil {
		s.log.Warn().Err(err).Str("publicId", publicID).Msg("blob destroy failed; orphan left at provider")
	}
}
