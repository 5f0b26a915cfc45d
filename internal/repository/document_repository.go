package repository

import (
	"context"

	"gorm.io/gorm"

	"fleet-api/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

type DocumentListFilter struct {
	OwnerType string
	OwnerID   string
	Type      string
	Limit     int
}

func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, orgID, id string) (*model.Document, error) {
	var doc model.Document
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, orgID string, filter DocumentListFilter) ([]model.Document, error) {
	query := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if filter.OwnerType != "" {
		query = query.Where("owner_type = ?", filter.OwnerType)
	}
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	var docs []model.Document
	err := query.Order("created_at DESC").Limit(filter.Limit).Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) Delete(ctx context.Context, orgID, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&model.Document{})
	return result.RowsAffected, result.Error
}
