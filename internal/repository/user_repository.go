package repository

import (
	"context"

	"gorm.io/gorm"

	"fleet-api/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail looks a user up by lowercased email, optionally narrowed to one
// org when the same address exists in several tenants.
func (r *UserRepository) GetByEmail(ctx context.Context, email string, orgID *string) (*model.User, error) {
	query := r.db.WithContext(ctx).Where("email = ?", email)
	if orgID != nil {
		query = query.Where("org_id = ?", *orgID)
	}
	var user model.User
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByOrgEmail(ctx context.Context, orgID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("org_id = ? AND email = ?", orgID, email).
		Count(&count).Error
	return count > 0, err
}
