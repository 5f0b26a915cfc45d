package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleet-api/internal/auth"
	"fleet-api/internal/model"
)

const bcryptCost = 12

type orgStore interface {
	Create(ctx context.Context, org *model.Org) error
	GetByID(ctx context.Context, id string) (*model.Org, error)
	GetByName(ctx context.Context, name string) (*model.Org, error)
}

type userStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string, orgID *string) (*model.User, error)
	ExistsByOrgEmail(ctx context.Context, orgID, email string) (bool, error)
}

type AuthService struct {
	orgRepo  orgStore
	userRepo userStore
	tokens   *auth.Manager
}

func NewAuthService(orgRepo orgStore, userRepo userStore, tokens *auth.Manager) *AuthService {
	return &AuthService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	OrgName  string
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
	Org   *model.Org
}

// Register finds or creates the named org and creates a user inside it. The
// first user of a new org becomes its owner; later signups join as viewers.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	orgName := strings.TrimSpace(input.OrgName)
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if orgName == "" || name == "" || email == "" || len(input.Password) < 8 {
		return nil, ErrInvalidInput
	}

	role := model.UserRoleViewer
	org, err := s.orgRepo.GetByName(ctx, orgName)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		org = &model.Org{Name: orgName}
		if err := s.orgRepo.Create(ctx, org); err != nil {
			// Lost a create race; the org exists now, join it instead.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				org, err = s.orgRepo.GetByName(ctx, orgName)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		} else {
			role = model.UserRoleOwner
		}
	}

	exists, err := s.userRepo.ExistsByOrgEmail(ctx, org.ID.String(), email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		OrgID:        org.ID,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	token, err := s.tokens.Sign(user.ID.String(), user.OrgID.String(), string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user, Org: org}, nil
}

type LoginInput struct {
	Email    string
	Password string
	OrgID    string
	OrgName  string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	// An explicit orgId pins the lookup to one tenant when the same email
	// exists in several orgs; orgName is accepted as a fallback spelling.
	var orgID *string
	if raw := strings.TrimSpace(input.OrgID); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrUnauthorized
		}
		id := parsed.String()
		orgID = &id
	} else if name := strings.TrimSpace(input.OrgName); name != "" {
		org, err := s.orgRepo.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnauthorized
			}
			return nil, err
		}
		id := org.ID.String()
		orgID = &id
	}

	user, err := s.userRepo.GetByEmail(ctx, email, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, ErrUserDisabled
	}

	token, err := s.tokens.Sign(user.ID.String(), user.OrgID.String(), string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, principal model.Principal) (*model.User, *model.Org, error) {
	user, err := s.userRepo.GetByID(ctx, principal.UserID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if user.OrgID != principal.OrgID {
		return nil, nil, ErrPermissionDenied
	}
	org, err := s.orgRepo.GetByID(ctx, user.OrgID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return user, org, nil
}
