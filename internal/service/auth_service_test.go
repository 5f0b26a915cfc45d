package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleet-api/internal/auth"
	"fleet-api/internal/model"
)

type fakeOrgStore struct {
	orgs []*model.Org
}

func (f *fakeOrgStore) Create(ctx context.Context, org *model.Org) error {
	org.ID = uuid.New()
	f.orgs = append(f.orgs, org)
	return nil
}

func (f *fakeOrgStore) GetByID(ctx context.Context, id string) (*model.Org, error) {
	for _, org := range f.orgs {
		if org.ID.String() == id {
			return org, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrgStore) GetByName(ctx context.Context, name string) (*model.Org, error) {
	for _, org := range f.orgs {
		if org.Name == name {
			return org, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeUserStore struct {
	users []*model.User
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	for _, user := range f.users {
		if user.ID.String() == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string, orgID *string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email != email {
			continue
		}
		if orgID != nil && user.OrgID.String() != *orgID {
			continue
		}
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) ExistsByOrgEmail(ctx context.Context, orgID, email string) (bool, error) {
	for _, user := range f.users {
		if user.OrgID.String() == orgID && user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newTestAuthService(orgs *fakeOrgStore, users *fakeUserStore) *AuthService {
	return NewAuthService(orgs, users, auth.NewManager("test-secret", time.Hour))
}

func seedUser(t *testing.T, users *fakeUserStore, orgID uuid.UUID, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{
		ID:           uuid.New(),
		OrgID:        orgID,
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         model.UserRoleOwner,
		Status:       "active",
	}
	users.users = append(users.users, user)
	return user
}

func TestLoginScopesToRequestedOrg(t *testing.T) {
	orgA := &model.Org{ID: uuid.New(), Name: "Alpha Logistics"}
	orgB := &model.Org{ID: uuid.New(), Name: "Bravo Logistics"}
	orgs := &fakeOrgStore{orgs: []*model.Org{orgA, orgB}}
	users := &fakeUserStore{}
	seedUser(t, users, orgA.ID, "dispatch@fleet.test", "password-a")
	wantUser := seedUser(t, users, orgB.ID, "dispatch@fleet.test", "password-b")

	svc := newTestAuthService(orgs, users)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "dispatch@fleet.test",
		Password: "password-b",
		OrgID:    orgB.ID.String(),
	})
	if err != nil {
		t.Fatalf("login with orgId: %v", err)
	}
	if result.User.ID != wantUser.ID {
		t.Fatalf("logged into user %s, want %s", result.User.ID, wantUser.ID)
	}
	if result.User.OrgID != orgB.ID {
		t.Fatalf("logged into org %s, want %s", result.User.OrgID, orgB.ID)
	}

	// The right password for org B must not unlock org A's account.
	if _, err := svc.Login(context.Background(), LoginInput{
		Email:    "dispatch@fleet.test",
		Password: "password-b",
		OrgID:    orgA.ID.String(),
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("cross-org password accepted, err = %v", err)
	}
}

func TestLoginRejectsUnknownOrgID(t *testing.T) {
	org := &model.Org{ID: uuid.New(), Name: "Alpha Logistics"}
	orgs := &fakeOrgStore{orgs: []*model.Org{org}}
	users := &fakeUserStore{}
	seedUser(t, users, org.ID, "dispatch@fleet.test", "password")

	svc := newTestAuthService(orgs, users)

	if _, err := svc.Login(context.Background(), LoginInput{
		Email:    "dispatch@fleet.test",
		Password: "password",
		OrgID:    uuid.NewString(),
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown orgId, err = %v, want ErrUnauthorized", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{
		Email:    "dispatch@fleet.test",
		Password: "password",
		OrgID:    "not-a-uuid",
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("malformed orgId, err = %v, want ErrUnauthorized", err)
	}
}

func TestLoginResolvesOrgName(t *testing.T) {
	orgA := &model.Org{ID: uuid.New(), Name: "Alpha Logistics"}
	orgB := &model.Org{ID: uuid.New(), Name: "Bravo Logistics"}
	orgs := &fakeOrgStore{orgs: []*model.Org{orgA, orgB}}
	users := &fakeUserStore{}
	seedUser(t, users, orgA.ID, "dispatch@fleet.test", "password-a")
	seedUser(t, users, orgB.ID, "dispatch@fleet.test", "password-b")

	svc := newTestAuthService(orgs, users)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "dispatch@fleet.test",
		Password: "password-b",
		OrgName:  "Bravo Logistics",
	})
	if err != nil {
		t.Fatalf("login with orgName: %v", err)
	}
	if result.User.OrgID != orgB.ID {
		t.Fatalf("logged into org %s, want %s", result.User.OrgID, orgB.ID)
	}
}

func TestRegisterRoleDependsOnOrgAge(t *testing.T) {
	orgs := &fakeOrgStore{}
	users := &fakeUserStore{}
	svc := newTestAuthService(orgs, users)

	first, err := svc.Register(context.Background(), RegisterInput{
		OrgName:  "Alpha Logistics",
		Name:     "Founder",
		Email:    "founder@fleet.test",
		Password: "long-enough",
	})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if first.User.Role != model.UserRoleOwner {
		t.Fatalf("first user role = %s, want owner", first.User.Role)
	}

	second, err := svc.Register(context.Background(), RegisterInput{
		OrgName:  "Alpha Logistics",
		Name:     "Joiner",
		Email:    "joiner@fleet.test",
		Password: "long-enough",
	})
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if second.User.Role != model.UserRoleViewer {
		t.Fatalf("joining user role = %s, want viewer", second.User.Role)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newTestAuthService(&fakeOrgStore{}, &fakeUserStore{})

	if _, err := svc.Register(context.Background(), RegisterInput{
		OrgName:  "Alpha Logistics",
		Name:     "Founder",
		Email:    "founder@fleet.test",
		Password: "short",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short password, err = %v, want ErrInvalidInput", err)
	}
}
