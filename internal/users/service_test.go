package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
	pkgerrors "github.com/justbecho/justbecho-backend/pkg/errors"
	"github.com/justbecho/justbecho-backend/pkg/types"
)

type stubUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newStubUserRepo(users ...*models.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func strPtr(s string) *string { return &s }

func TestMeReturnsProfile(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "buyer@example.com", Name: "Buyer"}
	svc, err := NewService(newStubUserRepo(user))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if dto.Email != "buyer@example.com" {
		t.Fatalf("unexpected email: %s", dto.Email)
	}
}

func TestMeUnknownUser(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubUserRepo())

	_, err := svc.Me(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfileCompletesWhenAddressAndPhoneSet(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "buyer@example.com", Name: "Buyer"}
	repo := newStubUserRepo(user)
	svc, _ := NewService(repo)

	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Phone:   strPtr("+919876543210"),
		Address: &types.Address{Street: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !dto.ProfileCompleted {
		t.Fatal("profile must be marked completed")
	}
}

func TestUpdateProfileIncompleteAddressClearsFlag(t *testing.T) {
	t.Parallel()

	user := &models.User{
		ID:               uuid.New(),
		Name:             "Buyer",
		Phone:            strPtr("+919876543210"),
		Address:          &types.Address{Street: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001"},
		ProfileCompleted: true,
	}
	repo := newStubUserRepo(user)
	svc, _ := NewService(repo)

	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Address: &types.Address{Street: "12 MG Road", City: "Bengaluru"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.ProfileCompleted {
		t.Fatal("incomplete address must clear the completed flag")
	}
}

func TestUpdateProfileBlankPhoneClearsFlag(t *testing.T) {
	t.Parallel()

	user := &models.User{
		ID:               uuid.New(),
		Name:             "Buyer",
		Phone:            strPtr("+919876543210"),
		Address:          &types.Address{Street: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001"},
		ProfileCompleted: true,
	}
	svc, _ := NewService(newStubUserRepo(user))

	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Phone: strPtr("  ")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Phone != nil {
		t.Fatal("blank phone must be stored as nil")
	}
	if dto.ProfileCompleted {
		t.Fatal("missing phone must clear the completed flag")
	}
}

func TestUpdateProfileOmittedFieldsUntouched(t *testing.T) {
	t.Parallel()

	user := &models.User{
		ID:      uuid.New(),
		Name:    "Buyer",
		Phone:   strPtr("+919876543210"),
		Address: &types.Address{Street: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001"},
	}
	svc, _ := NewService(newStubUserRepo(user))

	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Name: strPtr("New Name")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != "New Name" {
		t.Fatalf("name not updated: %s", dto.Name)
	}
	if dto.Phone == nil || *dto.Phone != "+919876543210" {
		t.Fatal("omitted phone must stay untouched")
	}
	if !dto.ProfileCompleted {
		t.Fatal("profile should be complete after name-only update")
	}
}

func TestUpdateProfileRejectsEmptyName(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Name: "Buyer"}
	svc, _ := NewService(newStubUserRepo(user))

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Name: strPtr("  ")})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
