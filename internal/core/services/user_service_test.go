package services

import (
	"context"
	"errors"
	"testing"

	"libreserve/internal/adapters/persistence/models"
	"libreserve/internal/adapters/persistence/repositories"
	"libreserve/internal/core/domain"
	"libreserve/internal/pkg/password"
)

func seedUser(t *testing.T, repo *repositories.MemoryUserRepository, idNum, email string) *models.User {
	t.Helper()
	hash, err := password.Hash("original-pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &models.User{
		Name:     "Seed User",
		IDNum:    idNum,
		Email:    email,
		Password: hash,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func strPtr(s string) *string { return &s }

func TestUpdateUserPartialFields(t *testing.T) {
	userRepo := repositories.NewMemoryUserRepository()
	svc := NewUserService(userRepo)
	ctx := context.Background()

	user := seedUser(t, userRepo, "1000", "one@example.com")

	updated, err := svc.UpdateUser(ctx, user.ID, &UpdateUserInput{
		Name: strPtr("Renamed"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("name not applied: %q", updated.Name)
	}
	if updated.Email != "one@example.com" || updated.IDNum != "1000" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	userRepo := repositories.NewMemoryUserRepository()
	svc := NewUserService(userRepo)
	ctx := context.Background()

	user := seedUser(t, userRepo, "1001", "two@example.com")
	oldHash := user.Password

	if _, err := svc.UpdateUser(ctx, user.ID, &UpdateUserInput{
		Password: strPtr("new-password"),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := userRepo.GetByID(ctx, user.ID)
	if stored.Password == "new-password" {
		t.Fatalf("password stored in plaintext")
	}
	if stored.Password == oldHash {
		t.Fatalf("password hash unchanged")
	}
	if !password.Verify("new-password", stored.Password) {
		t.Fatalf("new password does not verify")
	}
}

func TestUpdateUserDuplicateIdentity(t *testing.T) {
	userRepo := repositories.NewMemoryUserRepository()
	svc := NewUserService(userRepo)
	ctx := context.Background()

	seedUser(t, userRepo, "1002", "taken@example.com")
	user := seedUser(t, userRepo, "1003", "free@example.com")

	_, err := svc.UpdateUser(ctx, user.ID, &UpdateUserInput{
		Email: strPtr("taken@example.com"),
	})
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected duplicate email rejection, got: %v", err)
	}

	_, err = svc.UpdateUser(ctx, user.ID, &UpdateUserInput{
		IDNum: strPtr("1002"),
	})
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected duplicate id number rejection, got: %v", err)
	}

	// Re-submitting the user's own values is not a conflict
	if _, err := svc.UpdateUser(ctx, user.ID, &UpdateUserInput{
		Email: strPtr("free@example.com"),
		IDNum: strPtr("1003"),
	}); err != nil {
		t.Fatalf("self-same update failed: %v", err)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := NewUserService(repositories.NewMemoryUserRepository())

	_, err := svc.UpdateUser(context.Background(), 42, &UpdateUserInput{Name: strPtr("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestDisableUserTerminalAndIdempotent(t *testing.T) {
	userRepo := repositories.NewMemoryUserRepository()
	svc := NewUserService(userRepo)
	ctx := context.Background()

	user := seedUser(t, userRepo, "1004", "bye@example.com")

	if err := svc.DisableUser(ctx, user.ID); err != nil {
		t.Fatalf("disable: %v", err)
	}
	stored, _ := userRepo.GetByID(ctx, user.ID)
	if !stored.Disabled {
		t.Fatalf("user not disabled")
	}

	// Second disable still succeeds
	if err := svc.DisableUser(ctx, user.ID); err != nil {
		t.Fatalf("repeat disable: %v", err)
	}

	if err := svc.DisableUser(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got: %v", err)
	}
}
