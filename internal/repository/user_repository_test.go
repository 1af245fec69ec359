package repository

import (
	"context"
	"errors"
	"testing"

	"refurb-catalog/internal/auth"
	"refurb-catalog/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewUserRepository(testDB.DB)

	hash, err := auth.HashPasswordWithCost("s3cret-pass", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{Username: "admin", Email: "admin@example.com", PasswordHash: hash}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if user.ID == 0 || user.Role != domain.RoleAdmin {
		t.Errorf("expected id and default admin role, got %+v", user)
	}

	found, err := repo.FindByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if found.PasswordHash == "s3cret-pass" || !auth.VerifyPassword("s3cret-pass", found.PasswordHash) {
		t.Errorf("stored password is not a hash of the plaintext")
	}

	byID, err := repo.FindByID(ctx, user.ID)
	if err != nil || byID.Email != "admin@example.com" {
		t.Errorf("unexpected user by id: %+v (%v)", byID, err)
	}

	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUserRepository_Duplicate(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewUserRepository(testDB.DB)

	if err := repo.Create(ctx, &domain.User{Username: "admin", Email: "a@example.com", PasswordHash: "x"}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	err := repo.Create(ctx, &domain.User{Username: "admin", Email: "b@example.com", PasswordHash: "x"})
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Errorf("expected duplicate username to fail, got %v", err)
	}

	err = repo.Create(ctx, &domain.User{Username: "other", Email: "a@example.com", PasswordHash: "x"})
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Errorf("expected duplicate email to fail, got %v", err)
	}
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewUserRepository(testDB.DB)

	user := &domain.User{Username: "admin", Email: "admin@example.com", PasswordHash: "old"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if err := repo.UpdatePassword(ctx, user.ID, "new-hash"); err != nil {
		t.Fatalf("failed to update password: %v", err)
	}

	found, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if found.PasswordHash != "new-hash" {
		t.Errorf("expected new hash, got %q", found.PasswordHash)
	}

	if err := repo.UpdatePassword(ctx, user.ID+1, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
