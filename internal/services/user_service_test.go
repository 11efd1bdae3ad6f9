package services

import (
	"context"
	"errors"
	"testing"

	"peerlend/internal/repository"
)

func TestEnsureUserCreatesOnceAndNormalizes(t *testing.T) {
	db := setupTestDB(t)
	db.Exec("DELETE FROM users")

	service := NewUserService(repository.NewRepository(db))
	ctx := context.Background()

	created, err := service.EnsureUser(ctx, "0xABC")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if len(created.WalletAddress) != 66 {
		t.Errorf("expected normalized address, got %q", created.WalletAddress)
	}
	if created.Nickname == "" {
		t.Error("expected a generated nickname")
	}

	// Reconnecting with another spelling of the same address returns the
	// same user instead of creating a duplicate.
	again, err := service.EnsureUser(ctx, "0x0abc")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("expected same user, got ids %d and %d", created.ID, again.ID)
	}

	users, err := service.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user, got %d", len(users))
	}
}

func TestCompleteProfile(t *testing.T) {
	db := setupTestDB(t)
	db.Exec("DELETE FROM users")

	service := NewUserService(repository.NewRepository(db))
	ctx := context.Background()

	if _, err := service.EnsureUser(ctx, "0xabc"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	user, err := service.CompleteProfile(ctx, "0xabc", "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("CompleteProfile failed: %v", err)
	}
	if user.Name != "Ada" || user.Email != "ada@example.com" {
		t.Errorf("profile not saved: %+v", user)
	}

	// Completing a profile for an unknown wallet fails with not found.
	if _, err := service.CompleteProfile(ctx, "0xdef", "X", "x@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
