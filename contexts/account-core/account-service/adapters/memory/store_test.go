package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "carbono/contexts/account-core/account-service/domain/errors"
)

func TestStoreUniqueEmailAndCode(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	if _, err := store.CreateUser(context.Background(), "a@example.com", "hash", now); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if _, err := store.CreateUser(context.Background(), "a@example.com", "hash", now); !errors.Is(err, domainerrors.ErrEmailConflict) {
		t.Fatalf("expected email conflict, got %v", err)
	}

	if _, err := store.CreateProfile(context.Background(), "code-1", "A", now); err != nil {
		t.Fatalf("create profile failed: %v", err)
	}
	if _, err := store.CreateProfile(context.Background(), "code-1", "B", now); !errors.Is(err, domainerrors.ErrCodeConflict) {
		t.Fatalf("expected code conflict, got %v", err)
	}
}

func TestStoreLinkResolvesBothDirections(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	user, err := store.CreateUser(context.Background(), "linked@example.com", "hash", now)
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	profile, err := store.CreateProfile(context.Background(), "linked-code", "Linked", now)
	if err != nil {
		t.Fatalf("create profile failed: %v", err)
	}
	if err := store.LinkProfileUser(context.Background(), profile.ID, user.ID); err != nil {
		t.Fatalf("link failed: %v", err)
	}

	users, err := store.GetUsersForProfile(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("users for profile failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != user.ID {
		t.Fatalf("expected linked user, got %v", users)
	}

	resolved, err := store.GetProfileForUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("profile for user failed: %v", err)
	}
	if resolved.ID != profile.ID {
		t.Fatalf("expected profile %d, got %d", profile.ID, resolved.ID)
	}
}

func TestStoreLinkRejectsUnknownRows(t *testing.T) {
	store := NewStore()

	if err := store.LinkProfileUser(context.Background(), 99, 1); !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}

	now := time.Now().UTC()
	profile, err := store.CreateProfile(context.Background(), "orphan", "Orphan", now)
	if err != nil {
		t.Fatalf("create profile failed: %v", err)
	}
	if err := store.LinkProfileUser(context.Background(), profile.ID, 99); !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestStoreProfileCodeExists(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	if _, err := store.CreateProfile(context.Background(), "taken", "T", now); err != nil {
		t.Fatalf("create profile failed: %v", err)
	}

	taken, err := store.ProfileCodeExists(context.Background(), " taken ")
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if !taken {
		t.Fatalf("expected trimmed code to be reported taken")
	}

	free, err := store.ProfileCodeExists(context.Background(), "free")
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if free {
		t.Fatalf("expected unused code to be reported free")
	}
}
