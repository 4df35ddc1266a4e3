package ports

import (
	"context"
	"time"

	"carbono/contexts/account-core/account-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// Repository is the persistence boundary for accounts and profiles. Each
// method is a single-row store operation; the registration pipeline composes
// them without a wrapping transaction.
type Repository interface {
	CreateUser(ctx context.Context, email string, passwordHash string, now time.Time) (entities.User, error)
	CreateProfile(ctx context.Context, code string, name string, now time.Time) (entities.Profile, error)
	LinkProfileUser(ctx context.Context, profileID int64, userID int64) error

	GetProfileByCode(ctx context.Context, code string) (entities.Profile, error)
	GetUsersForProfile(ctx context.Context, profileID int64) ([]entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, error)
	GetProfileForUser(ctx context.Context, userID int64) (entities.Profile, error)
	ProfileCodeExists(ctx context.Context, code string) (bool, error)
}

// CredentialHasher is the external credential-check collaborator. Hashing
// strategy is not this module's concern.
type CredentialHasher interface {
	Hash(plain string) (string, error)
	Verify(hash string, plain string) error
}
