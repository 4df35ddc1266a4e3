package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"carbono/contexts/account-core/account-service/domain/entities"
	domainerrors "carbono/contexts/account-core/account-service/domain/errors"
	"carbono/contexts/account-core/account-service/ports"
	"carbono/internal/shared/minting"
)

const (
	maxNameLength     = 200
	maxEmailLength    = 200
	maxPasswordLength = 60
	maxCodeLength     = 40
)

// RegisterInput carries everything needed to provision an account. Code is
// optional; a free one is minted when absent.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Code     string
}

type Service struct {
	Repo   ports.Repository
	Hasher ports.CredentialHasher
	Minter minting.Minter
	Clock  ports.Clock
	Logger *slog.Logger
}

// Register provisions a user row, a profile row, and the link row between
// them. The three writes are independent store operations with no rollback:
// a later failure leaves the earlier rows live, and the table tag on the
// returned error names the step that failed.
func (s Service) Register(ctx context.Context, input RegisterInput) (entities.Account, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	code := strings.TrimSpace(input.Code)

	if name == "" || email == "" || input.Password == "" {
		return entities.Account{}, domainerrors.Tag("profile", domainerrors.ErrMissingFields)
	}
	if len(name) > maxNameLength {
		return entities.Account{}, domainerrors.Tag("profile", domainerrors.ErrNameTooLong)
	}
	if len(email) > maxEmailLength {
		return entities.Account{}, domainerrors.Tag("user", domainerrors.ErrEmailTooLong)
	}
	if len(input.Password) > maxPasswordLength {
		return entities.Account{}, domainerrors.Tag("user", domainerrors.ErrPasswordTooLong)
	}
	if len(code) > maxCodeLength {
		return entities.Account{}, domainerrors.Tag("profile", domainerrors.ErrCodeTooLong)
	}

	if code == "" {
		minted, err := s.Minter.Mint(ctx, minting.UUIDProbe(s.Repo.ProfileCodeExists))
		if err != nil {
			return entities.Account{}, domainerrors.Tag("profile", domainerrors.ErrCodeExhausted)
		}
		code = minted
	} else {
		taken, err := s.Repo.ProfileCodeExists(ctx, code)
		if err != nil {
			return entities.Account{}, domainerrors.Tag("profile", err)
		}
		if taken {
			return entities.Account{}, domainerrors.Tag("profile", domainerrors.ErrCodeConflict)
		}
	}

	hash, err := s.Hasher.Hash(input.Password)
	if err != nil {
		return entities.Account{}, domainerrors.Tag("user", err)
	}

	now := s.now()
	user, err := s.Repo.CreateUser(ctx, email, hash, now)
	if err != nil {
		return entities.Account{}, domainerrors.Tag("user", err)
	}
	profile, err := s.Repo.CreateProfile(ctx, code, name, now)
	if err != nil {
		return entities.Account{}, domainerrors.Tag("profile", err)
	}
	if err := s.Repo.LinkProfileUser(ctx, profile.ID, user.ID); err != nil {
		return entities.Account{}, domainerrors.Tag("profile_user", err)
	}

	resolveLogger(s.Logger).Info("account registered",
		"event", "account_registered",
		"module", "account-core/account-service",
		"layer", "application",
		"profile_code", profile.Code,
	)
	return entities.Account{Code: profile.Code, Name: profile.Name, Email: user.Email}, nil
}

// GetProfile returns the joined account projection for a profile code.
func (s Service) GetProfile(ctx context.Context, code string) (entities.Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return entities.Account{}, domainerrors.Tag("profile", domainerrors.ErrMissingFields)
	}
	if len(code) > maxCodeLength {
		return entities.Account{}, domainerrors.Tag("profile", domainerrors.ErrCodeTooLong)
	}

	profile, err := s.Repo.GetProfileByCode(ctx, code)
	if err != nil {
		return entities.Account{}, domainerrors.Tag("profile", err)
	}
	users, err := s.Repo.GetUsersForProfile(ctx, profile.ID)
	if err != nil {
		return entities.Account{}, domainerrors.Tag("user", err)
	}

	account := entities.Account{Code: profile.Code, Name: profile.Name}
	if len(users) > 0 {
		account.Email = users[0].Email
	}
	return account, nil
}

// GetUserInfo returns the account projection for an email, used by the
// oauth collaborator.
func (s Service) GetUserInfo(ctx context.Context, email string) (entities.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return entities.Account{}, domainerrors.Tag("user", domainerrors.ErrMissingFields)
	}
	if len(email) > maxEmailLength {
		return entities.Account{}, domainerrors.Tag("user", domainerrors.ErrEmailTooLong)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return entities.Account{}, domainerrors.Tag("user", err)
	}
	profile, err := s.Repo.GetProfileForUser(ctx, user.ID)
	if err != nil {
		return entities.Account{}, domainerrors.Tag("profile", err)
	}
	return entities.Account{Code: profile.Code, Name: profile.Name, Email: user.Email}, nil
}

// Login verifies credentials through the hasher port.
func (s Service) Login(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domainerrors.Tag("user", domainerrors.ErrMissingFields)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return domainerrors.Tag("user", err)
	}
	if err := s.Hasher.Verify(user.PasswordHash, password); err != nil {
		resolveLogger(s.Logger).Warn("login rejected",
			"event", "account_login_rejected",
			"module", "account-core/account-service",
			"layer", "application",
		)
		return domainerrors.Tag("user", domainerrors.ErrInvalidCredentials)
	}
	return nil
}

// FindProfileByEmail is the directory lookup other modules use to resolve a
// principal identity to its profile. The found flag distinguishes absence
// from a store failure.
func (s Service) FindProfileByEmail(ctx context.Context, email string) (entities.Profile, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return entities.Profile{}, false, nil
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return entities.Profile{}, false, nil
		}
		return entities.Profile{}, false, err
	}
	profile, err := s.Repo.GetProfileForUser(ctx, user.ID)
	if err != nil {
		if isNotFound(err) {
			return entities.Profile{}, false, nil
		}
		return entities.Profile{}, false, err
	}
	return profile, true, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func isNotFound(err error) bool {
	return errors.Is(err, domainerrors.ErrUserNotFound) || errors.Is(err, domainerrors.ErrProfileNotFound)
}
