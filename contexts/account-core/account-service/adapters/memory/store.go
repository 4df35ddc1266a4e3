package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"carbono/contexts/account-core/account-service/domain/entities"
	domainerrors "carbono/contexts/account-core/account-service/domain/errors"
)

type userRecord struct {
	ID           int64
	Email        string
	PasswordHash string
	Created      time.Time
}

type profileRecord struct {
	ID      int64
	Code    string
	Name    string
	Created time.Time
}

// Store is the in-memory repository used by tests and dev wiring. It mirrors
// the postgres adapter's constraints: unique user email, unique profile code.
type Store struct {
	mu sync.RWMutex

	usersByID     map[int64]userRecord
	profilesByID  map[int64]profileRecord
	userByProfile map[int64][]int64
	profileByUser map[int64]int64
	nextUserID    int64
	nextProfileID int64
}

func NewStore() *Store {
	return &Store{
		usersByID:     make(map[int64]userRecord),
		profilesByID:  make(map[int64]profileRecord),
		userByProfile: make(map[int64][]int64),
		profileByUser: make(map[int64]int64),
		nextUserID:    1,
		nextProfileID: 1,
	}
}

func (s *Store) Now() time.Time { return time.Now().UTC() }

func (s *Store) CreateUser(_ context.Context, email string, passwordHash string, now time.Time) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.TrimSpace(email)
	for _, item := range s.usersByID {
		if item.Email == email {
			return entities.User{}, domainerrors.ErrEmailConflict
		}
	}

	record := userRecord{
		ID:           s.nextUserID,
		Email:        email,
		PasswordHash: passwordHash,
		Created:      now.UTC(),
	}
	s.nextUserID++
	s.usersByID[record.ID] = record
	return userEntity(record), nil
}

func (s *Store) CreateProfile(_ context.Context, code string, name string, now time.Time) (entities.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code = strings.TrimSpace(code)
	for _, item := range s.profilesByID {
		if item.Code == code {
			return entities.Profile{}, domainerrors.ErrCodeConflict
		}
	}

	record := profileRecord{
		ID:      s.nextProfileID,
		Code:    code,
		Name:    strings.TrimSpace(name),
		Created: now.UTC(),
	}
	s.nextProfileID++
	s.profilesByID[record.ID] = record
	return profileEntity(record), nil
}

func (s *Store) LinkProfileUser(_ context.Context, profileID int64, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profilesByID[profileID]; !ok {
		return domainerrors.ErrProfileNotFound
	}
	if _, ok := s.usersByID[userID]; !ok {
		return domainerrors.ErrUserNotFound
	}
	s.userByProfile[profileID] = append(s.userByProfile[profileID], userID)
	s.profileByUser[userID] = profileID
	return nil
}

func (s *Store) GetProfileByCode(_ context.Context, code string) (entities.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code = strings.TrimSpace(code)
	for _, item := range s.profilesByID {
		if item.Code == code {
			return profileEntity(item), nil
		}
	}
	return entities.Profile{}, domainerrors.ErrProfileNotFound
}

func (s *Store) GetUsersForProfile(_ context.Context, profileID int64) ([]entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.userByProfile[profileID]
	items := make([]entities.User, 0, len(ids))
	for _, id := range ids {
		if record, ok := s.usersByID[id]; ok {
			items = append(items, userEntity(record))
		}
	}
	return items, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.TrimSpace(email)
	for _, item := range s.usersByID {
		if item.Email == email {
			return userEntity(item), nil
		}
	}
	return entities.User{}, domainerrors.ErrUserNotFound
}

func (s *Store) GetProfileForUser(_ context.Context, userID int64) (entities.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profileID, ok := s.profileByUser[userID]
	if !ok {
		return entities.Profile{}, domainerrors.ErrProfileNotFound
	}
	record, ok := s.profilesByID[profileID]
	if !ok {
		return entities.Profile{}, domainerrors.ErrProfileNotFound
	}
	return profileEntity(record), nil
}

func (s *Store) ProfileCodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code = strings.TrimSpace(code)
	for _, item := range s.profilesByID {
		if item.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func userEntity(record userRecord) entities.User {
	return entities.User{
		ID:           record.ID,
		Email:        record.Email,
		PasswordHash: record.PasswordHash,
		Created:      record.Created,
	}
}

func profileEntity(record profileRecord) entities.Profile {
	return entities.Profile{
		ID:      record.ID,
		Code:    record.Code,
		Name:    record.Name,
		Created: record.Created,
	}
}
