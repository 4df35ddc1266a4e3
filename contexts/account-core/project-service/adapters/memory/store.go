package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"carbono/contexts/account-core/project-service/domain/entities"
	domainerrors "carbono/contexts/account-core/project-service/domain/errors"
	"carbono/contexts/account-core/project-service/ports"
)

// Store is the in-memory repository and grant store used by tests and dev
// wiring. Unique constraints on project code, safe name, tier name, and the
// (profile, project) grant pair mirror the postgres schema.
type Store struct {
	mu sync.RWMutex

	projectsByID  map[int64]entities.Project
	tiersByID     map[int64]entities.TierRow
	grantsByID    map[int64]entities.AccessGrant
	nextProjectID int64
	nextTierID    int64
	nextGrantID   int64
}

func NewStore() *Store {
	return &Store{
		projectsByID: make(map[int64]entities.Project),
		tiersByID:    make(map[int64]entities.TierRow),
		grantsByID:   make(map[int64]entities.AccessGrant),
	}
}

func (s *Store) Now() time.Time { return time.Now().UTC() }

func (s *Store) CreateProject(_ context.Context, project entities.Project) (entities.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.projectsByID {
		if item.Code == project.Code || item.SafeName == project.SafeName {
			return entities.Project{}, domainerrors.ErrCodeConflict
		}
	}

	s.nextProjectID++
	project.ID = s.nextProjectID
	s.projectsByID[project.ID] = project
	return project, nil
}

func (s *Store) GetProjectByCode(_ context.Context, code string) (entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code = strings.TrimSpace(code)
	for _, item := range s.projectsByID {
		if item.Code == code {
			return item, nil
		}
	}
	return entities.Project{}, domainerrors.ErrProjectNotFound
}

func (s *Store) UpdateProject(_ context.Context, code string, update ports.ProjectUpdate, now time.Time) (entities.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code = strings.TrimSpace(code)
	for id, item := range s.projectsByID {
		if item.Code != code {
			continue
		}
		if update.Name != nil {
			item.Name = *update.Name
		}
		if update.Description != nil {
			item.Description = *update.Description
		}
		item.Modified = now.UTC()
		s.projectsByID[id] = item
		return item, nil
	}
	return entities.Project{}, domainerrors.ErrProjectNotFound
}

func (s *Store) DeleteProject(_ context.Context, projectID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projectsByID[projectID]; !ok {
		return domainerrors.ErrProjectNotFound
	}
	delete(s.projectsByID, projectID)
	return nil
}

func (s *Store) ListProjectsForProfile(_ context.Context, profileID int64) ([]entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	granted := make(map[int64]bool)
	for _, grant := range s.grantsByID {
		if grant.ProfileID == profileID {
			granted[grant.ProjectID] = true
		}
	}

	items := make([]entities.Project, 0)
	for _, item := range s.projectsByID {
		if item.OwnerID == profileID || granted[item.ID] {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) ProjectCodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code = strings.TrimSpace(code)
	for _, item := range s.projectsByID {
		if item.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SafeNameExists(_ context.Context, safeName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	safeName = strings.TrimSpace(safeName)
	for _, item := range s.projectsByID {
		if item.SafeName == safeName {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) FindGrant(_ context.Context, profileID int64, projectID int64) (entities.AccessGrant, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, grant := range s.grantsByID {
		if grant.ProfileID == profileID && grant.ProjectID == projectID {
			return grant, true, nil
		}
	}
	return entities.AccessGrant{}, false, nil
}

func (s *Store) UpsertGrant(_ context.Context, profileID int64, projectID int64, tierID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, grant := range s.grantsByID {
		if grant.ProfileID == profileID && grant.ProjectID == projectID {
			grant.TierID = tierID
			s.grantsByID[id] = grant
			return nil
		}
	}

	s.nextGrantID++
	s.grantsByID[s.nextGrantID] = entities.AccessGrant{
		ID:        s.nextGrantID,
		ProfileID: profileID,
		ProjectID: projectID,
		TierID:    tierID,
	}
	return nil
}

func (s *Store) DeleteGrantsForProject(_ context.Context, projectID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, grant := range s.grantsByID {
		if grant.ProjectID == projectID {
			delete(s.grantsByID, id)
		}
	}
	return nil
}

func (s *Store) FindOrCreateTier(_ context.Context, name string) (entities.TierRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findOrCreateTierLocked(name), nil
}

func (s *Store) FindTierByID(_ context.Context, tierID int64) (entities.TierRow, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.tiersByID[tierID]
	return row, ok, nil
}

func (s *Store) EnsureTiers(_ context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		s.findOrCreateTierLocked(name)
	}
	return nil
}

func (s *Store) ListProjectsMissingOwnerGrant(_ context.Context, limit int) ([]entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ownerGranted := make(map[int64]bool)
	for _, grant := range s.grantsByID {
		for _, item := range s.projectsByID {
			if grant.ProjectID == item.ID && grant.ProfileID == item.OwnerID {
				ownerGranted[item.ID] = true
			}
		}
	}

	items := make([]entities.Project, 0)
	for _, item := range s.projectsByID {
		if !ownerGranted[item.ID] {
			items = append(items, item)
		}
		if len(items) >= limit {
			break
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) findOrCreateTierLocked(name string) entities.TierRow {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, row := range s.tiersByID {
		if row.Name == name {
			return row
		}
	}
	s.nextTierID++
	row := entities.TierRow{ID: s.nextTierID, Name: name}
	s.tiersByID[row.ID] = row
	return row
}
