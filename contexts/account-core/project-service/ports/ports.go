package ports

import (
	"context"
	"time"

	"carbono/contexts/account-core/project-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// ProjectUpdate carries the mutable fields of a project. Nil means "leave
// unchanged".
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// Repository is the persistence boundary for project rows. Single-row
// atomicity only; the provisioning pipeline composes calls without a
// wrapping transaction and relies on the unique constraints on code and
// safe_name as the backstop for the probe-to-insert race.
type Repository interface {
	CreateProject(ctx context.Context, project entities.Project) (entities.Project, error)
	GetProjectByCode(ctx context.Context, code string) (entities.Project, error)
	UpdateProject(ctx context.Context, code string, update ProjectUpdate, now time.Time) (entities.Project, error)
	DeleteProject(ctx context.Context, projectID int64) error
	ListProjectsForProfile(ctx context.Context, profileID int64) ([]entities.Project, error)
	ProjectCodeExists(ctx context.Context, code string) (bool, error)
	SafeNameExists(ctx context.Context, safeName string) (bool, error)
}

// GrantStore is the (profile, project, tier) relation plus the tier catalog.
// UpsertGrant keeps at most one row per (profile, project) pair; a duplicate
// write re-points the tier, last write wins.
type GrantStore interface {
	FindGrant(ctx context.Context, profileID int64, projectID int64) (entities.AccessGrant, bool, error)
	UpsertGrant(ctx context.Context, profileID int64, projectID int64, tierID int64) error
	DeleteGrantsForProject(ctx context.Context, projectID int64) error
	FindOrCreateTier(ctx context.Context, name string) (entities.TierRow, error)
	FindTierByID(ctx context.Context, tierID int64) (entities.TierRow, bool, error)
	EnsureTiers(ctx context.Context, names []string) error
	ListProjectsMissingOwnerGrant(ctx context.Context, limit int) ([]entities.Project, error)
}

// ProfileRef is the directory projection of a principal's profile.
type ProfileRef struct {
	ID   int64
	Code string
	Name string
}

// ProfileDirectory resolves a principal identity (email) to its profile.
// The found flag distinguishes absence from a store failure.
type ProfileDirectory interface {
	ResolveProfileByEmail(ctx context.Context, email string) (ProfileRef, bool, error)
}
