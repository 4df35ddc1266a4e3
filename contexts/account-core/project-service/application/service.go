package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"carbono/contexts/account-core/project-service/domain/entities"
	domainerrors "carbono/contexts/account-core/project-service/domain/errors"
	"carbono/contexts/account-core/project-service/domain/services"
	"carbono/contexts/account-core/project-service/ports"
	"carbono/internal/shared/minting"
)

const (
	maxNameLength     = 255
	maxCodeLength     = 40
	maxEmailLength    = 200
	maxSafeNameLength = 80
)

// CreateProjectInput carries the provisioning request. Code is optional; a
// free one is minted when absent.
type CreateProjectInput struct {
	OwnerEmail  string
	Name        string
	Description string
	Code        string
}

// ProjectView is a project projection plus the acting principal's resolved
// tier.
type ProjectView struct {
	Project entities.Project
	Tier    entities.AccessTier
}

type Service struct {
	Projects  ports.Repository
	Grants    ports.GrantStore
	Directory ports.ProfileDirectory
	Minter    minting.Minter
	Clock     ports.Clock
	Logger    *slog.Logger
}

// CreateProject runs the provisioning pipeline: validate, resolve the owner
// tier catalog row, resolve the owner profile, mint identifiers, insert the
// project, insert the owner grant. Each step is an independent store write
// with no rollback; the table tag on a returned error names the failed step,
// and a grant failure leaves the project row live.
func (s Service) CreateProject(ctx context.Context, input CreateProjectInput) (entities.Project, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.OwnerEmail)
	code := strings.TrimSpace(input.Code)

	if name == "" || email == "" {
		return entities.Project{}, domainerrors.Tag("project", domainerrors.ErrMissingFields)
	}
	if len(name) > maxNameLength {
		return entities.Project{}, domainerrors.Tag("project", domainerrors.ErrNameTooLong)
	}
	if len(code) > maxCodeLength {
		return entities.Project{}, domainerrors.Tag("project", domainerrors.ErrCodeTooLong)
	}
	if len(email) > maxEmailLength {
		return entities.Project{}, domainerrors.Tag("user", domainerrors.ErrEmailTooLong)
	}

	ownerTier, err := s.Grants.FindOrCreateTier(ctx, string(entities.TierOwner))
	if err != nil {
		return entities.Project{}, domainerrors.Tag("access_level", err)
	}

	owner, found, err := s.Directory.ResolveProfileByEmail(ctx, email)
	if err != nil {
		return entities.Project{}, domainerrors.Tag("profile", err)
	}
	if !found {
		return entities.Project{}, domainerrors.Tag("profile", domainerrors.ErrProfileNotFound)
	}

	if code == "" {
		minted, err := s.Minter.Mint(ctx, minting.UUIDProbe(s.Projects.ProjectCodeExists))
		if err != nil {
			return entities.Project{}, domainerrors.Tag("project", domainerrors.ErrCodeExhausted)
		}
		code = minted
	} else {
		taken, err := s.Projects.ProjectCodeExists(ctx, code)
		if err != nil {
			return entities.Project{}, domainerrors.Tag("project", err)
		}
		if taken {
			return entities.Project{}, domainerrors.Tag("project", domainerrors.ErrCodeConflict)
		}
	}

	safeName, err := s.Minter.Mint(ctx, minting.SlugProbe(name, s.Projects.SafeNameExists))
	if err != nil {
		return entities.Project{}, domainerrors.Tag("project", domainerrors.ErrCodeExhausted)
	}
	if len(safeName) > maxSafeNameLength {
		safeName = safeName[:maxSafeNameLength]
	}

	now := s.now()
	project, err := s.Projects.CreateProject(ctx, entities.Project{
		Code:        code,
		SafeName:    safeName,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     owner.ID,
		Created:     now,
		Modified:    now,
	})
	if err != nil {
		return entities.Project{}, domainerrors.Tag("project", err)
	}

	if err := s.Grants.UpsertGrant(ctx, owner.ID, project.ID, ownerTier.ID); err != nil {
		// No compensation: the project row stays live without its owner
		// grant until the reconciler completes it.
		resolveLogger(s.Logger).Error("owner grant write failed after project insert",
			"event", "project_owner_grant_failed",
			"module", "account-core/project-service",
			"layer", "application",
			"project_code", project.Code,
			"error", err.Error(),
		)
		return entities.Project{}, domainerrors.Tag("project_access", err)
	}

	resolveLogger(s.Logger).Info("project provisioned",
		"event", "project_provisioned",
		"module", "account-core/project-service",
		"layer", "application",
		"project_code", project.Code,
		"safe_name", project.SafeName,
	)
	return project, nil
}

// ResolveAccess computes the acting principal's effective tier on a project.
// Order is fixed: profile, project, ownership, explicit grant. Ownership
// always wins, even over a stray grant row for the owner. A missing grant is
// tier none; a store failure is surfaced untagged by tier so callers can
// tell "could not determine" from "determined insufficient".
func (s Service) ResolveAccess(ctx context.Context, actingEmail string, code string) (entities.AccessTier, entities.Project, error) {
	email := strings.TrimSpace(actingEmail)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return entities.TierNone, entities.Project{}, domainerrors.Tag("project", domainerrors.ErrMissingFields)
	}
	if len(code) > maxCodeLength {
		return entities.TierNone, entities.Project{}, domainerrors.Tag("project", domainerrors.ErrCodeTooLong)
	}

	profile, found, err := s.Directory.ResolveProfileByEmail(ctx, email)
	if err != nil {
		return entities.TierNone, entities.Project{}, domainerrors.Tag("profile", err)
	}
	if !found {
		return entities.TierNone, entities.Project{}, domainerrors.Tag("profile", domainerrors.ErrProfileNotFound)
	}

	project, err := s.Projects.GetProjectByCode(ctx, code)
	if err != nil {
		return entities.TierNone, entities.Project{}, domainerrors.Tag("project", err)
	}

	if project.OwnerID == profile.ID {
		return entities.TierOwner, project, nil
	}

	grant, found, err := s.Grants.FindGrant(ctx, profile.ID, project.ID)
	if err != nil {
		return entities.TierNone, entities.Project{}, domainerrors.Tag("project_access", err)
	}
	if !found {
		return entities.TierNone, project, nil
	}

	tierRow, found, err := s.Grants.FindTierByID(ctx, grant.TierID)
	if err != nil {
		return entities.TierNone, entities.Project{}, domainerrors.Tag("access_level", err)
	}
	if !found {
		return entities.TierNone, project, nil
	}
	return services.TierFromName(tierRow.Name), project, nil
}

// GetProject returns the project when the acting principal holds any tier
// above none.
func (s Service) GetProject(ctx context.Context, actingEmail string, code string) (ProjectView, error) {
	tier, project, err := s.ResolveAccess(ctx, actingEmail, code)
	if err != nil {
		return ProjectView{}, err
	}
	if !services.CanRead(tier) {
		return ProjectView{}, domainerrors.Tag("project", domainerrors.ErrForbidden)
	}
	return ProjectView{Project: project, Tier: tier}, nil
}

// ListProjects returns every project the acting principal owns or holds a
// grant on.
func (s Service) ListProjects(ctx context.Context, actingEmail string) ([]entities.Project, error) {
	email := strings.TrimSpace(actingEmail)
	if email == "" {
		return nil, domainerrors.Tag("user", domainerrors.ErrMissingFields)
	}

	profile, found, err := s.Directory.ResolveProfileByEmail(ctx, email)
	if err != nil {
		return nil, domainerrors.Tag("profile", err)
	}
	if !found {
		return nil, domainerrors.Tag("profile", domainerrors.ErrProfileNotFound)
	}
	items, err := s.Projects.ListProjectsForProfile(ctx, profile.ID)
	if err != nil {
		return nil, domainerrors.Tag("project", err)
	}
	return items, nil
}

// UpdateProject mutates name and/or description. Requires write or owner.
func (s Service) UpdateProject(ctx context.Context, actingEmail string, code string, name string, description string) (entities.Project, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" && description == "" {
		return entities.Project{}, domainerrors.Tag("project", domainerrors.ErrNoFieldsToUpdate)
	}
	if len(name) > maxNameLength {
		return entities.Project{}, domainerrors.Tag("project", domainerrors.ErrNameTooLong)
	}

	tier, project, err := s.ResolveAccess(ctx, actingEmail, code)
	if err != nil {
		return entities.Project{}, err
	}
	if !services.CanUpdate(tier) {
		return entities.Project{}, domainerrors.Tag("project", domainerrors.ErrForbidden)
	}

	update := ports.ProjectUpdate{}
	if name != "" {
		update.Name = &name
	}
	if description != "" {
		update.Description = &description
	}
	updated, err := s.Projects.UpdateProject(ctx, project.Code, update, s.now())
	if err != nil {
		return entities.Project{}, domainerrors.Tag("project", err)
	}
	return updated, nil
}

// DeleteProject destroys a project and then its grant rows, in that order.
// Owner only: write and read tiers are both rejected.
func (s Service) DeleteProject(ctx context.Context, actingEmail string, code string) (entities.Project, error) {
	tier, project, err := s.ResolveAccess(ctx, actingEmail, code)
	if err != nil {
		return entities.Project{}, err
	}
	if !services.CanDelete(tier) {
		return entities.Project{}, domainerrors.Tag("project", domainerrors.ErrForbidden)
	}

	if err := s.Projects.DeleteProject(ctx, project.ID); err != nil {
		return entities.Project{}, domainerrors.Tag("project", err)
	}
	if err := s.Grants.DeleteGrantsForProject(ctx, project.ID); err != nil {
		return entities.Project{}, domainerrors.Tag("project_access", err)
	}

	resolveLogger(s.Logger).Info("project deleted",
		"event", "project_deleted",
		"module", "account-core/project-service",
		"layer", "application",
		"project_code", project.Code,
	)
	return project, nil
}

// GrantAccess writes an explicit grant for another principal. Owner only.
// A duplicate grant re-points the tier on the existing row.
func (s Service) GrantAccess(ctx context.Context, actingEmail string, code string, granteeEmail string, tierName string) (entities.AccessTier, error) {
	tierName = strings.ToLower(strings.TrimSpace(tierName))
	wanted := services.TierFromName(tierName)
	if wanted == entities.TierNone {
		return entities.TierNone, domainerrors.Tag("access_level", domainerrors.ErrUnknownTier)
	}

	tier, project, err := s.ResolveAccess(ctx, actingEmail, code)
	if err != nil {
		return entities.TierNone, err
	}
	if tier != entities.TierOwner {
		return entities.TierNone, domainerrors.Tag("project_access", domainerrors.ErrForbidden)
	}

	grantee, found, err := s.Directory.ResolveProfileByEmail(ctx, strings.TrimSpace(granteeEmail))
	if err != nil {
		return entities.TierNone, domainerrors.Tag("profile", err)
	}
	if !found {
		return entities.TierNone, domainerrors.Tag("profile", domainerrors.ErrProfileNotFound)
	}

	tierRow, err := s.Grants.FindOrCreateTier(ctx, string(wanted))
	if err != nil {
		return entities.TierNone, domainerrors.Tag("access_level", err)
	}
	if err := s.Grants.UpsertGrant(ctx, grantee.ID, project.ID, tierRow.ID); err != nil {
		return entities.TierNone, domainerrors.Tag("project_access", err)
	}

	resolveLogger(s.Logger).Info("access granted",
		"event", "project_access_granted",
		"module", "account-core/project-service",
		"layer", "application",
		"project_code", project.Code,
		"tier", string(wanted),
	)
	return wanted, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
