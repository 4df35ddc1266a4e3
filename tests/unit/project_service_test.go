package unit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	accountservice "carbono/contexts/account-core/account-service"
	accounthttp "carbono/contexts/account-core/account-service/transport/http"
	projectservice "carbono/contexts/account-core/project-service"
	"carbono/contexts/account-core/project-service/domain/entities"
	domainerrors "carbono/contexts/account-core/project-service/domain/errors"
	projectports "carbono/contexts/account-core/project-service/ports"
	projecthttp "carbono/contexts/account-core/project-service/transport/http"
)

// accountDirectory bridges the account module into the project module's
// directory port, the same shape bootstrap wires in production.
type accountDirectory struct {
	accounts accountservice.Module
}

func (d accountDirectory) ResolveProfileByEmail(ctx context.Context, email string) (projectports.ProfileRef, bool, error) {
	profile, found, err := d.accounts.Service.FindProfileByEmail(ctx, email)
	if err != nil || !found {
		return projectports.ProfileRef{}, found, err
	}
	return projectports.ProfileRef{ID: profile.ID, Code: profile.Code, Name: profile.Name}, true, nil
}

func newAccountManagerModules(t *testing.T, emails ...string) (accountservice.Module, projectservice.Module) {
	t.Helper()
	accounts := accountservice.NewInMemoryModule(nil)
	projects := projectservice.NewInMemoryModule(accountDirectory{accounts: accounts}, nil)

	for _, email := range emails {
		_, err := accounts.Handler.RegisterHandler(context.Background(), accounthttp.RegisterRequest{
			Name:     email,
			Email:    email,
			Password: "pw",
		})
		if err != nil {
			t.Fatalf("register %s failed: %v", email, err)
		}
	}
	return accounts, projects
}

func createProject(t *testing.T, projects projectservice.Module, ownerEmail string, name string) projecthttp.CreateProjectResponse {
	t.Helper()
	resp, err := projects.Handler.CreateProjectHandler(context.Background(), ownerEmail, projecthttp.CreateProjectRequest{
		Name: name,
	})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	return resp
}

func TestProjectCreateMintsIdentifiers(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com")

	created := createProject(t, projects, "owner@example.com", "My First Project")
	if created.Data.Code == "" {
		t.Fatalf("expected a minted project code")
	}
	if created.Data.SafeName != "my-first-project" {
		t.Fatalf("expected slug safe name, got %s", created.Data.SafeName)
	}
}

func TestProjectCreateOwnerResolvesAsOwner(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com")

	created := createProject(t, projects, "owner@example.com", "Owned")

	resolved, err := projects.Handler.ResolveAccessHandler(context.Background(), "owner@example.com", created.Data.Code)
	if err != nil {
		t.Fatalf("resolve access failed: %v", err)
	}
	if resolved.Data.Tier != "owner" {
		t.Fatalf("expected owner tier, got %s", resolved.Data.Tier)
	}
}

func TestProjectCreateUnknownOwnerEmail(t *testing.T) {
	_, projects := newAccountManagerModules(t)

	_, err := projects.Handler.CreateProjectHandler(context.Background(), "ghost@example.com", projecthttp.CreateProjectRequest{
		Name: "No Owner",
	})
	if !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
	if domainerrors.TableOf(err) != "profile" {
		t.Fatalf("expected profile table tag, got %q", domainerrors.TableOf(err))
	}
}

func TestProjectCreateRejectsTakenCode(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com")

	_, err := projects.Handler.CreateProjectHandler(context.Background(), "owner@example.com", projecthttp.CreateProjectRequest{
		Name: "First",
		Code: "explicit-code",
	})
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err = projects.Handler.CreateProjectHandler(context.Background(), "owner@example.com", projecthttp.CreateProjectRequest{
		Name: "Second",
		Code: "explicit-code",
	})
	if !errors.Is(err, domainerrors.ErrCodeConflict) {
		t.Fatalf("expected code conflict, got %v", err)
	}
}

func TestProjectSafeNameCollisionWidensSuffix(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com")

	first := createProject(t, projects, "owner@example.com", "Same Name")
	second := createProject(t, projects, "owner@example.com", "Same Name")

	if first.Data.SafeName != "same-name" {
		t.Fatalf("expected plain slug for first project, got %s", first.Data.SafeName)
	}
	if second.Data.SafeName == first.Data.SafeName {
		t.Fatalf("expected distinct safe names, both got %s", first.Data.SafeName)
	}
}

func TestProjectReadGrantPermitsGetOnly(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com", "reader@example.com")
	created := createProject(t, projects, "owner@example.com", "Shared")

	_, err := projects.Handler.GrantAccessHandler(context.Background(), "owner@example.com", created.Data.Code, projecthttp.GrantAccessRequest{
		Email: "reader@example.com",
		Tier:  "read",
	})
	if err != nil {
		t.Fatalf("grant read failed: %v", err)
	}

	fetched, err := projects.Handler.GetProjectHandler(context.Background(), "reader@example.com", created.Data.Code)
	if err != nil {
		t.Fatalf("reader get failed: %v", err)
	}
	if fetched.Data.Tier != "read" {
		t.Fatalf("expected read tier, got %s", fetched.Data.Tier)
	}

	_, err = projects.Handler.UpdateProjectHandler(context.Background(), "reader@example.com", created.Data.Code, projecthttp.UpdateProjectRequest{
		Name: "Renamed",
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden update for reader, got %v", err)
	}

	_, err = projects.Handler.DeleteProjectHandler(context.Background(), "reader@example.com", created.Data.Code)
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden delete for reader, got %v", err)
	}
}

func TestProjectWriteGrantPermitsUpdateNotDelete(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com", "writer@example.com")
	created := createProject(t, projects, "owner@example.com", "Editable")

	_, err := projects.Handler.GrantAccessHandler(context.Background(), "owner@example.com", created.Data.Code, projecthttp.GrantAccessRequest{
		Email: "writer@example.com",
		Tier:  "write",
	})
	if err != nil {
		t.Fatalf("grant write failed: %v", err)
	}

	updated, err := projects.Handler.UpdateProjectHandler(context.Background(), "writer@example.com", created.Data.Code, projecthttp.UpdateProjectRequest{
		Description: "updated by writer",
	})
	if err != nil {
		t.Fatalf("writer update failed: %v", err)
	}
	if updated.Data.Description != "updated by writer" {
		t.Fatalf("unexpected description: %s", updated.Data.Description)
	}

	_, err = projects.Handler.DeleteProjectHandler(context.Background(), "writer@example.com", created.Data.Code)
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden delete for writer, got %v", err)
	}
}

func TestProjectNoGrantResolvesToNone(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com", "stranger@example.com")
	created := createProject(t, projects, "owner@example.com", "Private")

	resolved, err := projects.Handler.ResolveAccessHandler(context.Background(), "stranger@example.com", created.Data.Code)
	if err != nil {
		t.Fatalf("resolve access failed: %v", err)
	}
	if resolved.Data.Tier != "none" {
		t.Fatalf("expected none tier, got %s", resolved.Data.Tier)
	}

	_, err = projects.Handler.GetProjectHandler(context.Background(), "stranger@example.com", created.Data.Code)
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden get, got %v", err)
	}
}

func TestProjectOwnershipBeatsStrayGrantRow(t *testing.T) {
	accounts, projects := newAccountManagerModules(t, "owner@example.com")
	created := createProject(t, projects, "owner@example.com", "Mine")

	owner, found, err := accounts.Service.FindProfileByEmail(context.Background(), "owner@example.com")
	if err != nil || !found {
		t.Fatalf("owner lookup failed: found=%v err=%v", found, err)
	}
	readTier, err := projects.Store.FindOrCreateTier(context.Background(), "read")
	if err != nil {
		t.Fatalf("tier lookup failed: %v", err)
	}
	stored, err := projects.Store.GetProjectByCode(context.Background(), created.Data.Code)
	if err != nil {
		t.Fatalf("project lookup failed: %v", err)
	}
	if err := projects.Store.UpsertGrant(context.Background(), owner.ID, stored.ID, readTier.ID); err != nil {
		t.Fatalf("stray grant write failed: %v", err)
	}

	resolved, err := projects.Handler.ResolveAccessHandler(context.Background(), "owner@example.com", created.Data.Code)
	if err != nil {
		t.Fatalf("resolve access failed: %v", err)
	}
	if resolved.Data.Tier != "owner" {
		t.Fatalf("expected ownership to win over grant row, got %s", resolved.Data.Tier)
	}
}

func TestProjectDuplicateGrantLastWriteWins(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com", "member@example.com")
	created := createProject(t, projects, "owner@example.com", "Regrant")

	for _, tier := range []string{"read", "write"} {
		_, err := projects.Handler.GrantAccessHandler(context.Background(), "owner@example.com", created.Data.Code, projecthttp.GrantAccessRequest{
			Email: "member@example.com",
			Tier:  tier,
		})
		if err != nil {
			t.Fatalf("grant %s failed: %v", tier, err)
		}
	}

	resolved, err := projects.Handler.ResolveAccessHandler(context.Background(), "member@example.com", created.Data.Code)
	if err != nil {
		t.Fatalf("resolve access failed: %v", err)
	}
	if resolved.Data.Tier != "write" {
		t.Fatalf("expected last grant to win, got %s", resolved.Data.Tier)
	}
}

func TestProjectGrantRequiresOwner(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com", "writer@example.com", "other@example.com")
	created := createProject(t, projects, "owner@example.com", "Guarded")

	_, err := projects.Handler.GrantAccessHandler(context.Background(), "owner@example.com", created.Data.Code, projecthttp.GrantAccessRequest{
		Email: "writer@example.com",
		Tier:  "write",
	})
	if err != nil {
		t.Fatalf("owner grant failed: %v", err)
	}

	_, err = projects.Handler.GrantAccessHandler(context.Background(), "writer@example.com", created.Data.Code, projecthttp.GrantAccessRequest{
		Email: "other@example.com",
		Tier:  "read",
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden grant by non-owner, got %v", err)
	}
}

func TestProjectGrantRejectsUnknownTier(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com", "member@example.com")
	created := createProject(t, projects, "owner@example.com", "Strict")

	_, err := projects.Handler.GrantAccessHandler(context.Background(), "owner@example.com", created.Data.Code, projecthttp.GrantAccessRequest{
		Email: "member@example.com",
		Tier:  "superuser",
	})
	if !errors.Is(err, domainerrors.ErrUnknownTier) {
		t.Fatalf("expected unknown tier rejection, got %v", err)
	}
}

func TestProjectDeleteByOwnerRemovesProjectAndGrants(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com", "member@example.com")
	created := createProject(t, projects, "owner@example.com", "Doomed")

	_, err := projects.Handler.GrantAccessHandler(context.Background(), "owner@example.com", created.Data.Code, projecthttp.GrantAccessRequest{
		Email: "member@example.com",
		Tier:  "read",
	})
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	deleted, err := projects.Handler.DeleteProjectHandler(context.Background(), "owner@example.com", created.Data.Code)
	if err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if deleted.Data.Code != created.Data.Code {
		t.Fatalf("expected deleted snapshot code %s, got %s", created.Data.Code, deleted.Data.Code)
	}
	if deleted.Data.Name != "Doomed" {
		t.Fatalf("expected deleted snapshot name, got %s", deleted.Data.Name)
	}

	_, err = projects.Handler.GetProjectHandler(context.Background(), "owner@example.com", created.Data.Code)
	if !errors.Is(err, domainerrors.ErrProjectNotFound) {
		t.Fatalf("expected project not found after delete, got %v", err)
	}

	listed, err := projects.Handler.ListProjectsHandler(context.Background(), "member@example.com")
	if err != nil {
		t.Fatalf("member list failed: %v", err)
	}
	if len(listed.Data) != 0 {
		t.Fatalf("expected no projects for member after delete, got %d", len(listed.Data))
	}
}

func TestProjectUpdateRequiresFields(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com")
	created := createProject(t, projects, "owner@example.com", "Static")

	_, err := projects.Handler.UpdateProjectHandler(context.Background(), "owner@example.com", created.Data.Code, projecthttp.UpdateProjectRequest{})
	if !errors.Is(err, domainerrors.ErrNoFieldsToUpdate) {
		t.Fatalf("expected no fields to update, got %v", err)
	}
}

func TestProjectListShowsOwnedAndGranted(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com", "member@example.com")

	createProject(t, projects, "owner@example.com", "Alpha")
	shared := createProject(t, projects, "owner@example.com", "Beta")
	createProject(t, projects, "member@example.com", "Gamma")

	_, err := projects.Handler.GrantAccessHandler(context.Background(), "owner@example.com", shared.Data.Code, projecthttp.GrantAccessRequest{
		Email: "member@example.com",
		Tier:  "read",
	})
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	listed, err := projects.Handler.ListProjectsHandler(context.Background(), "member@example.com")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Data) != 2 {
		t.Fatalf("expected owned plus granted project, got %d", len(listed.Data))
	}
}

func TestProjectReconcilerCompletesMissingOwnerGrant(t *testing.T) {
	accounts, projects := newAccountManagerModules(t, "owner@example.com")
	created := createProject(t, projects, "owner@example.com", "Half Provisioned")

	stored, err := projects.Store.GetProjectByCode(context.Background(), created.Data.Code)
	if err != nil {
		t.Fatalf("project lookup failed: %v", err)
	}
	// Simulate the grant write having failed after the project insert.
	if err := projects.Store.DeleteGrantsForProject(context.Background(), stored.ID); err != nil {
		t.Fatalf("grant removal failed: %v", err)
	}

	repaired, err := projects.Reconciler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("reconciler run failed: %v", err)
	}
	if repaired != 1 {
		t.Fatalf("expected one repaired project, got %d", repaired)
	}

	owner, found, err := accounts.Service.FindProfileByEmail(context.Background(), "owner@example.com")
	if err != nil || !found {
		t.Fatalf("owner lookup failed: found=%v err=%v", found, err)
	}
	grant, found, err := projects.Store.FindGrant(context.Background(), owner.ID, stored.ID)
	if err != nil {
		t.Fatalf("grant lookup failed: %v", err)
	}
	if !found {
		t.Fatalf("expected owner grant after reconciliation")
	}
	tierRow, found, err := projects.Store.FindTierByID(context.Background(), grant.TierID)
	if err != nil || !found {
		t.Fatalf("tier lookup failed: found=%v err=%v", found, err)
	}
	if tierRow.Name != string(entities.TierOwner) {
		t.Fatalf("expected owner tier on reconciled grant, got %s", tierRow.Name)
	}
}

func TestProjectConcurrentProvisioningMintsDistinctIdentifiers(t *testing.T) {
	_, projects := newAccountManagerModules(t, "owner@example.com")

	const n = 32
	results := make([]projecthttp.CreateProjectResponse, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = projects.Handler.CreateProjectHandler(context.Background(), "owner@example.com", projecthttp.CreateProjectRequest{
				Name: fmt.Sprintf("Concurrent Project %d", i),
			})
		}(i)
	}
	wg.Wait()

	codes := make(map[string]bool, n)
	safeNames := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("provision %d failed: %v", i, errs[i])
		}
		if codes[results[i].Data.Code] {
			t.Fatalf("duplicate code minted: %s", results[i].Data.Code)
		}
		if safeNames[results[i].Data.SafeName] {
			t.Fatalf("duplicate safe name minted: %s", results[i].Data.SafeName)
		}
		codes[results[i].Data.Code] = true
		safeNames[results[i].Data.SafeName] = true
	}
	if len(codes) != n || len(safeNames) != n {
		t.Fatalf("expected %d distinct identifiers, got %d codes and %d safe names", n, len(codes), len(safeNames))
	}
}
