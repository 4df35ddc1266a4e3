package workers

import (
	"context"
	"log/slog"

	"carbono/contexts/account-core/project-service/domain/entities"
	"carbono/contexts/account-core/project-service/ports"
)

// GrantReconciler completes partially provisioned projects: rows whose
// owner grant write failed after the project insert. It re-runs the missing
// step rather than deleting the project, so a creator never loses a project
// to a transient grant-write failure.
type GrantReconciler struct {
	Projects  ports.Repository
	Grants    ports.GrantStore
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce repairs up to BatchSize projects and reports how many it touched.
func (r GrantReconciler) RunOnce(ctx context.Context) (int, error) {
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	items, err := r.Grants.ListProjectsMissingOwnerGrant(ctx, limit)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	ownerTier, err := r.Grants.FindOrCreateTier(ctx, string(entities.TierOwner))
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, project := range items {
		if err := r.Grants.UpsertGrant(ctx, project.OwnerID, project.ID, ownerTier.ID); err != nil {
			return repaired, err
		}
		repaired++
		if r.Logger != nil {
			r.Logger.Info("owner grant reconciled",
				"event", "project_owner_grant_reconciled",
				"module", "account-core/project-service",
				"layer", "application",
				"project_code", project.Code,
			)
		}
	}
	return repaired, nil
}
