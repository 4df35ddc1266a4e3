package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"carbono/contexts/account-core/project-service/domain/entities"
	domainerrors "carbono/contexts/account-core/project-service/domain/errors"
	"carbono/contexts/account-core/project-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository backs ports.Repository and ports.GrantStore with postgres. The
// unique indexes on project.code, project.safe_name, access_level.name, and
// (profile_id, project_id) on project_access are the concurrency backstop for
// the probe-then-insert pipeline.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// SystemClock satisfies ports.Clock with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

func (r *Repository) CreateProject(ctx context.Context, project entities.Project) (entities.Project, error) {
	row := projectModel{
		Code:        strings.TrimSpace(project.Code),
		SafeName:    strings.TrimSpace(project.SafeName),
		Name:        project.Name,
		Description: project.Description,
		Owner:       project.OwnerID,
		Created:     project.Created.UTC(),
		Modified:    project.Modified.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Project{}, domainerrors.ErrCodeConflict
		}
		return entities.Project{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetProjectByCode(ctx context.Context, code string) (entities.Project, error) {
	var row projectModel
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.TrimSpace(code)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Project{}, domainerrors.ErrProjectNotFound
		}
		return entities.Project{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateProject(ctx context.Context, code string, update ports.ProjectUpdate, now time.Time) (entities.Project, error) {
	fields := map[string]interface{}{"modified": now.UTC()}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}

	result := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Where("code = ?", strings.TrimSpace(code)).
		Updates(fields)
	if result.Error != nil {
		return entities.Project{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Project{}, domainerrors.ErrProjectNotFound
	}
	return r.GetProjectByCode(ctx, code)
}

func (r *Repository) DeleteProject(ctx context.Context, projectID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", projectID).
		Delete(&projectModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProjectNotFound
	}
	return nil
}

func (r *Repository) ListProjectsForProfile(ctx context.Context, profileID int64) ([]entities.Project, error) {
	var rows []projectModel
	err := r.db.WithContext(ctx).
		Where("owner = ? OR id IN (SELECT project_id FROM project_access WHERE profile_id = ?)", profileID, profileID).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Project, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ProjectCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Where("code = ?", strings.TrimSpace(code)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) SafeNameExists(ctx context.Context, safeName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Where("safe_name = ?", strings.TrimSpace(safeName)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) FindGrant(ctx context.Context, profileID int64, projectID int64) (entities.AccessGrant, bool, error) {
	var row projectAccessModel
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND project_id = ?", profileID, projectID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AccessGrant{}, false, nil
		}
		return entities.AccessGrant{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) UpsertGrant(ctx context.Context, profileID int64, projectID int64, tierID int64) error {
	row := projectAccessModel{
		ProfileID:     profileID,
		ProjectID:     projectID,
		AccessLevelID: tierID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_level_id"}),
		}).
		Create(&row).
		Error
}

func (r *Repository) DeleteGrantsForProject(ctx context.Context, projectID int64) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&projectAccessModel{}).
		Error
}

func (r *Repository) FindOrCreateTier(ctx context.Context, name string) (entities.TierRow, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	var row accessLevelModel
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&row).
		Error
	if err == nil {
		return row.toEntity(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.TierRow{}, err
	}

	row = accessLevelModel{Name: name}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		// A concurrent creator may have won the insert; re-read.
		if isUniqueViolation(err) {
			return r.FindOrCreateTier(ctx, name)
		}
		return entities.TierRow{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindTierByID(ctx context.Context, tierID int64) (entities.TierRow, bool, error) {
	var row accessLevelModel
	err := r.db.WithContext(ctx).
		Where("id = ?", tierID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.TierRow{}, false, nil
		}
		return entities.TierRow{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) EnsureTiers(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := r.FindOrCreateTier(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) ListProjectsMissingOwnerGrant(ctx context.Context, limit int) ([]entities.Project, error) {
	var rows []projectModel
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM project_access pa WHERE pa.project_id = project.id AND pa.profile_id = project.owner)").
		Order("id ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Project, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type projectModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Code        string    `gorm:"column:code;uniqueIndex"`
	SafeName    string    `gorm:"column:safe_name;uniqueIndex"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	Owner       int64     `gorm:"column:owner"`
	Created     time.Time `gorm:"column:created"`
	Modified    time.Time `gorm:"column:modified"`
}

func (projectModel) TableName() string { return "project" }

func (m projectModel) toEntity() entities.Project {
	return entities.Project{
		ID:          m.ID,
		Code:        m.Code,
		SafeName:    m.SafeName,
		Name:        m.Name,
		Description: m.Description,
		OwnerID:     m.Owner,
		Created:     m.Created.UTC(),
		Modified:    m.Modified.UTC(),
	}
}

type accessLevelModel struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;uniqueIndex"`
}

func (accessLevelModel) TableName() string { return "access_level" }

func (m accessLevelModel) toEntity() entities.TierRow {
	return entities.TierRow{ID: m.ID, Name: m.Name}
}

type projectAccessModel struct {
	ID            int64 `gorm:"column:id;primaryKey;autoIncrement"`
	ProfileID     int64 `gorm:"column:profile_id;uniqueIndex:idx_project_access_pair"`
	ProjectID     int64 `gorm:"column:project_id;uniqueIndex:idx_project_access_pair"`
	AccessLevelID int64 `gorm:"column:access_level_id"`
}

func (projectAccessModel) TableName() string { return "project_access" }

func (m projectAccessModel) toEntity() entities.AccessGrant {
	return entities.AccessGrant{
		ID:        m.ID,
		ProfileID: m.ProfileID,
		ProjectID: m.ProjectID,
		TierID:    m.AccessLevelID,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
