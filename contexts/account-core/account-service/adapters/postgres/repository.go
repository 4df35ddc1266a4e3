package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"carbono/contexts/account-core/account-service/domain/entities"
	domainerrors "carbono/contexts/account-core/account-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

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

func (r *Repository) CreateUser(ctx context.Context, email string, passwordHash string, now time.Time) (entities.User, error) {
	row := userModel{
		Email:    strings.TrimSpace(email),
		Password: passwordHash,
		Created:  now.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.User{}, domainerrors.ErrEmailConflict
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateProfile(ctx context.Context, code string, name string, now time.Time) (entities.Profile, error) {
	row := profileModel{
		Code:      strings.TrimSpace(code),
		FirstName: strings.TrimSpace(name),
		Created:   now.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Profile{}, domainerrors.ErrCodeConflict
		}
		return entities.Profile{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) LinkProfileUser(ctx context.Context, profileID int64, userID int64) error {
	row := profileUserModel{
		ProfileID: profileID,
		UserID:    userID,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetProfileByCode(ctx context.Context, code string) (entities.Profile, error) {
	var row profileModel
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.TrimSpace(code)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Profile{}, domainerrors.ErrProfileNotFound
		}
		return entities.Profile{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetUsersForProfile(ctx context.Context, profileID int64) ([]entities.User, error) {
	var rows []userModel
	err := r.db.WithContext(ctx).
		Where("id IN (SELECT user_id FROM profile_user WHERE profile_id = ?)", profileID).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(email)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetProfileForUser(ctx context.Context, userID int64) (entities.Profile, error) {
	var row profileModel
	err := r.db.WithContext(ctx).
		Where("id IN (SELECT profile_id FROM profile_user WHERE user_id = ?)", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Profile{}, domainerrors.ErrProfileNotFound
		}
		return entities.Profile{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ProfileCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&profileModel{}).
		Where("code = ?", strings.TrimSpace(code)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type userModel struct {
	ID       int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email    string    `gorm:"column:email;uniqueIndex"`
	Password string    `gorm:"column:password"`
	Created  time.Time `gorm:"column:created"`
}

func (userModel) TableName() string { return "user" }

func (m userModel) toEntity() entities.User {
	return entities.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.Password,
		Created:      m.Created.UTC(),
	}
}

type profileModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Code      string    `gorm:"column:code;uniqueIndex"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Created   time.Time `gorm:"column:created"`
}

func (profileModel) TableName() string { return "profile" }

func (m profileModel) toEntity() entities.Profile {
	return entities.Profile{
		ID:      m.ID,
		Code:    m.Code,
		Name:    m.FirstName,
		Created: m.Created.UTC(),
	}
}

type profileUserModel struct {
	ID        int64 `gorm:"column:id;primaryKey;autoIncrement"`
	ProfileID int64 `gorm:"column:profile_id"`
	UserID    int64 `gorm:"column:user_id"`
}

func (profileUserModel) TableName() string { return "profile_user" }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
