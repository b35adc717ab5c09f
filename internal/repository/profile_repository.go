package repository

import (
	"context"
	"time"

	"sea-u/internal/domain/user"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	var p user.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return user.Profile{}, translateError(err)
	}
	return p, nil
}

func (r *PostgresProfileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]user.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []user.Profile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetBySeaID expects an already normalised SEA-U id.
func (r *PostgresProfileRepository) GetBySeaID(ctx context.Context, seaID string) (user.Profile, error) {
	var p user.Profile
	err := r.db.WithContext(ctx).Where("sea_id = ?", seaID).First(&p).Error
	if err != nil {
		return user.Profile{}, translateError(err)
	}
	return p, nil
}

func (r *PostgresProfileRepository) ListDirectory(ctx context.Context, excludeUserID uuid.UUID, limit int) ([]user.Profile, error) {
	var profiles []user.Profile
	q := r.db.WithContext(ctx).
		Where("show_in_directory = ? AND user_id <> ?", true, excludeUserID).
		Order("display_name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, p *user.Profile) error {
	p.SeaID = user.NormalizeSeaID(p.SeaID)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"display_name", "avatar", "country", "sea_id", "show_online", "show_in_directory", "updated_at",
			}),
		}).
		Create(p).Error
	return translateError(err)
}

func (r *PostgresProfileRepository) UpdateLastSeen(ctx context.Context, userID uuid.UUID, lastSeen time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&user.Profile{}).
		Where("user_id = ?", userID).
		Update("last_seen", lastSeen)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return seau_errors.ErrNotFound
	}
	return nil
}
