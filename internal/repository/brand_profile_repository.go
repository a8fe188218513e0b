package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/gridloom/feedplanner/internal/models"
)

type BrandProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.BrandProfile, bool, error)
	ListCompletedNiches(ctx context.Context) ([]string, error)
}

type brandProfileRepository struct {
	db *sql.DB
}

func NewBrandProfileRepository(db *sql.DB) BrandProfileRepository {
	return &brandProfileRepository{db: db}
}

func (r *brandProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.BrandProfile, bool, error) {
	query := `
		SELECT id, user_id, business_type, vibe, target_audience, brand_voice, color_palette, business_goals, is_complete, created_at, updated_at
		FROM brand_profiles WHERE user_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, userID)

	var profile models.BrandProfile
	err := row.Scan(&profile.ID, &profile.UserID, &profile.BusinessType, &profile.Vibe, &profile.TargetAudience, &profile.BrandVoice, &profile.ColorPalette, &profile.BusinessGoals, &profile.IsComplete, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &profile, true, nil
}

func (r *brandProfileRepository) ListCompletedNiches(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT business_type FROM brand_profiles WHERE is_complete = TRUE`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var niches []string
	for rows.Next() {
		var niche string
		if err := rows.Scan(&niche); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		niches = append(niches, niche)
	}
	return niches, nil
}
