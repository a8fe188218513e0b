package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/gridloom/feedplanner/internal/models"
)

type BioRepository interface {
	Create(ctx context.Context, bio *models.FeedBio) (int64, error)
	GetByLayoutID(ctx context.Context, layoutID int64) (*models.FeedBio, error)
}

type bioRepository struct {
	db *sql.DB
}

func NewBioRepository(db *sql.DB) BioRepository {
	return &bioRepository{db: db}
}

func (r *bioRepository) Create(ctx context.Context, bio *models.FeedBio) (int64, error) {
	query := `
		INSERT INTO feed_bios (layout_id, user_id, bio)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, bio.LayoutID, bio.UserID, bio.Bio).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *bioRepository) GetByLayoutID(ctx context.Context, layoutID int64) (*models.FeedBio, error) {
	query := `SELECT id, layout_id, user_id, bio, created_at FROM feed_bios WHERE layout_id = $1`
	row := r.db.QueryRowContext(ctx, query, layoutID)

	var bio models.FeedBio
	err := row.Scan(&bio.ID, &bio.LayoutID, &bio.UserID, &bio.Bio, &bio.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &bio, nil
}
