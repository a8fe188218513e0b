package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/gridloom/feedplanner/internal/models"
)

type LayoutRepository interface {
	Create(ctx context.Context, layout *models.FeedLayout) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.FeedLayout, error)
	GetByPublicID(ctx context.Context, publicID string, userID int64) (*models.FeedLayout, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.FeedLayout, error)
	Finalize(ctx context.Context, id int64, profilePrompt, hashtags string) error
}

type layoutRepository struct {
	db *sql.DB
}

func NewLayoutRepository(db *sql.DB) LayoutRepository {
	return &layoutRepository{db: db}
}

func (r *layoutRepository) Create(ctx context.Context, layout *models.FeedLayout) (int64, error) {
	query := `
		INSERT INTO feed_layouts (public_id, user_id, title, description, layout_type, visual_rhythm, color_palette, strategy, research_summary, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		layout.PublicID, layout.UserID, layout.Title, layout.Description,
		layout.LayoutType, layout.VisualRhythm, layout.ColorPalette,
		layout.Strategy, layout.ResearchSummary, layout.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *layoutRepository) GetByID(ctx context.Context, id int64) (*models.FeedLayout, error) {
	query := `
		SELECT id, public_id, user_id, title, description, layout_type, visual_rhythm, color_palette, strategy, research_summary, profile_prompt, hashtags, status, created_at, updated_at
		FROM feed_layouts WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanLayout(row)
}

func (r *layoutRepository) GetByPublicID(ctx context.Context, publicID string, userID int64) (*models.FeedLayout, error) {
	query := `
		SELECT id, public_id, user_id, title, description, layout_type, visual_rhythm, color_palette, strategy, research_summary, profile_prompt, hashtags, status, created_at, updated_at
		FROM feed_layouts WHERE public_id = $1 AND user_id = $2
	`
	row := r.db.QueryRowContext(ctx, query, publicID, userID)
	return scanLayout(row)
}

func (r *layoutRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.FeedLayout, error) {
	query := `
		SELECT id, public_id, user_id, title, description, layout_type, visual_rhythm, color_palette, strategy, research_summary, profile_prompt, hashtags, status, created_at, updated_at
		FROM feed_layouts WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var layouts []*models.FeedLayout
	for rows.Next() {
		var l models.FeedLayout
		err := rows.Scan(&l.ID, &l.PublicID, &l.UserID, &l.Title, &l.Description, &l.LayoutType, &l.VisualRhythm, &l.ColorPalette, &l.Strategy, &l.ResearchSummary, &l.ProfilePrompt, &l.Hashtags, &l.Status, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		layouts = append(layouts, &l)
	}
	return layouts, nil
}

func (r *layoutRepository) Finalize(ctx context.Context, id int64, profilePrompt, hashtags string) error {
	query := `
		UPDATE feed_layouts
		SET profile_prompt = $1,
			hashtags = $2,
			status = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, profilePrompt, hashtags, models.LayoutStatusReady, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func scanLayout(row *sql.Row) (*models.FeedLayout, error) {
	var l models.FeedLayout
	err := row.Scan(&l.ID, &l.PublicID, &l.UserID, &l.Title, &l.Description, &l.LayoutType, &l.VisualRhythm, &l.ColorPalette, &l.Strategy, &l.ResearchSummary, &l.ProfilePrompt, &l.Hashtags, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &l, nil
}
