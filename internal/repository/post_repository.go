package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/gridloom/feedplanner/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.FeedPost) (int64, error)
	ListByLayoutID(ctx context.Context, layoutID int64) ([]*models.FeedPost, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.FeedPost) (int64, error) {
	query := `
		INSERT INTO feed_posts (layout_id, user_id, position, prompt, caption, content_pillar, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, post.LayoutID, post.UserID, post.Position, post.Prompt, post.Caption, post.ContentPillar, post.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) ListByLayoutID(ctx context.Context, layoutID int64) ([]*models.FeedPost, error) {
	query := `
		SELECT id, layout_id, user_id, position, prompt, caption, content_pillar, status, created_at
		FROM feed_posts WHERE layout_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, layoutID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.FeedPost
	for rows.Next() {
		var post models.FeedPost
		err := rows.Scan(&post.ID, &post.LayoutID, &post.UserID, &post.Position, &post.Prompt, &post.Caption, &post.ContentPillar, &post.Status, &post.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &post)
	}
	return posts, nil
}
