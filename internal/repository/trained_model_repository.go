package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/gridloom/feedplanner/internal/models"
)

type TrainedModelRepository interface {
	GetReadyByUserID(ctx context.Context, userID int64) (*models.TrainedModel, error)
}

type trainedModelRepository struct {
	db *sql.DB
}

func NewTrainedModelRepository(db *sql.DB) TrainedModelRepository {
	return &trainedModelRepository{db: db}
}

func (r *trainedModelRepository) GetReadyByUserID(ctx context.Context, userID int64) (*models.TrainedModel, error) {
	query := `
		SELECT id, user_id, trigger_word, status, created_at
		FROM trained_models
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, userID, models.TrainedModelStatusReady)

	var model models.TrainedModel
	err := row.Scan(&model.ID, &model.UserID, &model.TriggerWord, &model.Status, &model.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &model, nil
}
