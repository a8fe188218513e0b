package models

import "time"

type BrandProfile struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	BusinessType   string    `db:"business_type" json:"business_type"`
	Vibe           string    `db:"vibe" json:"vibe"`
	TargetAudience string    `db:"target_audience" json:"target_audience"`
	BrandVoice     string    `db:"brand_voice" json:"brand_voice"`
	ColorPalette   string    `db:"color_palette" json:"color_palette"`
	BusinessGoals  string    `db:"business_goals" json:"business_goals"`
	IsComplete     bool      `db:"is_complete" json:"is_complete"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// TrainedModel records a user's personalization model. TriggerWord is the
// token that must prefix every personalized image prompt.
type TrainedModel struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	TriggerWord string    `db:"trigger_word" json:"trigger_word"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

const (
	TrainedModelStatusReady    = "ready"
	TrainedModelStatusTraining = "training"
	TrainedModelStatusFailed   = "failed"
)
