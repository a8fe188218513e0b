package models

import "time"

// FeedPost is one generated slot of a feed layout: the image prompt, the
// caption and the content pillar for a single grid position.
type FeedPost struct {
	ID            int64     `db:"id" json:"id"`
	LayoutID      int64     `db:"layout_id" json:"layout_id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Position      int       `db:"position" json:"position"`
	Prompt        string    `db:"prompt" json:"prompt"`
	Caption       string    `db:"caption" json:"caption"`
	ContentPillar string    `db:"content_pillar" json:"content_pillar"`
	Status        string    `db:"status" json:"status"` // pending, succeeded, failed
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusPending   = "pending"
	PostStatusSucceeded = "succeeded"
	PostStatusFailed    = "failed"
)
