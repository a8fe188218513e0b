package models

import "time"

// ShotType classifies what a grid slot shows. Close portrait, half body and
// full body are face-visible; object, flatlay and scenery are not.
type ShotType string

const (
	ShotTypeClosePortrait ShotType = "close_portrait"
	ShotTypeHalfBody      ShotType = "half_body"
	ShotTypeFullBody      ShotType = "full_body"
	ShotTypeObject        ShotType = "object"
	ShotTypeFlatlay       ShotType = "flatlay"
	ShotTypeScenery       ShotType = "scenery"
)

func (s ShotType) FaceVisible() bool {
	switch s {
	case ShotTypeClosePortrait, ShotTypeHalfBody, ShotTypeFullBody:
		return true
	}
	return false
}

func (s ShotType) Valid() bool {
	switch s {
	case ShotTypeClosePortrait, ShotTypeHalfBody, ShotTypeFullBody,
		ShotTypeObject, ShotTypeFlatlay, ShotTypeScenery:
		return true
	}
	return false
}

// PostLayout is one slot of the nine-slot grid. Position is the identity key
// and runs 1..9. Immutable once the plan is finalized.
type PostLayout struct {
	Position         int      `json:"position"`
	ShotType         ShotType `json:"shot_type"`
	Purpose          string   `json:"purpose"`
	VisualDirection  string   `json:"visual_direction"`
	ColorTemperature string   `json:"color_temperature"` // warm, cool, neutral
	CompositionStyle string   `json:"composition_style,omitempty"`
}

// LayoutPlan is the structural plan for a full grid: exactly nine slots,
// positions 1..9, at least seven of them face-visible.
type LayoutPlan struct {
	OverallStrategy string       `json:"overall_strategy"`
	GridPattern     string       `json:"grid_pattern"`
	ColorFlow       string       `json:"color_flow"`
	VisualRhythm    string       `json:"visual_rhythm"`
	Posts           []PostLayout `json:"posts"`
}

// FeedLayout is the persisted layout record.
type FeedLayout struct {
	ID              int64     `db:"id" json:"id"`
	PublicID        string    `db:"public_id" json:"public_id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	LayoutType      string    `db:"layout_type" json:"layout_type"`
	VisualRhythm    string    `db:"visual_rhythm" json:"visual_rhythm"`
	ColorPalette    string    `db:"color_palette" json:"color_palette"`
	Strategy        string    `db:"strategy" json:"strategy"`
	ResearchSummary string    `db:"research_summary" json:"research_summary"`
	ProfilePrompt   string    `db:"profile_prompt" json:"profile_prompt"`
	Hashtags        string    `db:"hashtags" json:"hashtags"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type FeedBio struct {
	ID        int64     `db:"id" json:"id"`
	LayoutID  int64     `db:"layout_id" json:"layout_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Bio       string    `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	LayoutStatusDraft = "draft"
	LayoutStatusReady = "ready"
)
