package transfer

import "github.com/gridloom/feedplanner/internal/models"

type PlanRequest struct {
	Request string `json:"request"`
}

// FeedPlan is the aggregate returned to the caller after a successful run.
// Durability lives in the persisted layout, post and bio records this was
// assembled from.
type FeedPlan struct {
	LayoutID      string            `json:"layout_id"`
	Layout        models.LayoutPlan `json:"layout"`
	Posts         []models.FeedPost `json:"posts"`
	Bio           string            `json:"bio"`
	Hashtags      []string          `json:"hashtags"`
	ProfilePrompt string            `json:"profile_prompt"`
}
