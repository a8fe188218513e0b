package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/gridloom/feedplanner/internal/service"
	"github.com/hibiken/asynq"
)

func (q *Queue) HandlePlanFeedTask(ctx context.Context, task *asynq.Task) error {
	var payload PlanFeedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	plan, err := q.ps.PlanFeed(ctx, payload.UserID, payload.Request)
	if err != nil {
		log.Printf("Feed planning failed for user %d: %v", payload.UserID, err)
		if errors.Is(err, service.ErrBrandProfileIncomplete) {
			// retrying cannot fix a missing profile
			return nil
		}
		return err
	}

	log.Printf("Feed plan %s generated for user %d", plan.LayoutID, payload.UserID)
	return nil
}
