package queue

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func EnqueuePlan(asynqClient *asynq.Client, payload PlanFeedPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePlanFeed, taskPayload)

	// the pipeline itself never retries; a failed run is retried by the
	// user issuing a new request
	_, err = asynqClient.Enqueue(task, asynq.MaxRetry(0))
	if err != nil {
		return err
	}

	log.Printf("Feed plan task scheduled for user %d", payload.UserID)
	return nil
}
