package queue

import (
	"github.com/gridloom/feedplanner/internal/service"
)

type Queue struct {
	ps service.PlannerService
}

func NewQueue(ps service.PlannerService) *Queue {
	return &Queue{ps: ps}
}

const TaskTypePlanFeed = "plan:feed"

type PlanFeedPayload struct {
	UserID  int64  `json:"user_id"`
	Request string `json:"request"`
}
