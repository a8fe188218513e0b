package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gridloom/feedplanner/internal/queue"
	"github.com/gridloom/feedplanner/internal/service"
	"github.com/gridloom/feedplanner/internal/transfer"
	"github.com/hibiken/asynq"
)

type PlanHandler struct {
	s           service.PlannerService
	AsynqClient *asynq.Client
}

func NewPlanHandler(service service.PlannerService, asynqClient *asynq.Client) *PlanHandler {
	return &PlanHandler{s: service, AsynqClient: asynqClient}
}

func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}
	if strings.TrimSpace(req.Request) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Request text is required",
		})
	}

	plan, err := h.s.PlanFeed(c.Context(), userID, req.Request)
	if err != nil {
		return planError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(plan)
}

func (h *PlanHandler) CreatePlanAsync(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}
	if strings.TrimSpace(req.Request) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Request text is required",
		})
	}

	err := queue.EnqueuePlan(h.AsynqClient, queue.PlanFeedPayload{
		UserID:  userID,
		Request: req.Request,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling feed plan",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Feed plan generation scheduled",
	})
}

func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	userID := GetUserID(c)
	planID := c.Params("id")

	plan, err := h.s.GetPlan(c.Context(), userID, planID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Feed plan not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(plan)
}

func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	userID := GetUserID(c)

	layouts, err := h.s.ListPlans(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list feed plans",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"layouts": layouts,
	})
}

// planError keeps stage detail out of responses: the precondition failure is
// user actionable, everything else is generic.
func planError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrBrandProfileIncomplete) {
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{
			"error": "Complete your brand profile first",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Planning failed, please retry",
	})
}
