package controller

import (
	"errors"

	"daily-steps-service/internal/model"
	"daily-steps-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StepController interface {
	GetSteps(c *fiber.Ctx) error
	ToggleSort(c *fiber.Ctx) error
	Refresh(c *fiber.Ctx) error
}

type DeltaController interface {
	CreateDelta(c *fiber.Ctx) error
}

// stepController exposes the step table over HTTP.
type stepController struct {
	pipeline service.AggregationPipeline
}

// NewStepController builds a StepController.
func NewStepController(pipeline service.AggregationPipeline) StepController {
	return &stepController{pipeline: pipeline}
}

// GetSteps returns the step table in its current order.
func (h *stepController) GetSteps(c *fiber.Ctx) error {
	return c.JSON(h.snapshot())
}

// ToggleSort flips the chronological order of the table.
func (h *stepController) ToggleSort(c *fiber.Ctx) error {
	if _, err := h.pipeline.ToggleOrder(); err != nil {
		if errors.Is(err, service.ErrNotReady) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to toggle order")
	}
	return c.JSON(h.snapshot())
}

// Refresh fetches fresh readings and rebuilds the table. A failed refresh
// still returns whatever entries remain visible.
func (h *stepController) Refresh(c *fiber.Ctx) error {
	err := h.pipeline.Refresh(c.UserContext())
	switch {
	case err == nil:
		return c.JSON(h.snapshot())
	case errors.Is(err, service.ErrStaleRefresh):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrHistoryFetch), errors.Is(err, service.ErrTotalFetch):
		return c.Status(fiber.StatusBadGateway).JSON(h.snapshot())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "refresh failed")
	}
}

func (h *stepController) snapshot() model.StepsResponse {
	snap := h.pipeline.Snapshot()
	status := snap.Status
	resp := model.StepsResponse{
		Order:     model.OrderName(status.Descending),
		State:     status.State.String(),
		SessionID: status.SessionID,
		Entries:   model.NewStepEntries(snap.Entries),
	}
	if status.Err != nil {
		resp.Error = status.Err.Error()
	}
	if !status.RefreshedAt.IsZero() {
		at := status.RefreshedAt.UTC()
		resp.RefreshedAt = &at
	}
	return resp
}

type deltaController struct {
	deltaService service.DeltaService
}

// NewDeltaController builds a DeltaController.
func NewDeltaController(svc service.DeltaService) DeltaController {
	return &deltaController{deltaService: svc}
}

// CreateDelta accepts single step delta payloads.
func (h *deltaController) CreateDelta(c *fiber.Ctx) error {
	var req model.StepDeltaRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	delta, err := h.deltaService.BuildDelta(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	h.deltaService.ProcessDelta(c.UserContext(), delta)

	return c.SendStatus(fiber.StatusAccepted)
}
