package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"daily-steps-service/internal/model"
)

// DeltaService validates and queues incoming step deltas.
type DeltaService interface {
	BuildDelta(req model.StepDeltaRequest) (model.StepDelta, error)
	ProcessDelta(ctx context.Context, delta model.StepDelta)
}

type deltaService struct {
	worker   BatchDeltaWorker
	validate *validator.Validate
	now      func() time.Time
	// maxFuture rejects deltas ending further than this past now.
	maxFuture time.Duration
}

// NewDeltaService constructs a deltaService.
func NewDeltaService(worker BatchDeltaWorker, maxFuture time.Duration) DeltaService {
	return &deltaService{
		worker:    worker,
		validate:  validator.New(),
		now:       time.Now,
		maxFuture: maxFuture,
	}
}

// BuildDelta validates and constructs a StepDelta from an incoming request.
func (s *deltaService) BuildDelta(req model.StepDeltaRequest) (model.StepDelta, error) {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return model.StepDelta{}, &ValidationError{Message: fieldMessage(verrs[0])}
		}
		return model.StepDelta{}, &ValidationError{Message: err.Error()}
	}

	start := time.UnixMilli(req.StartTime).UTC()
	end := time.UnixMilli(req.EndTime).UTC()
	if end.Before(start) {
		return model.StepDelta{}, &ValidationError{Message: "end_time must not be before start_time"}
	}
	if s.maxFuture > 0 && end.After(s.now().Add(s.maxFuture)) {
		return model.StepDelta{}, &ValidationError{Message: "end_time cannot be in the future"}
	}

	return model.StepDelta{
		Source: req.Source,
		Start:  start,
		End:    end,
		Steps:  uint64(req.Steps),
	}, nil
}

// ProcessDelta hands the delta to the batch worker.
func (s *deltaService) ProcessDelta(ctx context.Context, delta model.StepDelta) {
	s.worker.Enqueue(delta)
}

func fieldMessage(fe validator.FieldError) string {
	name := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "max":
		return name + " is too long"
	default:
		return name + " is invalid"
	}
}

func jsonName(field string) string {
	switch field {
	case "Source":
		return "source"
	case "StartTime":
		return "start_time"
	case "EndTime":
		return "end_time"
	case "Steps":
		return "steps"
	default:
		return field
	}
}
