package mockservice

import (
	"context"

	"daily-steps-service/internal/model"
	"daily-steps-service/internal/service"

	"github.com/stretchr/testify/mock"
)

type Pipeline struct {
	mock.Mock
}

var _ service.AggregationPipeline = &Pipeline{}

func (m *Pipeline) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *Pipeline) ToggleOrder() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *Pipeline) Entries() []model.DailyStepCount {
	rows, _ := m.Called().Get(0).([]model.DailyStepCount)
	return rows
}

func (m *Pipeline) Status() service.Status {
	return m.Called().Get(0).(service.Status)
}

func (m *Pipeline) Snapshot() service.Snapshot {
	return m.Called().Get(0).(service.Snapshot)
}

type DeltaService struct {
	mock.Mock
}

var _ service.DeltaService = &DeltaService{}

func (m *DeltaService) BuildDelta(req model.StepDeltaRequest) (model.StepDelta, error) {
	args := m.Called(req)
	return args.Get(0).(model.StepDelta), args.Error(1)
}

func (m *DeltaService) ProcessDelta(ctx context.Context, delta model.StepDelta) {
	m.Called(ctx, delta)
}
