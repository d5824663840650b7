package mockrepository

import (
	"context"
	"time"

	"daily-steps-service/internal/model"
	"daily-steps-service/internal/repository"

	"github.com/stretchr/testify/mock"
)

type StepRepository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.StepRepository = &StepRepository{}

func (m *StepRepository) ReadHistory(ctx context.Context, window model.Window) ([]model.Bucket, error) {
	args := m.Called(ctx, window)
	buckets, _ := args.Get(0).([]model.Bucket)
	return buckets, args.Error(1)
}

func (m *StepRepository) ReadDailyTotal(ctx context.Context, asOf time.Time) (model.DataSet, error) {
	args := m.Called(ctx, asOf)
	total, _ := args.Get(0).(model.DataSet)
	return total, args.Error(1)
}

type DeltaRepository struct {
	mock.Mock
}

var _ repository.DeltaRepository = &DeltaRepository{}

func (m *DeltaRepository) CreateBatch(ctx context.Context, deltas []model.StepDelta) error {
	args := m.Called(ctx, deltas)
	return args.Error(0)
}
