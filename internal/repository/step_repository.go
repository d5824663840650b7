package repository

import (
	"context"
	"time"

	"daily-steps-service/internal/model"
)

// StepDataType is the data type name of step deltas.
const StepDataType = "com.google.step_count.delta"

// StepRepository reads step readings from a fitness data source.
type StepRepository interface {
	// ReadHistory returns one-day buckets covering the window.
	ReadHistory(ctx context.Context, window model.Window) ([]model.Bucket, error)

	// ReadDailyTotal returns the running total of asOf's local day, from
	// its midnight up to asOf.
	ReadDailyTotal(ctx context.Context, asOf time.Time) (model.DataSet, error)
}

// DeltaRepository persists raw step deltas.
type DeltaRepository interface {
	CreateBatch(ctx context.Context, deltas []model.StepDelta) error
}
