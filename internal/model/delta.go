package model

import "time"

// StepDeltaRequest represents an incoming step delta from a tracker.
type StepDeltaRequest struct {
	Source    string `json:"source" validate:"required,max=128"`
	StartTime int64  `json:"start_time" validate:"required,gt=0"`
	EndTime   int64  `json:"end_time" validate:"required,gt=0"`
	Steps     int64  `json:"steps" validate:"gte=0"`
}

// StepDelta is the number of steps counted by one source over [Start, End).
type StepDelta struct {
	Source string
	Start  time.Time
	End    time.Time
	Steps  uint64
}
