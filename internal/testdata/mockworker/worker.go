package mockworker

import (
	"daily-steps-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(delta model.StepDelta) {
	m.Called(delta)
}

func (m *Worker) Shutdown() {
	m.Called()
}
