package mockclickhousebatch

import (
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stretchr/testify/mock"
)

// Batch records appended rows so tests can assert on what would be sent.
type Batch struct {
	mock.Mock
	Rows [][]any
}

var _ driver.Batch = &Batch{}

func (m *Batch) Append(args ...any) error {
	err := m.Called(args...).Error(0)
	if err == nil {
		m.Rows = append(m.Rows, args)
	}
	return err
}

func (m *Batch) AppendStruct(v any) error {
	return m.Called(v).Error(0)
}

func (m *Batch) Send() error {
	return m.Called().Error(0)
}

func (m *Batch) Abort() error {
	return m.Called().Error(0)
}

func (m *Batch) Flush() error {
	return m.Called().Error(0)
}

func (m *Batch) IsSent() bool {
	return m.Called().Bool(0)
}

func (m *Batch) Column(id int) driver.BatchColumn {
	column, _ := m.Called(id).Get(0).(driver.BatchColumn)
	return column
}
