package service

import "errors"

var (
	ErrHistoryFetch = errors.New("history fetch failed")
	ErrTotalFetch   = errors.New("total fetch failed")

	// ErrNotReady is returned by ToggleOrder outside the Ready state.
	ErrNotReady = errors.New("refresh not ready")

	// ErrStaleRefresh is returned by a refresh that was superseded by a
	// newer one before it completed. Its results are discarded.
	ErrStaleRefresh = errors.New("refresh superseded")
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
