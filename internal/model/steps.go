package model

import "time"

// DailyStepCount is one row of the step table.
type DailyStepCount struct {
	Day   DayKey
	Steps uint64
}

// StepEntry is the JSON shape of a DailyStepCount.
type StepEntry struct {
	Day   string `json:"day"`
	Date  string `json:"date"`
	Steps uint64 `json:"steps"`
}

// StepsResponse is returned by the steps endpoints.
type StepsResponse struct {
	Order       string      `json:"order"`
	State       string      `json:"state"`
	Error       string      `json:"error,omitempty"`
	SessionID   string      `json:"session_id,omitempty"`
	RefreshedAt *time.Time  `json:"refreshed_at,omitempty"`
	Entries     []StepEntry `json:"entries"`
}

// NewStepEntries converts store rows to their JSON shape, keeping order.
func NewStepEntries(rows []DailyStepCount) []StepEntry {
	entries := make([]StepEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, StepEntry{
			Day:   r.Day.String(),
			Date:  r.Day.Display(),
			Steps: r.Steps,
		})
	}
	return entries
}

// OrderName maps the descending flag to its wire name.
func OrderName(descending bool) string {
	if descending {
		return "descending"
	}
	return "ascending"
}
