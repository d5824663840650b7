package model

import "time"

// WindowDays is the number of calendar days covered by a history request,
// today included.
const WindowDays = 14

// Window is the half-open [Start, End) range requested from a fitness source.
type Window struct {
	Start time.Time
	End   time.Time
}

// PlanWindow anchors the window at local midnight of now and reaches back
// WindowDays-1 days.
func PlanWindow(now time.Time) Window {
	end := StartOfDay(now)
	return Window{
		Start: end.AddDate(0, 0, -(WindowDays - 1)),
		End:   end,
	}
}

// StartOfDay returns local midnight at or before t.
func StartOfDay(t time.Time) time.Time {
	local := t.In(time.Local)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Days lists the DayKeys of every calendar day starting in the window, in
// ascending order.
func (w Window) Days() []DayKey {
	var days []DayKey
	for d := StartOfDay(w.Start); d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, Normalize(d))
	}
	return days
}

// Contains reports whether t falls in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
