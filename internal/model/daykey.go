package model

import "time"

const (
	dayKeyLayout  = "2006-01-02"
	displayLayout = "Jan 2, 2006"
)

// DayKey identifies one local calendar day as "YYYY-MM-DD".
// Lexical order of keys is chronological order. The empty key is invalid.
type DayKey string

// Normalize returns the DayKey of the local calendar day containing t.
func Normalize(t time.Time) DayKey {
	return DayKey(t.In(time.Local).Format(dayKeyLayout))
}

// ParseDayKey validates s and returns it as a DayKey.
func ParseDayKey(s string) (DayKey, bool) {
	t, err := time.ParseInLocation(dayKeyLayout, s, time.Local)
	if err != nil {
		return "", false
	}
	return Normalize(t), true
}

// Valid reports whether k names a real calendar day.
func (k DayKey) Valid() bool {
	if k == "" {
		return false
	}
	_, err := time.ParseInLocation(dayKeyLayout, string(k), time.Local)
	return err == nil
}

// Midnight returns local midnight at the start of the day.
func (k DayKey) Midnight() time.Time {
	t, err := time.ParseInLocation(dayKeyLayout, string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Display formats the day the way the step table shows it, e.g. "Mar 15, 2024".
func (k DayKey) Display() string {
	t := k.Midnight()
	if t.IsZero() {
		return ""
	}
	return t.Format(displayLayout)
}

func (k DayKey) String() string {
	return string(k)
}
