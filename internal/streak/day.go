package streak

import (
	"time"
)

// dayFormat is the calendar-day key layout. Streak comparisons are string
// equality on these keys, never timestamp arithmetic.
const dayFormat = "2006-01-02"

// DayKey returns the calendar-day key for t in the given location.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayFormat)
}

// PreviousDayKey returns the calendar-day key of the day before t.
// AddDate is used rather than subtracting 24 hours so that daylight-saving
// transitions still map to the previous calendar day.
func PreviousDayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).AddDate(0, 0, -1).Format(dayFormat)
}

// ValidDayKey reports whether s is a well-formed calendar-day key.
func ValidDayKey(s string) bool {
	_, err := time.Parse(dayFormat, s)
	return err == nil
}
