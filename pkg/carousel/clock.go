package carousel

import (
	"fmt"
	"time"
)

// Clock is the source of "now" for the date/time line.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the local time zone.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FormatDate renders t as M/D/YYYY without zero padding.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// FormatTime renders t on a 12-hour clock as H:MM:SS AM|PM. Midnight and
// noon show as 12.
func FormatTime(t time.Time) string {
	h := t.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d:%02d %s", h, t.Minute(), t.Second(), suffix)
}
