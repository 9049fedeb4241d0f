package summary

import (
	"time"

	"github.com/narrate/narrate/internal/model"
)

// longDateLayout is the human-readable form used in prompts and periods,
// e.g. "Monday, January 2, 2006".
const longDateLayout = "Monday, January 2, 2006"

// ComputeWindow returns the trailing 7-day window ending at now. All window
// math is done in UTC for determinism: start is now minus 7 days truncated
// to midnight, end is the last instant of the current day.
func ComputeWindow(now time.Time) model.WeekWindow {
	now = now.UTC()
	s := now.AddDate(0, 0, -7)
	start := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, time.UTC)
	return model.WeekWindow{Start: start, End: end}
}

// FormatLongDate renders t in long human-readable form.
func FormatLongDate(t time.Time) string {
	return t.UTC().Format(longDateLayout)
}
