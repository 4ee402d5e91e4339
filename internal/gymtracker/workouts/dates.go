package workouts

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO yyyy-MM-dd layout used for log keys.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w [%s]: %w", ErrInvalidDate, date, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekStart returns the midnight of the first day of the week containing t,
// weeks starting on weekStartDay (0 = Sunday).
func WeekStart(t time.Time, weekStartDay int) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	diff := (int(day.Weekday()) - weekStartDay + 7) % 7
	return day.AddDate(0, 0, -diff)
}

// WeekDates returns the 7 ISO dates of the week starting on weekStart.
func WeekDates(weekStart time.Time) [7]string {
	var dates [7]string
	for i := range dates {
		dates[i] = FormatDate(weekStart.AddDate(0, 0, i))
	}
	return dates
}

// weekdayName returns the English weekday name of an ISO date, or an empty
// string when the date cannot be parsed.
func weekdayName(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}
