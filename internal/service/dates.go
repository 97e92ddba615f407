package service

import "time"

// WeekBounds returns the Monday and Sunday of the week containing d.
func WeekBounds(d time.Time) (time.Time, time.Time) {
	weekday := int(d.Weekday())
	// time.Sunday is 0; the week starts on Monday.
	if weekday == 0 {
		weekday = 7
	}
	start := truncateDay(d).AddDate(0, 0, -(weekday - 1))
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds returns the first and last day of the month containing d.
func MonthBounds(d time.Time) (time.Time, time.Time) {
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	return start, start.AddDate(0, 1, -1)
}

func truncateDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
