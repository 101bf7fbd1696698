package utils

import "time"

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfDayUTC returns 00:00 UTC of the UTC calendar day containing t.
func StartOfDayUTC(t time.Time) time.Time {
	return StartOfDay(t.UTC())
}

// DayWindow returns [00:00, next 00:00) in UTC for the day containing t.
func DayWindow(t time.Time) (start, end time.Time) {
	start = StartOfDayUTC(t)
	return start, start.AddDate(0, 0, 1)
}

// NextDayWindow returns the UTC window of the day after the one containing t.
func NextDayWindow(t time.Time) (start, end time.Time) {
	return DayWindow(StartOfDayUTC(t).AddDate(0, 0, 1))
}

// DaysBetween counts UTC calendar days from from to to; it is negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(StartOfDayUTC(to).Sub(StartOfDayUTC(from)).Hours() / 24)
}

// NowUTC is the default clock of the service layer.
func NowUTC() time.Time {
	return time.Now().UTC()
}
