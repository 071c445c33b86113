package ledger

import "time"

// DateFormat is the canonical on-disk representation of a civil date.
const DateFormat = "2006-01-02"

// Date returns the civil date at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Midnight truncates t to its civil date at midnight UTC.
func Midnight(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// WeekStart returns the Monday on or before d.
func WeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return Midnight(d).AddDate(0, 0, -offset)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
