package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayNames is indexed by WeekdayIndex.
var DayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

const ClosedLabel = "Closed"

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// DayHours is one weekday of a vendor schedule. Times are naive 24h HH:MM strings.
type DayHours struct {
	DayOfWeek int
	OpenTime  string
	CloseTime string
	IsClosed  bool
}

// WeekdayIndex maps t to Monday=0 .. Sunday=6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ValidClock reports whether s is a zero-padded 24h HH:MM string.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// FormatTime12h renders "HH:MM" as "H:MM AM/PM". Empty input gives empty
// output; input that does not parse is returned unchanged.
func FormatTime12h(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return s
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return s
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return s
	}

	switch {
	case hour == 0:
		return fmt.Sprintf("12:%02d AM", minute)
	case hour < 12:
		return fmt.Sprintf("%d:%02d AM", hour, minute)
	case hour == 12:
		return fmt.Sprintf("12:%02d PM", minute)
	default:
		return fmt.Sprintf("%d:%02d PM", hour-12, minute)
	}
}

// SummarizeHours maps weekday name to "Closed" or "<open> to <close>".
// Weekdays without a row are left out.
func SummarizeHours(rows []DayHours) map[string]string {
	summary := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.DayOfWeek < 0 || row.DayOfWeek >= len(DayNames) {
			continue
		}
		name := DayNames[row.DayOfWeek]
		if row.IsClosed {
			summary[name] = ClosedLabel
			continue
		}
		summary[name] = fmt.Sprintf("%s to %s", FormatTime12h(row.OpenTime), FormatTime12h(row.CloseTime))
	}
	return summary
}

// IsOpenAt reports whether now falls inside row's [open, close] range.
// Comparison is lexicographic on HH:MM so a range that crosses midnight
// never matches after midnight.
func IsOpenAt(row *DayHours, now time.Time) bool {
	if row == nil || row.IsClosed || row.OpenTime == "" || row.CloseTime == "" {
		return false
	}
	current := now.Format("15:04")
	return row.OpenTime <= current && current <= row.CloseTime
}
