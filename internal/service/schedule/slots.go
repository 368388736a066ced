package schedule

import (
	"fmt"
	"time"
)

// DefaultSlotInterval is the booking grid width.
const DefaultSlotInterval = 15 * time.Minute

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// parseClock converts a wall-clock "HH:MM" string to minutes since
// midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Weekday returns the Gregorian weekday name ("Monday" .. "Sunday") for
// a "YYYY-MM-DD" calendar date.
func Weekday(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.Weekday().String(), nil
}

// GenerateSlots produces the ordered slot-start times from startTime
// (inclusive) up to but excluding endTime, stepping by interval. Slot
// starts past the window are dropped rather than rounded, and a window
// with startTime >= endTime yields no slots. Non-positive intervals
// fall back to DefaultSlotInterval.
func GenerateSlots(startTime, endTime string, interval time.Duration) ([]string, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(endTime)
	if err != nil {
		return nil, err
	}

	step := int(interval.Minutes())
	if step <= 0 {
		step = int(DefaultSlotInterval.Minutes())
	}

	slots := []string{}
	for t := start; t < end; t += step {
		slots = append(slots, formatClock(t))
	}
	return slots, nil
}
