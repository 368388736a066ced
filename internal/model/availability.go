package model

// Weekday names as stored in availability entries. Matching against a
// calendar date uses time.Weekday.String(), so the Gregorian English
// names are canonical.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// IsWeekday reports whether day is one of the seven canonical names.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// AvailabilityWindow is a doctor's recurring per-weekday working range.
// Times are wall-clock "HH:MM" strings; the window is end-exclusive.
type AvailabilityWindow struct {
	Day       string `json:"day" db:"day"`
	StartTime string `json:"startTime" db:"start_time"`
	EndTime   string `json:"endTime" db:"end_time"`
}

// ReplaceAvailabilityRequest carries a doctor's full weekly list. The
// write boundary enforces one entry per weekday, "HH:MM" format and
// start < end; entries missing either time are silently dropped.
type ReplaceAvailabilityRequest struct {
	Availability []AvailabilityWindow `json:"availability" binding:"required"`
}
