package travel

import (
	"fmt"
	"time"
)

const ClockLayout = "15:04:05"

// Clock is a time of day with second precision.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// DefaultArrival is substituted when an arrival string cannot be parsed.
var DefaultArrival = Clock{Hour: 12}

// ParseArrival parses a strict HH:MM:SS time of day.
func ParseArrival(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("arrival time %q must be HH:MM:SS: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// On places the clock on the calendar day of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, c.Second, 0, day.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Departure subtracts the travel duration from a full arrival date-time, so
// an arrival shortly after midnight yields a departure on the previous day.
func Departure(arrival time.Time, travel time.Duration) time.Time {
	return arrival.Add(-travel)
}

// FormatDuration renders d as H:MM:SS; hours are not capped at 24.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, total/3600, (total/60)%60, total%60)
}
