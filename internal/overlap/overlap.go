// Package overlap decides whether two booking intervals collide.
package overlap

import (
	"fmt"
	"time"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

// IntervalsOverlap reports whether a and b collide. An interval that strictly
// contains an endpoint of the other overlaps it, and identical intervals
// overlap. Intervals that only touch (a.End == b.Start) do not.
func IntervalsOverlap(a, b Interval) bool {
	switch {
	case strictlyWithin(b.Start, a), strictlyWithin(b.End, a):
		return true
	case strictlyWithin(a.Start, b), strictlyWithin(a.End, b):
		return true
	case a.Start.Equal(b.Start) && a.End.Equal(b.End):
		return true
	}
	return false
}

func strictlyWithin(t time.Time, in Interval) bool {
	return in.Start.Before(t) && t.Before(in.End)
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"15:04:05.000",
}

// ParseClock parses a wall-clock time (HH:MM, HH:MM:SS or HH:MM:SS.mmm) and
// returns its offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond()), nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q", s)
}

func ValidClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}

// FromSlot builds the UTC interval covering date between startTime and endTime.
func FromSlot(date, startTime, endTime string) (Interval, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: day.Add(start), End: day.Add(end)}, nil
}
