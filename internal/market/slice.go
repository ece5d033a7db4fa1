package market

import (
	"errors"
	"fmt"
	"time"
)

const (
	minutesPerDay = 24 * 60

	// CN futures convention: the night session that opens at 21:00 belongs to
	// the NEXT trading day, so trading-day ordering shifts the clock forward
	// four hours (20:00 becomes the new day's 00:00).
	shiftMinutes = 4 * 60
)

var (
	ErrInvalidSlice    = errors.New("invalid time slice")
	ErrConflictingWrap = errors.New("conflicting midnight-wrapping slices")
)

// TimeSlice is one contiguous interval of the trading day at minute
// granularity. start and end are minutes since midnight in [0,1440).
// start < end means a same-day interval [start, end); start > end means the
// slice wraps past midnight: [start, 24:00) followed by [00:00, end).
// start == end is rejected as ambiguous.
type TimeSlice struct {
	start int
	end   int
}

// SliceDef is a raw slice definition as delivered by a loader, before any
// validation.
type SliceDef struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

func NewTimeSlice(startHour, startMinute, endHour, endMinute int) (TimeSlice, error) {
	start, err := minuteOfDay(startHour, startMinute)
	if err != nil {
		return TimeSlice{}, err
	}
	end, err := minuteOfDay(endHour, endMinute)
	if err != nil {
		return TimeSlice{}, err
	}
	if start == end {
		return TimeSlice{}, fmt.Errorf("%w: start equals end (%02d:%02d)", ErrInvalidSlice, startHour, startMinute)
	}
	return TimeSlice{start: start, end: end}, nil
}

func minuteOfDay(hour, minute int) (int, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: time %02d:%02d out of range", ErrInvalidSlice, hour, minute)
	}
	return hour*60 + minute, nil
}

func (s TimeSlice) Start() (hour, minute int) { return s.start / 60, s.start % 60 }
func (s TimeSlice) End() (hour, minute int)   { return s.end / 60, s.end % 60 }

// Wraps reports whether the slice crosses midnight.
func (s TimeSlice) Wraps() bool { return s.start > s.end }

// Night reports whether this is a night-session slice (opens at 21:00).
func (s TimeSlice) Night() bool { return s.start == 21*60 }

// Contains reports whether the wall-clock time of t falls inside the slice.
// Seconds are floored to the minute. The start boundary is closed; the end
// boundary is closed only when includeEnd is set.
func (s TimeSlice) Contains(t time.Time, includeEnd bool) bool {
	return s.containsMinute(t.Hour()*60+t.Minute(), includeEnd)
}

func (s TimeSlice) containsMinute(hm int, includeEnd bool) bool {
	if hm == s.end {
		return includeEnd
	}
	if s.Wraps() {
		return hm >= s.start || hm < s.end
	}
	return hm >= s.start && hm < s.end
}

// Minutes returns every minute-start covered by the slice, in chronological
// order from start, wrapping through midnight when needed. The end minute is
// excluded. A fresh slice is built on every call.
func (s TimeSlice) Minutes() []int {
	out := make([]int, 0, s.span())
	for m := s.start; m != s.end; m = (m + 1) % minutesPerDay {
		out = append(out, m)
	}
	return out
}

func (s TimeSlice) span() int {
	if s.Wraps() {
		return minutesPerDay - s.start + s.end
	}
	return s.end - s.start
}

// shiftedStart orders slices by trading day: 21:00 night slices sort before
// the next morning's slices.
func (s TimeSlice) shiftedStart() int { return (s.start + shiftMinutes) % minutesPerDay }

func (s TimeSlice) shiftedEnd() int { return s.shiftedStart() + s.span() }

func (s TimeSlice) String() string {
	sh, sm := s.Start()
	eh, em := s.End()
	if s.Wraps() {
		return fmt.Sprintf("%02d:%02d~next %02d:%02d", sh, sm, eh, em)
	}
	return fmt.Sprintf("%02d:%02d~%02d:%02d", sh, sm, eh, em)
}
