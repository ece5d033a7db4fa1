package market

import (
	"fmt"
	"strings"
	"time"
)

// TradeSession is one instrument's daily trading calendar: an ordered set of
// TimeSlices plus a precomputed minute-membership table so InSession is O(1).
//
// Build it with NewSession, a preset constructor, or incrementally with
// AddSlice followed by PostFix. Queries are only trustworthy after
// normalization; all constructors normalize before returning.
type TradeSession struct {
	slices []TimeSlice

	// present[m] is true when minute m of the day is covered by a slice
	// (end-exclusive). closing[m] marks the end boundary of a slice, which
	// only counts as in-session when the caller asks for a closed end.
	present [minutesPerDay]bool
	closing [minutesPerDay]bool

	// Trading-day anchors, minutes since midnight on the nominal clock.
	dayBegin     int
	dayEnd       int
	morningBegin int
}

// NewTradeSession returns an empty session: in-session nowhere.
func NewTradeSession() *TradeSession {
	s := &TradeSession{}
	s.fixDayAnchors()
	return s
}

// NewSession normalizes the given slices into a session.
func NewSession(slices []TimeSlice) (*TradeSession, error) {
	s := NewTradeSession()
	s.slices = append(s.slices, slices...)
	if err := s.PostFix(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSessionFromMinutes rebuilds a session from a flat list of minute-start
// values (minutes since midnight), the form produced by MinutesList. Order
// and duplicates do not matter; contiguous runs become slices, including a
// run that wraps midnight.
func NewSessionFromMinutes(minutes []int) (*TradeSession, error) {
	s := NewTradeSession()
	var present [minutesPerDay]bool
	for _, m := range minutes {
		if m < 0 || m >= minutesPerDay {
			return nil, fmt.Errorf("%w: minute %d out of range", ErrInvalidSlice, m)
		}
		present[m] = true
	}
	slices, err := slicesFromPresence(&present)
	if err != nil {
		return nil, err
	}
	s.slices = slices
	s.rebuildIndex()
	s.fixDayAnchors()
	return s, nil
}

// AddSlice appends a raw slice without normalizing. Call PostFix once all
// slices are added; queries before that see the previous normalized state.
func (s *TradeSession) AddSlice(startHour, startMinute, endHour, endMinute int) error {
	sl, err := NewTimeSlice(startHour, startMinute, endHour, endMinute)
	if err != nil {
		return err
	}
	s.slices = append(s.slices, sl)
	return nil
}

// PostFix normalizes the session: validates every slice, merges overlapping
// and adjacent ones, orders them chronologically by start, and rebuilds the
// minute index. Idempotent on an already-normalized session.
func (s *TradeSession) PostFix() error {
	for _, sl := range s.slices {
		if sl.start == sl.end || sl.start < 0 || sl.start >= minutesPerDay || sl.end < 0 || sl.end >= minutesPerDay {
			return fmt.Errorf("%w: %s", ErrInvalidSlice, sl)
		}
	}
	if err := checkWrapConflict(s.slices); err != nil {
		return err
	}

	var present [minutesPerDay]bool
	for _, sl := range s.slices {
		for m := sl.start; m != sl.end; m = (m + 1) % minutesPerDay {
			present[m] = true
		}
	}
	slices, err := slicesFromPresence(&present)
	if err != nil {
		return err
	}
	s.slices = slices
	s.rebuildIndex()
	s.fixDayAnchors()
	return nil
}

// checkWrapConflict rejects a session defined with two different overnight
// slices; the overnight portion of a calendar must be stated exactly once.
// Exact duplicates are tolerated and collapse during normalization.
func checkWrapConflict(slices []TimeSlice) error {
	var wrap TimeSlice
	seen := false
	for _, sl := range slices {
		if !sl.Wraps() {
			continue
		}
		if seen && sl != wrap {
			return fmt.Errorf("%w: %s vs %s", ErrConflictingWrap, wrap, sl)
		}
		wrap, seen = sl, true
	}
	return nil
}

// slicesFromPresence segments a minute-presence table into the minimal slice
// set. Runs are discovered in ascending minute order, so the result is
// already chronological by start; a run spanning midnight yields the single
// wrapping slice.
func slicesFromPresence(present *[minutesPerDay]bool) ([]TimeSlice, error) {
	covered := 0
	for _, p := range present {
		if p {
			covered++
		}
	}
	if covered == 0 {
		return nil, nil
	}
	if covered == minutesPerDay {
		// No boundary left to anchor a slice on; a whole-day calendar cannot
		// be expressed with start != end.
		return nil, fmt.Errorf("%w: slices cover the entire day", ErrInvalidSlice)
	}

	var out []TimeSlice
	for m := 0; m < minutesPerDay; m++ {
		prev := (m + minutesPerDay - 1) % minutesPerDay
		if !present[m] || present[prev] {
			continue
		}
		end := m
		for present[end] {
			end = (end + 1) % minutesPerDay
		}
		out = append(out, TimeSlice{start: m, end: end})
	}
	return out, nil
}

func (s *TradeSession) rebuildIndex() {
	s.present = [minutesPerDay]bool{}
	s.closing = [minutesPerDay]bool{}
	for _, sl := range s.slices {
		for m := sl.start; m != sl.end; m = (m + 1) % minutesPerDay {
			s.present[m] = true
		}
		s.closing[sl.end] = true
	}
}

// fixDayAnchors derives the trading-day begin/end and the morning open from
// the normalized slices, ordered by trading day (night slice first). Empty
// sessions keep the stock-market defaults 09:00 and 15:00.
func (s *TradeSession) fixDayAnchors() {
	s.dayBegin = 9 * 60
	s.dayEnd = 15 * 60
	s.morningBegin = s.dayBegin
	if len(s.slices) == 0 {
		return
	}

	first, last := s.slices[0], s.slices[0]
	for _, sl := range s.slices[1:] {
		if sl.shiftedStart() < first.shiftedStart() {
			first = sl
		}
		if sl.shiftedEnd() > last.shiftedEnd() {
			last = sl
		}
	}
	s.dayBegin = first.start
	s.dayEnd = last.end

	// The morning auction opens at 09:00/09:15/09:30; allow 06:00-11:00 for
	// calendars padded with early connectivity windows.
	s.morningBegin = s.dayBegin
	for _, sl := range s.slices {
		if sl.start >= 6*60 && sl.start < 11*60 {
			s.morningBegin = sl.start
			break
		}
	}
}

// Slices returns the normalized slices, chronological by start.
func (s *TradeSession) Slices() []TimeSlice {
	return append([]TimeSlice(nil), s.slices...)
}

// InSession reports whether the wall-clock time of t is inside the session.
// Seconds are floored to the minute. includeEnd treats each slice's end
// boundary as closed.
func (s *TradeSession) InSession(t time.Time, includeEnd bool) bool {
	return s.InSessionMinute(t.Hour()*60+t.Minute(), includeEnd)
}

// InSessionMinute is InSession for a minute-of-day value (hour*60+minute).
func (s *TradeSession) InSessionMinute(hm int, includeEnd bool) bool {
	if hm < 0 || hm >= minutesPerDay {
		return false
	}
	if s.present[hm] {
		return true
	}
	return includeEnd && s.closing[hm]
}

// AnyInSession reports whether any instant between start and end overlaps the
// session. inclusive treats touching a slice boundary as overlap. The range
// is interpreted on the trading-day clock, so a range from 20:40 into the
// night session works as expected.
func (s *TradeSession) AnyInSession(start, end time.Time, inclusive bool) bool {
	qs := (start.Hour()*60 + start.Minute() + shiftMinutes) % minutesPerDay
	qe := (end.Hour()*60 + end.Minute() + shiftMinutes) % minutesPerDay
	if qe < qs {
		qe += minutesPerDay
	}
	for _, sl := range s.slices {
		b, e := sl.shiftedStart(), sl.shiftedEnd()
		if inclusive {
			if qs <= e && qe >= b {
				return true
			}
		} else if qs < e && qe > b {
			return true
		}
	}
	return false
}

// MinutesList returns every covered minute-start, concatenated in canonical
// slice order. Feeding the result to NewSessionFromMinutes reproduces an
// equivalent session.
func (s *TradeSession) MinutesList() []int {
	var out []int
	for _, sl := range s.slices {
		out = append(out, sl.Minutes()...)
	}
	return out
}

// HasNight reports whether the calendar includes a night session (a slice
// opening at 21:00).
func (s *TradeSession) HasNight() bool {
	for _, sl := range s.slices {
		if sl.Night() {
			return true
		}
	}
	return false
}

// DayBegin is the trading-day open (21:00 for instruments with a night
// session), as (hour, minute).
func (s *TradeSession) DayBegin() (hour, minute int) { return s.dayBegin / 60, s.dayBegin % 60 }

// DayEnd is the trading-day close, as (hour, minute).
func (s *TradeSession) DayEnd() (hour, minute int) { return s.dayEnd / 60, s.dayEnd % 60 }

// MorningBegin is the morning open (09:00/09:15/09:30), as (hour, minute).
func (s *TradeSession) MorningBegin() (hour, minute int) {
	return s.morningBegin / 60, s.morningBegin % 60
}

// String renders the session for diagnostics; the format is not a contract.
func (s *TradeSession) String() string {
	if len(s.slices) == 0 {
		return "empty session"
	}
	parts := make([]string, len(s.slices))
	for i, sl := range s.slices {
		parts[i] = sl.String()
	}
	bh, bm := s.DayBegin()
	eh, em := s.DayEnd()
	return fmt.Sprintf("day %02d:%02d~%02d:%02d [%s]", bh, bm, eh, em, strings.Join(parts, ", "))
}
