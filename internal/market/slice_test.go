package market

import (
	"errors"
	"testing"
	"time"
)

func TestNewTimeSliceValidation(t *testing.T) {
	cases := []struct {
		name           string
		sh, sm, eh, em int
	}{
		{"hour out of range", 24, 0, 1, 0},
		{"minute out of range", 9, 60, 10, 0},
		{"negative hour", -1, 0, 10, 0},
		{"end out of range", 9, 0, 25, 0},
		{"start equals end", 9, 30, 9, 30},
	}
	for _, tc := range cases {
		_, err := NewTimeSlice(tc.sh, tc.sm, tc.eh, tc.em)
		if !errors.Is(err, ErrInvalidSlice) {
			t.Fatalf("%s: expected ErrInvalidSlice, got %v", tc.name, err)
		}
	}

	if _, err := NewTimeSlice(21, 0, 2, 30); err != nil {
		t.Fatalf("wrapping slice should be valid: %v", err)
	}
}

func TestWrapContains(t *testing.T) {
	sl, err := NewTimeSlice(20, 40, 2, 31)
	if err != nil {
		t.Fatal(err)
	}
	if !sl.Wraps() {
		t.Fatalf("expected wrapping slice")
	}

	cases := []struct {
		hm   int
		want bool
	}{
		{23*60 + 59, true},
		{0, true},
		{2*60 + 30, true},
		{2*60 + 31, false},
		{20*60 + 39, false},
		{20*60 + 40, true},
		{12 * 60, false},
	}
	for _, tc := range cases {
		if got := sl.containsMinute(tc.hm, false); got != tc.want {
			t.Fatalf("contains(%02d:%02d)=%v want %v", tc.hm/60, tc.hm%60, got, tc.want)
		}
	}

	// The closing minute only counts when asked for.
	if sl.containsMinute(2*60+31, false) {
		t.Fatalf("02:31 should be outside with open end")
	}
	if !sl.containsMinute(2*60+31, true) {
		t.Fatalf("02:31 should be inside with closed end")
	}
}

func TestContainsTime(t *testing.T) {
	sl, err := NewTimeSlice(9, 30, 11, 30)
	if err != nil {
		t.Fatal(err)
	}
	at := func(h, m, s int) time.Time {
		return time.Date(2026, 2, 2, h, m, s, 0, time.Local)
	}
	if !sl.Contains(at(9, 30, 0), false) {
		t.Fatalf("start boundary is closed")
	}
	if !sl.Contains(at(11, 29, 59), false) {
		t.Fatalf("seconds floor to the minute")
	}
	if sl.Contains(at(11, 30, 0), false) {
		t.Fatalf("end boundary is open by default")
	}
	if !sl.Contains(at(11, 30, 0), true) {
		t.Fatalf("end boundary closes with includeEnd")
	}
	if sl.Contains(at(11, 31, 0), true) {
		t.Fatalf("11:31 is out regardless of includeEnd")
	}
}

func TestSliceMinutes(t *testing.T) {
	sl, err := NewTimeSlice(9, 0, 9, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{540, 541, 542, 543, 544}
	got := sl.Minutes()
	if len(got) != len(want) {
		t.Fatalf("got %d minutes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("minute[%d]=%d want %d", i, got[i], want[i])
		}
	}

	// Restartable: a second call recomputes the same sequence.
	again := sl.Minutes()
	for i := range want {
		if again[i] != want[i] {
			t.Fatalf("second enumeration diverged at %d", i)
		}
	}
}

func TestSliceMinutesWrap(t *testing.T) {
	sl, err := NewTimeSlice(23, 58, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1438, 1439, 0, 1}
	got := sl.Minutes()
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
