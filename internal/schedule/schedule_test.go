package schedule

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestParseMinutes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{in: "00:00", want: 0, ok: true},
		{in: "09:00", want: 540, ok: true},
		{in: "23:59", want: 1439, ok: true},
		{in: "24:00", ok: false},
		{in: "12:60", ok: false},
		{in: "9:00", ok: false},
		{in: "09-00", ok: false},
		{in: "ab:cd", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		got, err := ParseMinutes(tt.in)
		if tt.ok {
			if err != nil {
				t.Errorf("ParseMinutes(%q) error: %v", tt.in, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseMinutes(%q) = %d, want %d", tt.in, got, tt.want)
			}
		} else if !errors.Is(err, ErrTimeFormat) {
			t.Errorf("ParseMinutes(%q) = %d, %v; want ErrTimeFormat", tt.in, got, err)
		}
	}
}

func TestParseMinutesRoundTrip(t *testing.T) {
	t.Parallel()
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			s := fmt.Sprintf("%02d:%02d", h, m)
			got, err := ParseMinutes(s)
			if err != nil {
				t.Fatalf("ParseMinutes(%q) error: %v", s, err)
			}
			if got != h*60+m {
				t.Fatalf("ParseMinutes(%q) = %d, want %d", s, got, h*60+m)
			}
			if back := FormatMinutes(got); back != s {
				t.Fatalf("FormatMinutes(%d) = %q, want %q", got, back, s)
			}
		}
	}
}

func TestNewInterval(t *testing.T) {
	t.Parallel()
	iv, err := NewInterval("09:00", "10:30")
	if err != nil {
		t.Fatalf("NewInterval error: %v", err)
	}
	if iv.Start != 540 || iv.End != 630 {
		t.Fatalf("NewInterval = %+v", iv)
	}

	if _, err := NewInterval("10:00", "10:00"); !errors.Is(err, ErrInterval) {
		t.Fatalf("equal bounds: got %v, want ErrInterval", err)
	}
	if _, err := NewInterval("10:00", "09:00"); !errors.Is(err, ErrInterval) {
		t.Fatalf("inverted bounds: got %v, want ErrInterval", err)
	}
	if _, err := NewInterval("25:00", "09:00"); !errors.Is(err, ErrTimeFormat) {
		t.Fatalf("bad start: got %v, want ErrTimeFormat", err)
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name                   string
		aStart, aEnd           int
		bStart, bEnd           int
		want                   bool
	}{
		{name: "identical", aStart: 540, aEnd: 600, bStart: 540, bEnd: 600, want: true},
		{name: "partial", aStart: 540, aEnd: 600, bStart: 570, bEnd: 630, want: true},
		{name: "contained", aStart: 540, aEnd: 600, bStart: 550, bEnd: 560, want: true},
		{name: "touching end-to-start", aStart: 540, aEnd: 600, bStart: 600, bEnd: 660, want: false},
		{name: "touching start-to-end", aStart: 600, aEnd: 660, bStart: 540, bEnd: 600, want: false},
		{name: "disjoint", aStart: 540, aEnd: 600, bStart: 700, bEnd: 760, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			// The relation is symmetric.
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Fatalf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasConflict(t *testing.T) {
	t.Parallel()
	existing := []Slot{
		{ID: 1, Day: Monday, Start: 540, End: 600}, // Mon 09:00-10:00
	}

	tests := []struct {
		name      string
		day       Day
		start     int
		end       int
		existing  []Slot
		excludeID int64
		want      bool
	}{
		{name: "empty set", day: Monday, start: 540, end: 600, existing: nil, want: false},
		{name: "overlapping", day: Monday, start: 570, end: 630, existing: existing, want: true},
		{name: "touching", day: Monday, start: 600, end: 660, existing: existing, want: false},
		{name: "different day", day: Tuesday, start: 540, end: 600, existing: existing, want: false},
		{name: "identical", day: Monday, start: 540, end: 600, existing: existing, want: true},
		{name: "identical but excluded", day: Monday, start: 540, end: 600, existing: existing, excludeID: 1, want: false},
		{name: "excluded but another conflicts", day: Monday, start: 540, end: 600,
			existing: append([]Slot{{ID: 2, Day: Monday, Start: 550, End: 620}}, existing...), excludeID: 1, want: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := HasConflict(tt.day, tt.start, tt.end, tt.existing, tt.excludeID); got != tt.want {
				t.Fatalf("HasConflict = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	t.Parallel()
	for _, d := range Days {
		got, err := ParseDay(string(d))
		if err != nil || got != d {
			t.Fatalf("ParseDay(%q) = %v, %v", d, got, err)
		}
	}
	for _, bad := range []string{"monday", "MONDAY", "Mon", "", "Someday"} {
		if _, err := ParseDay(bad); !errors.Is(err, ErrDay) {
			t.Fatalf("ParseDay(%q): got %v, want ErrDay", bad, err)
		}
	}
}

func TestDayOfWeek(t *testing.T) {
	t.Parallel()
	want := map[time.Weekday]Day{
		time.Sunday:    Sunday,
		time.Monday:    Monday,
		time.Tuesday:   Tuesday,
		time.Wednesday: Wednesday,
		time.Thursday:  Thursday,
		time.Friday:    Friday,
		time.Saturday:  Saturday,
	}
	for wd, d := range want {
		if got := DayOfWeek(wd); got != d {
			t.Fatalf("DayOfWeek(%v) = %v, want %v", wd, got, d)
		}
	}
}
