package weekday

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestIntervalDays_AllPairs(t *testing.T) {
	for _, start := range All {
		for _, end := range All {
			iv := Interval{Start: start, End: end}
			days, err := iv.Days()
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", iv, err)
			}

			wantLen := (end.Index()-start.Index()+7)%7 + 1
			if len(days) != wantLen {
				t.Errorf("%s: expected %d days, got %d (%v)", iv, wantLen, len(days), days)
			}
			if days[0] != start {
				t.Errorf("%s: expected first day %s, got %s", iv, start, days[0])
			}
			if days[len(days)-1] != end {
				t.Errorf("%s: expected last day %s, got %s", iv, end, days[len(days)-1])
			}

			seen := make(map[Code]bool)
			for _, d := range days {
				if seen[d] {
					t.Errorf("%s: duplicate day %s in %v", iv, d, days)
				}
				seen[d] = true
			}
		}
	}
}

func TestIntervalDays_WrapAround(t *testing.T) {
	days, err := Interval{Start: Friday, End: Monday}.Days()
	if err != nil {
		t.Fatalf("Days failed: %v", err)
	}
	want := []Code{Friday, Saturday, Sunday, Monday}
	if !reflect.DeepEqual(days, want) {
		t.Errorf("expected %v, got %v", want, days)
	}
}

func TestIntervalDays_UnknownEndpoint(t *testing.T) {
	_, err := Interval{Start: "Xx", End: Friday}.Days()
	if !errors.Is(err, ErrInvalidDayCode) {
		t.Fatalf("expected ErrInvalidDayCode, got %v", err)
	}
	_, err = Interval{Start: Monday, End: "fr"}.Days()
	if !errors.Is(err, ErrInvalidDayCode) {
		t.Fatalf("expected ErrInvalidDayCode for lowercase code, got %v", err)
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		raw     string
		want    Interval
		wantErr bool
	}{
		{raw: "Tu-Fr", want: Interval{Start: Tuesday, End: Friday}},
		{raw: " Fr - Mo ", want: Interval{Start: Friday, End: Monday}},
		{raw: "Tu", wantErr: true},
		{raw: "Tu-We-Th", wantErr: true},
		{raw: "Tu-Xx", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseInterval(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseInterval(%q): expected error, got %v", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseInterval(%q): unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseInterval(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestResolve_FullWeekIgnoresDate(t *testing.T) {
	want := []Code{Monday, Tuesday, Wednesday, Thursday, Friday}
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		days, err := Resolve(FullWeek(), start.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !reflect.DeepEqual(days, want) {
			t.Errorf("day offset %d: expected %v, got %v", i, want, days)
		}
	}
}

func TestResolve_FullWeekReturnsCopy(t *testing.T) {
	days, _ := Resolve(FullWeek(), time.Now())
	days[0] = Sunday
	if BusinessDays[0] != Monday {
		t.Fatalf("Resolve leaked the shared BusinessDays slice")
	}
}

func TestResolve_Today(t *testing.T) {
	// 2025-12-31 is a Wednesday, 2026-01-03 a Saturday.
	wed := time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC)
	days, err := Resolve(Today(), wed)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(days, []Code{Wednesday}) {
		t.Errorf("expected [We], got %v", days)
	}

	sat := time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)
	days, err = Resolve(Today(), sat)
	if !errors.Is(err, ErrWeekend) {
		t.Fatalf("expected ErrWeekend, got %v", err)
	}
	if days != nil {
		t.Errorf("expected no days on weekend, got %v", days)
	}
}

func TestResolve_SingleDay(t *testing.T) {
	days, err := Resolve(SingleDay(Sunday), time.Now())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(days, []Code{Sunday}) {
		t.Errorf("expected [Su], got %v", days)
	}

	if _, err := Resolve(SingleDay("Xx"), time.Now()); !errors.Is(err, ErrInvalidDayCode) {
		t.Errorf("expected ErrInvalidDayCode, got %v", err)
	}
}

func TestFromTime(t *testing.T) {
	// 2025-12-29 is a Monday.
	monday := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)
	for i, want := range All {
		if got := FromTime(monday.AddDate(0, 0, i)); got != want {
			t.Errorf("offset %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name     string
		today    bool
		day      string
		interval string
		want     Mode
		wantErr  bool
	}{
		{name: "default week", want: FullWeek()},
		{name: "today", today: true, want: Today()},
		{name: "day", day: "We", want: SingleDay(Wednesday)},
		{name: "interval", interval: "Fr-Mo", want: Range(Interval{Start: Friday, End: Monday})},
		{name: "bad day", day: "Wednesday", wantErr: true},
		{name: "conflict", today: true, day: "Mo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.today, tt.day, tt.interval)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
