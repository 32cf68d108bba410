package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"14:00", 840},
		{"23:59", 1439},
	}
	for _, c := range cases {
		got, err := ToMinutes(c.in)
		if err != nil {
			t.Fatalf("ToMinutes(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ToMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestToMinutesMalformed(t *testing.T) {
	for _, in := range []string{"", "9:3", "25:00", "12:60", "12.30", "noon"} {
		if _, err := ToMinutes(in); !errors.Is(err, ErrFormat) {
			t.Errorf("ToMinutes(%q) = %v, want ErrFormat", in, err)
		}
	}
}

func TestFromMinutesZeroPads(t *testing.T) {
	if got := FromMinutes(65); got != "01:05" {
		t.Errorf("FromMinutes(65) = %q, want 01:05", got)
	}
	if got := FromMinutes(0); got != "00:00" {
		t.Errorf("FromMinutes(0) = %q, want 00:00", got)
	}
}

func TestAddMinutes(t *testing.T) {
	got, err := AddMinutes("10:15", 105)
	if err != nil {
		t.Fatalf("AddMinutes failed: %v", err)
	}
	if got != "12:00" {
		t.Errorf("AddMinutes(10:15, 105) = %q, want 12:00", got)
	}

	got, err = AddMinutes("10:15", -30)
	if err != nil {
		t.Fatalf("AddMinutes failed: %v", err)
	}
	if got != "09:45" {
		t.Errorf("AddMinutes(10:15, -30) = %q, want 09:45", got)
	}
}

func TestDurationLabel(t *testing.T) {
	cases := []struct {
		start, end int
		want       string
	}{
		{600, 750, "2h 30m"},
		{600, 720, "2h"},
		{600, 645, "45m"},
	}
	for _, c := range cases {
		if got := DurationLabel(c.start, c.end); got != c.want {
			t.Errorf("DurationLabel(%d, %d) = %q, want %q", c.start, c.end, got, c.want)
		}
	}
}

func TestIsWeekend(t *testing.T) {
	sat, _ := ParseDate("2025-06-07")
	sun, _ := ParseDate("2025-06-08")
	mon, _ := ParseDate("2025-06-09")
	if !IsWeekend(sat) || !IsWeekend(sun) {
		t.Error("Saturday/Sunday should be weekend")
	}
	if IsWeekend(mon) {
		t.Error("Monday should not be weekend")
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	event := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	if got := DaysUntil(event, now); got != 5 {
		t.Errorf("DaysUntil = %d, want 5 (partial days round up)", got)
	}
	if got := DaysUntil(now, now); got != 0 {
		t.Errorf("DaysUntil(now, now) = %d, want 0", got)
	}
}
