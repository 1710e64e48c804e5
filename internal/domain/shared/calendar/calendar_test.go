package calendar

import (
	"testing"
	"time"
)

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, 3, 14, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(late, early); got != 4 {
		t.Fatalf("DaysBetween = %d, want 4", got)
	}
}

func TestDaysBetweenSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	if got := DaysBetween(morning, evening); got != 0 {
		t.Fatalf("DaysBetween = %d, want 0", got)
	}
}

func TestDaysBetweenNegativeWhenPast(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	departed := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if got := DaysBetween(now, departed); got != -4 {
		t.Fatalf("DaysBetween = %d, want -4", got)
	}
}

func TestDaysBetweenNormalizesZones(t *testing.T) {
	hanoi := time.FixedZone("ICT", 7*3600)
	from := time.Date(2026, 3, 10, 1, 0, 0, 0, hanoi) // 2026-03-09 18:00 UTC
	to := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(from, to); got != 2 {
		t.Fatalf("DaysBetween = %d, want 2", got)
	}
}
