package model

import (
	"testing"
	"time"
)

func iv(startHour, endHour int) Interval {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestIntervalOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", iv(9, 11), iv(12, 14), false},
		{"partial overlap", iv(9, 11), iv(10, 12), true},
		{"identical", iv(9, 11), iv(9, 11), true},
		{"a envelops b", iv(8, 18), iv(10, 11), true},
		{"b envelops a", iv(10, 11), iv(8, 18), true},
		{"touching boundary", iv(9, 11), iv(11, 12), false},
		{"touching boundary reversed", iv(11, 12), iv(9, 11), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v; want %v", tc.a, tc.b, got, tc.want)
			}
			// overlap is symmetric
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v; want %v (symmetry)", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestIntervalValid(t *testing.T) {
	if !iv(9, 11).Valid() {
		t.Fatal("expected valid interval")
	}
	if iv(11, 9).Valid() {
		t.Fatal("expected invalid interval for reversed bounds")
	}
	if iv(9, 9).Valid() {
		t.Fatal("expected invalid interval for zero length")
	}
}

func TestDerivedStatus(t *testing.T) {
	end := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	b := Booking{Status: BookingApproved, StartTime: end.Add(-2 * time.Hour), EndTime: end}

	if got := b.DerivedStatus(end.Add(-time.Minute)); got != BookingApproved {
		t.Fatalf("before end: got %s, want approved", got)
	}
	if got := b.DerivedStatus(end); got != BookingExpired {
		t.Fatalf("at end: got %s, want expired", got)
	}
	if got := b.DerivedStatus(end.Add(time.Hour)); got != BookingExpired {
		t.Fatalf("after end: got %s, want expired", got)
	}

	// only approved bookings read as expired
	for _, st := range []BookingStatus{BookingPending, BookingRejected, BookingCompleted} {
		b.Status = st
		if got := b.DerivedStatus(end.Add(time.Hour)); got != st {
			t.Fatalf("status %s: got %s, want unchanged", st, got)
		}
	}
}
