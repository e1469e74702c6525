// model/booking.go
package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"

	// BookingExpired is a read-time view only, never written to storage.
	BookingExpired BookingStatus = "expired"
)

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// Overlaps reports whether two intervals share any instant. Intervals that
// only touch at a boundary do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func (a Interval) Valid() bool { return a.Start.Before(a.End) }

func (a Interval) Duration() time.Duration { return a.End.Sub(a.Start) }

type Booking struct {
	ID          int64         `json:"id"`
	VehicleID   int64         `json:"vehicle_id"`
	UserID      int64         `json:"user_id"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Destination string        `json:"destination"`
	Status      BookingStatus `json:"status"`
	Notes       *string       `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (b Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// DerivedStatus returns the status as displayed to callers: an approved
// booking whose end has passed reads as expired. The stored status is
// untouched; only the reaper moves approved bookings to completed.
func (b Booking) DerivedStatus(now time.Time) BookingStatus {
	if b.Status == BookingApproved && !b.EndTime.After(now) {
		return BookingExpired
	}
	return b.Status
}

type BookingStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Completed int64 `json:"completed"`
	ThisMonth int64 `json:"this_month"`
}
