package bookingsvc

import (
	"time"

	"github.com/sanohind/vecos-backend/model"
)

// Legal status transitions. pending is the only non-terminal state besides
// approved, and nothing ever re-enters pending.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:  {model.BookingApproved, model.BookingRejected},
	model.BookingApproved: {model.BookingCompleted},
}

func CanTransition(from, to model.BookingStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ApproveCheck decides whether b may move pending -> approved given the other
// bookings on the same vehicle. Returns an invalid-state error for
// non-pending bookings and a ConflictError when an approved booking overlaps.
func ApproveCheck(b model.Booking, sameVehicle []model.Booking) error {
	if !CanTransition(b.Status, model.BookingApproved) {
		return makeErrf(ErrInvalidState, "cannot approve booking in status %s", b.Status)
	}
	conflicts := FindConflicts(sameVehicle, b.Interval(), ApprovedOnly, b.ID)
	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}
	return nil
}

// RejectCheck decides whether b may move pending -> rejected.
func RejectCheck(b model.Booking) error {
	if !CanTransition(b.Status, model.BookingRejected) {
		return makeErrf(ErrInvalidState, "cannot reject booking in status %s", b.Status)
	}
	return nil
}

// ShouldComplete reports whether an approved booking is overdue at the given
// cutoff and may move to completed.
func ShouldComplete(b model.Booking, cutoff time.Time) bool {
	return b.Status == model.BookingApproved && !b.EndTime.After(cutoff)
}
