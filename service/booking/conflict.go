package bookingsvc

import "github.com/sanohind/vecos-backend/model"

// Status sets the conflict checker runs against. Creating or editing a
// booking must clear both pending and approved claims; approval only has to
// keep the approved set conflict-free, since pending bookings may legitimately
// overlap each other.
var (
	BlockingStatuses = []model.BookingStatus{model.BookingPending, model.BookingApproved}
	ApprovedOnly     = []model.BookingStatus{model.BookingApproved}
)

func statusIn(s model.BookingStatus, set []model.BookingStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// FindConflicts returns every booking whose status is in the given set,
// whose id differs from excludeID (0 = exclude nothing), and whose interval
// overlaps the candidate. Read-only; order of the input is preserved.
func FindConflicts(bookings []model.Booking, candidate model.Interval, statuses []model.BookingStatus, excludeID int64) []model.Booking {
	var out []model.Booking
	for _, b := range bookings {
		if b.ID == excludeID && excludeID != 0 {
			continue
		}
		if !statusIn(b.Status, statuses) {
			continue
		}
		if b.Interval().Overlaps(candidate) {
			out = append(out, b)
		}
	}
	return out
}

// IsAvailable reports whether the candidate interval is free of conflicts.
func IsAvailable(bookings []model.Booking, candidate model.Interval, statuses []model.BookingStatus, excludeID int64) bool {
	return len(FindConflicts(bookings, candidate, statuses, excludeID)) == 0
}
