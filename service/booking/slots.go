package bookingsvc

import (
	"time"

	"github.com/sanohind/vecos-backend/model"
)

// WorkingWindow bounds the bookable part of a single day, already resolved to
// absolute times on the target date.
type WorkingWindow struct {
	Start time.Time
	End   time.Time
}

type Slot struct {
	Start       time.Time `json:"start_time"`
	End         time.Time `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	IsPast      bool      `json:"is_past"`
}

// GenerateSlots enumerates candidate slots of slotDuration inside the working
// window. The cursor advances one hour at a time regardless of slot length,
// so longer slots overlap each other in the grid. Slots whose start has
// already passed are still emitted, marked IsPast, so callers can render a
// full day. A slot is available iff no approved booking overlaps it.
func GenerateSlots(bookings []model.Booking, window WorkingWindow, slotDuration time.Duration, now time.Time) []Slot {
	var out []Slot
	if slotDuration <= 0 || !window.Start.Before(window.End) {
		return out
	}
	for cursor := window.Start; ; cursor = cursor.Add(time.Hour) {
		end := cursor.Add(slotDuration)
		if end.After(window.End) {
			break
		}
		iv := model.Interval{Start: cursor, End: end}
		out = append(out, Slot{
			Start:       cursor,
			End:         end,
			IsAvailable: IsAvailable(bookings, iv, ApprovedOnly, 0),
			IsPast:      cursor.Before(now),
		})
	}
	return out
}
