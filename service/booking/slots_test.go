package bookingsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanohind/vecos-backend/model"
)

func window(startHour, endHour int) WorkingWindow {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return WorkingWindow{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestGenerateSlots(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("hourly slots fill the window", func(t *testing.T) {
		slots := GenerateSlots(nil, window(8, 17), time.Hour, now)
		require.Len(t, slots, 9)
		require.Equal(t, window(8, 17).Start, slots[0].Start)
		require.Equal(t, window(8, 17).End, slots[len(slots)-1].End)
		for _, s := range slots {
			require.True(t, s.IsAvailable)
		}
	})

	t.Run("cursor steps hourly for longer slots", func(t *testing.T) {
		// 2h slots still start every hour, so they overlap in the grid.
		slots := GenerateSlots(nil, window(8, 17), 2*time.Hour, now)
		require.Len(t, slots, 8)
		require.Equal(t, time.Hour, slots[1].Start.Sub(slots[0].Start))
		require.Equal(t, 2*time.Hour, slots[0].End.Sub(slots[0].Start))
	})

	t.Run("approved booking blocks overlapping slots only", func(t *testing.T) {
		bookings := []model.Booking{bk(1, model.BookingApproved, 10, 12)}
		slots := GenerateSlots(bookings, window(8, 17), time.Hour, now)
		for _, s := range slots {
			blocked := s.Start.Hour() == 10 || s.Start.Hour() == 11
			require.Equal(t, !blocked, s.IsAvailable, "slot %s", s.Start)
		}
	})

	t.Run("pending bookings do not block slots", func(t *testing.T) {
		bookings := []model.Booking{bk(1, model.BookingPending, 10, 12)}
		slots := GenerateSlots(bookings, window(8, 17), time.Hour, now)
		for _, s := range slots {
			require.True(t, s.IsAvailable)
		}
	})

	t.Run("past slots are emitted and flagged", func(t *testing.T) {
		midday := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
		slots := GenerateSlots(nil, window(8, 17), time.Hour, midday)
		require.Len(t, slots, 9)
		for _, s := range slots {
			require.Equal(t, s.Start.Before(midday), s.IsPast, "slot %s", s.Start)
		}
	})

	t.Run("degenerate inputs yield nothing", func(t *testing.T) {
		require.Empty(t, GenerateSlots(nil, window(17, 8), time.Hour, now))
		require.Empty(t, GenerateSlots(nil, window(8, 17), 0, now))
		// slot longer than the window
		require.Empty(t, GenerateSlots(nil, window(8, 10), 3*time.Hour, now))
	})
}
