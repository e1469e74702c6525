package bookingsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanohind/vecos-backend/model"
)

func TestBuildSchedule(t *testing.T) {
	loc := time.UTC
	// Monday 2025-03-10
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, loc)

	bookings := []model.Booking{
		bk(1, model.BookingApproved, 9, 11),  // today
		bk(2, model.BookingPending, 13, 15),  // today
		bk(3, model.BookingApproved, 33, 35), // tomorrow 09:00-11:00
	}

	days := BuildSchedule(bookings, now, 2, now, loc)
	require.Len(t, days, 2)

	today := days[0]
	require.Equal(t, "2025-03-10", today.Date)
	require.Equal(t, "Senin", today.DayName)
	require.True(t, today.IsToday)
	require.False(t, today.IsTomorrow)
	require.Len(t, today.Bookings, 2)
	require.Equal(t, "09:00 - 11:00", today.Bookings[0].TimeDisplay)
	require.Equal(t, 2.0, today.Bookings[0].DurationHours)

	tomorrow := days[1]
	require.Equal(t, "2025-03-11", tomorrow.Date)
	require.Equal(t, "Selasa", tomorrow.DayName)
	require.False(t, tomorrow.IsToday)
	require.True(t, tomorrow.IsTomorrow)
	require.Len(t, tomorrow.Bookings, 1)
	require.Equal(t, int64(3), tomorrow.Bookings[0].Booking.ID)
}

func TestBuildScheduleMultiDayBooking(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, loc)

	// Spans Monday 20:00 through Wednesday 10:00.
	long := bk(1, model.BookingApproved, 20, 58)

	days := BuildSchedule([]model.Booking{long}, now, 3, now, loc)
	require.Len(t, days, 3)
	for i, d := range days {
		require.Len(t, d.Bookings, 1, "day %d (%s)", i, d.Date)
	}
}

func TestBuildScheduleDerivedStatus(t *testing.T) {
	loc := time.UTC
	// Evening: the morning approved booking already ended.
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, loc)

	days := BuildSchedule([]model.Booking{bk(1, model.BookingApproved, 9, 11)}, now, 1, now, loc)
	require.Len(t, days, 1)
	require.Len(t, days[0].Bookings, 1)

	e := days[0].Bookings[0]
	require.Equal(t, model.BookingApproved, e.Booking.Status)
	require.Equal(t, model.BookingExpired, e.DerivedStatus)
}

func TestBuildScheduleEmptyDay(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, loc)

	days := BuildSchedule(nil, now, 1, now, loc)
	require.Len(t, days, 1)
	require.NotNil(t, days[0].Bookings)
	require.Empty(t, days[0].Bookings)
}
