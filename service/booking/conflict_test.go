package bookingsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanohind/vecos-backend/model"
)

func bk(id int64, status model.BookingStatus, startHour, endHour int) model.Booking {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return model.Booking{
		ID:        id,
		VehicleID: 1,
		UserID:    7,
		Status:    status,
		StartTime: day.Add(time.Duration(startHour) * time.Hour),
		EndTime:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func hours(startHour, endHour int) model.Interval {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return model.Interval{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestFindConflicts(t *testing.T) {
	existing := []model.Booking{
		bk(1, model.BookingApproved, 9, 11),
		bk(2, model.BookingPending, 13, 15),
		bk(3, model.BookingRejected, 10, 12),
		bk(4, model.BookingCompleted, 8, 18),
	}

	t.Run("overlap with approved", func(t *testing.T) {
		got := FindConflicts(existing, hours(10, 12), BlockingStatuses, 0)
		require.Len(t, got, 1)
		require.Equal(t, int64(1), got[0].ID)
	})

	t.Run("rejected and completed never block", func(t *testing.T) {
		got := FindConflicts(existing, hours(11, 13), BlockingStatuses, 0)
		require.Empty(t, got)
	})

	t.Run("pending blocks create but not approval", func(t *testing.T) {
		require.Len(t, FindConflicts(existing, hours(14, 16), BlockingStatuses, 0), 1)
		require.Empty(t, FindConflicts(existing, hours(14, 16), ApprovedOnly, 0))
	})

	t.Run("back to back is no conflict", func(t *testing.T) {
		require.Empty(t, FindConflicts(existing, hours(11, 13), BlockingStatuses, 0))
		require.Empty(t, FindConflicts(existing, hours(7, 9), BlockingStatuses, 0))
	})

	t.Run("exclude self on edit", func(t *testing.T) {
		// Booking 1 rescheduled to a window still overlapping its own old one.
		require.Empty(t, FindConflicts(existing, hours(9, 12), BlockingStatuses, 1))
		require.Len(t, FindConflicts(existing, hours(9, 12), BlockingStatuses, 0), 1)
	})

	t.Run("multiple conflicts reported", func(t *testing.T) {
		got := FindConflicts(existing, hours(9, 16), BlockingStatuses, 0)
		require.Len(t, got, 2)
		require.Equal(t, int64(1), got[0].ID)
		require.Equal(t, int64(2), got[1].ID)
	})
}

func TestIsAvailable(t *testing.T) {
	existing := []model.Booking{bk(1, model.BookingApproved, 9, 11)}

	require.False(t, IsAvailable(existing, hours(10, 12), ApprovedOnly, 0))
	require.True(t, IsAvailable(existing, hours(11, 12), ApprovedOnly, 0))
	require.True(t, IsAvailable(nil, hours(0, 24), BlockingStatuses, 0))
}
