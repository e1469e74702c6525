package bookingsvc

import (
	"time"

	"github.com/sanohind/vecos-backend/model"
)

type ScheduleEntry struct {
	Booking       model.Booking       `json:"booking"`
	DerivedStatus model.BookingStatus `json:"derived_status"`
	TimeDisplay   string              `json:"time_display"`
	DurationHours float64             `json:"duration_hours"`
}

type ScheduleDay struct {
	Date       string          `json:"date"`
	DayName    string          `json:"day_name"`
	IsToday    bool            `json:"is_today"`
	IsTomorrow bool            `json:"is_tomorrow"`
	Bookings   []ScheduleEntry `json:"bookings"`
}

var dayNames = map[time.Weekday]string{
	time.Monday:    "Senin",
	time.Tuesday:   "Selasa",
	time.Wednesday: "Rabu",
	time.Thursday:  "Kamis",
	time.Friday:    "Jumat",
	time.Saturday:  "Sabtu",
	time.Sunday:    "Minggu",
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func touchesDay(b model.Booking, day time.Time, loc *time.Location) bool {
	if sameDay(b.StartTime, day, loc) || sameDay(b.EndTime, day, loc) {
		return true
	}
	// Multi-day bookings cover the days strictly between start and end.
	return b.StartTime.Before(day) && b.EndTime.After(day)
}

// BuildSchedule groups bookings into per-day buckets starting at start for
// the given number of days. A booking spanning midnight appears under every
// day it touches. Pure function of its inputs; bookings are expected to be
// pre-sorted by start_time.
func BuildSchedule(bookings []model.Booking, start time.Time, days int, now time.Time, loc *time.Location) []ScheduleDay {
	today := now.In(loc)
	out := make([]ScheduleDay, 0, days)

	for i := 0; i < days; i++ {
		day := start.In(loc).AddDate(0, 0, i)
		entries := []ScheduleEntry{}
		for _, b := range bookings {
			if !touchesDay(b, day, loc) {
				continue
			}
			entries = append(entries, ScheduleEntry{
				Booking:       b,
				DerivedStatus: b.DerivedStatus(now),
				TimeDisplay:   b.StartTime.In(loc).Format("15:04") + " - " + b.EndTime.In(loc).Format("15:04"),
				DurationHours: b.Interval().Duration().Hours(),
			})
		}
		out = append(out, ScheduleDay{
			Date:       day.Format("2006-01-02"),
			DayName:    dayNames[day.Weekday()],
			IsToday:    sameDay(day, today, loc),
			IsTomorrow: sameDay(day, today.AddDate(0, 0, 1), loc),
			Bookings:   entries,
		})
	}
	return out
}
