package booking

import (
	"time"

	"github.com/sanohind/vecos-backend/model"
)

type CreateBookingReq struct {
	VehicleID   int64     `json:"vehicle_id" validate:"required,gt=0"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Destination string    `json:"destination" validate:"required,max=255"`
	Notes       *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateBookingReq struct {
	VehicleID   *int64     `json:"vehicle_id,omitempty" validate:"omitempty,gt=0"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Destination *string    `json:"destination,omitempty" validate:"omitempty,max=255"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// BookingResp decorates a stored booking with its read-time status.
type BookingResp struct {
	model.Booking
	DerivedStatus model.BookingStatus `json:"derived_status"`
}

func toResp(b model.Booking, now time.Time) BookingResp {
	return BookingResp{Booking: b, DerivedStatus: b.DerivedStatus(now)}
}

func toRespList(bs []model.Booking, now time.Time) []BookingResp {
	out := make([]BookingResp, len(bs))
	for i, b := range bs {
		out[i] = toResp(b, now)
	}
	return out
}
