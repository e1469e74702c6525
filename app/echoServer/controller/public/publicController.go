package public

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanohind/vecos-backend/model"
	vehiclerepo "github.com/sanohind/vecos-backend/repository/vehicle"
	bookingsvc "github.com/sanohind/vecos-backend/service/booking"
	vehiclesvc "github.com/sanohind/vecos-backend/service/vehicle"
	"github.com/sanohind/vecos-backend/util/clock"
)

// Unauthenticated read-only views for the lobby display.
type Controller struct {
	Bookings   bookingsvc.Service
	VehicleSvc vehiclesvc.Service
	Clk        clock.Clock
	Loc        *time.Location
	Log        *slog.Logger
}

// GET /v1/public/schedule?date=2006-01-02&days=2
func (h *Controller) Schedule(c echo.Context) error {
	days := 2
	if n, err := strconv.Atoi(c.QueryParam("days")); err == nil {
		days = n
	}
	if days < 1 || days > 7 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "days parameter must be between 1 and 7"})
	}

	start := h.Clk.Now().In(h.Loc)
	if d := c.QueryParam("date"); d != "" {
		t, err := time.ParseInLocation("2006-01-02", d, h.Loc)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "date must be formatted as 2006-01-02"})
		}
		start = t
	}

	schedule, err := h.Bookings.Schedule(c.Request().Context(), start, days)
	if err != nil {
		h.Log.Error("public schedule", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{
			"schedule": schedule,
			"date_range": echo.Map{
				"start": schedule[0].Date,
				"end":   schedule[len(schedule)-1].Date,
			},
		},
	})
}

// GET /v1/public/vehicles
func (h *Controller) Vehicles(c echo.Context) error {
	rows, err := h.VehicleSvc.List(c.Request().Context(), vehiclerepo.ListFilter{Status: model.VehicleActive})
	if err != nil {
		h.Log.Error("public vehicles", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{"vehicles": rows, "total": len(rows)},
	})
}

// GET /v1/public/slots?vehicle_id=1&date=2006-01-02
func (h *Controller) Slots(c echo.Context) error {
	vehicleID, err := strconv.ParseInt(c.QueryParam("vehicle_id"), 10, 64)
	if err != nil || vehicleID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid vehicle_id"})
	}

	date := h.Clk.Now().In(h.Loc)
	if d := c.QueryParam("date"); d != "" {
		t, err := time.ParseInLocation("2006-01-02", d, h.Loc)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "date must be formatted as 2006-01-02"})
		}
		date = t
	}

	slots, err := h.Bookings.AvailableSlots(c.Request().Context(), vehicleID, date)
	if err != nil {
		if bookingsvc.Code(err) == bookingsvc.ErrVehicleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		}
		h.Log.Error("public slots", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{
			"vehicle_id": vehicleID,
			"date":       date.Format("2006-01-02"),
			"slots":      slots,
		},
	})
}
