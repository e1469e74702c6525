package booking

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sanohind/vecos-backend/model"
	bookingrepo "github.com/sanohind/vecos-backend/repository/booking"
	bookingsvc "github.com/sanohind/vecos-backend/service/booking"
	"github.com/sanohind/vecos-backend/util/clock"
)

type Controller struct {
	Svc    bookingsvc.Service
	Reaper *bookingsvc.Reaper
	V      *validator.Validate
	Clk    clock.Clock
	Log    *slog.Logger
}

func uid(c echo.Context) int64 {
	id, _ := c.Get("user_id").(int64)
	return id
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	if ce := bookingsvc.AsConflict(err); ce != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"message": "vehicle is not available in the requested time range",
			"data":    echo.Map{"conflicts": toRespList(ce.Conflicts, h.Clk.Now())},
		})
	}
	switch bookingsvc.Code(err) {
	case bookingsvc.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
	case bookingsvc.ErrVehicleNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
	case bookingsvc.ErrNotOwner:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case bookingsvc.ErrInvalidState, bookingsvc.ErrVehicleInactive, bookingsvc.ErrValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// POST /v1/bookings
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b, err := h.Svc.Create(c.Request().Context(), uid(c), bookingsvc.CreateInput{
		VehicleID:   req.VehicleID,
		Interval:    model.Interval{Start: req.StartTime, End: req.EndTime},
		Destination: req.Destination,
		Notes:       req.Notes,
	})
	if err != nil {
		return h.fail(c, "booking create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "booking created",
		"data":    toResp(*b, h.Clk.Now()),
	})
}

// GET /v1/bookings
func (h *Controller) List(c echo.Context) error {
	f := bookingrepo.ListFilter{Limit: 10}
	if !isAdmin(c) {
		f.UserID = uid(c)
	}
	if s := c.QueryParam("status"); s != "" {
		f.Status = model.BookingStatus(s)
	}
	if v := c.QueryParam("vehicle_id"); v != "" {
		f.VehicleID, _ = strconv.ParseInt(v, 10, 64)
	}
	if d := c.QueryParam("start_date"); d != "" {
		f.From, _ = time.Parse("2006-01-02", d)
	}
	if d := c.QueryParam("end_date"); d != "" {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			f.To = t.AddDate(0, 0, 1)
		}
	}
	if n, err := strconv.Atoi(c.QueryParam("per_page")); err == nil && n > 0 && n <= 100 {
		f.Limit = n
	}
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 1 {
		f.Offset = (n - 1) * f.Limit
	}

	rows, err := h.Svc.List(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("booking list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toRespList(rows, h.Clk.Now())})
}

// GET /v1/bookings/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Get(c.Request().Context(), id, uid(c), isAdmin(c))
	if err != nil {
		return h.fail(c, "booking get", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toResp(*b, h.Clk.Now())})
}

// PUT /v1/bookings/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b, err := h.Svc.Update(c.Request().Context(), id, uid(c), isAdmin(c), bookingsvc.UpdateInput{
		VehicleID:   req.VehicleID,
		Start:       req.StartTime,
		End:         req.EndTime,
		Destination: req.Destination,
		Notes:       req.Notes,
	})
	if err != nil {
		return h.fail(c, "booking update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "booking updated",
		"data":    toResp(*b, h.Clk.Now()),
	})
}

// DELETE /v1/bookings/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id, uid(c), isAdmin(c)); err != nil {
		return h.fail(c, "booking delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted"})
}

// POST /v1/bookings/:id/approve  (admin)
func (h *Controller) Approve(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Approve(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "booking approve", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "booking approved",
		"data":    toResp(*b, h.Clk.Now()),
	})
}

// POST /v1/bookings/:id/reject  (admin)
func (h *Controller) Reject(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Reject(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "booking reject", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "booking rejected",
		"data":    toResp(*b, h.Clk.Now()),
	})
}

// GET /v1/bookings/stats
func (h *Controller) Stats(c echo.Context) error {
	userID := uid(c)
	if isAdmin(c) {
		userID = 0
	}
	stats, err := h.Svc.Stats(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("booking stats", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": stats})
}

// POST /v1/admin/sweep  (admin)
//
// Operator-triggered catch-up run of the completion sweep. dry_run=true lists
// what would be completed without writing.
func (h *Controller) Sweep(c echo.Context) error {
	cutoff := h.Reaper.Cutoff()

	if c.QueryParam("dry_run") == "true" {
		rows, err := h.Reaper.Preview(c.Request().Context(), cutoff)
		if err != nil {
			h.Log.Error("sweep preview", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message": "dry run, no changes made",
			"data":    echo.Map{"would_complete": toRespList(rows, h.Clk.Now()), "cutoff": cutoff},
		})
	}

	res, err := h.Reaper.Sweep(c.Request().Context(), cutoff)
	if err != nil {
		h.Log.Error("sweep", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "sweep completed",
		"data":    echo.Map{"updated_count": res.UpdatedCount, "failed_ids": res.FailedIDs, "cutoff": cutoff},
	})
}
