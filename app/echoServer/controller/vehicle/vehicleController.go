package vehicle

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sanohind/vecos-backend/model"
	vehiclerepo "github.com/sanohind/vecos-backend/repository/vehicle"
	vehiclesvc "github.com/sanohind/vecos-backend/service/vehicle"
)

type Controller struct {
	Svc vehiclesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/vehicles
func (h *Controller) List(c echo.Context) error {
	f := vehiclerepo.ListFilter{Limit: 10}
	if s := c.QueryParam("status"); s == "active" || s == "inactive" {
		f.Status = model.VehicleStatus(s)
	}
	f.Search = c.QueryParam("search")
	if n, err := strconv.Atoi(c.QueryParam("per_page")); err == nil && n > 0 && n <= 100 {
		f.Limit = n
	}
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 1 {
		f.Offset = (n - 1) * f.Limit
	}

	rows, err := h.Svc.List(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("vehicle list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/vehicles/available?start_time=...&end_time=...
func (h *Controller) Available(c echo.Context) error {
	start, err1 := time.Parse(time.RFC3339, c.QueryParam("start_time"))
	end, err2 := time.Parse(time.RFC3339, c.QueryParam("end_time"))
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "start_time and end_time must be RFC3339 timestamps"})
	}

	rows, err := h.Svc.Available(c.Request().Context(), model.Interval{Start: start, End: end})
	if err != nil {
		if errors.Is(err, vehiclesvc.ErrInvalidWindow) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		h.Log.Error("vehicle available", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{
			"vehicles":   rows,
			"time_range": echo.Map{"start_time": start, "end_time": end},
			"count":      len(rows),
		},
	})
}

// GET /v1/vehicles/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	v, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, vehiclesvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		}
		h.Log.Error("vehicle get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": v})
}

// POST /v1/vehicles  (admin)
func (h *Controller) Create(c echo.Context) error {
	var req CreateVehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	v, err := h.Svc.Create(c.Request().Context(), vehiclesvc.CreateInput{
		VehicleID: req.VehicleID,
		PlatNo:    req.PlatNo,
		Brand:     req.Brand,
		Model:     req.Model,
		Status:    model.VehicleStatus(req.Status),
	})
	if err != nil {
		return h.mapErr(c, "vehicle create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "vehicle created", "data": v})
}

// PUT /v1/vehicles/:id  (admin)
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateVehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	in := vehiclesvc.UpdateInput{
		VehicleID: req.VehicleID,
		PlatNo:    req.PlatNo,
		Brand:     req.Brand,
		Model:     req.Model,
	}
	if req.Status != nil {
		st := model.VehicleStatus(*req.Status)
		in.Status = &st
	}

	v, err := h.Svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return h.mapErr(c, "vehicle update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "vehicle updated", "data": v})
}

// DELETE /v1/vehicles/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, vehiclesvc.ErrHasBookings) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot delete vehicle, it has active bookings"})
		}
		return h.mapErr(c, "vehicle delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "vehicle deleted"})
}

func (h *Controller) mapErr(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, vehiclesvc.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
	case errors.Is(err, vehiclesvc.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	case errors.Is(err, vehiclesvc.ErrBadInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
