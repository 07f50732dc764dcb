package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bike-rental-booking/internal/booking"
	"github.com/iliyamo/bike-rental-booking/internal/model"
	"github.com/iliyamo/bike-rental-booking/internal/repository"
	"github.com/iliyamo/bike-rental-booking/internal/service"
)

// AdminHandler bundles the fleet and booking management endpoints.
// All routes require the ADMIN role.
type AdminHandler struct {
	Bikes    *repository.BikeRepo
	Bookings *repository.BookingRepo
	Svc      *service.BookingService
}

func NewAdminHandler(bikes *repository.BikeRepo, bookings *repository.BookingRepo, svc *service.BookingService) *AdminHandler {
	if bikes == nil || bookings == nil || svc == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Bikes: bikes, Bookings: bookings, Svc: svc}
}

type bikeReq struct {
	Name            string  `json:"name" validate:"required,max=255"`
	Brand           string  `json:"brand" validate:"required,max=128"`
	Model           string  `json:"model" validate:"required,max=128"`
	Category        string  `json:"category" validate:"required,max=64"`
	HourlyRateCents uint32  `json:"hourly_rate_cents" validate:"required,gt=0"`
	Description     *string `json:"description"`
}

// CreateBike adds a bike to the fleet.
func (h *AdminHandler) CreateBike(c echo.Context) error {
	var req bikeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b := &model.Bike{
		Name:            req.Name,
		Brand:           req.Brand,
		Model:           req.Model,
		Category:        req.Category,
		HourlyRateCents: req.HourlyRateCents,
		Description:     req.Description,
	}
	if err := h.Bikes.Create(ctx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create bike failed"})
	}
	return c.JSON(http.StatusCreated, b)
}

// UpdateBike overwrites a bike's descriptive fields.
func (h *AdminHandler) UpdateBike(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bike id"})
	}
	var req bikeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b := &model.Bike{
		ID:              id,
		Name:            req.Name,
		Brand:           req.Brand,
		Model:           req.Model,
		Category:        req.Category,
		HourlyRateCents: req.HourlyRateCents,
		Description:     req.Description,
	}
	n, err := h.Bikes.Update(ctx, b)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update bike failed"})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	stored, err := h.Bikes.GetByID(ctx, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, stored)
}

type bikeStatusReq struct {
	Status string `json:"status" validate:"required"`
}

// SetBikeStatus parks a bike (maintenance, reserved, offline) or
// brings it back to available.  Lifecycle statuses stay under the
// booking flow's control.
func (h *AdminHandler) SetBikeStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bike id"})
	}
	var req bikeStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := model.BikeStatus(req.Status)
	switch status {
	case model.BikeAvailable, model.BikeMaintenance, model.BikeReserved, model.BikeOffline:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Bikes.SetStatus(ctx, id, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}

// DeleteBike removes a bike with no booking history.
func (h *AdminHandler) DeleteBike(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bike id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Bikes.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBikeHasBookings) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "bike has booking history"})
		}
		c.Logger().Errorf("delete bike %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBookings returns bookings across all users with optional
// filters: status, bike_id, user_id, from, to, page, page_size.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	q := repository.AdminBookingQuery{Status: c.QueryParam("status")}
	if v := c.QueryParam("bike_id"); v != "" {
		q.BikeID, _ = strconv.ParseUint(v, 10, 64)
	}
	if v := c.QueryParam("user_id"); v != "" {
		q.UserID, _ = strconv.ParseUint(v, 10, 64)
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from"})
		}
		q.From = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to"})
		}
		q.To = t
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	views, total, err := h.Bookings.ListAll(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views, "total": total})
}

type patchBookingReq struct {
	Status           *string    `json:"status"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	ActualEndTime    *time.Time `json:"actual_end_time"`
	TotalCents       *uint32    `json:"total_cents"`
	ActualTotalCents *uint32    `json:"actual_total_cents"`
}

// PatchBooking applies a partial admin correction to a booking.  The
// lifecycle state machine is bypassed on purpose; this is the manual
// override for support cases.
func (h *AdminHandler) PatchBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req patchBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	patch := booking.Patch{
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		ActualEndTime:    req.ActualEndTime,
		TotalCents:       req.TotalCents,
		ActualTotalCents: req.ActualTotalCents,
	}
	if req.Status != nil {
		st := model.BookingStatus(*req.Status)
		patch.Status = &st
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Svc.AdminUpdateBooking(ctx, id, patch)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
