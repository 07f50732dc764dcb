package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bike-rental-booking/internal/model"
	"github.com/iliyamo/bike-rental-booking/internal/repository"
	"github.com/iliyamo/bike-rental-booking/internal/service"
)

// BookingHandler serves the customer-facing booking endpoints.  State
// changes go through the BookingService; reads go straight to the
// read-side repository.
type BookingHandler struct {
	Svc      *service.BookingService
	Bookings *repository.BookingRepo
	Users    *repository.UserRepo
}

func NewBookingHandler(svc *service.BookingService, bookings *repository.BookingRepo, users *repository.UserRepo) *BookingHandler {
	if svc == nil || bookings == nil || users == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Bookings: bookings, Users: users}
}

type createBookingReq struct {
	BikeID    uint64    `json:"bike_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// Create books a bike for the requested window.  The quoted price is
// fixed at creation; the bike must be free for the whole window.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Svc.CreateBooking(ctx, uid, req.BikeID, req.StartTime, req.EndTime)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// Start begins the ride for a confirmed booking.
func (h *BookingHandler) Start(c echo.Context) error {
	return h.transition(c, h.Svc.StartRide)
}

// End finishes an active ride.  The bike returns to the fleet and the
// actual charge is computed from the real return time.
func (h *BookingHandler) End(c echo.Context) error {
	return h.transition(c, h.Svc.EndRide)
}

// Cancel aborts a pending or confirmed booking and frees the bike.
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.Svc.CancelBooking)
}

func (h *BookingHandler) transition(c echo.Context, fn func(context.Context, uint64, uint64) (*model.Booking, error)) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := fn(ctx, id, uid)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ListMine returns the caller's bookings, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	views, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}

// Get returns one booking.  Customers only see their own; admins see
// any.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return domainError(c, err)
	}
	v, err := h.Bookings.GetByIDForUser(ctx, id, actor)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}
