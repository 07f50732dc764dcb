package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bike-rental-booking/internal/repository"
	"github.com/iliyamo/bike-rental-booking/internal/service"
)

// PublicHandler serves the unauthenticated catalog endpoints.  These
// routes sit behind the Redis response cache.
type PublicHandler struct {
	Bikes   *repository.BikeRepo
	Reviews *repository.ReviewRepo
	Svc     *service.BookingService
}

func NewPublicHandler(bikes *repository.BikeRepo, reviews *repository.ReviewRepo, svc *service.BookingService) *PublicHandler {
	if bikes == nil || reviews == nil || svc == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Bikes: bikes, Reviews: reviews, Svc: svc}
}

// ListBikes returns a filtered, paginated page of rentable bikes.
// Query params: brand, category, max_rate_cents, available_from,
// available_to (RFC3339, both required together), page, page_size.
func (h *PublicHandler) ListBikes(c echo.Context) error {
	q := repository.BikeSearchQuery{
		Brand:    c.QueryParam("brand"),
		Category: c.QueryParam("category"),
	}
	if v := c.QueryParam("max_rate_cents"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_rate_cents"})
		}
		q.MaxRateCents = uint32(n)
	}
	from := c.QueryParam("available_from")
	to := c.QueryParam("available_to")
	if (from == "") != (to == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_from and available_to must be given together"})
	}
	if from != "" {
		f, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid available_from"})
		}
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid available_to"})
		}
		if !t.After(f) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time range"})
		}
		q.AvailableFrom = f
		q.AvailableTo = t
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bikes, total, err := h.Bikes.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bikes": bikes, "total": total})
}

// GetBike returns a single bike by ID.
func (h *PublicHandler) GetBike(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bike id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bikes.GetByID(ctx, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// BikeAvailability answers whether one bike is free for a window.
// Query params: from and to, both RFC3339.
func (h *PublicHandler) BikeAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bike id"})
	}
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from"})
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	free, err := h.Svc.IsBikeAvailable(ctx, id, from, to)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bike_id": id, "available": free})
}

// ListReviews returns a bike's reviews, newest first.
func (h *PublicHandler) ListReviews(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bike id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Bikes.GetByID(ctx, id); err != nil {
		return domainError(c, err)
	}
	reviews, err := h.Reviews.ListByBike(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}
