package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bike-rental-booking/internal/model"
	"github.com/iliyamo/bike-rental-booking/internal/repository"
)

// ReviewHandler lets customers review bikes they have ridden.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Bikes   *repository.BikeRepo
}

func NewReviewHandler(reviews *repository.ReviewRepo, bikes *repository.BikeRepo) *ReviewHandler {
	if reviews == nil || bikes == nil {
		panic("nil dependency passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: reviews, Bikes: bikes}
}

type createReviewReq struct {
	Rating  uint8  `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// Create posts a review for the bike in the path.  One review per
// customer per bike, and only after a completed ride.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bikeID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bike id"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Bikes.GetByID(ctx, bikeID); err != nil {
		return domainError(c, err)
	}
	rode, err := h.Reviews.HasCompletedBooking(ctx, uid, bikeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !rode {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only riders can review"})
	}

	rv := &model.Review{UserID: uid, BikeID: bikeID, Rating: req.Rating, Comment: req.Comment}
	if err := h.Reviews.Create(ctx, rv); err != nil {
		if err == repository.ErrDuplicateReview {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, rv)
}
