package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/auth"
	"github.com/sushilldhakal/tourmarket/internal/utils"
	"net/http"
	"time"
)

func (h *Handler) CreateTour(c echo.Context) error {
	var req models.TourRequest
	if ae := h.decode(c, &req); ae != nil {
		return utils.RenderError(c, *ae)
	}

	tour, err := h.tours.CreateTour(c.Request().Context(), auth.PrincipalFrom(c), &req)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusCreated, tour)
}

func (h *Handler) GetTour(c echo.Context) error {
	id, ae := pathID(c, "tourId")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}

	tour, err := h.tours.GetTour(c.Request().Context(), id)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, tour)
}

func (h *Handler) PublishTour(c echo.Context) error {
	id, ae := pathID(c, "tourId")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}

	tour, err := h.tours.PublishTour(c.Request().Context(), auth.PrincipalFrom(c), id)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, tour)
}

// CheckAvailability takes ?date as YYYY-MM-DD or RFC 3339.
func (h *Handler) CheckAvailability(c echo.Context) error {
	var q models.AvailabilityQuery
	binder := &echo.DefaultBinder{}
	if err := binder.BindPathParams(c, &q); err != nil {
		return utils.RenderError(c, utils.NewBadRequest(models.ErrInvalidUUID.Error()))
	}
	if err := binder.BindQueryParams(c, &q); err != nil {
		return utils.RenderError(c, utils.NewBadRequest("date must be YYYY-MM-DD"))
	}
	if err := h.validator.Validate(q); err != nil {
		return utils.RenderError(c, utils.NewBadRequest(models.ErrInvalidUUID.Error()))
	}
	date, err := parseDate(q.Date)
	if err != nil {
		return utils.RenderError(c, utils.NewBadRequest("date must be YYYY-MM-DD"))
	}

	avail, err := h.bookings.CheckAvailability(c.Request().Context(), uuid.MustParse(q.TourID), date)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, avail)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
