package api

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/log"
	"github.com/sushilldhakal/tourmarket/internal/ports"
	"github.com/sushilldhakal/tourmarket/internal/utils"
	"github.com/sushilldhakal/tourmarket/internal/validator"
	"net/http"
)

// Logouter revokes bearer tokens.
type Logouter interface {
	Logout(ctx context.Context, token string) error
}

type Handler struct {
	bookings      ports.BookingService
	tours         ports.TourService
	approvals     ports.ApprovalService
	notifications ports.NotificationService
	logouter      Logouter
	validator     *validator.CustomValidator
}

func NewHandler(
	bookings ports.BookingService,
	tours ports.TourService,
	approvals ports.ApprovalService,
	notifications ports.NotificationService,
	logouter Logouter,
) *Handler {
	return &Handler{
		bookings:      bookings,
		tours:         tours,
		approvals:     approvals,
		notifications: notifications,
		logouter:      logouter,
		validator:     validator.NewCustomValidator(),
	}
}

// decode binds the request body into req and validates it.
func (h *Handler) decode(c echo.Context, req interface{}) *utils.ApiError {
	if err := c.Bind(req); err != nil {
		ae := utils.NewBadRequest("error json decoding body")
		return &ae
	}
	if err := h.validator.Validate(req); err != nil {
		ae := utils.NewBadRequest(err.Error())
		return &ae
	}
	return nil
}

func pathID(c echo.Context, name string) (uuid.UUID, *utils.ApiError) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		ae := utils.NewBadRequest(models.ErrInvalidUUID.Error())
		return uuid.Nil, &ae
	}
	return id, nil
}

func renderError(c echo.Context, err error) error {
	ae := getApiError(err)
	if ae.StatusCode == http.StatusInternalServerError {
		log.FromContext(c.Request().Context()).WithError(err).Error("Request failed")
	}
	return utils.RenderError(c, ae)
}

func getApiError(err error) utils.ApiError {
	ae := utils.ApiError{Msg: err.Error()}
	switch {
	case errors.Is(err, models.ErrInvalidUUID),
		errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrPolicyViolation):
		ae.StatusCode = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		ae.StatusCode = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		ae.StatusCode = http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		ae.StatusCode = http.StatusNotFound
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrCapacity):
		ae.StatusCode = http.StatusConflict
	default:
		ae.StatusCode = http.StatusInternalServerError
		ae.Msg = "internal server error"
	}
	return ae
}
