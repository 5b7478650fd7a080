package api

import (
	"github.com/labstack/echo/v4"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/auth"
	"github.com/sushilldhakal/tourmarket/internal/utils"
	"net/http"
	"strconv"
)

func (h *Handler) CreateBooking(c echo.Context) error {
	var req models.BookingRequest
	if ae := h.decode(c, &req); ae != nil {
		return utils.RenderError(c, *ae)
	}
	if !req.Contact.IsZero() {
		if err := h.validator.Validate(req.Contact); err != nil {
			return utils.RenderError(c, utils.NewBadRequest(err.Error()))
		}
	}

	booking, err := h.bookings.CreateBooking(c.Request().Context(), auth.PrincipalFrom(c), &req)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusCreated, booking)
}

func (h *Handler) ListBookings(c echo.Context) error {
	req := models.GetBookingsRequest{Cursor: c.QueryParam("cursor")}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return utils.RenderError(c, utils.NewBadRequest("limit must be a positive integer"))
		}
		req.Limit = limit
	}

	res, err := h.bookings.AllBookings(c.Request().Context(), auth.PrincipalFrom(c), req)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, res)
}

func (h *Handler) BookingStats(c echo.Context) error {
	stats, err := h.bookings.Stats(c.Request().Context(), auth.PrincipalFrom(c))
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, stats)
}

func (h *Handler) GetBookingByReference(c echo.Context) error {
	booking, err := h.bookings.GetBookingByReference(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, booking)
}

func (h *Handler) GetBooking(c echo.Context) error {
	id, ae := pathID(c, "bookingId")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}

	booking, err := h.bookings.GetBooking(c.Request().Context(), auth.PrincipalFrom(c), id)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, booking)
}

func (h *Handler) UpdateBookingStatus(c echo.Context) error {
	id, ae := pathID(c, "bookingId")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}
	var req models.StatusUpdateRequest
	if ae := h.decode(c, &req); ae != nil {
		return utils.RenderError(c, *ae)
	}

	booking, err := h.bookings.UpdateBookingStatus(c.Request().Context(), auth.PrincipalFrom(c), id, req.Status, req.Notes)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, booking)
}

func (h *Handler) UpdatePaymentStatus(c echo.Context) error {
	id, ae := pathID(c, "bookingId")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}
	var req models.PaymentUpdateRequest
	if ae := h.decode(c, &req); ae != nil {
		return utils.RenderError(c, *ae)
	}

	booking, err := h.bookings.UpdatePaymentStatus(c.Request().Context(), auth.PrincipalFrom(c), id, &req)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, booking)
}

func (h *Handler) CancelBooking(c echo.Context) error {
	id, ae := pathID(c, "bookingId")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}
	// the reason is optional, and so is the body
	var req models.CancelRequest
	if ae := h.decode(c, &req); ae != nil {
		return utils.RenderError(c, *ae)
	}

	booking, err := h.bookings.CancelBooking(c.Request().Context(), auth.PrincipalFrom(c), id, req.Reason)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, booking)
}
