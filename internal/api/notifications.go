package api

import (
	"github.com/labstack/echo/v4"
	"github.com/sushilldhakal/tourmarket/internal/auth"
	"github.com/sushilldhakal/tourmarket/internal/utils"
	"net/http"
)

func (h *Handler) ListNotifications(c echo.Context) error {
	notifications, err := h.notifications.List(c.Request().Context(), auth.PrincipalFrom(c))
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationRead(c echo.Context) error {
	id, ae := pathID(c, "id")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}

	if err := h.notifications.MarkRead(c.Request().Context(), auth.PrincipalFrom(c), id); err != nil {
		return renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
