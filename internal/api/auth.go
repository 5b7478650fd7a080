package api

import (
	"github.com/labstack/echo/v4"
	"github.com/sushilldhakal/tourmarket/internal/auth"
	"net/http"
)

func (h *Handler) Logout(c echo.Context) error {
	if err := h.logouter.Logout(c.Request().Context(), auth.BearerToken(c.Request())); err != nil {
		return renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
