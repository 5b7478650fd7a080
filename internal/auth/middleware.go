package auth

import (
	"errors"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/log"
	"github.com/sushilldhakal/tourmarket/internal/utils"
	"net/http"
	"strings"
)

const principalKey = "principal"

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func PrincipalFrom(c echo.Context) models.Principal {
	p, _ := c.Get(principalKey).(models.Principal)
	return p
}

// Required rejects requests without a valid, unrevoked bearer token.
func (a *Authenticator) Required() echo.MiddlewareFunc {
	return a.middleware(false)
}

// Optional authenticates when a token is present and lets guests through otherwise.
// A token that is present but invalid is still rejected.
func (a *Authenticator) Optional() echo.MiddlewareFunc {
	return a.middleware(true)
}

func (a *Authenticator) middleware(optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c.Request())
			if token == "" {
				if optional {
					return next(c)
				}
				return utils.RenderError(c, utils.NewApiError(http.StatusUnauthorized, "authentication required"))
			}

			ctx := c.Request().Context()
			p, err := a.Authenticate(ctx, token)
			if err != nil {
				if !errors.Is(err, models.ErrUnauthorized) {
					log.FromContext(ctx).WithError(err).Error("Authentication failed")
					return utils.RenderError(c, utils.NewInternalServerError("internal server error"))
				}
				return utils.RenderError(c, utils.NewApiError(http.StatusUnauthorized, err.Error()))
			}

			c.Set(principalKey, p)
			entry := log.FromContext(ctx).WithField("user_id", p.UserID)
			c.SetRequest(c.Request().WithContext(log.ToContext(ctx, entry)))
			return next(c)
		}
	}
}

// RequireRole must run after Required.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !lo.Contains(roles, PrincipalFrom(c).Role) {
				return utils.RenderError(c, utils.NewApiError(http.StatusForbidden, models.ErrForbidden.Error()))
			}
			return next(c)
		}
	}
}
