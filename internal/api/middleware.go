package api

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sushilldhakal/tourmarket/internal/log"
	"time"
)

// RequestLogger attaches a request-scoped logrus entry to the context and logs every response.
// It must run after the RequestID middleware.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			entry := log.FromContext(req.Context()).WithFields(logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     req.Method,
				"path":       req.URL.Path,
			})
			c.SetRequest(req.WithContext(log.ToContext(req.Context(), entry)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := logrus.Fields{
				"status":   c.Response().Status,
				"duration": time.Since(start),
			}
			if c.Response().Status >= 500 {
				entry.WithFields(fields).Warn("Request handled")
			} else {
				entry.WithFields(fields).Info("Request handled")
			}
			return nil
		}
	}
}
