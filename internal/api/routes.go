package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/auth"
	"github.com/sushilldhakal/tourmarket/internal/utils"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

const versionPrefix = "/v1"

func NewServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(
		otelecho.Middleware("tourmarket"),
		middleware.Recover(),
		middleware.RequestID(),
		RequestLogger(),
		utils.AllowedContentTypes("application/json"),
	)
	return e
}

func RegisterRoutes(e *echo.Echo, h *Handler, authn *auth.Authenticator, health echo.HandlerFunc) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group(versionPrefix)
	v1.GET("/health", health)

	required := authn.Required()
	v1.POST("/auth/logout", h.Logout, required)

	tours := v1.Group("/tours")
	tours.GET("/:tourId", h.GetTour)
	tours.GET("/:tourId/availability", h.CheckAvailability)
	tours.POST("", h.CreateTour, required, auth.RequireRole(models.RoleSeller, models.RoleAdmin))
	tours.PATCH("/:tourId/publish", h.PublishTour, required, auth.RequireRole(models.RoleSeller, models.RoleAdmin))

	bookings := v1.Group("/bookings")
	bookings.POST("", h.CreateBooking, authn.Optional())
	bookings.GET("/reference/:reference", h.GetBookingByReference)
	bookings.GET("", h.ListBookings, required)
	bookings.GET("/stats", h.BookingStats, required)
	bookings.GET("/:bookingId", h.GetBooking, required)
	bookings.PATCH("/:bookingId/status", h.UpdateBookingStatus, required)
	bookings.PATCH("/:bookingId/payment", h.UpdatePaymentStatus, required)
	bookings.POST("/:bookingId/cancel", h.CancelBooking, required)

	for path, kind := range map[string]models.EntityKind{
		"/global/categories":   models.KindCategory,
		"/global/destinations": models.KindDestination,
	} {
		registerEntityRoutes(v1.Group(path), h.Entities(kind), required)
	}

	notifications := v1.Group("/notifications", required)
	notifications.GET("", h.ListNotifications)
	notifications.PATCH("/:id/read", h.MarkNotificationRead)
}

func registerEntityRoutes(g *echo.Group, h EntityHandlers, required echo.MiddlewareFunc) {
	sellers := auth.RequireRole(models.RoleSeller, models.RoleAdmin)
	admins := auth.RequireRole(models.RoleAdmin)

	g.GET("", h.ListApproved)
	g.GET("/seller", h.ListSeller, required, sellers)
	g.POST("/submit", h.Submit, required, sellers)

	admin := g.Group("/admin", required, admins)
	admin.GET("/pending", h.ListPending)
	admin.GET("/rejected", h.ListRejected)
	admin.PATCH("/:id/approve", h.Approve)
	admin.PATCH("/:id/reject", h.Reject)

	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, required, sellers)
	g.PATCH("/:id/toggle-active", h.ToggleActive, required, sellers)
	g.POST("/:id/add-to-list", h.AddToList, required, sellers)
	g.DELETE("/:id/remove-from-list", h.RemoveFromList, required, sellers)
}
