// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/isazadesabuhi/studxus-backend/internal/handler"
	"github.com/isazadesabuhi/studxus-backend/internal/middleware"
	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

// Handlers bundles every handler the router registers.
type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Course  *handler.CourseHandler
	Session *handler.SessionHandler
	Booking *handler.BookingHandler
	Message *handler.MessageHandler
	Browse  *handler.BrowseHandler
	WS      *handler.WSHandler
}

// Register mounts all routes. Public browsing needs no token; everything
// mutating or personal sits behind JWT auth with a known role. The extra
// middleware slice (rate limiting) applies to every /v1 route; cacheMW, when
// non-nil, applies only to the public browse reads.
func Register(e *echo.Echo, h Handlers, jwtSecret string, extra []echo.MiddlewareFunc, cacheMW echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1", extra...)

	// Auth endpoints issue and exchange tokens; no session required.
	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)
	auth.POST("/logout", h.Auth.Logout)
	v1.POST("/logout", h.Auth.Logout)

	// Public browsing: course catalog, detail, sessions and search. Cached
	// behind Redis when available.
	pub := v1.Group("")
	if cacheMW != nil {
		pub.Use(cacheMW)
	}
	pub.GET("/courses", h.Browse.ListCourses)
	pub.GET("/courses/:id", h.Browse.CourseDetail)
	pub.GET("/courses/:id/sessions", h.Session.ListSessions)
	pub.GET("/search/courses", h.Browse.SearchCourses)

	// WebSocket endpoint authenticates via query token inside the handler;
	// the upgrade request cannot carry the usual middleware chain result.
	v1.GET("/ws", h.WS.Connect)

	// Everything below requires a valid access token with a known role.
	priv := v1.Group("")
	priv.Use(middleware.JWTAuth(jwtSecret))
	priv.Use(middleware.RequireRole(model.RoleStudent, model.RoleInstructor))

	priv.GET("/me", h.Auth.Me)

	priv.GET("/profiles", h.Profile.GetProfile)
	priv.POST("/profiles", h.Profile.SaveProfile)
	priv.PUT("/profiles", h.Profile.SaveProfile)

	priv.POST("/courses", h.Course.CreateCourse)
	priv.GET("/my/courses", h.Course.MyCourses)
	priv.PATCH("/courses/:id", h.Course.UpdateCourse)
	priv.DELETE("/courses/:id", h.Course.DeleteCourse)
	priv.POST("/courses/:id/sessions", h.Session.CreateSession)

	priv.POST("/bookings", h.Booking.CreateBooking)
	priv.GET("/bookings", h.Booking.ListBookings)
	priv.POST("/bookings/:id/confirm", h.Booking.ConfirmBooking)

	priv.POST("/messages", h.Message.SendMessage)
	priv.GET("/messages", h.Message.ListConversations)
	priv.GET("/messages/:id", h.Message.ListMessages)
	priv.PATCH("/messages/:id", h.Message.MarkRead)
}
