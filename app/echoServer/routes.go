package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/sanohind/vecos-backend/app/echoServer/controller/auth"
	"github.com/sanohind/vecos-backend/app/echoServer/controller/booking"
	"github.com/sanohind/vecos-backend/app/echoServer/controller/public"
	"github.com/sanohind/vecos-backend/app/echoServer/controller/vehicle"
)

type C struct {
	Auth      *auth.Controller
	Vehicle   *vehicle.Controller
	Booking   *booking.Controller
	Public    *public.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)

	// Lobby display, no auth
	pub.GET("/public/schedule", c.Public.Schedule)
	pub.GET("/public/vehicles", c.Public.Vehicles)
	pub.GET("/public/slots", c.Public.Slots)

	// Authenticated
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
	}))
	authed.Use(ExtractIdentity())

	authed.GET("/auth/me", c.Auth.Me)

	// Vehicles
	authed.GET("/vehicles", c.Vehicle.List)
	authed.GET("/vehicles/available", c.Vehicle.Available)
	authed.GET("/vehicles/:id", c.Vehicle.Get)

	// Bookings
	authed.GET("/bookings", c.Booking.List)
	authed.POST("/bookings", c.Booking.Create)
	authed.GET("/bookings/stats", c.Booking.Stats)
	authed.GET("/bookings/:id", c.Booking.Get)
	authed.PUT("/bookings/:id", c.Booking.Update)
	authed.DELETE("/bookings/:id", c.Booking.Delete)

	// Admin
	admin := authed.Group("", RequireRole("admin"))
	admin.POST("/vehicles", c.Vehicle.Create)
	admin.PUT("/vehicles/:id", c.Vehicle.Update)
	admin.DELETE("/vehicles/:id", c.Vehicle.Delete)
	admin.POST("/bookings/:id/approve", c.Booking.Approve)
	admin.POST("/bookings/:id/reject", c.Booking.Reject)
	admin.POST("/admin/sweep", c.Booking.Sweep)
}
