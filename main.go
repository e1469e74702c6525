// Package main VECOS API.
//
// @title           VECOS Vehicle Booking API
// @version         1.0
// @description     Vehicle reservation service (vehicles, bookings, public schedule).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sanohind/vecos-backend/app/echoServer"
	authctrl "github.com/sanohind/vecos-backend/app/echoServer/controller/auth"
	bookingctrl "github.com/sanohind/vecos-backend/app/echoServer/controller/booking"
	publicctrl "github.com/sanohind/vecos-backend/app/echoServer/controller/public"
	vehiclectrl "github.com/sanohind/vecos-backend/app/echoServer/controller/vehicle"
	"github.com/sanohind/vecos-backend/app/echoServer/validation"
	"github.com/sanohind/vecos-backend/config"
	bookingrepo "github.com/sanohind/vecos-backend/repository/booking"
	userrepo "github.com/sanohind/vecos-backend/repository/user"
	vehiclerepo "github.com/sanohind/vecos-backend/repository/vehicle"
	authsvc "github.com/sanohind/vecos-backend/service/auth"
	bookingsvc "github.com/sanohind/vecos-backend/service/booking"
	vehiclesvc "github.com/sanohind/vecos-backend/service/vehicle"
	"github.com/sanohind/vecos-backend/util/clock"
	"github.com/sanohind/vecos-backend/util/database"
)

func main() {

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Error("invalid timezone", "tz", cfg.Timezone, "err", err)
		os.Exit(1)
	}
	clk := clock.System()

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	vr := vehiclerepo.New(db)
	br := bookingrepo.New(db)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	vs := vehiclesvc.New(vr, clk)
	bs := bookingsvc.New(db, br, vr, clk, loc, bookingsvc.SlotConfig{
		WindowStart: cfg.SlotWindowStart,
		WindowEnd:   cfg.SlotWindowEnd,
		Duration:    cfg.SlotDuration,
	})
	reaper := bookingsvc.NewReaper(br, clk, log, bookingsvc.ReaperConfig{
		PollInterval: cfg.WorkerPollInterval,
		HoursBuffer:  cfg.WorkerHoursBuffer,
		MaxRuntime:   cfg.WorkerMaxRuntime,
	})

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	vehicleC := &vehiclectrl.Controller{Svc: vs, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, Reaper: reaper, V: v, Clk: clk, Log: log}
	publicC := &publicctrl.Controller{Bookings: bs, VehicleSvc: vs, Clk: clk, Loc: loc, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "VECOS API is running",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:      authC,
		Vehicle:   vehicleC,
		Booking:   bookingC,
		Public:    publicC,
		JWTSecret: cfg.JWTSecret,
	})

	// completion worker
	workerDone := make(chan struct{})
	if cfg.WorkerEnabled {
		go func() {
			defer close(workerDone)
			reaper.Run(ctx)
		}()
	} else {
		close(workerDone)
	}

	go func() {
		log.Info("starting server", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "err", err)
	}
	<-workerDone
	log.Info("bye")
}
