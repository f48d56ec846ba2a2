package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schedulo/schedulo/internal/app"
	"github.com/schedulo/schedulo/internal/auth"
	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/classes"
	"github.com/schedulo/schedulo/internal/courses"
	"github.com/schedulo/schedulo/internal/periods"
	"github.com/schedulo/schedulo/internal/platform/cache"
	"github.com/schedulo/schedulo/internal/platform/db"
	"github.com/schedulo/schedulo/internal/rooms"
	"github.com/schedulo/schedulo/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokenService := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL())
	throttle := auth.NewLoginThrottle(redisClient, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, tokenService, throttle)
	gate := auth.NewGate(logger, tokenService, authRepo)

	classesRepo := classes.NewRepository(dbpool)
	resolver := authz.NewResolver(classesRepo)
	coordinator := authz.NewCoordinator(resolver)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	coursesRepo := courses.NewRepository(dbpool)
	coursesService := courses.NewService(coursesRepo)
	coursesHandler := courses.NewHandler(logger, coursesService)

	classesService := classes.NewService(classesRepo, resolver)
	classesHandler := classes.NewHandler(logger, classesService)

	roomsRepo := rooms.NewRepository(dbpool)
	roomsService := rooms.NewService(roomsRepo, resolver)
	roomsHandler := rooms.NewHandler(logger, roomsService)

	periodsRepo := periods.NewRepository(dbpool)
	periodsService := periods.NewService(periodsRepo, coordinator, resolver, classesRepo, roomsRepo)
	periodsHandler := periods.NewHandler(logger, periodsService)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Gate:           gate,
		AuthHandler:    authHandler,
		UsersHandler:   usersHandler,
		CoursesHandler: coursesHandler,
		ClassesHandler: classesHandler,
		RoomsHandler:   roomsHandler,
		PeriodsHandler: periodsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
