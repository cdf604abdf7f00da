package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"launch-server/internal/launch"
	"launch-server/internal/middleware"
	"launch-server/internal/planet"
	"launch-server/internal/server"
	"launch-server/internal/shared/config"
	"launch-server/internal/shared/database"
	"launch-server/internal/shared/logger"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init()

	log := slog.With("component", "main")
	cfg := config.GlobalConfig

	db, err := database.Connect()
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from database", "error", err)
		}
	}()

	launchRepo := launch.NewRepository(db, slog.Default())
	planetRepo := planet.NewRepository(db, slog.Default())
	planetService := planet.NewService(planetRepo, slog.Default())
	launchService := launch.NewService(launchRepo, planetService, slog.Default())

	if err := bootstrap(launchRepo, planetRepo, planetService, launchService, cfg); err != nil {
		log.Error("Failed to bootstrap data", "error", err)
		os.Exit(1)
	}

	routes := server.NewRoutes(db, launchService, planetService, slog.Default())
	mux := routes.Setup()

	corsMiddleware := middleware.NewCORS()
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited gracefully")
}

// bootstrap prepares storage before the server accepts traffic: indexes,
// the planets reference dataset, the flight number counter, and the seed
// launch. Every step is an upsert and safe to repeat across reboots.
func bootstrap(launchRepo *launch.Repository, planetRepo *planet.Repository, planetService *planet.Service, launchService *launch.Service, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := launchRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := planetRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	if _, err := planetService.LoadFromCSV(ctx, cfg.Data.KeplerCSVPath); err != nil {
		return err
	}

	if err := launchRepo.SeedCounter(ctx); err != nil {
		return err
	}

	return launchService.EnsureSeedLaunch(ctx)
}
