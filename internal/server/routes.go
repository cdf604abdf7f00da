package server

import (
	"log/slog"
	"net/http"

	"launch-server/internal/launch"
	launchHandlers "launch-server/internal/launch/handlers"
	"launch-server/internal/planet"
	planetHandlers "launch-server/internal/planet/handlers"
	serverHandlers "launch-server/internal/server/handlers"
	"launch-server/internal/shared/database"
)

type Routes struct {
	db            *database.DB
	launchService *launch.Service
	planetService *planet.Service
	logger        *slog.Logger
}

func NewRoutes(db *database.DB, launchService *launch.Service, planetService *planet.Service, logger *slog.Logger) *Routes {
	return &Routes{
		db:            db,
		launchService: launchService,
		planetService: planetService,
		logger:        logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	planetHandler := planetHandlers.NewPlanetHandler(r.planetService)
	launchHandler := launchHandlers.NewLaunchHandler(r.launchService)

	mux.Handle("GET /api/server/health", healthHandler)
	mux.HandleFunc("GET /api/planets", planetHandler.List)
	mux.HandleFunc("GET /api/launches", launchHandler.List)
	mux.HandleFunc("POST /api/launches", launchHandler.Create)
	mux.HandleFunc("DELETE /api/launches/{id}", launchHandler.Abort)

	logger.Info("Routes configured successfully",
		"endpoints", []string{
			"/api/server/health",
			"/api/planets",
			"/api/launches",
			"/api/launches/{id}",
		},
	)

	return mux
}
