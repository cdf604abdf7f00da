package handlers

import (
	"log/slog"
	"net/http"

	"launch-server/internal/planet"
	"launch-server/internal/shared/response"
)

type PlanetHandler struct {
	service *planet.Service
}

func NewPlanetHandler(service *planet.Service) *PlanetHandler {
	return &PlanetHandler{service: service}
}

func (h *PlanetHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_planets")

	planets, err := h.service.GetAll(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if planets == nil {
		planets = []planet.Planet{}
	}

	response.Success(w, http.StatusOK, planets)
}
