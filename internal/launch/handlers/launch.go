package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"launch-server/internal/launch"
	"launch-server/internal/shared/errors"
	"launch-server/internal/shared/response"
)

type LaunchHandler struct {
	service *launch.Service
}

func NewLaunchHandler(service *launch.Service) *LaunchHandler {
	return &LaunchHandler{service: service}
}

// createLaunchRequest is the client payload for scheduling a launch.
// Customers, upcoming, and success are deliberately absent: those fields
// are server-assigned and anything the client sends for them is ignored.
type createLaunchRequest struct {
	Mission    string `json:"mission"`
	Rocket     string `json:"rocket"`
	LaunchDate string `json:"launchDate"`
	Target     string `json:"target"`
}

func (h *LaunchHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_launches")

	launches, err := h.service.ListLaunches(ctx, paginationFromQuery(r))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if launches == nil {
		launches = []launch.Launch{}
	}

	response.Success(w, http.StatusOK, launches)
}

func (h *LaunchHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_launch")

	var req createLaunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request payload", err))
		return
	}

	if req.Mission == "" || req.Rocket == "" || req.LaunchDate == "" || req.Target == "" {
		response.Error(w, r, logger, errors.Validation("Missing required launch property."))
		return
	}

	launchDate, err := launch.ParseLaunchDate(req.LaunchDate)
	if err != nil {
		response.Error(w, r, logger, errors.Validation("Invalid launch date."))
		return
	}

	scheduled, err := h.service.ScheduleNewLaunch(ctx, launch.ScheduleRequest{
		Mission:    req.Mission,
		Rocket:     req.Rocket,
		LaunchDate: launchDate,
		Target:     req.Target,
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, scheduled)
}

func (h *LaunchHandler) Abort(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "abort_launch")

	flightNumber, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		// A non-numeric identifier can never match a launch.
		response.Error(w, r, logger, errors.NotFound("Launch not found."))
		return
	}

	if err := h.service.AbortLaunch(ctx, flightNumber); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"ok": true})
}

// paginationFromQuery reads page/limit query parameters, falling back to
// the defaults (first page, no limit) on absent or malformed values.
func paginationFromQuery(r *http.Request) launch.Pagination {
	query := r.URL.Query()

	page, err := strconv.ParseInt(query.Get("page"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.ParseInt(query.Get("limit"), 10, 64)
	if err != nil || limit < 0 {
		limit = 0
	}

	return launch.NewPagination(page, limit)
}
