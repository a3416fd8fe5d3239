package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mcoot/crowdsnake/internal/api/request"
	"github.com/mcoot/crowdsnake/internal/api/response"
	"github.com/mcoot/crowdsnake/internal/model"
	"github.com/mcoot/crowdsnake/internal/services/history"
	"github.com/mcoot/crowdsnake/internal/services/snake"
)

// StateHandler serves the JSON view of the simulation
type StateHandler struct {
	sim     *snake.Simulation
	history *history.Service
}

// NewStateHandler creates a new state handler
func NewStateHandler(sim *snake.Simulation, hist *history.Service) *StateHandler {
	return &StateHandler{
		sim:     sim,
		history: hist,
	}
}

// Health handles GET /api/v1/health
func (h *StateHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{
		Status:  "ok",
		Running: h.sim.Running(),
		Tick:    h.sim.Snapshot().Tick,
	})
}

// State handles GET /api/v1/state
func (h *StateHandler) State(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.State{
		Snapshot: h.sim.Snapshot(),
		Board:    h.sim.RenderBoard(),
	})
}

// History handles GET /api/v1/history
func (h *StateHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	ticks, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	if ticks == nil {
		ticks = []model.TickRecord{}
	}

	response.JSON(w, http.StatusOK, response.History{
		Ticks: ticks,
		Limit: h.history.Limit(),
	})
}

// CastVote handles POST /api/v1/votes
func (h *StateHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req request.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Direction == "" {
		WriteError(w, NewInvalidRequestError("direction is required"))
		return
	}

	d, err := model.ParseDirection(req.Direction)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := h.sim.CastVote(d); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.Vote{
		Direction: d,
		Pending:   h.sim.Snapshot().Votes,
	})
}
