package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/crowdsnake/internal/model"
	"github.com/mcoot/crowdsnake/internal/services/snake"
	"github.com/mcoot/crowdsnake/internal/web/sse"
)

// SnakeHandler serves the plain-text board and direction votes
type SnakeHandler struct {
	sim *snake.Simulation
	hub *sse.Hub
}

// NewSnakeHandler creates a new snake handler
func NewSnakeHandler(sim *snake.Simulation, hub *sse.Hub) *SnakeHandler {
	return &SnakeHandler{
		sim: sim,
		hub: hub,
	}
}

// Board handles GET /snake
func (h *SnakeHandler) Board(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.sim.RenderBoard()))
}

// Vote handles POST /snake/{direction}
func (h *SnakeHandler) Vote(w http.ResponseWriter, r *http.Request) {
	d, err := model.ParseDirection(mux.Vars(r)["direction"])
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := h.sim.CastVote(d); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Events handles GET /snake/events
func (h *SnakeHandler) Events(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub, h.sim.RenderBoard())
}
