package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/crowdsnake/internal/model"
	"github.com/mcoot/crowdsnake/internal/services/snake"
	"github.com/mcoot/crowdsnake/internal/web/templates/layout"
	"github.com/mcoot/crowdsnake/internal/web/templates/pages"
)

// HomeHandler serves the board page and form votes
type HomeHandler struct {
	sim    *snake.Simulation
	logger *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(sim *snake.Simulation, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		sim:    sim,
		logger: logger,
	}
}

// Home renders the board page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pages.BoardData{
		PageData: layout.PageData{Title: "Board"},
		Board:    h.sim.RenderBoard(),
		Snapshot: h.sim.Snapshot(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Board(data).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render board page", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Vote handles POST /vote and sends the browser back to the board
func (h *HomeHandler) Vote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Could not read the form")
		return
	}

	d, err := model.ParseDirection(r.PostFormValue("direction"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Direction must be one of up, down, left, right")
		return
	}
	if err := h.sim.CastVote(d); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, model.ErrInvalidDirection):
			status = http.StatusBadRequest
		case errors.Is(err, model.ErrStopped):
			status = http.StatusServiceUnavailable
		}
		h.renderError(w, r, status, err.Error())
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// NotFound renders the error page for unknown routes
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found")
}

func (h *HomeHandler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := pages.ErrorData{
		PageData: layout.PageData{Title: http.StatusText(status)},
		Status:   status,
		Message:  message,
	}
	if err := pages.Error(data).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render error page", slog.String("error", err.Error()))
	}
}
