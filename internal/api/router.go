package api

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"github.com/mcoot/crowdsnake/internal/api/handler"
	"github.com/mcoot/crowdsnake/internal/api/middleware"
	"github.com/mcoot/crowdsnake/internal/services/history"
	"github.com/mcoot/crowdsnake/internal/services/snake"
	"github.com/mcoot/crowdsnake/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Simulation *snake.Simulation
	History    *history.Service
	Hub        *sse.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	snakeHandler := handler.NewSnakeHandler(cfg.Simulation, cfg.Hub)
	stateHandler := handler.NewStateHandler(cfg.Simulation, cfg.History)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Plain-text board and path votes
	r.HandleFunc("/snake", snakeHandler.Board).Methods(http.MethodGet)
	r.HandleFunc("/snake/events", snakeHandler.Events).Methods(http.MethodGet)
	r.HandleFunc("/snake/{direction}", snakeHandler.Vote).Methods(http.MethodPost)

	// JSON API
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", stateHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/state", stateHandler.State).Methods(http.MethodGet)
	api.HandleFunc("/history", stateHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/votes", stateHandler.CastVote).Methods(http.MethodPost)

	return r
}

// Mount combines the API router with the web router into one handler.
// The /snake routes and /api/ belong to the API; everything else goes to the web router.
func Mount(apiRouter, webRouter http.Handler) http.Handler {
	m := http.NewServeMux()
	m.Handle("/api/", apiRouter)
	m.Handle("/snake", apiRouter)
	m.Handle("/snake/", apiRouter)
	m.Handle("/", webRouter)
	return m
}
