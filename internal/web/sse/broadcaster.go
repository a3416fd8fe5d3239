package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/crowdsnake/internal/model"
)

// Event names pushed to clients
const (
	EventBoard = "board"
	EventTick  = "tick"
)

// Broadcaster pushes each completed tick to the hub
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// OnTick sends the rendered board followed by the tick record as JSON.
// It has the shape of a simulation tick observer.
func (b *Broadcaster) OnTick(rec model.TickRecord, board string) {
	if b.hub.ClientCount() == 0 {
		return
	}

	b.hub.BroadcastEvent(EventBoard, board)

	data, err := json.Marshal(rec)
	if err != nil {
		b.logger.Error("sse failed to encode tick",
			slog.Int64("tick", rec.Tick),
			slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(EventTick, string(data))
}
