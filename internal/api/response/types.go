package response

import (
	"github.com/mcoot/crowdsnake/internal/model"
)

// Health is the response for the health check
type Health struct {
	Status  string `json:"status"`
	Running bool   `json:"running"`
	Tick    int64  `json:"tick"`
}

// State is the full simulation state plus its text rendering
type State struct {
	model.Snapshot
	Board string `json:"board"`
}

// History lists recent ticks, newest first
type History struct {
	Ticks []model.TickRecord `json:"ticks"`
	Limit int                `json:"limit"`
}

// Vote acknowledges an accepted vote
type Vote struct {
	Direction model.Direction `json:"direction"`
	Pending   model.VoteTally `json:"pending"`
}
