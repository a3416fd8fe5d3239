package model

import "time"

// TickRecord describes the outcome of one simulation tick
type TickRecord struct {
	Tick        int64     `json:"tick"`
	At          time.Time `json:"at"`
	Votes       VoteTally `json:"votes"`   // tally consumed by this tick, after anti-reversal
	Heading     Direction `json:"heading"` // heading the snake moved in
	Head        Position  `json:"head"`
	Length      int       `json:"length"`
	Ate         bool      `json:"ate"`
	Reset       bool      `json:"reset"` // self-collision sent the snake back to start
	FoodSpawned *Position `json:"food_spawned,omitempty"`
}
