package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction is a heading the snake can travel in
type Direction int

// Declaration order is also the order votes are walked in during weighted selection
const (
	Up Direction = iota
	Down
	Left
	Right
)

// NumDirections is the number of valid directions
const NumDirections = 4

// AllDirections lists every direction in declaration order
var AllDirections = [NumDirections]Direction{Up, Down, Left, Right}

var directionNames = [NumDirections]string{"up", "down", "left", "right"}

// Opposite returns the direction pointing the other way
func Opposite(d Direction) Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// ParseDirection parses a direction name such as "up" or "Left"
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// IsValid reports whether d is one of the four directions
func (d Direction) IsValid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText encodes the direction as its lowercase name
func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// VoteTally holds vote counts per direction, indexed by Direction
type VoteTally [NumDirections]int

// Get returns the count for a direction
func (t VoteTally) Get(d Direction) int {
	return t[d]
}

// Total returns the sum of all counts
func (t VoteTally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Clear zeroes every count
func (t *VoteTally) Clear() {
	*t = VoteTally{}
}

// Map returns the tally keyed by direction name
func (t VoteTally) Map() map[string]int {
	m := make(map[string]int, NumDirections)
	for _, d := range AllDirections {
		m[d.String()] = t[d]
	}
	return m
}

// MarshalJSON encodes the tally as an object keyed by direction name
func (t VoteTally) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Map())
}

// UnmarshalJSON decodes an object keyed by direction name
func (t *VoteTally) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	t.Clear()
	for name, n := range m {
		d, err := ParseDirection(name)
		if err != nil {
			return err
		}
		t[d] = n
	}
	return nil
}
