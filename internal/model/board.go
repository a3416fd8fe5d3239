package model

// Board glyphs used in the flat text rendering
const (
	CellEmpty = '-'
	CellSnake = 'O'
	CellFood  = '&'
)

// Position identifies a cell on the board
type Position struct {
	X int `json:"x"` // column, 0-indexed from the left
	Y int `json:"y"` // row, 0-indexed from the top
}

// Snapshot is a point-in-time copy of the simulation, safe to hand to callers
type Snapshot struct {
	Size    int        `json:"size"`
	Tick    int64      `json:"tick"`
	Resets  int64      `json:"resets"`
	Heading Direction  `json:"heading"`
	Snake   []Position `json:"snake"` // head first
	Food    []Position `json:"food"`
	Votes   VoteTally  `json:"votes"` // pending, not yet consumed by a tick
}

// Length returns the snake length
func (s *Snapshot) Length() int {
	return len(s.Snake)
}

// Head returns the snake's head cell
func (s *Snapshot) Head() Position {
	if len(s.Snake) == 0 {
		return Position{}
	}
	return s.Snake[0]
}
