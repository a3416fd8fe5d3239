package snake

import "github.com/mcoot/crowdsnake/internal/model"

// cellSet is a set of positions supporting O(1) add, remove and pick-by-index.
// Removal swaps the last element into the vacated slot, so order is not stable.
type cellSet struct {
	cells []model.Position
	index map[model.Position]int
}

func newCellSet(capacity int) *cellSet {
	return &cellSet{
		cells: make([]model.Position, 0, capacity),
		index: make(map[model.Position]int, capacity),
	}
}

func (s *cellSet) Len() int {
	return len(s.cells)
}

func (s *cellSet) Contains(p model.Position) bool {
	_, ok := s.index[p]
	return ok
}

// Add inserts p and reports whether it was absent
func (s *cellSet) Add(p model.Position) bool {
	if _, ok := s.index[p]; ok {
		return false
	}
	s.index[p] = len(s.cells)
	s.cells = append(s.cells, p)
	return true
}

// Remove deletes p and reports whether it was present
func (s *cellSet) Remove(p model.Position) bool {
	i, ok := s.index[p]
	if !ok {
		return false
	}
	last := len(s.cells) - 1
	if i != last {
		moved := s.cells[last]
		s.cells[i] = moved
		s.index[moved] = i
	}
	s.cells = s.cells[:last]
	delete(s.index, p)
	return true
}

func (s *cellSet) At(i int) model.Position {
	return s.cells[i]
}

func (s *cellSet) Clear() {
	s.cells = s.cells[:0]
	clear(s.index)
}

// Positions returns a copy of the members
func (s *cellSet) Positions() []model.Position {
	out := make([]model.Position, len(s.cells))
	copy(out, s.cells)
	return out
}
