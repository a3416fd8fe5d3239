package snake

import "github.com/mcoot/crowdsnake/internal/model"

// newBoardTemplate builds the empty board: size rows of '-' each ending in '\n'
func newBoardTemplate(size int) []byte {
	stride := size + 1
	buf := make([]byte, stride*size)
	for i := range buf {
		buf[i] = model.CellEmpty
	}
	for row := 0; row < size; row++ {
		buf[row*stride+size] = '\n'
	}
	return buf
}

// render overlays food then snake onto a copy of tmpl, so snake cells win on overlap
func (g *GameState) render(tmpl []byte) string {
	buf := make([]byte, len(tmpl))
	copy(buf, tmpl)
	stride := g.size + 1
	for _, p := range g.food.cells {
		buf[p.Y*stride+p.X] = model.CellFood
	}
	for _, p := range g.body {
		buf[p.Y*stride+p.X] = model.CellSnake
	}
	return string(buf)
}
