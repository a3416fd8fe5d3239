package snake

import (
	"github.com/mcoot/crowdsnake/internal/dependencies/random"
	"github.com/mcoot/crowdsnake/internal/model"
)

// startingCells lists the snake's cells on construction and after a reset, tail first
var startingCells = [...]model.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}

const (
	initialHeading = model.Right

	// MinBoardSize is the smallest board that fits the starting snake
	MinBoardSize = len(startingCells)

	// Food spawns when a draw in [0, foodSpawnOdds) equals foodSpawnSentinel
	foodSpawnOdds     = 5
	foodSpawnSentinel = 2
)

// GameState owns the mutable simulation data. It is not safe for concurrent use;
// Simulation provides the locking.
type GameState struct {
	size    int
	body    []model.Position // head at index 0
	heading model.Direction
	votes   model.VoteTally
	food    *cellSet
	free    *cellSet // board minus (body ∪ food)
	random  random.Random

	ticks  int64
	resets int64
	last   model.TickRecord
}

// NewGameState creates a size×size board with the snake at its starting cells
func NewGameState(size int, rnd random.Random) (*GameState, error) {
	if size < MinBoardSize {
		return nil, model.ErrInvalidBoardSize
	}
	cells := size * size
	g := &GameState{
		size:   size,
		body:   make([]model.Position, 0, cells),
		food:   newCellSet(cells),
		free:   newCellSet(cells),
		random: rnd,
	}
	g.reset()
	return g, nil
}

// Size returns the board dimension
func (g *GameState) Size() int {
	return g.size
}

// Heading returns the current direction of travel
func (g *GameState) Heading() model.Direction {
	return g.heading
}

// AddVote increments the tally for d
func (g *GameState) AddVote(d model.Direction) {
	g.votes[d]++
}

// Votes returns the tally accumulated since the last tick
func (g *GameState) Votes() model.VoteTally {
	return g.votes
}

// LastOutcome describes the most recent Update. At is left zero.
func (g *GameState) LastOutcome() model.TickRecord {
	return g.last
}

// Update advances the simulation by one tick
func (g *GameState) Update() {
	g.ticks++

	g.votes[model.Opposite(g.heading)] = 0
	outcome := model.TickRecord{Tick: g.ticks, Votes: g.votes}

	g.heading = g.chooseHeading()
	g.votes.Clear()

	head := g.advance(g.body[0], g.heading)
	if g.occupied(head) {
		g.reset()
		g.resets++
		outcome.Reset = true
		g.finish(&outcome)
		return
	}

	if g.food.Remove(head) {
		g.body = append(g.body, model.Position{})
		copy(g.body[1:], g.body)
		outcome.Ate = true
	} else {
		tail := len(g.body) - 1
		g.free.Add(g.body[tail])
		copy(g.body[1:], g.body[:tail])
	}
	g.body[0] = head
	g.free.Remove(head)

	if p, ok := g.spawnFood(); ok {
		outcome.FoodSpawned = &p
	}
	g.finish(&outcome)
}

func (g *GameState) finish(outcome *model.TickRecord) {
	outcome.Heading = g.heading
	outcome.Head = g.body[0]
	outcome.Length = len(g.body)
	g.last = *outcome
}

// chooseHeading picks a direction at random, weighted by vote count.
// Directions are walked in declaration order; those with no votes are never chosen.
func (g *GameState) chooseHeading() model.Direction {
	total := g.votes.Total()
	if total == 0 {
		return g.heading
	}

	r := g.random.Float64() * float64(total)
	cumulative := 0
	chosen := g.heading
	for _, d := range model.AllDirections {
		count := g.votes[d]
		if count == 0 {
			continue
		}
		cumulative += count
		chosen = d
		if float64(cumulative) >= r {
			break
		}
	}
	return chosen
}

// advance moves p one cell in direction d, wrapping at the edges
func (g *GameState) advance(p model.Position, d model.Direction) model.Position {
	switch d {
	case model.Up:
		p.Y--
	case model.Down:
		p.Y++
	case model.Left:
		p.X--
	case model.Right:
		p.X++
	}
	p.X = (p.X%g.size + g.size) % g.size
	p.Y = (p.Y%g.size + g.size) % g.size
	return p
}

func (g *GameState) occupied(p model.Position) bool {
	for _, c := range g.body {
		if c == p {
			return true
		}
	}
	return false
}

func (g *GameState) spawnFood() (model.Position, bool) {
	if g.random.Intn(foodSpawnOdds) != foodSpawnSentinel {
		return model.Position{}, false
	}
	if g.free.Len() == 0 {
		return model.Position{}, false
	}
	p := g.free.At(g.random.Intn(g.free.Len()))
	g.free.Remove(p)
	g.food.Add(p)
	return p, true
}

// reset puts the snake back on its starting cells and clears food and votes
func (g *GameState) reset() {
	g.food.Clear()

	g.body = g.body[:0]
	for i := len(startingCells) - 1; i >= 0; i-- {
		g.body = append(g.body, startingCells[i])
	}

	g.free.Clear()
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			g.free.Add(model.Position{X: x, Y: y})
		}
	}
	for _, p := range startingCells {
		g.free.Remove(p)
	}

	g.votes.Clear()
	g.heading = initialHeading
}

// Snapshot copies the state into a model.Snapshot
func (g *GameState) Snapshot() model.Snapshot {
	body := make([]model.Position, len(g.body))
	copy(body, g.body)
	return model.Snapshot{
		Size:    g.size,
		Tick:    g.ticks,
		Resets:  g.resets,
		Heading: g.heading,
		Snake:   body,
		Food:    g.food.Positions(),
		Votes:   g.votes,
	}
}
