package factory

import (
	"context"
	"time"

	"github.com/mcoot/crowdsnake/internal/dependencies/mocks"
	"github.com/mcoot/crowdsnake/internal/services/snake"
	"github.com/mcoot/crowdsnake/internal/storage/memory"
	"github.com/mcoot/crowdsnake/internal/testutil"
)

// TestBoardSize is the board size used by NewTestApp
const TestBoardSize = 5

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App on a TestBoardSize board with mocked clock and random.
// The simulation is not started; drive it with Tick.
func NewTestApp() *TestApp {
	store := memory.New(memory.DefaultCapacity)
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	cfg := snake.Config{BoardSize: TestBoardSize, TickInterval: time.Second}
	app, err := newWithDependencies(store, mockClock, mockRandom, cfg, memory.DefaultCapacity, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// Tick advances the mock clock by one interval, runs a single update and waits for it to reach history
func (t *TestApp) Tick() {
	t.MockClock.Advance(t.Simulation.Config().TickInterval)
	t.Simulation.Tick()
	if err := t.History.Flush(context.Background()); err != nil {
		panic(err)
	}
}
