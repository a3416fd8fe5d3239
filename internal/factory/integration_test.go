package factory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crowdsnake/internal/dependencies/mocks"
	"github.com/mcoot/crowdsnake/internal/model"
	"github.com/mcoot/crowdsnake/internal/services/snake"
	"github.com/mcoot/crowdsnake/internal/storage/memory"
	redisstorage "github.com/mcoot/crowdsnake/internal/storage/redis"
	"github.com/mcoot/crowdsnake/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

func (s *IntegrationSuite) TestInitialState() {
	snap := s.app.Simulation.Snapshot()
	s.Equal(TestBoardSize, snap.Size)
	s.Equal([]model.Position{{X: 2, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}}, snap.Snake)
	s.Equal("OOO--\n-----\n-----\n-----\n-----\n", s.app.Simulation.RenderBoard())
	s.False(s.app.Simulation.Running())
}

func (s *IntegrationSuite) TestTicksAreRecordedNewestFirst() {
	for range 3 {
		s.app.Tick()
	}

	recent, err := s.app.History.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 3)
	s.Equal(int64(3), recent[0].Tick)
	s.Equal(int64(1), recent[2].Tick)
	s.Equal(s.app.MockClock.Now(), recent[0].At)
}

func (s *IntegrationSuite) TestVotesSteerTheSnake() {
	s.Require().NoError(s.app.Simulation.CastVote(model.Down))
	s.Require().NoError(s.app.Simulation.CastVote(model.Down))
	s.app.Tick()

	snap := s.app.Simulation.Snapshot()
	s.Equal(model.Down, snap.Heading)
	s.Equal(model.Position{X: 2, Y: 1}, snap.Head())
	s.Zero(snap.Votes.Total())

	recent, err := s.app.History.Recent(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(2, recent[0].Votes.Get(model.Down))
}

func (s *IntegrationSuite) TestFoodSpawnIsRecorded() {
	s.app.MockRandom.QueueIntn(2, 0)
	s.app.Tick()

	snap := s.app.Simulation.Snapshot()
	s.Require().Len(snap.Food, 1)

	recent, err := s.app.History.Recent(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(recent[0].FoodSpawned)
	s.Equal(snap.Food[0], *recent[0].FoodSpawned)
}

func (s *IntegrationSuite) TestSchedulerDrivesTicksIntoHistory() {
	s.Require().NoError(s.app.Simulation.Start(s.ctx))
	tickers := s.app.MockClock.Tickers()
	s.Require().Len(tickers, 1)

	s.Require().True(tickers[0].Fire(s.app.MockClock.Now()))
	s.Require().True(tickers[0].Fire(s.app.MockClock.Now()))
	s.Require().NoError(s.app.Simulation.Stop())
	s.Require().NoError(s.app.History.Flush(s.ctx))

	recent, err := s.app.History.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(recent, 2)
}

func (s *IntegrationSuite) TestCloseIsSafeAfterStop() {
	s.Require().NoError(s.app.Simulation.Start(s.ctx))
	s.Require().NoError(s.app.Simulation.Stop())
	s.NoError(s.app.Close())
}

// stalledStorage blocks every AppendTick until release is closed
type stalledStorage struct {
	*memory.Storage
	release chan struct{}
}

func (st *stalledStorage) AppendTick(ctx context.Context, rec model.TickRecord) error {
	select {
	case <-st.release:
		return st.Storage.AppendTick(ctx, rec)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestTicksDoNotWaitForStalledStorage(t *testing.T) {
	store := &stalledStorage{Storage: memory.New(100), release: make(chan struct{})}
	cfg := snake.Config{BoardSize: TestBoardSize, TickInterval: time.Second}
	app, err := newWithDependencies(store, mocks.NewMockClock(time.Now()), mocks.NewMockRandom(), cfg, 100, testutil.NopLogger())
	if err != nil {
		t.Fatalf("newWithDependencies() error: %v", err)
	}

	start := time.Now()
	for range 20 {
		app.Simulation.Tick()
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("20 ticks took %v with a stalled store", elapsed)
	}
	if got := app.Simulation.Snapshot().Tick; got != 20 {
		t.Errorf("Snapshot().Tick = %d, want 20", got)
	}

	close(store.release)
	if err := app.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	recent, err := store.RecentTicks(context.Background(), 100)
	if err != nil {
		t.Fatalf("RecentTicks() error: %v", err)
	}
	if len(recent) != 20 {
		t.Errorf("stored %d ticks after Close, want 20", len(recent))
	}
}

func TestNew_DefaultsToMemory(t *testing.T) {
	app, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer app.Close()

	if _, ok := app.Storage.(*memory.Storage); !ok {
		t.Errorf("Storage is %T, want *memory.Storage", app.Storage)
	}
	if got := app.Simulation.Config(); got != snake.DefaultConfig() {
		t.Errorf("Simulation config = %+v, want defaults", got)
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown storage", Config{StorageType: "postgres"}},
		{"redis without config", Config{StorageType: StorageTypeRedis}},
		{"board too small", Config{Simulation: snake.Config{BoardSize: 2, TickInterval: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New() succeeded, want error")
			}
		})
	}
}

func TestNew_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	app, err := New(Config{StorageType: StorageTypeRedis, RedisConfig: &redisCfg, HistoryLimit: 2})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer app.Close()

	for range 3 {
		app.Simulation.Tick()
	}
	if err := app.History.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	recent, err := app.History.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(recent) != 2 || recent[0].Tick != 3 {
		t.Errorf("Recent() = %+v, want ticks 3 and 2", recent)
	}
}
