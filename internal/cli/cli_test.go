package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crowdsnake/internal/api"
	"github.com/mcoot/crowdsnake/internal/cli"
	"github.com/mcoot/crowdsnake/internal/factory"
	"github.com/mcoot/crowdsnake/internal/model"
	"github.com/mcoot/crowdsnake/internal/testutil"
	"github.com/mcoot/crowdsnake/internal/web"
)

type CLISuite struct {
	suite.Suite
	app *factory.TestApp
	srv *httptest.Server
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.app = factory.NewTestApp()
	logger := testutil.NopLogger()
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Simulation: s.app.Simulation,
		History:    s.app.History,
		Hub:        s.app.Hub,
	})
	webRouter := web.NewRouter(web.RouterConfig{Logger: logger, Simulation: s.app.Simulation})
	s.srv = httptest.NewServer(api.Mount(apiRouter, webRouter))
}

func (s *CLISuite) TearDownTest() {
	s.srv.Close()
	s.NoError(s.app.Close())
}

func (s *CLISuite) run(ctx context.Context, args ...string) (string, error) {
	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--server", s.srv.URL}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func (s *CLISuite) TestBoard() {
	out, err := s.run(context.Background(), "board")
	s.Require().NoError(err)
	s.Equal("OOO--\n-----\n-----\n-----\n-----\n", out)
}

func (s *CLISuite) TestBoardJSON() {
	out, err := s.run(context.Background(), "board", "--output", "json")
	s.Require().NoError(err)

	var result cli.BoardResult
	s.Require().NoError(json.Unmarshal([]byte(out), &result))
	s.Equal(s.app.Simulation.RenderBoard(), result.Board)
}

func (s *CLISuite) TestVote() {
	out, err := s.run(context.Background(), "vote", "Left")
	s.Require().NoError(err)
	s.Equal("Voted left (pending: up=0 down=0 left=1 right=0)\n", out)
	s.Equal(1, s.app.Simulation.Snapshot().Votes.Get(model.Left))
}

func (s *CLISuite) TestVoteRejectsUnknownDirectionLocally() {
	_, err := s.run(context.Background(), "vote", "sideways")
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrInvalidDirection)
}

func (s *CLISuite) TestState() {
	s.app.Tick()

	out, err := s.run(context.Background(), "state")
	s.Require().NoError(err)
	s.Contains(out, "-OOO-\n")
	s.Contains(out, "Tick:    1\n")
	s.Contains(out, "Heading: right\n")
	s.Contains(out, "Length:  3\n")
}

func (s *CLISuite) TestHistory() {
	for range 4 {
		s.app.Tick()
	}

	out, err := s.run(context.Background(), "history", "--limit", "2", "-o", "json")
	s.Require().NoError(err)

	var result cli.HistoryResult
	s.Require().NoError(json.Unmarshal([]byte(out), &result))
	s.Require().Len(result.Ticks, 2)
	s.Equal(int64(4), result.Ticks[0].Tick)

	out, err = s.run(context.Background(), "history")
	s.Require().NoError(err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	s.Len(lines, 5)
	s.True(strings.HasPrefix(lines[1], "4 "))
}

func (s *CLISuite) TestHistoryEmpty() {
	out, err := s.run(context.Background(), "history")
	s.Require().NoError(err)
	s.Equal("No ticks recorded yet\n", out)
}

func (s *CLISuite) TestHealth() {
	out, err := s.run(context.Background(), "health")
	s.Require().NoError(err)
	s.Contains(out, "Status: ok\n")
	s.Contains(out, "Running: false\n")
}

func (s *CLISuite) TestVerboseLogsRequestsToStderr() {
	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--server", s.srv.URL, "-v", "board"})
	s.Require().NoError(cmd.ExecuteContext(context.Background()))

	s.Equal(s.app.Simulation.RenderBoard(), out.String())
	s.Contains(errOut.String(), "method=GET")
	s.Contains(errOut.String(), "/snake")
	s.Contains(errOut.String(), "status=200")
}

func (s *CLISuite) TestQuietByDefault() {
	cmd := cli.NewRootCmd()
	var errOut bytes.Buffer
	cmd.SetOut(io.Discard)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--server", s.srv.URL, "board"})
	s.Require().NoError(cmd.ExecuteContext(context.Background()))

	s.Empty(errOut.String())
}

func (s *CLISuite) TestUnknownOutputFormat() {
	_, err := s.run(context.Background(), "health", "--output", "yaml")
	s.Error(err)
}

func (s *CLISuite) TestServerErrorSurfaces() {
	s.srv.Close()
	_, err := s.run(context.Background(), "health")
	s.Error(err)
}

func (s *CLISuite) TestWatchStopsAfterCount() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	var out string
	var err error
	go func() {
		defer close(done)
		out, err = s.run(ctx, "watch", "--count", "2", "--no-clear")
	}()

	s.Require().Eventually(func() bool { return s.app.Hub.ClientCount() == 1 }, 2*time.Second, time.Millisecond)
	s.app.Tick()

	select {
	case <-done:
	case <-ctx.Done():
		s.FailNow("watch did not exit")
	}
	s.Require().NoError(err)
	s.Contains(out, "OOO--\n")
	s.Contains(out, "-OOO-\n")
	s.NotContains(out, "\033[2J")
}
