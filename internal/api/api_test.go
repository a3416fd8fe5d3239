package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/crowdsnake/internal/api"
	"github.com/mcoot/crowdsnake/internal/api/apierr"
	"github.com/mcoot/crowdsnake/internal/api/response"
	"github.com/mcoot/crowdsnake/internal/factory"
	"github.com/mcoot/crowdsnake/internal/model"
	"github.com/mcoot/crowdsnake/internal/testutil"
	"github.com/mcoot/crowdsnake/internal/web"
)

// testServer wires the API and web routers over a TestApp
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	logger := testutil.NopLogger()
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Simulation: app.Simulation,
		History:    app.History,
		Hub:        app.Hub,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:     logger,
		Simulation: app.Simulation,
	})

	return &testServer{
		handler: api.Mount(apiRouter, webRouter),
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Running)
	assert.Zero(t, resp.Tick)
}

func TestGetSnakeReturnsPlainTextBoard(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/snake", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "OOO--\n-----\n-----\n-----\n-----\n", rr.Body.String())
}

func TestPostSnakeDirectionVotes(t *testing.T) {
	ts := newTestServer(t)

	for _, dir := range []string{"up", "up", "left", "DOWN"} {
		rr := ts.request(http.MethodPost, "/snake/"+dir, nil)
		assert.Equal(t, http.StatusOK, rr.Code, dir)
		assert.Empty(t, rr.Body.String())
	}

	votes := ts.app.Simulation.Snapshot().Votes
	assert.Equal(t, 2, votes.Get(model.Up))
	assert.Equal(t, 1, votes.Get(model.Left))
	assert.Equal(t, 1, votes.Get(model.Down))
	assert.Zero(t, votes.Get(model.Right))
}

func TestPostSnakeInvalidDirection(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/snake/diagonal", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidDirection, decodeError(t, rr).Code)
	assert.Zero(t, ts.app.Simulation.Snapshot().Votes.Total())
}

func TestVotesUnavailableAfterStop(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.app.Simulation.Start(context.Background()))
	require.NoError(t, ts.app.Simulation.Stop())

	rr := ts.request(http.MethodPost, "/snake/up", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, apierr.CodeUnavailable, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/votes", map[string]string{"direction": "up"})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, apierr.CodeUnavailable, decodeError(t, rr).Code)

	assert.Zero(t, ts.app.Simulation.Snapshot().Votes.Total())
}

func TestVoteThenTickMovesSnake(t *testing.T) {
	ts := newTestServer(t)

	require.Equal(t, http.StatusOK, ts.request(http.MethodPost, "/snake/down", nil).Code)
	ts.app.Tick()

	rr := ts.request(http.MethodGet, "/snake", nil)
	assert.Equal(t, "-OO--\n--O--\n-----\n-----\n-----\n", rr.Body.String())
}

func TestGetState(t *testing.T) {
	ts := newTestServer(t)
	ts.app.Tick()

	rr := ts.request(http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, factory.TestBoardSize, resp.Size)
	assert.Equal(t, int64(1), resp.Tick)
	assert.Equal(t, model.Right, resp.Heading)
	assert.Equal(t, model.Position{X: 3, Y: 0}, resp.Head())
	assert.Equal(t, ts.app.Simulation.RenderBoard(), resp.Board)
}

func TestHistory(t *testing.T) {
	ts := newTestServer(t)
	for range 25 {
		ts.app.Tick()
	}

	rr := ts.request(http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.History
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Ticks, 20)
	assert.Equal(t, int64(25), resp.Ticks[0].Tick)
	assert.Equal(t, int64(6), resp.Ticks[19].Tick)
	assert.Equal(t, 100, resp.Limit)

	rr = ts.request(http.MethodGet, "/api/v1/history?limit=3", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Ticks, 3)
}

func TestHistoryEmpty(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ticks":[],"limit":100}`, rr.Body.String())
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	ts := newTestServer(t)

	for _, q := range []string{"abc", "0", "-4"} {
		rr := ts.request(http.MethodGet, "/api/v1/history?limit="+q, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
		assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code, q)
	}
}

func TestCastVoteJSON(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/votes", map[string]string{"direction": "left"})
	require.Equal(t, http.StatusAccepted, rr.Code)

	var resp response.Vote
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, model.Left, resp.Direction)
	assert.Equal(t, 1, resp.Pending.Get(model.Left))
}

func TestCastVoteJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		body any
		code string
	}{
		{"malformed body", "{not json", apierr.CodeInvalidRequest},
		{"missing direction", map[string]string{}, apierr.CodeInvalidRequest},
		{"unknown direction", map[string]string{"direction": "north"}, apierr.CodeInvalidDirection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)

			rr := ts.request(http.MethodPost, "/api/v1/votes", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMountRoutesWebPages(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `<pre id="board"`)
}

func TestSnakeEventsStream(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/snake/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return ts.app.Hub.ClientCount() == 1 }, time.Second, time.Millisecond)
	ts.app.Tick()

	var got strings.Builder
	buf := make([]byte, 512)
	for !strings.Contains(got.String(), "event: tick") {
		n, err := resp.Body.Read(buf)
		got.Write(buf[:n])
		require.NoError(t, err)
	}

	stream := got.String()
	assert.Contains(t, stream, "event: board\ndata: OOO--\n")
	assert.Contains(t, stream, "event: board\ndata: -OOO-\n")
	assert.Contains(t, stream, `"tick":1`)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	server := api.NewServer(http.NotFoundHandler(), cfg, testutil.NopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- server.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
