package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"chessrules/internal/core"
	chesshttp "chessrules/internal/http"
	"chessrules/internal/processor"
	"chessrules/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient serves a fresh API on a loopback port
func newTestClient(t *testing.T) *Client {
	t.Helper()

	svc, err := service.New(nil)
	require.NoError(t, err)
	proc, err := processor.New(svc, 1)
	require.NoError(t, err)

	app := chesshttp.NewFiberApp(proc, true)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)

	t.Cleanup(func() {
		app.ShutdownWithTimeout(time.Second)
		proc.Close()
		svc.Shutdown(time.Second)
	})

	return New("http://" + ln.Addr().String() + "/")
}

func humans() core.CreateGameRequest {
	return core.CreateGameRequest{
		White: core.PlayerConfig{Type: core.PlayerHuman},
		Black: core.PlayerConfig{Type: core.PlayerHuman},
	}
}

func requireRequestError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var reqErr *core.RequestError
	require.True(t, errors.As(err, &reqErr), "expected RequestError, got %v", err)
	assert.Equal(t, status, reqErr.Status)
	assert.Equal(t, code, reqErr.Response.Code)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)

	h, err := c.Health()
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "disabled", h.Storage)
}

func TestGameLifecycle(t *testing.T) {
	c := newTestClient(t)

	g, err := c.CreateGame(humans())
	require.NoError(t, err)
	assert.Equal(t, "w", g.Turn)
	assert.Equal(t, "ongoing", g.State)

	g, err = c.MakeMove(g.GameID, "e2e4")
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4"}, g.Moves)
	require.NotNil(t, g.LastMove)
	assert.Equal(t, "e2e4", g.LastMove.Move)

	legal, err := c.LegalMoves(g.GameID, "e7")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e6", "e5"}, legal.Moves["e7"])

	all, err := c.LegalMoves(g.GameID, "")
	require.NoError(t, err)
	assert.Equal(t, 20, all.Count)

	g, err = c.UndoMoves(g.GameID, 1)
	require.NoError(t, err)
	assert.Empty(t, g.Moves)

	b, err := c.GetBoard(g.GameID)
	require.NoError(t, err)
	assert.Equal(t, g.FEN, b.FEN)
	assert.NotEmpty(t, b.Board)

	svg, err := c.BoardSVG(g.GameID, core.BoardSVGOptions{Mark: "e2", Perspective: "b"})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	require.NoError(t, c.DeleteGame(g.GameID))

	_, err = c.GetGame(g.GameID)
	requireRequestError(t, err, http.StatusNotFound, core.ErrGameNotFound)
}

func TestConfigurePlayersRoundTrip(t *testing.T) {
	c := newTestClient(t)

	g, err := c.CreateGame(humans())
	require.NoError(t, err)

	updated, err := c.ConfigurePlayers(g.GameID, core.ConfigurePlayersRequest{
		White: core.PlayerConfig{Type: core.PlayerHuman},
		Black: core.PlayerConfig{Type: core.PlayerComputer, Level: core.LevelGreedy},
	})
	require.NoError(t, err)
	assert.Equal(t, core.PlayerComputer, updated.Players.Black.Type)
	assert.Equal(t, core.PlayerHuman, updated.Players.White.Type)

	fetched, err := c.GetGame(g.GameID)
	require.NoError(t, err)
	assert.Equal(t, updated.Players, fetched.Players)

	_, err = c.ConfigurePlayers(g.GameID, core.ConfigurePlayersRequest{
		White: core.PlayerConfig{Type: 7},
		Black: core.PlayerConfig{Type: core.PlayerHuman},
	})
	requireRequestError(t, err, http.StatusBadRequest, core.ErrInvalidRequest)
}

func TestBoardSVGOptions(t *testing.T) {
	c := newTestClient(t)

	g, err := c.CreateGame(humans())
	require.NoError(t, err)

	svg, err := c.BoardSVG(g.GameID, core.BoardSVGOptions{SquareSize: 25, HideCoordinates: true})
	require.NoError(t, err)
	assert.Contains(t, string(svg), `width="200"`)
	assert.NotContains(t, string(svg), ">a<")

	_, err = c.BoardSVG(g.GameID, core.BoardSVGOptions{Mark: "z9"})
	requireRequestError(t, err, http.StatusBadRequest, core.ErrInvalidSquare)
}

func TestRequestErrors(t *testing.T) {
	c := newTestClient(t)

	g, err := c.CreateGame(humans())
	require.NoError(t, err)

	_, err = c.MakeMove(g.GameID, "e2e5")
	requireRequestError(t, err, http.StatusBadRequest, core.ErrInvalidMove)

	_, err = c.GetGame("not-a-uuid")
	requireRequestError(t, err, http.StatusBadRequest, core.ErrInvalidRequest)

	_, err = c.CreateGame(core.CreateGameRequest{
		White: core.PlayerConfig{Type: core.PlayerHuman},
		Black: core.PlayerConfig{Type: core.PlayerHuman},
		FEN:   "8/8/8/8/8/8/8/8 w - - 0 1",
	})
	requireRequestError(t, err, http.StatusBadRequest, core.ErrInvalidFEN)

	_, err = c.BoardSVG("00000000-0000-0000-0000-000000000000", core.BoardSVGOptions{})
	requireRequestError(t, err, http.StatusNotFound, core.ErrGameNotFound)
}

func TestComputerMoveOverLongPoll(t *testing.T) {
	c := newTestClient(t)

	g, err := c.CreateGame(core.CreateGameRequest{
		White: core.PlayerConfig{Type: core.PlayerHuman},
		Black: core.PlayerConfig{Type: core.PlayerComputer, Level: core.LevelRandom},
	})
	require.NoError(t, err)

	_, err = c.MakeMove(g.GameID, "e2e4")
	require.NoError(t, err)

	g, err = c.MakeMove(g.GameID, "cccc")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for g.State == core.StatePending.String() && ctx.Err() == nil {
		g, err = c.WaitGame(ctx, g.GameID, len(g.Moves))
		require.NoError(t, err)
	}

	assert.Equal(t, "ongoing", g.State)
	assert.Len(t, g.Moves, 2)
	assert.Equal(t, "w", g.Turn)
}

func TestWaitGameReturnsAtOnceWhenBehind(t *testing.T) {
	c := newTestClient(t)

	g, err := c.CreateGame(humans())
	require.NoError(t, err)
	_, err = c.MakeMove(g.GameID, "d2d4")
	require.NoError(t, err)

	start := time.Now()
	g, err = c.WaitGame(context.Background(), g.GameID, 0)
	require.NoError(t, err)
	assert.Len(t, g.Moves, 1)
	assert.Less(t, time.Since(start), 5*time.Second)
}
