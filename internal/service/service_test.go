package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/engine"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	svc, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Shutdown(time.Second) })

	white := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorWhite)
	black := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorBlack)
	id := svc.GenerateGameID()
	require.NoError(t, svc.CreateGame(id, white, black, *board.NewPosition()))
	return svc, id
}

func play(t *testing.T, svc *Service, id, uci string) {
	t.Helper()
	g, err := svc.GetGame(id)
	require.NoError(t, err)
	m, err := core.ParseMove(uci)
	require.NoError(t, err)

	pos := g.CurrentPosition()
	result := &game.MoveResult{
		Move:        m.UCI(),
		Kind:        engine.ClassifyMove(&pos.Board, m.From, m.To),
		PlayerColor: pos.Turn,
		GameState:   core.StateOngoing,
	}
	require.NoError(t, svc.ApplyMove(id, g.MoveCount(), m, engine.PlayMove(pos, m), result))
}

func TestCreateAndGetGame(t *testing.T) {
	svc, id := newTestService(t)

	g, err := svc.GetGame(id)
	require.NoError(t, err)
	assert.Equal(t, board.StartingFEN, g.CurrentFEN())

	_, err = svc.GetGame("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)

	assert.Error(t, svc.CreateGame(id, g.GetPlayer(core.ColorWhite), g.GetPlayer(core.ColorBlack), *board.NewPosition()))
	assert.Equal(t, "disabled", svc.GetStorageHealth())
}

func TestApplyMoveRejectsStaleCount(t *testing.T) {
	svc, id := newTestService(t)
	play(t, svc, id, "e2e4")

	m, _ := core.ParseMove("d2d4")
	err := svc.ApplyMove(id, 0, m, *board.NewPosition(), &game.MoveResult{Move: "d2d4"})
	assert.ErrorIs(t, err, ErrStaleMove)

	g, _ := svc.GetGame(id)
	assert.Equal(t, []string{"e2e4"}, g.Moves())
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1", g.CurrentFEN())
}

func TestGetGameReturnsCopy(t *testing.T) {
	svc, id := newTestService(t)

	g, _ := svc.GetGame(id)
	g.SetState(core.StateStalemate)

	fresh, _ := svc.GetGame(id)
	assert.Equal(t, core.StateOngoing, fresh.State())
}

func TestUndoAndDelete(t *testing.T) {
	svc, id := newTestService(t)
	play(t, svc, id, "e2e4")
	play(t, svc, id, "e7e5")

	require.NoError(t, svc.UndoMoves(id, 1))
	g, _ := svc.GetGame(id)
	assert.Equal(t, []string{"e2e4"}, g.Moves())

	assert.Error(t, svc.UndoMoves(id, 5))

	require.NoError(t, svc.DeleteGame(id))
	assert.ErrorIs(t, svc.DeleteGame(id), ErrGameNotFound)
}

func TestRegisterWaitWakesOnMove(t *testing.T) {
	svc, id := newTestService(t)

	ch, err := svc.RegisterWait(context.Background(), id, 0)
	require.NoError(t, err)

	select {
	case <-ch:
		t.Fatal("released before any change")
	default:
	}

	play(t, svc, id, "e2e4")

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waiter not released by move")
	}
}

func TestRegisterWaitReleasesStaleClient(t *testing.T) {
	svc, id := newTestService(t)
	play(t, svc, id, "e2e4")

	ch, err := svc.RegisterWait(context.Background(), id, 0)
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("stale client should be released at once")
	}
}

func TestRegisterWaitReleasesOnCancelAndDelete(t *testing.T) {
	svc, id := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	byCancel, err := svc.RegisterWait(ctx, id, 0)
	require.NoError(t, err)
	byDelete, err := svc.RegisterWait(context.Background(), id, 0)
	require.NoError(t, err)

	cancel()
	select {
	case <-byCancel:
	case <-time.After(time.Second):
		t.Fatal("cancel did not release waiter")
	}

	require.NoError(t, svc.DeleteGame(id))
	select {
	case <-byDelete:
	case <-time.After(time.Second):
		t.Fatal("delete did not release waiter")
	}

	_, err = svc.RegisterWait(context.Background(), id, 0)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestUpdateGameStateNotifies(t *testing.T) {
	svc, id := newTestService(t)

	ch, err := svc.RegisterWait(context.Background(), id, 0)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateGameState(id, core.StatePending))
	select {
	case <-ch:
		t.Fatal("pending should not wake clients")
	default:
	}

	require.NoError(t, svc.UpdateGameState(id, core.StateStuck))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("state change did not release waiter")
	}
}

func TestWaitTimeout(t *testing.T) {
	w := NewWaitRegistry()
	w.timeout = 10 * time.Millisecond

	ch := w.RegisterWait(context.Background(), "g", 0)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("wait did not time out")
	}
	require.NoError(t, w.Shutdown(time.Second))

	// After shutdown new waits return at once
	select {
	case <-w.RegisterWait(context.Background(), "g", 0):
	default:
		t.Fatal("registry accepted wait after shutdown")
	}
}

func TestServicePersistsToStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())

	svc, err := New(store)
	require.NoError(t, err)
	assert.Equal(t, "ok", svc.GetStorageHealth())

	white := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorWhite)
	black := core.NewPlayer(core.PlayerConfig{Type: core.PlayerComputer}, core.ColorBlack)
	require.NoError(t, svc.CreateGame("g1", white, black, *board.NewPosition()))
	play(t, svc, "g1", "e2e4")
	require.NoError(t, svc.UpdateGameState("g1", core.StateWhiteWins))
	require.NoError(t, svc.Shutdown(time.Second))

	store, err = storage.NewStore(path, false)
	require.NoError(t, err)
	defer store.Close()

	games, err := store.QueryGames("g1", "")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "white wins", games[0].FinalState)
	assert.Equal(t, board.StartingFEN, games[0].InitialFEN)

	moves, err := store.QueryMoves("g1")
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "e2e4", moves[0].MoveUCI)
	assert.Equal(t, "w", moves[0].PlayerColor)
}
