package game

import (
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame() *Game {
	white := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorWhite)
	black := core.NewPlayer(core.PlayerConfig{Type: core.PlayerComputer, Level: core.LevelGreedy}, core.ColorBlack)
	return New(*board.NewPosition(), white, black)
}

func advance(g *Game, uci string) {
	m, _ := core.ParseMove(uci)
	pos := g.CurrentPosition()
	pos.Board.Move(m.From, m.To)
	pos.Turn = core.OppositeColor(pos.Turn)
	g.AddSnapshot(pos, m)
}

func TestNewGame(t *testing.T) {
	g := newTestGame()

	assert.Equal(t, board.StartingFEN, g.CurrentFEN())
	assert.Equal(t, board.StartingFEN, g.InitialFEN())
	assert.Equal(t, core.ColorWhite, g.NextTurnColor())
	assert.Equal(t, core.PlayerHuman, g.NextPlayer().Type)
	assert.Equal(t, core.StateOngoing, g.State())
	assert.Empty(t, g.Moves())
	assert.Nil(t, g.CurrentSnapshot().LastMove)
}

func TestAddSnapshotTracksLastMove(t *testing.T) {
	g := newTestGame()
	advance(g, "e2e4")

	snap := g.CurrentSnapshot()
	require.NotNil(t, snap.LastMove)
	assert.Equal(t, "e2e4", snap.LastMove.UCI())
	assert.Equal(t, g.GetPlayer(core.ColorBlack).ID, snap.PlayerID)
	assert.Equal(t, core.ColorBlack, g.NextTurnColor())
	assert.Equal(t, []string{"e2e4"}, g.Moves())
	assert.Equal(t, 1, g.MoveCount())
}

func TestUndoMoves(t *testing.T) {
	g := newTestGame()
	advance(g, "e2e4")
	advance(g, "e7e5")
	g.SetState(core.StateWhiteWins)
	g.SetLastResult(&MoveResult{Move: "e7e5"})

	require.NoError(t, g.UndoMoves(2))
	assert.Equal(t, board.StartingFEN, g.CurrentFEN())
	assert.Equal(t, core.StateOngoing, g.State())
	assert.Nil(t, g.LastResult())

	assert.Error(t, g.UndoMoves(1))
	assert.Error(t, g.UndoMoves(0))
}

func TestUpdatePlayers(t *testing.T) {
	g := newTestGame()
	white := core.NewPlayer(core.PlayerConfig{Type: core.PlayerComputer}, core.ColorWhite)
	black := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorBlack)

	g.UpdatePlayers(white, black)
	assert.Equal(t, white.ID, g.CurrentSnapshot().PlayerID)
	assert.Equal(t, core.PlayerComputer, g.NextPlayer().Type)
}

func TestCloneIsIndependent(t *testing.T) {
	g := newTestGame()
	advance(g, "e2e4")
	g.SetLastResult(&MoveResult{Move: "e2e4"})

	c := g.Clone()
	advance(g, "e7e5")
	g.SetState(core.StateStalemate)
	g.LastResult().Move = "changed"

	assert.Equal(t, 1, c.MoveCount())
	assert.Equal(t, core.StateOngoing, c.State())
	assert.Equal(t, "e2e4", c.LastResult().Move)
	assert.Equal(t, g.GetPlayer(core.ColorWhite).ID, c.GetPlayer(core.ColorWhite).ID)
}
