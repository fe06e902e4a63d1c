package game

import (
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Snapshot is one position in the game history together with the move that
// produced it.
type Snapshot struct {
	Position board.Position
	LastMove *core.Move // nil for the initial position; en passant would key off this
	MoveUCI  string
	PlayerID string // ID of the player whose turn it is
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move        string        `json:"move"`
	Kind        core.MoveKind `json:"kind"`
	PlayerColor core.Color    `json:"playerColor"`
	GameState   core.State    `json:"gameState"`
	Outcome     core.Outcome  `json:"outcome"`
}

type Game struct {
	snapshots  []Snapshot
	players    map[core.Color]*core.Player
	state      core.State
	lastResult *MoveResult
}

func New(initial board.Position, whitePlayer, blackPlayer *core.Player) *Game {
	// Determine which player's turn it is initially
	var initialPlayerID string
	if initial.Turn == core.ColorWhite {
		initialPlayerID = whitePlayer.ID
	} else {
		initialPlayerID = blackPlayer.ID
	}

	return &Game{
		snapshots: []Snapshot{
			{
				Position: initial,
				PlayerID: initialPlayerID,
			},
		},
		players: map[core.Color]*core.Player{
			core.ColorWhite: whitePlayer,
			core.ColorBlack: blackPlayer,
		},
		state: core.StateOngoing,
	}
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// CurrentSnapshot returns the latest game snapshot
func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// CurrentPosition returns a copy of the latest position
func (g *Game) CurrentPosition() board.Position {
	return g.CurrentSnapshot().Position
}

// CurrentFEN returns the current position in FEN notation
func (g *Game) CurrentFEN() string {
	pos := g.CurrentPosition()
	return pos.FEN()
}

func (g *Game) NextTurnColor() core.Color {
	return g.CurrentSnapshot().Position.Turn
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurnColor()]
}

func (g *Game) GetPlayer(color core.Color) *core.Player {
	return g.players[color]
}

// AddSnapshot appends the position reached by move
func (g *Game) AddSnapshot(pos board.Position, move core.Move) {
	nextPlayer := g.players[pos.Turn]
	g.snapshots = append(g.snapshots, Snapshot{
		Position: pos,
		LastMove: &move,
		MoveUCI:  move.UCI(),
		PlayerID: nextPlayer.ID,
	})
}

func (g *Game) UpdatePlayers(whitePlayer, blackPlayer *core.Player) {
	g.players[core.ColorWhite] = whitePlayer
	g.players[core.ColorBlack] = blackPlayer

	// Update current snapshot's PlayerID to reflect new player
	if len(g.snapshots) > 0 {
		currentSnap := &g.snapshots[len(g.snapshots)-1]
		currentSnap.PlayerID = g.players[currentSnap.Position.Turn].ID
	}
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.state = core.StateOngoing // Reset game state when undoing
	g.lastResult = nil          // Clear last result
	return nil
}

func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if g.snapshots[i].MoveUCI != "" {
			moves = append(moves, g.snapshots[i].MoveUCI)
		}
	}
	return moves
}

// MoveCount is the number of moves played so far
func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) SetState(s core.State) {
	g.state = s
}

func (g *Game) InitialFEN() string {
	if len(g.snapshots) > 0 {
		return g.snapshots[0].Position.FEN()
	}
	return board.StartingFEN
}

// Clone returns a copy that shares no mutable state with g. Positions are
// values and recorded moves are never modified, so a shallow copy of the
// history is enough.
func (g *Game) Clone() *Game {
	c := &Game{
		snapshots: make([]Snapshot, len(g.snapshots)),
		players:   make(map[core.Color]*core.Player, len(g.players)),
		state:     g.state,
	}
	copy(c.snapshots, g.snapshots)
	for color, p := range g.players {
		pc := *p
		c.players[color] = &pc
	}
	if g.lastResult != nil {
		r := *g.lastResult
		c.lastResult = &r
	}
	return c
}
