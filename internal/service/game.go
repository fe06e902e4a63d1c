package service

import (
	"context"
	"fmt"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/google/uuid"
)

// CreateGame registers a new game with pre-constructed players
func (s *Service) CreateGame(id string, whitePlayer, blackPlayer *core.Player, initial board.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("game %s already exists", id)
	}

	s.games[id] = game.New(initial, whitePlayer, blackPlayer)

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:        id,
			InitialFEN:    initial.FEN(),
			WhitePlayerID: whitePlayer.ID,
			WhiteType:     int(whitePlayer.Type),
			WhiteLevel:    whitePlayer.Level,
			BlackPlayerID: blackPlayer.ID,
			BlackType:     int(blackPlayer.Type),
			BlackLevel:    blackPlayer.Level,
			StartTimeUTC:  time.Now().UTC(),
		})
	}

	return nil
}

// UpdatePlayers replaces players in an existing game
func (s *Service) UpdatePlayers(gameID string, whitePlayer, blackPlayer *core.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	g.UpdatePlayers(whitePlayer, blackPlayer)
	return nil
}

// GetGame returns a copy of the game that is safe to read without locking
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// ApplyMove appends the position reached by a verified move together with
// its result. moveCount is the number of moves the caller saw when it
// computed pos; if the game has moved on since, ErrStaleMove is returned and
// nothing changes. The game's state becomes result.GameState, so a pending
// computer move and its outcome are published to waiters in one step.
func (s *Service) ApplyMove(gameID string, moveCount int, move core.Move, pos board.Position, result *game.MoveResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}
	if g.MoveCount() != moveCount {
		return fmt.Errorf("%s: %w", gameID, ErrStaleMove)
	}

	mover := g.NextTurnColor()
	g.AddSnapshot(pos, move)
	g.SetLastResult(result)
	g.SetState(result.GameState)

	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			GameID:       gameID,
			MoveNumber:   g.MoveCount(),
			MoveUCI:      move.UCI(),
			MoveKind:     result.Kind.String(),
			FENAfterMove: pos.FEN(),
			PlayerColor:  mover.String(),
			MoveTimeUTC:  time.Now().UTC(),
		})
		if result.GameState.IsOver() {
			s.store.RecordGameEnd(gameID, result.GameState.String())
		}
	}

	return nil
}

// UpdateGameState sets the game's lifecycle state
func (s *Service) UpdateGameState(gameID string, state core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	prev := g.State()
	g.SetState(state)

	// Pending is internal to the processor; every other transition is news
	if state != prev && state != core.StatePending {
		s.waiter.NotifyGame(gameID, -1)
	}
	if state.IsOver() && s.store != nil {
		s.store.RecordGameEnd(gameID, state.String())
	}

	return nil
}

// UndoMoves removes the specified number of moves from game history
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	if err := g.UndoMoves(count); err != nil {
		return err
	}

	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, g.MoveCount())
	}

	return nil
}

// DeleteGame removes a game from memory and releases its waiters
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(gameID); err != nil {
		return err
	}

	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)
	return nil
}

// RegisterWait returns a channel that is closed when the game changes, the
// client goes away, or the wait times out. A client whose moveCount is
// already out of date is released immediately.
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) (<-chan struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}

	ch := s.waiter.RegisterWait(ctx, gameID, moveCount)
	if g.MoveCount() != moveCount {
		s.waiter.NotifyGame(gameID, g.MoveCount())
	}
	return ch, nil
}
