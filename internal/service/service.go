package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"chessrules/internal/game"
	"chessrules/internal/storage"
)

var (
	ErrGameNotFound = errors.New("game not found")
	// ErrStaleMove is returned when the game advanced between reading the
	// position and committing a move computed from it.
	ErrStaleMove = errors.New("game changed since move was computed")
)

// Service is a pure state manager for chess games with optional persistence
type Service struct {
	games  map[string]*game.Game
	mu     sync.RWMutex
	store  *storage.Store // nil if persistence disabled
	waiter *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store) (*Service, error) {
	return &Service{
		games:  make(map[string]*game.Game),
		store:  store,
		waiter: NewWaitRegistry(),
	}, nil
}

// lookup must be called with s.mu held
func (s *Service) lookup(gameID string) (*game.Game, error) {
	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", gameID, ErrGameNotFound)
	}
	return g, nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown releases long-poll clients, drops all games and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error
	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, err)
	}

	s.mu.Lock()
	s.games = make(map[string]*game.Game)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}

	return errors.Join(errs...)
}
