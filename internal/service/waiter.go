package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout is the maximum time a client can wait for notifications
const WaitTimeout = 25 * time.Second

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*waitRequest // gameID -> waiting clients
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
	timeout  time.Duration
}

type waitRequest struct {
	moveCount int
	done      chan struct{}
	once      sync.Once
}

func (r *waitRequest) release() {
	r.once.Do(func() { close(r.done) })
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		shutdown: make(chan struct{}),
		timeout:  WaitTimeout,
	}
}

// RegisterWait registers a client to wait for game state changes. The
// returned channel is closed exactly once.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	req := &waitRequest{
		moveCount: moveCount,
		done:      make(chan struct{}),
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		req.release()
		return req.done
	}
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		timer := time.NewTimer(w.timeout)
		defer timer.Stop()

		select {
		case <-req.done:
		case <-ctx.Done():
		case <-timer.C:
		case <-w.shutdown:
		}
		req.release()
		w.removeWaiter(gameID, req)
	}()

	return req.done
}

// NotifyGame wakes every waiter on gameID whose known move count differs
// from currentMoveCount. A negative count wakes all of them.
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, req := range w.waiters[gameID] {
		if currentMoveCount < 0 || req.moveCount != currentMoveCount {
			req.release()
		}
	}
}

// RemoveGame wakes and forgets all waiters for a game
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.release()
	}
}

// Shutdown releases all waiters and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
