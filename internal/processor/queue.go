package processor

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/engine"
)

const (
	queueSize      = 100
	computeTimeout = 5 * time.Second
)

// MoveTask asks a worker to choose a move for a computer player
type MoveTask struct {
	GameID   string
	Position board.Position
	Level    int
	Response chan<- MoveSelection
}

// MoveSelection is the outcome of a MoveTask. Found is false when the side
// to move has no legal move.
type MoveSelection struct {
	GameID string
	Move   core.Move
	Found  bool
	Error  error
}

// MoveQueue runs computer move selection on a fixed pool of workers
type MoveQueue struct {
	tasks   chan MoveTask
	workers int
	timeout time.Duration
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.RWMutex
	closed  bool
}

// NewMoveQueue creates a queue with specified worker count
func NewMoveQueue(workerCount int) *MoveQueue {
	if workerCount < 1 {
		workerCount = 2
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &MoveQueue{
		tasks:   make(chan MoveTask, queueSize),
		workers: workerCount,
		timeout: computeTimeout,
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(int64(i))
	}
	return q
}

func (q *MoveQueue) worker(id int64) {
	defer q.wg.Done()

	// rand.Rand is not safe for concurrent use, one per worker
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + id))

	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return
			}

			result := q.processTask(rng, task)

			select {
			case task.Response <- result:
			case <-time.After(100 * time.Millisecond):
				// Receiver abandoned, discard result
			}

		case <-q.ctx.Done():
			return
		}
	}
}

func (q *MoveQueue) processTask(rng *rand.Rand, task MoveTask) (result MoveSelection) {
	result.GameID = task.GameID

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("move selection panicked: %v", r)
		}
	}()

	pos := task.Position
	result.Move, result.Found = engine.SelectMove(pos.Board, pos.Turn, pos.Rights, task.Level, rng)
	return result
}

// Submit adds a task to the queue
func (q *MoveQueue) Submit(task MoveTask) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("queue is shutting down")
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return fmt.Errorf("queue is full")
	}
}

// SubmitAsync queues a selection and delivers the result, or a timeout
// error, to callback on another goroutine
func (q *MoveQueue) SubmitAsync(gameID string, pos board.Position, level int, callback func(MoveSelection)) error {
	respChan := make(chan MoveSelection, 1)

	task := MoveTask{
		GameID:   gameID,
		Position: pos,
		Level:    level,
		Response: respChan,
	}

	if err := q.Submit(task); err != nil {
		return err
	}

	go func() {
		select {
		case result := <-respChan:
			callback(result)
		case <-time.After(q.timeout):
			callback(MoveSelection{
				GameID: gameID,
				Error:  fmt.Errorf("move selection timeout"),
			})
		}
	}()

	return nil
}

// Shutdown gracefully stops the queue
func (q *MoveQueue) Shutdown(timeout time.Duration) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.cancel()
	close(q.tasks)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
