package search

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mancala-local/board"
)

// Ticket identifies a background search started by Async.Start.
type Ticket struct {
	ID         uuid.UUID
	Generation uint64
	Done       <-chan Outcome // receives exactly one Outcome, then closes
}

// Outcome is the result of a background search.
type Outcome struct {
	ID         uuid.UUID
	Generation uint64
	Result     Result
	Err        error
}

// Async runs searches off the caller's goroutine. Only the most recent request
// is current. Starting a new one cancels the previous search, and callers drop
// outcomes whose ticket is no longer current.
type Async struct {
	searcher *Searcher
	log      *zap.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewAsync wraps s. log may be nil.
func NewAsync(s *Searcher, log *zap.Logger) *Async {
	if log == nil {
		log = zap.NewNop()
	}
	return &Async{searcher: s, log: log}
}

// Start searches a copy of b in a new goroutine and returns at once.
func (a *Async) Start(ctx context.Context, b board.Board) Ticket {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.generation++
	gen := a.generation
	sctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	id := uuid.New()
	done := make(chan Outcome, 1)
	a.log.Debug("search started", zap.Stringer("id", id), zap.Uint64("generation", gen))

	go func() {
		defer cancel()
		res, err := a.searcher.Search(sctx, b)
		done <- Outcome{ID: id, Generation: gen, Result: res, Err: err}
		close(done)
	}()

	return Ticket{ID: id, Generation: gen, Done: done}
}

// Current reports whether t is the latest request.
func (a *Async) Current(t Ticket) bool {
	return a.CurrentGeneration(t.Generation)
}

// CurrentGeneration reports whether gen is the latest request.
func (a *Async) CurrentGeneration(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return gen == a.generation
}

// Invalidate cancels the running search, if any, and marks every issued ticket
// stale.
func (a *Async) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.generation++
}
