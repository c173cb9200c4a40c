// Package local provides a GameEngine that plays Kalah in-process.
package local

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"mancala-local/board"
	"mancala-local/engine"
	"mancala-local/search"
	"mancala-local/types"
)

// LocalEngine implements the GameEngine interface with the alpha-beta search.
type LocalEngine struct {
	log *zap.Logger

	config     engine.GameConfig
	board      board.Board
	boardState *types.BoardState
	gameOver   bool

	ai    *search.Async // moves for AI players
	hints *search.Async // hints for human players

	ctx    context.Context
	cancel context.CancelFunc

	moveCallback func(move types.Move, boardState *types.BoardState)
	hintCallback func(pit int)
	endCallback  func(outcome string)

	mu sync.Mutex
}

// NewLocalEngine creates an engine for cfg. Searches share s. log may be nil.
func NewLocalEngine(cfg engine.GameConfig, s *search.Searcher, log *zap.Logger) *LocalEngine {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &LocalEngine{
		log:        log,
		config:     cfg,
		boardState: types.NewBoardState(cfg.Bowls),
		ai:         search.NewAsync(s, log.Named("ai")),
		hints:      search.NewAsync(s, log.Named("hint")),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Connect builds the starting position and lets the AI move if it goes first.
func (g *LocalEngine) Connect() error {
	g.mu.Lock()
	if err := g.reset(g.config); err != nil {
		g.mu.Unlock()
		return err
	}
	aiFirst := g.config.IsAI(g.board.Turn())
	gameOver, outcome := g.gameOver, g.boardState.Outcome
	g.mu.Unlock()

	g.log.Info("game started",
		zap.Int("bowls", g.config.Bowls),
		zap.Int("seeds", g.config.Seeds),
		zap.Int("depth", g.config.Depth),
		zap.Bool("extra_turn", g.config.Rules.ExtraTurn),
		zap.Bool("capture", g.config.Rules.Capture),
		zap.Bool("collect", g.config.Rules.Collect))

	if gameOver {
		g.handleGameEnd(outcome)
		return nil
	}
	if aiFirst {
		go g.triggerEngineMove()
	}
	return nil
}

// reset replaces the game. Must be called while holding the lock.
func (g *LocalEngine) reset(cfg engine.GameConfig) error {
	b, err := board.New(cfg.BoardConfig())
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	g.ai.Invalidate()
	g.hints.Invalidate()
	g.config = cfg
	g.board = b
	g.boardState = engine.Snapshot(&g.board)
	g.gameOver = g.board.Finished()
	return nil
}

// GetBoardState returns the current board state.
func (g *LocalEngine) GetBoardState() *types.BoardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.boardState.Copy()
}

// PlayMove sows pit for the human side to move.
func (g *LocalEngine) PlayMove(pit int) error {
	g.mu.Lock()

	if g.gameOver {
		g.mu.Unlock()
		return engine.ErrGameOver
	}
	if g.config.IsAI(g.board.Turn()) {
		g.mu.Unlock()
		return engine.ErrNotYourTurn
	}

	move, err := g.apply(pit)
	if err != nil {
		g.mu.Unlock()
		return fmt.Errorf("illegal move: %w", err)
	}
	boardStateCopy := g.boardState.Copy()
	g.mu.Unlock()

	g.afterMove(move, boardStateCopy)
	return nil
}

// Pass hands the move to the other side.
func (g *LocalEngine) Pass() error {
	g.mu.Lock()

	if g.gameOver {
		g.mu.Unlock()
		return engine.ErrGameOver
	}
	if g.config.IsAI(g.board.Turn()) {
		g.mu.Unlock()
		return engine.ErrNotYourTurn
	}

	player := g.board.Turn()
	g.board.SwapSides()
	g.hints.Invalidate()
	move := types.Move{Player: engine.PlayerNumber(player), Pit: -1}
	g.record(move)
	boardStateCopy := g.boardState.Copy()
	g.mu.Unlock()

	g.log.Debug("pass", zap.Stringer("player", player))
	g.afterMove(move, boardStateCopy)
	return nil
}

// apply plays pit for the side to move and refreshes the snapshot.
// Must be called while holding the lock.
func (g *LocalEngine) apply(pit int) (types.Move, error) {
	player := g.board.Turn()
	extra, err := g.board.Play(pit)
	if err != nil {
		return types.Move{}, err
	}
	g.hints.Invalidate()
	move := types.Move{Player: engine.PlayerNumber(player), Pit: pit, Extra: extra}
	g.record(move)
	g.log.Debug("move",
		zap.Stringer("player", player),
		zap.Int("pit", pit),
		zap.Bool("extra", extra),
		zap.Int("store", g.board.Store(player)))
	return move, nil
}

// record rebuilds the snapshot after move. Must be called while holding the lock.
func (g *LocalEngine) record(move types.Move) {
	moveNumber := g.boardState.MoveNumber + 1
	g.boardState = engine.Snapshot(&g.board)
	g.boardState.MoveNumber = moveNumber
	g.boardState.LastMove = move
	g.gameOver = g.board.Finished()
}

// afterMove notifies listeners and keeps the game going. Called without the lock.
func (g *LocalEngine) afterMove(move types.Move, boardState *types.BoardState) {
	// Notify callback (outside lock to prevent deadlock)
	if g.moveCallback != nil {
		g.moveCallback(move, boardState)
	}

	if boardState.Finished() {
		g.handleGameEnd(boardState.Outcome)
		return
	}

	g.mu.Lock()
	aiTurn := g.config.IsAI(g.board.Turn())
	g.mu.Unlock()
	if aiTurn {
		go g.triggerEngineMove()
	}
}

// triggerEngineMove searches for the AI side to move and plays the result.
func (g *LocalEngine) triggerEngineMove() {
	g.mu.Lock()
	if g.gameOver || !g.config.IsAI(g.board.Turn()) {
		g.mu.Unlock()
		return
	}
	ticket := g.ai.Start(g.ctx, g.board)
	g.mu.Unlock()

	out := <-ticket.Done

	g.mu.Lock()
	if !g.ai.Current(ticket) {
		g.mu.Unlock()
		g.log.Debug("discarding stale search", zap.Stringer("id", out.ID))
		return
	}
	if out.Err != nil {
		g.mu.Unlock()
		g.log.Error("engine search failed", zap.Error(out.Err))
		return
	}
	move, err := g.apply(out.Result.Pit)
	if err != nil {
		g.mu.Unlock()
		g.log.Error("engine chose an illegal move", zap.Int("pit", out.Result.Pit), zap.Error(err))
		return
	}
	boardStateCopy := g.boardState.Copy()
	g.mu.Unlock()

	g.afterMove(move, boardStateCopy)
}

// Hint searches for the best pit of the human side to move.
func (g *LocalEngine) Hint() error {
	g.mu.Lock()
	if g.gameOver {
		g.mu.Unlock()
		return engine.ErrGameOver
	}
	if g.config.IsAI(g.board.Turn()) {
		g.mu.Unlock()
		return engine.ErrNotYourTurn
	}
	ticket := g.hints.Start(g.ctx, g.board)
	g.mu.Unlock()

	go func() {
		out := <-ticket.Done

		g.mu.Lock()
		if !g.hints.Current(ticket) || out.Err != nil {
			g.mu.Unlock()
			return
		}
		g.boardState.Hint = out.Result.Pit
		g.mu.Unlock()

		g.log.Debug("hint", zap.Int("pit", out.Result.Pit), zap.Int("score", out.Result.Score))
		if g.hintCallback != nil {
			g.hintCallback(out.Result.Pit)
		}
	}()
	return nil
}

// handleGameEnd reports the final result.
func (g *LocalEngine) handleGameEnd(outcome string) {
	g.log.Info("game over", zap.String("outcome", outcome))

	// Notify callback (outside lock)
	if g.endCallback != nil {
		g.endCallback(outcome)
	}
}

// IsMyTurn returns true if a human controls the side to move.
func (g *LocalEngine) IsMyTurn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.gameOver && !g.config.IsAI(g.board.Turn())
}

// OnMove registers a callback for when a move is played.
func (g *LocalEngine) OnMove(callback func(move types.Move, boardState *types.BoardState)) {
	g.moveCallback = callback
}

// OnHint registers a callback for when a hint is ready.
func (g *LocalEngine) OnHint(callback func(pit int)) {
	g.hintCallback = callback
}

// OnGameEnd registers a callback for when the game ends.
func (g *LocalEngine) OnGameEnd(callback func(outcome string)) {
	g.endCallback = callback
}

// NewGame starts over with cfg. Searches still running for the old game are
// cancelled and their results dropped.
func (g *LocalEngine) NewGame(cfg engine.GameConfig) error {
	g.mu.Lock()
	if err := g.reset(cfg); err != nil {
		g.mu.Unlock()
		return err
	}
	aiFirst := g.config.IsAI(g.board.Turn())
	boardStateCopy := g.boardState.Copy()
	g.mu.Unlock()

	if g.moveCallback != nil {
		g.moveCallback(boardStateCopy.LastMove, boardStateCopy)
	}
	if boardStateCopy.Finished() {
		g.handleGameEnd(boardStateCopy.Outcome)
		return nil
	}
	if aiFirst {
		go g.triggerEngineMove()
	}
	return nil
}

// Close stops every search.
func (g *LocalEngine) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gameOver = true
	g.ai.Invalidate()
	g.hints.Invalidate()
	g.cancel()
}
