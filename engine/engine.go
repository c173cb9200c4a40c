// Package engine defines the interface for game engines.
package engine

import (
	"errors"
	"fmt"

	"mancala-local/board"
	"mancala-local/types"
)

var (
	ErrNotYourTurn = errors.New("not your turn")
	ErrGameOver    = errors.New("game is over")
)

// FatalityMargin is the winning margin that earns a FATALITY.
const FatalityMargin = 10

// GameEngine defines the interface for playing Kalah against the computer.
type GameEngine interface {
	// Connect sets up the board and starts the AI if it moves first.
	Connect() error

	// GetBoardState returns the current board state.
	GetBoardState() *types.BoardState

	// PlayMove sows the given pit for the side to move.
	// Returns an error if the move is illegal.
	PlayMove(pit int) error

	// Pass hands the move to the other side without sowing.
	Pass() error

	// Hint starts a search for the side to move. The answer arrives through OnHint.
	Hint() error

	// IsMyTurn returns true if a human controls the side to move.
	IsMyTurn() bool

	// OnMove registers a callback for when a move is played (by either player).
	// boardState is passed directly to avoid lock contention.
	OnMove(func(move types.Move, boardState *types.BoardState))

	// OnHint registers a callback for when a hint is ready.
	OnHint(func(pit int))

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(outcome string))

	// NewGame discards the current game and starts over with cfg.
	NewGame(cfg GameConfig) error

	// Close shuts down the engine.
	Close()
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	Bowls int         // pits per side, 1-16
	Seeds int         // beads per pit
	Depth int         // AI look-ahead in plies
	Rules board.Rules // optional rules
	AI    [2]bool     // AI[0] plays player one, AI[1] player two
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	bc := board.DefaultConfig()
	return GameConfig{
		Bowls: bc.Bowls,
		Seeds: bc.Seeds,
		Depth: bc.Depth,
		Rules: bc.Rules,
		AI:    [2]bool{false, true}, // Human plays first
	}
}

// BoardConfig returns the board part of c.
func (c GameConfig) BoardConfig() board.Config {
	return board.Config{Bowls: c.Bowls, Seeds: c.Seeds, Depth: c.Depth, Rules: c.Rules}
}

// IsAI reports whether p is played by the computer.
func (c GameConfig) IsAI(p board.Player) bool {
	return c.AI[p]
}

// Outcome describes a finished game, e.g. "Player 2 wins by 12\nFATALITY".
// It returns "" while the game is still running.
func Outcome(b *board.Board) string {
	winner, margin, tie, ok := b.Winner()
	if !ok {
		return ""
	}
	if tie {
		return "Tie"
	}
	msg := fmt.Sprintf("%s wins by %d", winner, margin)
	if margin >= FatalityMargin {
		msg += "\nFATALITY"
	}
	return msg
}

// Snapshot converts b to a BoardState. Outcome and phase are filled in when b
// is finished.
func Snapshot(b *board.Board) *types.BoardState {
	s := types.NewBoardState(b.Bowls())
	for i := 0; i < b.Bowls(); i++ {
		s.Pits[0][i] = b.Pit(board.PlayerOne, i)
		s.Pits[1][i] = b.Pit(board.PlayerTwo, i)
	}
	s.Stores = [2]int{b.Store(board.PlayerOne), b.Store(board.PlayerTwo)}
	s.PlayerToMove = PlayerNumber(b.Turn())
	if b.Finished() {
		s.Phase = types.PhaseFinished
		s.Outcome = Outcome(b)
	}
	return s
}

// PlayerNumber converts p to the 1-based number used in BoardState.
func PlayerNumber(p board.Player) int {
	return int(p) + 1
}
