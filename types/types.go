// Package types contains shared data structures for mancala-local.
package types

const (
	PhasePlaying  = "playing"
	PhaseFinished = "finished"
)

// Move identifies a sowing. Pit is -1 before the first move and for a pass.
type Move struct {
	Player int  `json:"player"` // 1 or 2
	Pit    int  `json:"pit"`    // 0-based, relative to Player
	Extra  bool `json:"extra"`  // the move earned another turn
}

// BoardState is a snapshot of a Kalah game.
// Pits[0] holds player one's pits and Pits[1] player two's, both in sowing order.
type BoardState struct {
	MoveNumber   int      `json:"move_number"`
	PlayerToMove int      `json:"player_to_move"` // 1 or 2
	Phase        string   `json:"phase"`          // "playing", "finished"
	Pits         [2][]int `json:"pits"`
	Stores       [2]int   `json:"stores"`
	Outcome      string   `json:"outcome"`
	LastMove     Move     `json:"last_move"`
	Hint         int      `json:"hint"` // suggested pit for the side to move, -1 if none
}

// Finished returns true if the game is over.
func (b *BoardState) Finished() bool {
	return b.Phase == PhaseFinished
}

// Bowls returns the number of pits per side.
func (b *BoardState) Bowls() int {
	return len(b.Pits[0])
}

// Pit returns the count of pit i of player (1 or 2).
func (b *BoardState) Pit(player, i int) int {
	return b.Pits[player-1][i]
}

// Store returns the count of player's store.
func (b *BoardState) Store(player int) int {
	return b.Stores[player-1]
}

// Copy returns a deep copy of b.
func (b *BoardState) Copy() *BoardState {
	c := *b
	for side := range b.Pits {
		c.Pits[side] = append([]int(nil), b.Pits[side]...)
	}
	return &c
}

// NewBoardState creates an empty board with the given number of pits per side.
func NewBoardState(bowls int) *BoardState {
	return &BoardState{
		PlayerToMove: 1,
		Phase:        PhasePlaying,
		Pits:         [2][]int{make([]int, bowls), make([]int, bowls)},
		LastMove:     Move{Pit: -1},
		Hint:         -1,
	}
}
