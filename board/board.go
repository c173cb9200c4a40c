// Package board holds the Kalah board model and its sowing rules.
//
// The board is a single ring of cells:
//
//	[bottom pits 0..n-1][player one store][top pits n+1..2n][player two store]
//
// Cells are kept in a fixed-size array so that copying a Board value copies
// the whole position. The search relies on that to branch without sharing state.
package board

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxBowls is the largest number of pits per side a board can hold.
	MaxBowls = 16
	// MaxCells is the ring size for MaxBowls.
	MaxCells = 2*MaxBowls + 2
)

var (
	ErrInvalidConfig = errors.New("invalid board config")
	ErrPitOutOfRange = errors.New("pit out of range")
	ErrEmptyPit      = errors.New("pit is empty")
)

// Player identifies a side of the board.
type Player int8

const (
	PlayerOne Player = iota // bottom row, store at index n
	PlayerTwo               // top row, store at index 2n+1
)

// Other returns the opposing player.
func (p Player) Other() Player {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (p Player) String() string {
	if p == PlayerOne {
		return "Player 1"
	}
	return "Player 2"
}

// Rules toggles the optional rules of the game.
type Rules struct {
	ExtraTurn bool `json:"extra_turn" mapstructure:"extra_turn"` // landing in your own store grants another move
	Capture   bool `json:"capture" mapstructure:"capture"`       // landing in an empty pit takes it and the pit across
	Collect   bool `json:"collect" mapstructure:"collect"`       // an empty side ends the game, the other side is swept into its store
}

// ClassicRules returns the usual Kalah rules: extra turns and captures.
func ClassicRules() Rules {
	return Rules{ExtraTurn: true, Capture: true}
}

// Config describes a board at construction time.
type Config struct {
	Bowls int   // pits per side
	Seeds int   // beads per pit at the start
	Depth int   // AI look-ahead in plies
	Rules Rules // optional rules
}

// DefaultConfig is a 6 pit, 4 seed board with classic rules.
func DefaultConfig() Config {
	return Config{Bowls: 6, Seeds: 4, Depth: 6, Rules: ClassicRules()}
}

// Validate checks that a board can be built from c.
func (c Config) Validate() error {
	if c.Bowls < 1 || c.Bowls > MaxBowls {
		return fmt.Errorf("%w: bowls must be between 1 and %d, got %d", ErrInvalidConfig, MaxBowls, c.Bowls)
	}
	if c.Seeds < 0 {
		return fmt.Errorf("%w: seeds must not be negative, got %d", ErrInvalidConfig, c.Seeds)
	}
	if c.Depth < 0 {
		return fmt.Errorf("%w: depth must not be negative, got %d", ErrInvalidConfig, c.Depth)
	}
	return nil
}

// Cell is a pit or a store. Across is -1 for stores.
type Cell struct {
	Count  int
	Next   int
	Across int
}

// Perspective names the cells that matter to one player.
type Perspective struct {
	OwnStart int
	OwnStore int
	OppStart int
	OppStore int
}

// Board is a Kalah position. The zero value is not usable; build one with New.
type Board struct {
	bowls int
	seeds int
	depth int
	rules Rules
	turn  Player
	cells [MaxCells]Cell
}

// New builds the starting position for cfg with player one to move.
func New(cfg Config) (Board, error) {
	if err := cfg.Validate(); err != nil {
		return Board{}, err
	}
	b := Board{
		bowls: cfg.Bowls,
		seeds: cfg.Seeds,
		depth: cfg.Depth,
		rules: cfg.Rules,
		turn:  PlayerOne,
	}
	n := cfg.Bowls
	size := b.size()
	for i := 0; i < size; i++ {
		b.cells[i].Next = (i + 1) % size
		if i == n || i == 2*n+1 {
			b.cells[i].Across = -1
			continue
		}
		b.cells[i].Across = 2*n - i
		b.cells[i].Count = cfg.Seeds
	}
	return b, nil
}

// FromCounts builds an arbitrary position. pits1 and pits2 list each player's
// pits in sowing order, which means pit 0 first.
func FromCounts(cfg Config, pits1, pits2 []int, store1, store2 int, turn Player) (Board, error) {
	b, err := New(cfg)
	if err != nil {
		return Board{}, err
	}
	if len(pits1) != cfg.Bowls || len(pits2) != cfg.Bowls {
		return Board{}, fmt.Errorf("%w: expected %d pits per side, got %d and %d",
			ErrInvalidConfig, cfg.Bowls, len(pits1), len(pits2))
	}
	if store1 < 0 || store2 < 0 {
		return Board{}, fmt.Errorf("%w: negative store count", ErrInvalidConfig)
	}
	one, two := b.Perspective(PlayerOne), b.Perspective(PlayerTwo)
	for i := 0; i < cfg.Bowls; i++ {
		if pits1[i] < 0 || pits2[i] < 0 {
			return Board{}, fmt.Errorf("%w: negative pit count", ErrInvalidConfig)
		}
		b.cells[one.OwnStart+i].Count = pits1[i]
		b.cells[two.OwnStart+i].Count = pits2[i]
	}
	b.cells[one.OwnStore].Count = store1
	b.cells[two.OwnStore].Count = store2
	b.turn = turn
	return b, nil
}

func (b *Board) size() int { return 2*b.bowls + 2 }

func (b *Board) Bowls() int   { return b.bowls }
func (b *Board) Seeds() int   { return b.seeds }
func (b *Board) Depth() int   { return b.depth }
func (b *Board) Rules() Rules { return b.rules }

// Turn returns the side to move.
func (b *Board) Turn() Player { return b.turn }

// Config returns the configuration the board was built from.
func (b *Board) Config() Config {
	return Config{Bowls: b.bowls, Seeds: b.seeds, Depth: b.depth, Rules: b.rules}
}

// Perspective returns the start and store indexes for p and its opponent.
func (b *Board) Perspective(p Player) Perspective {
	n := b.bowls
	if p == PlayerOne {
		return Perspective{OwnStart: 0, OwnStore: n, OppStart: n + 1, OppStore: 2*n + 1}
	}
	return Perspective{OwnStart: n + 1, OwnStore: 2*n + 1, OppStart: 0, OppStore: n}
}

// Cells returns the number of cells in the ring.
func (b *Board) Cells() int { return b.size() }

// Cell returns the cell at absolute index i.
func (b *Board) Cell(i int) Cell { return b.cells[i] }

// Pit returns the bead count of pit i of player p.
func (b *Board) Pit(p Player, i int) int {
	return b.cells[b.Perspective(p).OwnStart+i].Count
}

// Store returns the bead count of p's store.
func (b *Board) Store(p Player) int {
	return b.cells[b.Perspective(p).OwnStore].Count
}

// SideCount returns the beads left in p's pits.
func (b *Board) SideCount(p Player) int {
	start := b.Perspective(p).OwnStart
	sum := 0
	for i := start; i < start+b.bowls; i++ {
		sum += b.cells[i].Count
	}
	return sum
}

// Total returns the number of beads on the board, stores included.
func (b *Board) Total() int {
	sum := 0
	for i := 0; i < b.size(); i++ {
		sum += b.cells[i].Count
	}
	return sum
}

// Legal reports whether the side to move may play pit.
func (b *Board) Legal(pit int) bool {
	if pit < 0 || pit >= b.bowls {
		return false
	}
	return b.cells[b.Perspective(b.turn).OwnStart+pit].Count > 0
}

// LegalMoves lists the playable pits of the side to move in increasing order.
func (b *Board) LegalMoves() []int {
	moves := make([]int, 0, b.bowls)
	for i := 0; i < b.bowls; i++ {
		if b.Legal(i) {
			moves = append(moves, i)
		}
	}
	return moves
}

// Move sows pit for the side to move and reports whether it earned an extra
// turn. A rejected move leaves the board untouched. Move never changes the side
// to move. Callers call SwapSides when no extra turn was earned, or use Play.
func (b *Board) Move(pit int) (bool, error) {
	if pit < 0 || pit >= b.bowls {
		return false, fmt.Errorf("%w: %d not in [0, %d)", ErrPitOutOfRange, pit, b.bowls)
	}
	pv := b.Perspective(b.turn)
	curr := pv.OwnStart + pit
	hand := b.cells[curr].Count
	if hand == 0 {
		return false, fmt.Errorf("%w: %d", ErrEmptyPit, pit)
	}
	b.cells[curr].Count = 0

	for ; hand > 0; hand-- {
		curr = b.cells[curr].Next
		if curr == pv.OppStore {
			curr = b.cells[curr].Next
		}
		b.cells[curr].Count++
	}

	extra := false
	if b.rules.ExtraTurn && curr == pv.OwnStore {
		extra = true
	} else if b.rules.Capture {
		landing := &b.cells[curr]
		if landing.Across >= 0 && landing.Count == 1 && b.cells[landing.Across].Count > 0 {
			across := &b.cells[landing.Across]
			b.cells[pv.OwnStore].Count += landing.Count + across.Count
			landing.Count = 0
			across.Count = 0
		}
	}

	if b.rules.Collect {
		b.collect()
	}
	return extra, nil
}

// collect sweeps the pits of the non-empty side into its own store once the
// other side has run dry.
func (b *Board) collect() {
	one, two := b.SideCount(PlayerOne), b.SideCount(PlayerTwo)
	switch {
	case one == 0 && two != 0:
		b.sweep(PlayerTwo)
	case two == 0 && one != 0:
		b.sweep(PlayerOne)
	}
}

func (b *Board) sweep(p Player) {
	pv := b.Perspective(p)
	for i := pv.OwnStart; i < pv.OwnStart+b.bowls; i++ {
		b.cells[pv.OwnStore].Count += b.cells[i].Count
		b.cells[i].Count = 0
	}
}

// Play applies Move and hands the turn over unless an extra turn was earned.
func (b *Board) Play(pit int) (bool, error) {
	extra, err := b.Move(pit)
	if err != nil {
		return false, err
	}
	if !extra {
		b.SwapSides()
	}
	return extra, nil
}

// SwapSides gives the move to the other player.
func (b *Board) SwapSides() {
	b.turn = b.turn.Other()
}

// Finished reports whether either side has no beads left in its pits.
func (b *Board) Finished() bool {
	return b.SideCount(PlayerOne) == 0 || b.SideCount(PlayerTwo) == 0
}

// Evaluate scores the position for p as the store difference. With the collect
// rule the beads still in pits are subtracted as well, assuming the opponent
// ends up with them.
func (b *Board) Evaluate(p Player) int {
	score := b.Store(p) - b.Store(p.Other())
	if b.rules.Collect {
		score -= b.SideCount(PlayerOne) + b.SideCount(PlayerTwo)
	}
	return score
}

// Winner compares the stores. ok is false while the game is still running.
// A tie is reported with tie set and winner left as PlayerOne.
func (b *Board) Winner() (winner Player, margin int, tie bool, ok bool) {
	if !b.Finished() {
		return PlayerOne, 0, false, false
	}
	one, two := b.Store(PlayerOne), b.Store(PlayerTwo)
	switch {
	case one > two:
		return PlayerOne, one - two, false, true
	case two > one:
		return PlayerTwo, two - one, false, true
	}
	return PlayerOne, 0, true, true
}

// String draws player two's pits right to left above player one's pits, with
// the stores on the ends.
func (b *Board) String() string {
	var sb strings.Builder
	n := b.bowls
	sb.WriteString("   ")
	for i := n - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%3d", b.Pit(PlayerTwo, i))
	}
	fmt.Fprintf(&sb, "\n%3d", b.Store(PlayerTwo))
	sb.WriteString(strings.Repeat("   ", n))
	fmt.Fprintf(&sb, "%3d\n   ", b.Store(PlayerOne))
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%3d", b.Pit(PlayerOne, i))
	}
	fmt.Fprintf(&sb, "\n%s to move", b.turn)
	return sb.String()
}
