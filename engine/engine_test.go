package engine

import (
	"testing"

	"mancala-local/board"
	"mancala-local/types"
)

func finishedBoard(t *testing.T, store1, store2 int) *board.Board {
	t.Helper()
	cfg := board.Config{Bowls: 3, Seeds: 0, Depth: 1, Rules: board.ClassicRules()}
	b, err := board.FromCounts(cfg, []int{0, 0, 0}, []int{0, 1, 0}, store1, store2, board.PlayerOne)
	if err != nil {
		t.Fatal(err)
	}
	return &b
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		store1, store2 int
		want           string
	}{
		{5, 5, "Tie"},
		{8, 3, "Player 1 wins by 5"},
		{2, 7, "Player 2 wins by 5"},
		{14, 4, "Player 1 wins by 10\nFATALITY"},
		{0, 21, "Player 2 wins by 21\nFATALITY"},
	}
	for _, tt := range tests {
		if got := Outcome(finishedBoard(t, tt.store1, tt.store2)); got != tt.want {
			t.Errorf("Outcome(%d, %d) = %q, want %q", tt.store1, tt.store2, got, tt.want)
		}
	}
}

func TestOutcomeWhilePlaying(t *testing.T) {
	b, err := board.New(board.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if got := Outcome(&b); got != "" {
		t.Errorf("Outcome of a running game = %q", got)
	}
}

func TestSnapshot(t *testing.T) {
	cfg := board.Config{Bowls: 3, Seeds: 0, Depth: 1, Rules: board.ClassicRules()}
	b, err := board.FromCounts(cfg, []int{1, 2, 3}, []int{4, 5, 6}, 7, 8, board.PlayerTwo)
	if err != nil {
		t.Fatal(err)
	}
	s := Snapshot(&b)
	if s.Pit(1, 2) != 3 || s.Pit(2, 0) != 4 || s.Store(1) != 7 || s.Store(2) != 8 {
		t.Errorf("snapshot counts wrong: %+v", s)
	}
	if s.PlayerToMove != 2 || s.Phase != types.PhasePlaying || s.Outcome != "" {
		t.Errorf("snapshot state wrong: %+v", s)
	}
	if s.Hint != -1 || s.LastMove.Pit != -1 {
		t.Errorf("snapshot should start without hint or last move: %+v", s)
	}

	s = Snapshot(finishedBoard(t, 3, 2))
	if !s.Finished() || s.Outcome != "Player 1 wins by 1" {
		t.Errorf("finished snapshot = %+v", s)
	}
}

func TestGameConfig(t *testing.T) {
	gc := DefaultConfig()
	if gc.IsAI(board.PlayerOne) || !gc.IsAI(board.PlayerTwo) {
		t.Errorf("default players = %v", gc.AI)
	}
	if gc.BoardConfig() != board.DefaultConfig() {
		t.Errorf("BoardConfig() = %+v", gc.BoardConfig())
	}
}
