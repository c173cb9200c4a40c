package board

import (
	"errors"
	"math/rand"
	"testing"
)

func mustNew(t *testing.T, cfg Config) Board {
	t.Helper()
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	return b
}

func mustCounts(t *testing.T, cfg Config, pits1, pits2 []int, store1, store2 int, turn Player) Board {
	t.Helper()
	b, err := FromCounts(cfg, pits1, pits2, store1, store2, turn)
	if err != nil {
		t.Fatalf("FromCounts: %v", err)
	}
	return b
}

func allRules() []Rules {
	var out []Rules
	for mask := 0; mask < 8; mask++ {
		out = append(out, Rules{
			ExtraTurn: mask&1 != 0,
			Capture:   mask&2 != 0,
			Collect:   mask&4 != 0,
		})
	}
	return out
}

func TestNewLayout(t *testing.T) {
	b := mustNew(t, Config{Bowls: 6, Seeds: 4, Rules: ClassicRules()})

	if b.Cells() != 14 {
		t.Fatalf("Cells = %d, want 14", b.Cells())
	}
	stores := 0
	for i := 0; i < b.Cells(); i++ {
		c := b.Cell(i)
		if c.Across == -1 {
			stores++
			if c.Count != 0 {
				t.Errorf("store %d starts with %d beads", i, c.Count)
			}
			continue
		}
		if c.Count != 4 {
			t.Errorf("pit %d = %d, want 4", i, c.Count)
		}
		if back := b.Cell(c.Across).Across; back != i {
			t.Errorf("across(across(%d)) = %d", i, back)
		}
	}
	if stores != 2 {
		t.Errorf("stores = %d, want 2", stores)
	}

	// Next must visit every cell exactly once before returning to 0.
	seen := make(map[int]bool)
	i := 0
	for step := 0; step < b.Cells(); step++ {
		if seen[i] {
			t.Fatalf("cell %d visited twice", i)
		}
		seen[i] = true
		i = b.Cell(i).Next
	}
	if i != 0 || len(seen) != b.Cells() {
		t.Errorf("next is not a single cycle: ended at %d after visiting %d cells", i, len(seen))
	}

	one := b.Perspective(PlayerOne)
	if one.OwnStart != 0 || one.OwnStore != 6 || one.OppStart != 7 || one.OppStore != 13 {
		t.Errorf("Perspective(PlayerOne) = %+v", one)
	}
	two := b.Perspective(PlayerTwo)
	if two.OwnStart != 7 || two.OwnStore != 13 || two.OppStart != 0 || two.OppStore != 6 {
		t.Errorf("Perspective(PlayerTwo) = %+v", two)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cases := []Config{
		{Bowls: 0, Seeds: 4},
		{Bowls: MaxBowls + 1, Seeds: 4},
		{Bowls: 6, Seeds: -1},
		{Bowls: 6, Seeds: 4, Depth: -2},
	}
	for _, cfg := range cases {
		if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("New(%+v) error = %v, want ErrInvalidConfig", cfg, err)
		}
	}
}

func TestExampleScenario(t *testing.T) {
	b := mustNew(t, Config{Bowls: 6, Seeds: 4, Rules: ClassicRules()})

	if got := b.Evaluate(PlayerOne); got != 0 {
		t.Errorf("initial Evaluate = %d, want 0", got)
	}
	extra, err := b.Move(2)
	if err != nil {
		t.Fatalf("Move(2): %v", err)
	}
	if !extra {
		t.Error("Move(2) should earn an extra turn")
	}
	if got := b.Store(PlayerOne); got != 1 {
		t.Errorf("store = %d, want 1", got)
	}
	if b.Turn() != PlayerOne {
		t.Errorf("Move must not change the side to move")
	}
}

func TestMoveRejectedLeavesBoardUnchanged(t *testing.T) {
	b := mustCounts(t, Config{Bowls: 4, Rules: ClassicRules()},
		[]int{0, 2, 1, 3}, []int{1, 1, 1, 1}, 2, 3, PlayerOne)

	cases := []struct {
		pit  int
		want error
	}{
		{-1, ErrPitOutOfRange},
		{4, ErrPitOutOfRange},
		{0, ErrEmptyPit},
	}
	for _, c := range cases {
		before := b
		extra, err := b.Move(c.pit)
		if !errors.Is(err, c.want) {
			t.Errorf("Move(%d) error = %v, want %v", c.pit, err, c.want)
		}
		if extra {
			t.Errorf("Move(%d) reported an extra turn", c.pit)
		}
		if b != before {
			t.Errorf("Move(%d) changed the board:\n%s\nwas\n%s", c.pit, b.String(), before.String())
		}
	}
}

func TestMoveSkipsOpponentStore(t *testing.T) {
	// Two pits per side: 0 1 [2] 3 4 [5]. Pit 1 with 5 beads goes
	// 2, 3, 4, (skip 5), 0, 1.
	b := mustCounts(t, Config{Bowls: 2}, []int{0, 5}, []int{0, 0}, 0, 7, PlayerOne)
	if _, err := b.Move(1); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := b.Store(PlayerTwo); got != 7 {
		t.Errorf("opponent store = %d, want 7", got)
	}
	want := []int{1, 1}
	for i, w := range want {
		if got := b.Pit(PlayerOne, i); got != w {
			t.Errorf("pit %d = %d, want %d", i, got, w)
		}
	}
	if got := b.Store(PlayerOne); got != 1 {
		t.Errorf("own store = %d, want 1", got)
	}
	if got := b.Pit(PlayerTwo, 0) + b.Pit(PlayerTwo, 1); got != 2 {
		t.Errorf("opponent pits = %d, want 2", got)
	}
}

func TestExtraTurnSkipsCapture(t *testing.T) {
	// Pit 1 reaches the store exactly. The store ends with a single bead, which
	// must not be mistaken for a capture landing.
	b := mustCounts(t, Config{Bowls: 3, Rules: ClassicRules()},
		[]int{1, 2, 1}, []int{5, 5, 5}, 0, 0, PlayerOne)
	extra, err := b.Move(1)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !extra {
		t.Fatal("expected extra turn")
	}
	if got := b.Store(PlayerOne); got != 1 {
		t.Errorf("store = %d, want 1", got)
	}
	if got := b.SideCount(PlayerTwo); got != 15 {
		t.Errorf("opponent side = %d, want 15", got)
	}
}

func TestExtraTurnDisabled(t *testing.T) {
	b := mustCounts(t, Config{Bowls: 3, Rules: Rules{Capture: true}},
		[]int{0, 0, 1}, []int{2, 2, 2}, 0, 0, PlayerOne)
	extra, err := b.Move(2)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if extra {
		t.Error("extra turn granted with the rule disabled")
	}
}

func TestCapture(t *testing.T) {
	// Pit 0 holds 2 beads and lands in empty pit 2. Pit 2 sits across from
	// player two's pit 0 (cell 2n-2 = 4, the first top pit).
	b := mustCounts(t, Config{Bowls: 3, Rules: ClassicRules()},
		[]int{2, 1, 0}, []int{6, 1, 1}, 0, 0, PlayerOne)
	acrossCell := b.Cell(2).Across
	original := b.Cell(acrossCell).Count
	storeBefore := b.Store(PlayerOne)

	extra, err := b.Move(0)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if extra {
		t.Error("unexpected extra turn")
	}
	if got := b.Pit(PlayerOne, 2); got != 0 {
		t.Errorf("landing pit = %d, want 0", got)
	}
	if got := b.Cell(acrossCell).Count; got != 0 {
		t.Errorf("across pit = %d, want 0", got)
	}
	if got, want := b.Store(PlayerOne), storeBefore+1+original; got != want {
		t.Errorf("store = %d, want %d", got, want)
	}
}

func TestNoCaptureWhenAcrossEmpty(t *testing.T) {
	b := mustCounts(t, Config{Bowls: 3, Rules: ClassicRules()},
		[]int{1, 0, 0}, []int{1, 0, 1}, 0, 0, PlayerOne)
	// Pit 1 sits across from cell 5, player two's pit 1, which is empty.
	if _, err := b.Move(0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := b.Pit(PlayerOne, 1); got != 1 {
		t.Errorf("landing pit = %d, want 1", got)
	}
	if got := b.Store(PlayerOne); got != 0 {
		t.Errorf("store = %d, want 0", got)
	}
}

func TestCaptureDisabled(t *testing.T) {
	b := mustCounts(t, Config{Bowls: 3, Rules: Rules{ExtraTurn: true}},
		[]int{2, 1, 0}, []int{6, 1, 1}, 0, 0, PlayerOne)
	if _, err := b.Move(0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := b.Pit(PlayerOne, 2); got != 1 {
		t.Errorf("landing pit = %d, want 1", got)
	}
	if got := b.Store(PlayerOne); got != 0 {
		t.Errorf("store = %d, want 0", got)
	}
}

func TestCaptureForPlayerTwo(t *testing.T) {
	b := mustCounts(t, Config{Bowls: 3, Rules: ClassicRules()},
		[]int{3, 4, 5}, []int{1, 0, 2}, 0, 0, PlayerTwo)
	// Player two's pit 0 is cell 4 and lands on cell 5 (pit 1), across cell 1.
	if _, err := b.Move(0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := b.Store(PlayerTwo); got != 5 {
		t.Errorf("store = %d, want 5", got)
	}
	if got := b.Pit(PlayerOne, 1); got != 0 {
		t.Errorf("captured pit = %d, want 0", got)
	}
}

func TestCollectSweepsRemainingSide(t *testing.T) {
	b := mustCounts(t, Config{Bowls: 3, Rules: Rules{ExtraTurn: true, Collect: true}},
		[]int{0, 0, 1}, []int{2, 3, 4}, 5, 1, PlayerOne)
	extra, err := b.Move(2)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !extra {
		t.Error("expected extra turn")
	}
	if !b.Finished() {
		t.Fatal("board should be finished")
	}
	if got := b.SideCount(PlayerTwo); got != 0 {
		t.Errorf("player two pits = %d, want 0", got)
	}
	if got := b.Store(PlayerTwo); got != 10 {
		t.Errorf("player two store = %d, want 10", got)
	}
	if got := b.Store(PlayerOne); got != 6 {
		t.Errorf("player one store = %d, want 6", got)
	}
}

func TestFinished(t *testing.T) {
	cases := []struct {
		name         string
		pits1, pits2 []int
		want         bool
	}{
		{"both sides full", []int{1, 2}, []int{3, 4}, false},
		{"bottom empty", []int{0, 0}, []int{9, 4}, true},
		{"top empty", []int{7, 1}, []int{0, 0}, true},
		{"everything empty", []int{0, 0}, []int{0, 0}, true},
	}
	for _, c := range cases {
		b := mustCounts(t, Config{Bowls: 2}, c.pits1, c.pits2, 3, 3, PlayerOne)
		if got := b.Finished(); got != c.want {
			t.Errorf("%s: Finished = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	cfg := Config{Bowls: 2, Rules: ClassicRules()}
	b := mustCounts(t, cfg, []int{1, 2}, []int{3, 0}, 10, 4, PlayerOne)
	if got := b.Evaluate(PlayerOne); got != 6 {
		t.Errorf("Evaluate(PlayerOne) = %d, want 6", got)
	}
	if got := b.Evaluate(PlayerTwo); got != -6 {
		t.Errorf("Evaluate(PlayerTwo) = %d, want -6", got)
	}

	cfg.Rules.Collect = true
	b = mustCounts(t, cfg, []int{1, 2}, []int{3, 0}, 10, 4, PlayerOne)
	if got := b.Evaluate(PlayerOne); got != 0 {
		t.Errorf("collect Evaluate(PlayerOne) = %d, want 0", got)
	}
	if got := b.Evaluate(PlayerTwo); got != -12 {
		t.Errorf("collect Evaluate(PlayerTwo) = %d, want -12", got)
	}
}

func TestConservationUnderRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, rules := range allRules() {
		for game := 0; game < 40; game++ {
			cfg := Config{Bowls: 1 + rng.Intn(8), Seeds: rng.Intn(7), Rules: rules}
			b := mustNew(t, cfg)
			total := b.Total()
			for steps := 0; !b.Finished() && steps < 1000; steps++ {
				moves := b.LegalMoves()
				if len(moves) == 0 {
					t.Fatalf("%+v: no legal moves on unfinished board\n%s", rules, b.String())
				}
				if _, err := b.Play(moves[rng.Intn(len(moves))]); err != nil {
					t.Fatalf("Play: %v", err)
				}
				if got := b.Total(); got != total {
					t.Fatalf("%+v: total = %d, want %d\n%s", rules, got, total, b.String())
				}
				for i := 0; i < b.Cells(); i++ {
					if b.Cell(i).Count < 0 {
						t.Fatalf("cell %d went negative", i)
					}
				}
			}
		}
	}
}

func TestSwapSides(t *testing.T) {
	b := mustNew(t, DefaultConfig())
	before := b
	b.SwapSides()
	if b.Turn() != PlayerTwo {
		t.Errorf("Turn = %v, want PlayerTwo", b.Turn())
	}
	for i := 0; i < b.Cells(); i++ {
		if b.Cell(i) != before.Cell(i) {
			t.Fatalf("SwapSides changed cell %d", i)
		}
	}
	b.SwapSides()
	if b != before {
		t.Error("double SwapSides is not the identity")
	}
}

func TestPlayHandsOverTurn(t *testing.T) {
	b := mustNew(t, Config{Bowls: 6, Seeds: 4, Rules: ClassicRules()})
	if _, err := b.Play(2); err != nil {
		t.Fatal(err)
	}
	if b.Turn() != PlayerOne {
		t.Error("extra turn should keep player one to move")
	}
	if _, err := b.Play(0); err != nil {
		t.Fatal(err)
	}
	if b.Turn() != PlayerTwo {
		t.Error("turn should pass to player two")
	}
	if _, err := b.Play(0); err != nil {
		t.Fatal(err)
	}
	if b.Turn() != PlayerOne {
		t.Error("turn should return to player one")
	}
}

func TestWinner(t *testing.T) {
	b := mustCounts(t, Config{Bowls: 2}, []int{0, 0}, []int{0, 0}, 20, 8, PlayerOne)
	w, margin, tie, ok := b.Winner()
	if !ok || tie || w != PlayerOne || margin != 12 {
		t.Errorf("Winner = %v %d %v %v", w, margin, tie, ok)
	}

	b = mustCounts(t, Config{Bowls: 2}, []int{0, 0}, []int{1, 0}, 4, 4, PlayerOne)
	if _, _, tie, ok = b.Winner(); !ok || !tie {
		t.Errorf("expected tie, got tie=%v ok=%v", tie, ok)
	}

	b = mustNew(t, DefaultConfig())
	if _, _, _, ok = b.Winner(); ok {
		t.Error("running game reported a winner")
	}
}
