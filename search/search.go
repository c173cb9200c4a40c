// Package search picks moves with a fixed-depth alpha-beta search.
package search

import (
	"context"
	"errors"
	"math"
	"sync"

	"go.uber.org/zap"

	"mancala-local/board"
)

const (
	// winScore separates finished games from heuristic scores.
	winScore = 1000
	// pollInterval is how many nodes pass between context checks.
	pollInterval = 1024
	// NotRecommended is the node estimate above which a depth is discouraged.
	NotRecommended = 1e9
)

var ErrGameFinished = errors.New("game is finished")

// Rand is the random source used to break ties. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Result describes one top-level search.
type Result struct {
	Pit    int         // chosen pit, relative to the side to move
	Score  int         // score of the chosen pit
	Best   []int       // every pit that reached Score, in increasing order
	Scores map[int]int // score per legal pit
	Nodes  int         // positions visited
}

// Searcher runs searches. It is safe for concurrent use.
type Searcher struct {
	log *zap.Logger

	mu  sync.Mutex // guards rng
	rng Rand
}

// NewSearcher returns a Searcher breaking ties with rng. A nil rng always
// picks the lowest of the best pits. log may be nil.
func NewSearcher(rng Rand, log *zap.Logger) *Searcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Searcher{rng: rng, log: log}
}

// ChooseMove returns the best pit for the side to move, searching b.Depth()
// plies below each candidate move. rng may be nil, see NewSearcher.
func ChooseMove(b board.Board, rng Rand) (int, error) {
	res, err := NewSearcher(rng, nil).Search(context.Background(), b)
	if err != nil {
		return 0, err
	}
	return res.Pit, nil
}

// AlphaBeta scores b from perspective's point of view, looking depth plies
// ahead. The side to move maximizes when it is perspective and minimizes
// otherwise.
func AlphaBeta(b board.Board, depth int, perspective board.Player, alpha, beta int) int {
	r := run{ctx: context.Background()}
	return r.alphaBeta(&b, depth, perspective, alpha, beta)
}

// Search evaluates every legal move of the side to move with a full window and
// picks uniformly among the best. It returns ctx.Err() if ctx ends first.
//
// Positions are always scored for player one. Player two's root scores are the
// negated values, so a drawn finish that is worth +depth to player one costs
// player two the same amount.
func (s *Searcher) Search(ctx context.Context, b board.Board) (Result, error) {
	if b.Finished() {
		return Result{}, ErrGameFinished
	}
	mover := b.Turn()
	r := run{ctx: ctx}
	res := Result{Scores: make(map[int]int, b.Bowls())}
	best := math.MinInt

	for _, pit := range b.LegalMoves() {
		child := b
		extra, err := child.Move(pit)
		if err != nil {
			return Result{}, err
		}
		if !extra {
			child.SwapSides()
		}
		score := r.alphaBeta(&child, b.Depth(), board.PlayerOne, math.MinInt, math.MaxInt)
		if r.err != nil {
			s.log.Debug("search aborted", zap.Int("nodes", r.nodes), zap.Error(r.err))
			return Result{Nodes: r.nodes}, r.err
		}
		if mover == board.PlayerTwo {
			score = -score
		}
		res.Scores[pit] = score
		switch {
		case score > best:
			best = score
			res.Best = append(res.Best[:0], pit)
		case score == best:
			res.Best = append(res.Best, pit)
		}
	}

	res.Score = best
	res.Nodes = r.nodes
	res.Pit = res.Best[s.intn(len(res.Best))]
	s.log.Debug("search done",
		zap.Stringer("player", mover),
		zap.Int("depth", b.Depth()),
		zap.Int("pit", res.Pit),
		zap.Int("score", res.Score),
		zap.Ints("best", res.Best),
		zap.Int("nodes", res.Nodes))
	return res, nil
}

func (s *Searcher) intn(n int) int {
	if n == 1 || s.rng == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// run carries the state of a single search.
type run struct {
	ctx   context.Context
	nodes int
	err   error
}

func (r *run) alphaBeta(b *board.Board, depth int, perspective board.Player, alpha, beta int) int {
	r.nodes++
	if r.nodes%pollInterval == 0 && r.err == nil {
		r.err = r.ctx.Err()
	}
	if r.err != nil {
		return 0
	}

	if depth == 0 {
		return b.Evaluate(perspective)
	}
	if b.Finished() {
		return terminalScore(b.Evaluate(perspective), depth)
	}

	maximizing := b.Turn() == perspective
	for pit := 0; pit < b.Bowls(); pit++ {
		if !b.Legal(pit) {
			continue
		}
		child := *b
		extra, err := child.Move(pit)
		if err != nil {
			r.err = err
			return 0
		}
		if !extra {
			child.SwapSides()
		}
		score := r.alphaBeta(&child, depth-1, perspective, alpha, beta)
		if maximizing {
			if score >= beta {
				return beta
			}
			if score > alpha {
				alpha = score
			}
		} else {
			if score <= alpha {
				return alpha
			}
			if score < beta {
				beta = score
			}
		}
	}
	if maximizing {
		return alpha
	}
	return beta
}

// terminalScore ranks finished games above any heuristic score. Quicker wins
// and slower losses score higher. A draw scores the remaining depth.
func terminalScore(diff, depth int) int {
	switch {
	case diff == 0:
		return depth
	case diff > 0:
		return winScore + diff + depth
	default:
		return -winScore + diff - depth
	}
}

// EstimateNodes is the worst-case number of positions a search of depth plies
// visits on a board with bowls pits per side.
func EstimateNodes(bowls, depth int) float64 {
	return math.Pow(float64(bowls), float64(depth+1))
}

// TooDeep reports whether EstimateNodes exceeds NotRecommended.
func TooDeep(bowls, depth int) bool {
	return EstimateNodes(bowls, depth) > NotRecommended
}
