// Package arena plays AI-vs-AI matches and tallies the results.
package arena

import (
	"context"
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"mancala-local/board"
	"mancala-local/engine"
	"mancala-local/search"
)

// maxPlies stops a game that somehow never ends.
const maxPlies = 10000

// Tally counts match results.
type Tally struct {
	P1Wins     int
	P2Wins     int
	Ties       int
	Fatalities int // wins by engine.FatalityMargin or more
}

// Games returns the number of games counted.
func (t Tally) Games() int {
	return t.P1Wins + t.P2Wins + t.Ties
}

func (t Tally) String() string {
	return fmt.Sprintf("%d games: player 1 won %d, player 2 won %d, %d ties, %d fatalities",
		t.Games(), t.P1Wins, t.P2Wins, t.Ties, t.Fatalities)
}

// Options controls reporting.
type Options struct {
	Progress io.Writer   // progress bar destination, nil for none
	Log      *zap.Logger // may be nil
}

// Run plays games between two copies of the search. Each side picks its moves
// with rng, so a seeded rng replays the same match.
func Run(ctx context.Context, cfg board.Config, games int, rng search.Rand, opts Options) (Tally, error) {
	var tally Tally
	if err := cfg.Validate(); err != nil {
		return tally, err
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := search.NewSearcher(rng, log.Named("search"))

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = newBar(opts.Progress, games)
		defer bar.Close()
	}

	for i := 0; i < games; i++ {
		b, err := play(ctx, s, cfg)
		if err != nil {
			return tally, fmt.Errorf("game %d: %w", i+1, err)
		}
		winner, margin, tie, _ := b.Winner()
		switch {
		case tie:
			tally.Ties++
		case winner == board.PlayerOne:
			tally.P1Wins++
		default:
			tally.P2Wins++
		}
		if margin >= engine.FatalityMargin {
			tally.Fatalities++
		}
		log.Debug("game finished",
			zap.Int("game", i+1),
			zap.Int("store1", b.Store(board.PlayerOne)),
			zap.Int("store2", b.Store(board.PlayerTwo)))
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}
	log.Info("arena done",
		zap.Int("games", tally.Games()),
		zap.Int("p1_wins", tally.P1Wins),
		zap.Int("p2_wins", tally.P2Wins),
		zap.Int("ties", tally.Ties))
	return tally, nil
}

func play(ctx context.Context, s *search.Searcher, cfg board.Config) (board.Board, error) {
	b, err := board.New(cfg)
	if err != nil {
		return b, err
	}
	for plies := 0; !b.Finished(); plies++ {
		if plies == maxPlies {
			return b, fmt.Errorf("no result after %d plies", maxPlies)
		}
		res, err := s.Search(ctx, b)
		if err != nil {
			return b, err
		}
		if _, err := b.Play(res.Pit); err != nil {
			return b, err
		}
	}
	return b, nil
}

func newBar(w io.Writer, games int) *progressbar.ProgressBar {
	return progressbar.NewOptions(games,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("arena"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        aurora.Yellow("█").String(),
			SaucerHead:    aurora.Yellow("█").String(),
			SaucerPadding: " ",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)
}
