// Package textmode plays Kalah over a plain character stream.
//
// Keys: a hex digit plays that pit of the side to move, s or S passes, q or Q
// quits. Whitespace is ignored.
package textmode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"

	"mancala-local/board"
	"mancala-local/engine"
	"mancala-local/engine/local"
	"mancala-local/search"
)

// Options tweaks the session.
type Options struct {
	Color bool        // use ANSI colors
	Log   *zap.Logger // may be nil
}

// Result is how a session ended.
type Result struct {
	Board   board.Board
	Quit    bool   // the player quit or the input ran out
	Outcome string // set when the game finished
}

type session struct {
	au  aurora.Aurora
	out io.Writer
	in  *bufio.Reader
	log *zap.Logger
	cfg engine.GameConfig
	s   *search.Searcher
}

// Run plays one game. Sides marked in cfg.AI are played by s, the others read
// keys from in. The board and prompts go to out.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg engine.GameConfig, s *search.Searcher, opts Options) (Result, error) {
	b, err := board.New(cfg.BoardConfig())
	if err != nil {
		return Result{}, err
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	ss := &session{
		au:  aurora.NewAurora(opts.Color),
		out: out,
		in:  bufio.NewReader(in),
		log: log,
		cfg: cfg,
		s:   s,
	}
	return ss.play(ctx, b)
}

func (ss *session) play(ctx context.Context, b board.Board) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Result{Board: b}, err
		}
		if b.Finished() {
			outcome := engine.Outcome(&b)
			ss.printf("%s\n%s %s\n", ss.render(&b), ss.au.Bold("Game over:"), strings.ReplaceAll(outcome, "\n", " "))
			return Result{Board: b, Outcome: outcome}, nil
		}

		player := b.Turn()
		if ss.cfg.IsAI(player) {
			res, err := ss.s.Search(ctx, b)
			if err != nil {
				return Result{Board: b}, fmt.Errorf("search failed: %w", err)
			}
			extra, err := b.Play(res.Pit)
			if err != nil {
				return Result{Board: b}, fmt.Errorf("search chose pit %d: %w", res.Pit, err)
			}
			ss.announce(player, res.Pit, extra)
			continue
		}

		ss.printf("%s\n", ss.render(&b))
		if res, err := ss.s.Search(ctx, b); err == nil {
			ss.printf("Suggested move: %s\n", ss.au.Green(string(local.PitKey(res.Pit))))
		} else if !errors.Is(err, search.ErrGameFinished) {
			return Result{Board: b}, fmt.Errorf("search failed: %w", err)
		}
		ss.printf("%s> ", player)

		quit, err := ss.turn(&b)
		if err != nil {
			return Result{Board: b}, err
		}
		if quit {
			ss.printf("\n")
			return Result{Board: b, Quit: true}, nil
		}
	}
}

// turn reads keys until the human side has moved, passed or quit.
func (ss *session) turn(b *board.Board) (quit bool, err error) {
	player := b.Turn()
	for {
		r, _, err := ss.in.ReadRune()
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to read input: %w", err)
		}

		switch {
		case r == 'q' || r == 'Q':
			return true, nil
		case r == 's' || r == 'S':
			b.SwapSides()
			ss.printf("%s passes\n", player)
			ss.log.Debug("pass", zap.Stringer("player", player))
			return false, nil
		case unicode.IsSpace(r):
			continue
		}

		pit, ok := local.KeyToPit(unicode.ToLower(r))
		if !ok {
			ss.printf("%s\n", ss.au.Red(fmt.Sprintf("unknown key %q", r)))
			continue
		}
		extra, err := b.Play(pit)
		if err != nil {
			ss.printf("%s\n", ss.au.Red(fmt.Sprintf("illegal move: %v", err)))
			continue
		}
		ss.announce(player, pit, extra)
		return false, nil
	}
}

func (ss *session) announce(player board.Player, pit int, extra bool) {
	msg := fmt.Sprintf("%s plays %c", player, local.PitKey(pit))
	if extra {
		msg += ", extra turn"
	}
	ss.printf("%s\n", msg)
	ss.log.Debug("move", zap.Stringer("player", player), zap.Int("pit", pit), zap.Bool("extra", extra))
}

func (ss *session) printf(format string, args ...interface{}) {
	fmt.Fprintf(ss.out, format, args...)
}

// render draws player two's pits right to left on top, player one's below,
// and the keys of the side to move next to its row.
func (ss *session) render(b *board.Board) string {
	n := b.Bowls()
	turn := b.Turn()
	indent := strings.Repeat(" ", 5)

	keys := func(p board.Player) string {
		var sb strings.Builder
		sb.WriteString(indent)
		for i := 0; i < n; i++ {
			pit := i
			if p == board.PlayerTwo {
				pit = n - 1 - i
			}
			fmt.Fprintf(&sb, "  %c ", local.PitKey(pit))
		}
		return ss.au.Faint(strings.TrimRight(sb.String(), " ")).String() + "\n"
	}
	row := func(p board.Player) string {
		var sb strings.Builder
		sb.WriteString(indent)
		for i := 0; i < n; i++ {
			pit := i
			if p == board.PlayerTwo {
				pit = n - 1 - i
			}
			cell := fmt.Sprintf("(%2d)", b.Pit(p, pit))
			if p == turn {
				sb.WriteString(ss.au.Cyan(cell).String())
			} else {
				sb.WriteString(cell)
			}
		}
		return sb.String() + "\n"
	}
	store := func(p board.Player) string {
		return ss.au.Yellow(fmt.Sprintf("[%2d]", b.Store(p))).String()
	}

	var sb strings.Builder
	if turn == board.PlayerTwo {
		sb.WriteString(keys(board.PlayerTwo))
	}
	sb.WriteString(row(board.PlayerTwo))
	sb.WriteString(store(board.PlayerTwo) + " " + strings.Repeat(" ", 4*n) + store(board.PlayerOne) + "\n")
	sb.WriteString(row(board.PlayerOne))
	if turn == board.PlayerOne {
		sb.WriteString(keys(board.PlayerOne))
	}
	fmt.Fprintf(&sb, "%s to move", ss.au.Bold(turn.String()))
	return sb.String()
}
