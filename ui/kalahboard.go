// Package ui specifies custom controls for tview to play Kalah in the terminal.
package ui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"mancala-local/config"
	"mancala-local/engine"
	"mancala-local/engine/local"
	"mancala-local/types"
)

const (
	cellWidth  = 4 // "(12)"
	storeWidth = 5 // "[12] "
	boardRows  = 5 // labels, pits, stores, pits, labels
)

// Style indexes into KalahBoardUI.styles.
const (
	styleBoard = iota
	stylePit
	styleStore
	styleCount
	styleCursorFG
	styleCursorBG
	styleLastPlayed
	styleHint
)

type KalahBoardUI struct {
	Box        *tview.Box
	BoardState *types.BoardState
	hint       *tview.TextView
	cfg        *config.Config
	finished   bool
	sel        int // cursor pit of the side to move, -1 when hidden
	message    string
	app        *tview.Application
	eng        engine.GameEngine
	styles     []tcell.Color
	infoPanel  *GameInfoPanel
	focusMode  bool
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *KalahBoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *KalahBoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

// IsFocusMode returns true if focus mode is enabled.
func (g *KalahBoardUI) IsFocusMode() bool {
	return g.focusMode
}

// SelectedPit returns the pit under the cursor, or -1.
func (g *KalahBoardUI) SelectedPit() int {
	return g.sel
}

// MoveSelection moves the cursor d pits along the row of the side to move.
// Left and right follow the screen, so player two's row runs backwards.
func (g *KalahBoardUI) MoveSelection(d int) {
	if g.BoardState == nil || g.BoardState.Finished() {
		g.ResetSelection()
		return
	}
	n := g.BoardState.Bowls()
	if g.sel == -1 {
		g.sel = g.firstNonEmpty()
		return
	}
	if g.BoardState.PlayerToMove == 2 {
		d = -d
	}
	if g.sel+d < 0 || g.sel+d >= n {
		return
	}
	g.sel += d
}

// SelectPit puts the cursor on pit.
func (g *KalahBoardUI) SelectPit(pit int) {
	if g.BoardState == nil || pit < 0 || pit >= g.BoardState.Bowls() {
		return
	}
	g.sel = pit
}

func (g *KalahBoardUI) firstNonEmpty() int {
	side := g.BoardState.PlayerToMove - 1
	for i, n := range g.BoardState.Pits[side] {
		if n > 0 {
			return i
		}
	}
	return 0
}

func (g *KalahBoardUI) ResetSelection() {
	g.sel = -1
}

func NewKalahBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *KalahBoardUI {
	kb := &KalahBoardUI{
		Box:        tview.NewBox(),
		BoardState: &types.BoardState{},
		hint:       hint,
		app:        app,
		sel:        -1,
	}
	kb.SetConfig(c)
	kb.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		if kb.BoardState == nil || kb.BoardState.Bowls() == 0 {
			return x, y, 1, 1
		}
		w, h := kb.Size()
		// Center the board in the box
		left := x + max(0, (width-w)/2)
		top := y + max(0, (height-h)/2)
		kb.draw(screen, left, top)
		return x, y, width, height
	})
	return kb
}

// Size returns the screen cells the board needs.
func (g *KalahBoardUI) Size() (int, int) {
	return 2*storeWidth + g.BoardState.Bowls()*cellWidth, boardRows
}

func (g *KalahBoardUI) draw(screen tcell.Screen, left, top int) {
	state := g.BoardState
	n := state.Bowls()
	boardStyle := tcell.StyleDefault.Background(g.styles[styleBoard]).Foreground(g.styles[styleCount])
	w, _ := g.Size()
	for row := 0; row < boardRows; row++ {
		for col := 0; col < w; col++ {
			screen.SetContent(left+col, top+row, ' ', nil, boardStyle)
		}
	}

	// Player two's pits run right to left on the top row.
	for i := 0; i < n; i++ {
		col := left + storeWidth + (n-1-i)*cellWidth
		g.drawLabel(screen, col, top, 2, i, boardStyle)
		g.drawPit(screen, col, top+1, 2, i)
	}
	for i := 0; i < n; i++ {
		col := left + storeWidth + i*cellWidth
		g.drawPit(screen, col, top+3, 1, i)
		g.drawLabel(screen, col, top+4, 1, i, boardStyle)
	}

	storeStyle := tcell.StyleDefault.Background(g.styles[styleStore]).Foreground(g.styles[styleCount])
	drawText(screen, left, top+2, fmt.Sprintf("[%2d]", state.Store(2)), storeStyle)
	drawText(screen, left+storeWidth+n*cellWidth+1, top+2, fmt.Sprintf("[%2d]", state.Store(1)), storeStyle)
	screen.Show()
}

func (g *KalahBoardUI) drawPit(screen tcell.Screen, col, row, player, pit int) {
	state := g.BoardState
	theme := g.cfg.Theme
	style := tcell.StyleDefault.Background(g.styles[stylePit]).Foreground(g.styles[styleCount])
	lhs, rhs := theme.Symbols.PitOpen, theme.Symbols.PitClose

	toMove := !state.Finished() && player == state.PlayerToMove
	switch {
	case toMove && pit == g.sel:
		if theme.DrawCursorBackground {
			style = style.Background(g.styles[styleCursorBG]).Foreground(g.styles[styleCursorFG])
		} else {
			lhs, rhs = theme.Symbols.Cursor, theme.Symbols.Cursor
		}
	case toMove && pit == state.Hint:
		if theme.DrawHintBackground {
			style = style.Background(g.styles[styleHint])
		} else {
			lhs, rhs = theme.Symbols.Hint, theme.Symbols.Hint
		}
	case player == state.LastMove.Player && pit == state.LastMove.Pit:
		if theme.DrawLastPlayedBackground {
			style = style.Background(g.styles[styleLastPlayed])
		}
	}

	screen.SetContent(col, row, lhs, nil, style)
	drawText(screen, col+1, row, fmt.Sprintf("%2d", state.Pit(player, pit)), style)
	screen.SetContent(col+3, row, rhs, nil, style)
}

func (g *KalahBoardUI) drawLabel(screen tcell.Screen, col, row, player, pit int, style tcell.Style) {
	if g.BoardState.Finished() || player != g.BoardState.PlayerToMove {
		return
	}
	label := local.PitLabel(pit)
	drawText(screen, col+3-len(label), row, label, style.Bold(pit == g.sel))
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// ConnectEngine connects the board to a game engine.
func (g *KalahBoardUI) ConnectEngine(e engine.GameEngine) error {
	g.finished = false
	g.eng = e
	g.message = ""

	e.OnMove(func(move types.Move, boardState *types.BoardState) {
		g.BoardState = boardState
		g.finished = boardState.Finished()
		g.message = ""
		if g.sel >= 0 {
			g.sel = g.firstNonEmpty()
		}
		g.refreshHint()
		// Spawn goroutine to avoid deadlock when called from main thread
		go func() {
			g.app.QueueUpdateDraw(func() {})
		}()
	})

	e.OnHint(func(pit int) {
		go func() {
			g.app.QueueUpdateDraw(func() {
				g.BoardState = e.GetBoardState()
				g.sel = pit
				g.message = fmt.Sprintf("Hint: pit %s", local.PitLabel(pit))
				g.refreshHint()
			})
		}()
	})

	e.OnGameEnd(func(outcome string) {
		g.finished = true
		g.BoardState = e.GetBoardState()
		g.ResetSelection()
		g.refreshHint()
		go func() {
			g.app.QueueUpdateDraw(func() {})
		}()
	})

	if err := e.Connect(); err != nil {
		return err
	}

	g.BoardState = e.GetBoardState()
	g.finished = g.BoardState.Finished()
	g.refreshHint()
	return nil
}

// PlayMove sows the pit under the cursor.
func (g *KalahBoardUI) PlayMove() {
	if g.finished || g.eng == nil || g.sel < 0 {
		return
	}
	if !g.eng.IsMyTurn() {
		return
	}
	if err := g.eng.PlayMove(g.sel); err != nil {
		g.message = err.Error()
		g.refreshHint()
	}
}

// Pass hands the move to the other side.
func (g *KalahBoardUI) Pass() {
	if g.finished || g.eng == nil || !g.eng.IsMyTurn() {
		return
	}
	if err := g.eng.Pass(); err != nil {
		g.message = err.Error()
		g.refreshHint()
	}
}

// Hint asks the engine for the best pit.
func (g *KalahBoardUI) Hint() {
	if g.finished || g.eng == nil {
		return
	}
	if err := g.eng.Hint(); err != nil {
		if !errors.Is(err, engine.ErrNotYourTurn) {
			g.message = err.Error()
		}
		g.refreshHint()
		return
	}
	g.message = "Thinking about a hint..."
	g.refreshHint()
}

// NewGame restarts with cfg.
func (g *KalahBoardUI) NewGame(cfg engine.GameConfig) error {
	if g.eng == nil {
		return nil
	}
	g.finished = false
	g.ResetSelection()
	return g.eng.NewGame(cfg)
}

// Close disconnects the engine.
func (g *KalahBoardUI) Close() {
	if g.eng == nil {
		return
	}
	g.eng.Close()
}

func (g *KalahBoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),        // styleBoard
		tcell.PaletteColor(c.Theme.Colors.PitColor),          // stylePit
		tcell.PaletteColor(c.Theme.Colors.StoreColor),        // styleStore
		tcell.PaletteColor(c.Theme.Colors.CountColor),        // styleCount
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG),     // styleCursorFG
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG),     // styleCursorBG
		tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG), // styleLastPlayed
		tcell.PaletteColor(c.Theme.Colors.HintColorBG),       // styleHint
	}
	g.cfg = c
}

// SetGameConfig shows the rules of the running game on the info panel.
func (g *KalahBoardUI) SetGameConfig(gc engine.GameConfig) {
	if g.infoPanel != nil {
		g.infoPanel.SetGameConfig(gc)
	}
}

func (g *KalahBoardUI) refreshHint() {
	// Update info panel if available
	if g.infoPanel != nil {
		g.infoPanel.SetBoardState(g.BoardState)
	}

	// Focus mode shows minimal hint
	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}

	var statusLine, turnLine, controlsLine string

	if g.finished {
		statusLine = "───────── Game Over ─────────\n\n"
		turnLine = fmt.Sprintf("  Result: %s\n", g.BoardState.Outcome)
		controlsLine = "\n  n new game · q return to menu"
	} else {
		if g.message != "" {
			statusLine = fmt.Sprintf("  %s\n\n", g.message)
		}

		if g.eng != nil && g.eng.IsMyTurn() {
			turnLine = fmt.Sprintf("  ● Your move (Player %d)\n", g.BoardState.PlayerToMove)
		} else {
			turnLine = "  ◌ Thinking...\n"
		}

		controlsLine = `
  h/l ←→ move   ⏎ play   1-9 pick   ? hint
  s pass   n new   f focus   q quit`
	}

	g.hint.SetText(fmt.Sprintf("%s%s%s", statusLine, turnLine, controlsLine))
}

// IsFinished returns true if the game is over.
func (g *KalahBoardUI) IsFinished() bool {
	return g.finished
}
