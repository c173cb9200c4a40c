package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"mancala-local/board"
	"mancala-local/engine"
	"mancala-local/engine/local"
	"mancala-local/types"
)

// GameInfoPanel displays scores, rules and the last move alongside the board.
type GameInfoPanel struct {
	box        *tview.TextView
	boardState *types.BoardState
	gameConfig engine.GameConfig
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box:        tview.NewTextView(),
		gameConfig: engine.DefaultConfig(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetBoardState updates the panel with current board state.
func (p *GameInfoPanel) SetBoardState(state *types.BoardState) {
	p.boardState = state
	p.refresh()
}

// SetGameConfig sets the rules and players for display.
func (p *GameInfoPanel) SetGameConfig(gc engine.GameConfig) {
	p.gameConfig = gc
	p.refresh()
}

// Text returns the panel contents with color tags.
func (p *GameInfoPanel) Text() string {
	return p.box.GetText(false)
}

// refresh updates the panel text.
func (p *GameInfoPanel) refresh() {
	if p.boardState == nil || p.boardState.Bowls() == 0 {
		p.box.SetText("")
		return
	}
	p.box.SetText(infoText(p.boardState, p.gameConfig))
}

func infoText(state *types.BoardState, gc engine.GameConfig) string {
	var text string

	// Game Info section
	text += "[white::b]Game Info[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	text += fmt.Sprintf("[white]Board:[-:-:-] %d pits × %d\n", gc.Bowls, gc.Seeds)
	text += fmt.Sprintf("[white]Depth:[-:-:-] %d\n", gc.Depth)
	text += fmt.Sprintf("[white]Rules:[-:-:-] %s\n", rulesText(gc.Rules))
	text += fmt.Sprintf("[white]Move:[-:-:-] %d\n", state.MoveNumber)

	// Score section
	text += "\n[white::b]Score[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	for player := 1; player <= 2; player++ {
		marker := " "
		if !state.Finished() && state.PlayerToMove == player {
			marker = "[yellow]>[-]"
		}
		who := "Human"
		if gc.IsAI(board.Player(player - 1)) {
			who = "AI"
		}
		text += fmt.Sprintf("%s[white]Player %d[-] [dimgray]%-5s[-] %3d\n", marker, player, who, state.Store(player))
	}

	text += "\n[white::b]Last Move[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	text += fmt.Sprintf(" %s\n", local.MoveString(state.LastMove))

	if state.Finished() {
		text += fmt.Sprintf("\n[yellow::b]%s[-:-:-]\n", strings.ReplaceAll(state.Outcome, "\n", " "))
	}
	return text
}

func rulesText(r board.Rules) string {
	var names []string
	if r.ExtraTurn {
		names = append(names, "extra")
	}
	if r.Capture {
		names = append(names, "capture")
	}
	if r.Collect {
		names = append(names, "collect")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(kb *KalahBoardUI, hint *tview.TextView) *tview.Flex {
	mainFlex := tview.NewFlex()
	RebuildNormalLayout(mainFlex, kb, hint)
	return mainFlex
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)        // Left spacer
	centered.AddItem(form, maxWidth, 0, true) // Form with max width
	centered.AddItem(nil, 0, 1, false)        // Right spacer

	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, kb *KalahBoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel()
	if kb.infoPanel != nil {
		infoPanel.gameConfig = kb.infoPanel.gameConfig
	}
	kb.infoPanel = infoPanel
	if kb.BoardState != nil {
		infoPanel.SetBoardState(kb.BoardState)
	}

	// Create horizontal flex: board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(kb.Box, 0, 1, true)            // Board (flexible, takes remaining space)
	boardRow.AddItem(infoPanel.Box(), 28, 0, false) // Info panel (fixed width)

	// Main vertical flex: board area on top, status bar at bottom
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 6, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, kb *KalahBoardUI) {
	gameFrame.Clear()

	boardWidth, boardHeight := 2*storeWidth+6*cellWidth, boardRows
	if kb.BoardState != nil && kb.BoardState.Bowls() > 0 {
		boardWidth, boardHeight = kb.Size()
	}

	// Center board with flex spacers
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false) // top spacer

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)            // left spacer
	centerRow.AddItem(kb.Box, boardWidth, 0, true) // board (fixed width)
	centerRow.AddItem(nil, 0, 1, false)            // right spacer

	gameFrame.AddItem(centerRow, boardHeight, 0, true) // center row (fixed height)
	gameFrame.AddItem(nil, 0, 1, false)                // bottom spacer
}
