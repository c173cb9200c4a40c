package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"mancala-local/board"
	"mancala-local/engine"
	"mancala-local/search"
)

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	estimate *tview.TextView
	onStart  func(engine.GameConfig)
	onCancel func()
	onColors func()

	config engine.GameConfig
}

// NewGameSetup creates a new game setup form starting from initial.
func NewGameSetup(initial engine.GameConfig, onStart func(engine.GameConfig), onCancel func(), onColors func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:  onStart,
		onCancel: onCancel,
		onColors: onColors,
		config:   initial,
		estimate: tview.NewTextView(),
	}
	setup.estimate.SetDynamicColors(true)
	setup.estimate.SetTextAlign(tview.AlignCenter)

	form := tview.NewForm()

	intField := func(label string, value int, set func(int)) {
		form.AddInputField(label, strconv.Itoa(value), 4, tview.InputFieldInteger, func(text string) {
			if val, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
				set(val)
				setup.refreshEstimate()
			}
		})
	}
	intField("Pits per side", initial.Bowls, func(v int) { setup.config.Bowls = v })
	intField("Seeds per pit", initial.Seeds, func(v int) { setup.config.Seeds = v })
	intField("AI depth", initial.Depth, func(v int) { setup.config.Depth = v })

	form.AddCheckbox("Extra turn", initial.Rules.ExtraTurn, func(checked bool) {
		setup.config.Rules.ExtraTurn = checked
	})
	form.AddCheckbox("Capture", initial.Rules.Capture, func(checked bool) {
		setup.config.Rules.Capture = checked
	})
	form.AddCheckbox("Collect", initial.Rules.Collect, func(checked bool) {
		setup.config.Rules.Collect = checked
	})
	form.AddCheckbox("Player 1 is AI", initial.AI[0], func(checked bool) {
		setup.config.AI[0] = checked
	})
	form.AddCheckbox("Player 2 is AI", initial.AI[1], func(checked bool) {
		setup.config.AI[1] = checked
	})

	form.AddButton("Start Game", func() {
		if err := setup.config.BoardConfig().Validate(); err != nil {
			setup.estimate.SetText(fmt.Sprintf("[red]%s[-]", err))
			return
		}
		onStart(setup.config)
	})

	form.AddButton("Board Color", func() {
		if onColors != nil {
			onColors()
		}
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(tcell.ColorDarkCyan)
	form.SetButtonTextColor(tcell.ColorWhite)

	// Create help text
	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Space: toggle rule  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(tcell.ColorGray)

	// Create flex layout with form, search estimate and help text
	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(setup.estimate, 1, 0, false).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	setup.refreshEstimate()
	return setup
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// Config returns the configuration currently entered.
func (s *GameSetupUI) Config() engine.GameConfig {
	return s.config
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}

func (s *GameSetupUI) refreshEstimate() {
	s.estimate.SetText(estimateText(s.config.Bowls, s.config.Depth))
}

// estimateText describes the cost of an AI move at depth on a board of bowls pits.
func estimateText(bowls, depth int) string {
	if bowls < 1 || bowls > board.MaxBowls || depth < 0 {
		return "[red]invalid board[-]"
	}
	text := fmt.Sprintf("AI search: up to %.3g positions per move", search.EstimateNodes(bowls, depth))
	if search.TooDeep(bowls, depth) {
		text += "  [red::b]not recommended[-:-:-]"
	}
	return text
}
