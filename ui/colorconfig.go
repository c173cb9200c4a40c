package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"mancala-local/config"
)

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()
	onSave    func(error)

	// Current selection
	selectedBoardColor int
	selectedPitColor   int
	editingPit         bool // true = editing pit color, false = editing board color
}

type namedColor struct {
	code int
	name string
}

// Board colors to choose from (warm wood-like tones)
var boardColors = []namedColor{
	{94, "Saddle Brown"},
	{130, "Dark Orange"},
	{136, "Dark Brown"},
	{172, "Brown"},
	{179, "Light Brown"},
	{180, "Tan"},
	{52, "Dark Maroon"},
	{22, "Dark Green"},
	{23, "Teal"},
	{17, "Navy Blue"},
	{236, "Dark Gray"},
	{240, "Gray"},
}

// Pit colors (lighter tones that stand out from the board)
var pitColors = []namedColor{
	{137, "Light Wood"},
	{173, "Clay"},
	{180, "Tan"},
	{222, "Gold"},
	{223, "Peach"},
	{229, "Pale Yellow"},
	{230, "Light Cream"},
	{108, "Sage"},
	{109, "Steel Blue"},
	{244, "Medium Gray"},
	{250, "Light Gray"},
}

// NewColorConfig creates a new color configuration screen. onSave receives the
// result of writing the config file and may be nil.
func NewColorConfig(cfg *config.Config, onDone func(), onSave func(error)) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:                cfg,
		onDone:             onDone,
		onSave:             onSave,
		selectedBoardColor: cfg.Theme.Colors.BoardColor,
		selectedPitColor:   cfg.Theme.Colors.PitColor,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	// Handle selection change (preview)
	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if c, ok := cc.colorAt(index); ok {
			if cc.editingPit {
				cc.selectedPitColor = c
			} else {
				cc.selectedBoardColor = c
			}
		}
	})

	// Handle selection confirm (apply)
	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if _, ok := cc.colorAt(index); !ok {
			return
		}
		if cc.editingPit {
			cc.cfg.Theme.Colors.PitColor = cc.selectedPitColor
			cc.save()
			// Switch back to board color selection
			cc.editingPit = false
			cc.populateColorList()
			return
		}
		cc.cfg.Theme.Colors.BoardColor = cc.selectedBoardColor
		cc.save()
		onDone()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	// Layout: list on left, preview on right
	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 30, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

func (cc *ColorConfigUI) save() {
	err := cc.cfg.Save()
	if cc.onSave != nil {
		cc.onSave(err)
	}
}

func (cc *ColorConfigUI) palette() []namedColor {
	if cc.editingPit {
		return pitColors
	}
	return boardColors
}

func (cc *ColorConfigUI) colorAt(index int) (int, bool) {
	colors := cc.palette()
	if index < 0 || index >= len(colors) {
		return 0, false
	}
	return colors[index].code, true
}

// populateColorList fills the list with appropriate colors based on editing mode.
func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()

	current := cc.selectedBoardColor
	if cc.editingPit {
		cc.colorList.SetTitle(" Select Pit Color (Tab: switch to board) ")
		current = cc.selectedPitColor
	} else {
		cc.colorList.SetTitle(" Select Board Color (Tab: switch to pits) ")
	}
	for i, c := range cc.palette() {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
		}
	}
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	const pits = 4
	w := 2*storeWidth + pits*cellWidth
	if width < w+4 || height < boardRows+4 {
		return x, y, width, height
	}

	colors := cc.cfg.Theme.Colors
	symbols := cc.cfg.Theme.Symbols
	countColor := tcell.PaletteColor(colors.CountColor)
	boardStyle := tcell.StyleDefault.Background(tcell.PaletteColor(cc.selectedBoardColor)).Foreground(countColor)
	pitStyle := tcell.StyleDefault.Background(tcell.PaletteColor(cc.selectedPitColor)).Foreground(countColor)
	storeStyle := tcell.StyleDefault.Background(tcell.PaletteColor(colors.StoreColor)).Foreground(countColor)

	startX := x + 2
	startY := y + 1
	for row := 0; row < 3; row++ {
		for col := 0; col < w; col++ {
			screen.SetContent(startX+col, startY+row, ' ', nil, boardStyle)
		}
	}

	// Sample position
	top := []int{4, 0, 5, 3}
	bottom := []int{1, 6, 4, 4}
	for i := 0; i < pits; i++ {
		col := startX + storeWidth + i*cellWidth
		for _, cell := range [][2]int{{0, top[i]}, {2, bottom[i]}} {
			row, n := cell[0], cell[1]
			screen.SetContent(col, startY+row, symbols.PitOpen, nil, pitStyle)
			drawText(screen, col+1, startY+row, fmt.Sprintf("%2d", n), pitStyle)
			screen.SetContent(col+3, startY+row, symbols.PitClose, nil, pitStyle)
		}
	}
	drawText(screen, startX, startY+1, "[ 3]", storeStyle)
	drawText(screen, startX+storeWidth+pits*cellWidth+1, startY+1, "[ 7]", storeStyle)

	info := fmt.Sprintf("Board: %d  Pits: %d", cc.selectedBoardColor, cc.selectedPitColor)
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+4, ch, nil, tcell.StyleDefault)
		}
	}

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between board color and pit color editing.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingPit = !cc.editingPit
	cc.populateColorList()
}
