package config

import "mancala-local/board"

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		DrawHintBackground:       true,
		Colors: ConfigColors{
			BoardColor:        94,
			PitColor:          137,
			StoreColor:        130,
			CountColor:        230,
			CursorColorFG:     2,
			CursorColorBG:     4,
			LastPlayedColorBG: 2,
			HintColorBG:       3,
		},
		Symbols: ConfigSymbols{
			PitOpen:  '(',
			PitClose: ')',
			Cursor:   '▲',
			Hint:     '?',
		},
	}

	bc := board.DefaultConfig()
	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameSettings{
			Bowls: bc.Bowls,
			Seeds: bc.Seeds,
			Depth: bc.Depth,
			Rules: bc.Rules,
			AI2:   true,
		},
	}
}
