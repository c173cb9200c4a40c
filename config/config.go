package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"mancala-local/board"
	"mancala-local/engine"
)

var (
	cfgFile = "mancala-local/config.json"
)

// EnvPrefix prefixes environment overrides, e.g. MANCALA_GAME_DEPTH=8.
const EnvPrefix = "MANCALA"

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `json:"board" mapstructure:"board"`
	PitColor          int `json:"pit" mapstructure:"pit"`
	StoreColor        int `json:"store" mapstructure:"store"`
	CountColor        int `json:"count" mapstructure:"count"`
	CursorColorFG     int `json:"cursor_fg" mapstructure:"cursor_fg"`
	CursorColorBG     int `json:"cursor_bg" mapstructure:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg" mapstructure:"last_played_bg"`
	HintColorBG       int `json:"hint_bg" mapstructure:"hint_bg"`
}

type ConfigSymbols struct {
	PitOpen  rune `json:"pit_open" mapstructure:"pit_open"`
	PitClose rune `json:"pit_close" mapstructure:"pit_close"`
	Cursor   rune `json:"cursor" mapstructure:"cursor"`
	Hint     rune `json:"hint" mapstructure:"hint"`
}

type Theme struct {
	DrawCursorBackground     bool          `json:"draw_cursor_bg" mapstructure:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg" mapstructure:"draw_last_played_bg"`
	DrawHintBackground       bool          `json:"draw_hint_bg" mapstructure:"draw_hint_bg"`
	Colors                   ConfigColors  `json:"colors" mapstructure:"colors"`
	Symbols                  ConfigSymbols `json:"symbols" mapstructure:"symbols"`
}

// GameSettings holds the defaults offered by the setup screen.
type GameSettings struct {
	Bowls int         `json:"bowls" mapstructure:"bowls"`
	Seeds int         `json:"seeds" mapstructure:"seeds"`
	Depth int         `json:"depth" mapstructure:"depth"`
	Rules board.Rules `json:"rules" mapstructure:"rules"`
	AI1   bool        `json:"ai1" mapstructure:"ai1"`
	AI2   bool        `json:"ai2" mapstructure:"ai2"`
}

// LogConfig controls the debug log. An empty File means the xdg state directory.
type LogConfig struct {
	Debug bool   `json:"debug" mapstructure:"debug"`
	File  string `json:"file" mapstructure:"file"`
}

type Config struct {
	Theme Theme        `json:"theme" mapstructure:"theme"`
	Game  GameSettings `json:"game" mapstructure:"game"`
	Log   LogConfig    `json:"log" mapstructure:"log"`
}

// InitConfig loads the user's config file, if there is one, over the defaults
// and applies environment overrides.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		absPath = ""
	}
	return Load(absPath)
}

// Load reads the JSON config at path over the defaults. An empty path reads
// only the defaults and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v, DefaultConfig); err != nil {
		return nil, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, &InvalidConfig{fmt.Sprintf("reading %s: %v", path, err)}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &InvalidConfig{err.Error()}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// setDefaults registers every key of def with v so that environment
// overrides reach nested settings.
func setDefaults(v *viper.Viper, def Config) error {
	data, err := json.Marshal(def)
	if err != nil {
		return err
	}
	var settings map[string]interface{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return err
	}
	for key, value := range settings {
		v.SetDefault(key, value)
	}
	return nil
}

func (c *Config) Validate() error {
	s := c.Theme.Symbols
	for _, r := range []rune{s.PitOpen, s.PitClose, s.Cursor, s.Hint} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if err := c.GameConfig().BoardConfig().Validate(); err != nil {
		return &InvalidConfig{err.Error()}
	}
	return nil
}

// GameConfig converts the game settings for the engine.
func (c *Config) GameConfig() engine.GameConfig {
	return engine.GameConfig{
		Bowls: c.Game.Bowls,
		Seeds: c.Game.Seeds,
		Depth: c.Game.Depth,
		Rules: c.Game.Rules,
		AI:    [2]bool{c.Game.AI1, c.Game.AI2},
	}
}

// SetGameConfig stores gc as the new game defaults.
func (c *Config) SetGameConfig(gc engine.GameConfig) {
	c.Game = GameSettings{
		Bowls: gc.Bowls,
		Seeds: gc.Seeds,
		Depth: gc.Depth,
		Rules: gc.Rules,
		AI1:   gc.AI[0],
		AI2:   gc.AI[1],
	}
}

// Save writes the config to the user's xdg config directory.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return c.SaveTo(absPath)
}

// SaveTo writes the config as JSON to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return saveCfgFile(path, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}
