// mancala-local is a terminal application to play Kalah against an alpha-beta AI.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"mancala-local/arena"
	"mancala-local/config"
	"mancala-local/engine"
	"mancala-local/engine/local"
	"mancala-local/logging"
	"mancala-local/search"
	"mancala-local/textmode"
	"mancala-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagBowls      = flag.Int("bowls", 0, "Pits per side (1-16)")
	flagSeeds      = flag.Int("seeds", 0, "Seeds per pit")
	flagDepth      = flag.Int("depth", 0, "AI search depth in plies")
	flagExtra      = flag.Bool("extra", true, "Landing in your own store grants another move")
	flagCapture    = flag.Bool("capture", true, "Landing in an empty pit captures the pit across")
	flagCollect    = flag.Bool("collect", false, "An empty side ends the game and the other side collects its pits")
	flagAI1        = flag.Bool("ai1", false, "Player 1 is played by the AI")
	flagAI2        = flag.Bool("ai2", true, "Player 2 is played by the AI")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (board only)")
	flagText       = flag.Bool("text", false, "Play in plain text mode on stdin/stdout")
	flagArena      = flag.Int("arena", 0, "Play N AI-vs-AI games and print the tally")
	flagSeed       = flag.Int64("seed", 0, "Random seed for AI tie-breaks (0 = time based)")
	flagDebug      = flag.Bool("debug", false, "Write debug entries to the log")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.KalahBoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config
var logger *zap.Logger
var rng *rand.Rand
var currentGame engine.GameConfig

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("mancala-local %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err = logging.New(cfg.Log.File, cfg.Log.Debug || *flagDebug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
		logger = logging.Nop()
	}
	defer logger.Sync()

	seed := *flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng = rand.New(rand.NewSource(seed))
	logger.Info("starting", zap.String("version", Version), zap.Int64("seed", seed))

	gameCfg, quickStart := buildGameConfigFromFlags()
	if err := gameCfg.BoardConfig().Validate(); err != nil {
		logger.Error("invalid game settings", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	code := -1
	switch {
	case *flagArena > 0:
		code = runArena(gameCfg, *flagArena)
	case *flagText:
		code = runText(gameCfg)
	}
	if code >= 0 {
		logger.Sync()
		os.Exit(code)
	}

	runTUI(gameCfg, quickStart)
}

// runArena plays AI-vs-AI games and prints the tally.
func runArena(gameCfg engine.GameConfig, games int) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tally, err := arena.Run(ctx, gameCfg.BoardConfig(), games, rng, arena.Options{Progress: os.Stderr, Log: logger})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		logger.Error("arena failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(tally)
	return 0
}

// runText plays one game in text mode.
func runText(gameCfg engine.GameConfig) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	searcher := search.NewSearcher(rng, logger.Named("search"))
	_, err := textmode.Run(ctx, os.Stdin, os.Stdout, gameCfg, searcher, textmode.Options{Color: true, Log: logger})
	if err != nil {
		logger.Error("text mode failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runTUI(gameCfg engine.GameConfig, quickStart bool) {
	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ◍ mancala ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewKalahBoard(app, cfg, gameHint)

	// Create game layout with centered board and side panel
	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	// Game board input handling
	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if gameBoard.SelectedPit() != -1 {
				gameBoard.ResetSelection()
			} else {
				gameBoard.Close()
				rootPage.SwitchToPage("setup")
			}
			return nil
		}
		switch event.Key() {
		case tcell.KeyLeft:
			gameBoard.MoveSelection(-1)
		case tcell.KeyRight:
			gameBoard.MoveSelection(1)
		case tcell.KeyEnter:
			gameBoard.PlayMove()
		case tcell.KeyRune:
			switch r := event.Rune(); {
			case r == 'h':
				gameBoard.MoveSelection(-1)
			case r == 'l':
				gameBoard.MoveSelection(1)
			case r >= '1' && r <= '9':
				if pit, err := local.ParsePitLabel(string(r), currentGame.Bowls); err == nil {
					gameBoard.SelectPit(pit)
				}
			case r == '?':
				gameBoard.Hint()
			case r == 's':
				gameBoard.Pass()
			case r == 'n':
				if err := gameBoard.NewGame(currentGame); err != nil {
					logger.Error("new game failed", zap.Error(err))
				}
			case r == 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
					gameBoard.SetGameConfig(currentGame)
				}
			}
		}
		return event
	})

	// Game setup screen
	setupUI := ui.NewGameSetup(gameCfg,
		func(gameCfg engine.GameConfig) {
			startGame(gameCfg)
		},
		func() {
			app.Stop()
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
	)

	// Color configuration screen
	colorConfig := ui.NewColorConfig(cfg, func() {
		// Refresh the game board with new colors
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	}, func(err error) {
		if err != nil {
			logger.Error("failed to save config", zap.Error(err))
		}
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	// Add pages - start on setup by default, or gameview if quick start
	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI.Form(), 64), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	if quickStart {
		startGame(gameCfg)
		// Enter focus mode if requested
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		logger.Fatal("ui stopped", zap.Error(err))
	}
}

// startGame starts a game with the given configuration.
func startGame(gameCfg engine.GameConfig) {
	currentGame = gameCfg
	gameBoard.SetGameConfig(gameCfg)

	// Remember the choices for the next start
	cfg.SetGameConfig(gameCfg)
	if err := cfg.Save(); err != nil {
		logger.Warn("failed to save config", zap.Error(err))
	}

	// Each game gets its own source so a closing engine never shares one.
	gameRng := rand.New(rand.NewSource(rng.Int63()))
	searcher := search.NewSearcher(gameRng, logger.Named("search"))
	eng := local.NewLocalEngine(gameCfg, searcher, logger.Named("engine"))
	if err := gameBoard.ConnectEngine(eng); err != nil {
		logger.Error("failed to start game", zap.Error(err))
		// Show error modal
		modal := tview.NewModal().
			SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.HidePage("error")
			})
		rootPage.AddPage("error", modal, true, true)
		return
	}
	rootPage.SwitchToPage("gameview")
}

// buildGameConfigFromFlags starts from the configured defaults and applies
// every flag given on the command line. It also reports whether any game flag
// asks to skip the setup screen.
func buildGameConfigFromFlags() (engine.GameConfig, bool) {
	gameCfg := cfg.GameConfig()
	quickStart := *flagQuickStart || *flagFocus

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bowls":
			gameCfg.Bowls = *flagBowls
		case "seeds":
			gameCfg.Seeds = *flagSeeds
		case "depth":
			gameCfg.Depth = *flagDepth
		case "extra":
			gameCfg.Rules.ExtraTurn = *flagExtra
		case "capture":
			gameCfg.Rules.Capture = *flagCapture
		case "collect":
			gameCfg.Rules.Collect = *flagCollect
		case "ai1":
			gameCfg.AI[0] = *flagAI1
		case "ai2":
			gameCfg.AI[1] = *flagAI2
		default:
			return
		}
		quickStart = true
	})

	return gameCfg, quickStart
}
