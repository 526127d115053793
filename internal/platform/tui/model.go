package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/engine"
	"github.com/vovakirdan/skybeat/internal/feed"
	"github.com/vovakirdan/skybeat/internal/registry"
	"github.com/vovakirdan/skybeat/internal/storage"
)

// Observable is implemented by modes whose engine can be watched by
// spectators and recorded when a run ends.
type Observable interface {
	Engine() *engine.Engine
	Tick() uint64
	LastFrame() engine.Frame
	LevelID() string
}

// Options are the host services a game model reports to. All are optional.
type Options struct {
	Store  storage.Store
	Hub    *feed.Hub
	Player string
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// GameModel is the Bubble Tea model for one running mode.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	palette    Palette
	standalone bool // back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
	runSaved   bool
	epoch      int64
}

// NewGameModel creates a model for game.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts Options) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:       opts,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		palette:    DefaultPalette(),
		epoch:      time.Now().UnixNano(),
	}
}

// startedMsg is delivered once the run has been reset.
type startedMsg struct{}

// Init starts the run and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tea.Batch(
		func() tea.Msg { return startedMsg{} },
		tickCmd(m.config.TickRate, m.epoch),
	)
}

// paletteFor picks up the loaded level's colors.
func paletteFor(g registry.Game) Palette {
	obs, ok := g.(Observable)
	if !ok {
		return DefaultPalette()
	}
	lvl := obs.Engine().Level()
	if lvl == nil {
		return DefaultPalette()
	}
	return LevelPalette(lvl.Accent, lvl.Background)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		// The world does not depend on the screen size, so the run continues.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case startedMsg:
		m.gameState = m.game.State()
		m.palette = paletteFor(m.game)
		return m, nil
	case TickMsg:
		if msg.Epoch != m.epoch {
			return m, nil
		}
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if action == core.ActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}

	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick steps the simulation once and reports to the host services.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	restarted := m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver
	before := m.simTick()

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if restarted {
		m.runSaved = false
		m.palette = paletteFor(m.game)
	}

	if restarted || m.simTick() != before {
		m.publish()
	}

	if m.gameState.GameOver && !m.runSaved {
		m.saveRun()
		m.runSaved = true
	}

	return m, tickCmd(m.config.TickRate, m.epoch)
}

// simTick returns the simulated tick count, or 0 for modes that are not observable.
func (m GameModel) simTick() uint64 {
	if obs, ok := m.game.(Observable); ok {
		return obs.Tick()
	}
	return 0
}

// publish sends a snapshot to spectators on publish ticks.
func (m GameModel) publish() {
	hub := m.opts.Hub
	if hub == nil || m.gameState.Paused {
		return
	}
	obs, ok := m.game.(Observable)
	if !ok || !hub.ShouldPublish(obs.Tick()) {
		return
	}
	snap := feed.Capture(obs.Tick(), m.game.ID(), obs.LevelID(), obs.Engine(), obs.LastFrame())
	if err := hub.Publish(snap); err != nil {
		m.opts.logger().Debug("snapshot dropped", "error", err)
	}
}

// saveRun records the finished run. Runs that never started are skipped.
func (m GameModel) saveRun() {
	if m.opts.Store == nil {
		return
	}
	if e, ok := m.game.(interface{ Err() error }); ok && e.Err() != nil {
		return
	}
	run := RunRecord(m.game, m.opts.Player, m.config.Seed)
	saved, err := m.opts.Store.SaveRun(run)
	if err != nil {
		m.opts.logger().Warn("could not save run", "game", run.GameID, "error", err)
		return
	}
	m.opts.logger().Info("run saved", "id", saved.ID, "level", saved.LevelID, "score", saved.Score)
}

// RunRecord builds the storage record for the game's current run.
func RunRecord(g registry.Game, player string, seed int64) storage.Run {
	st := g.State()
	run := storage.Run{
		GameID:    g.ID(),
		Player:    player,
		Score:     st.Score,
		Completed: st.Won,
		Seed:      seed,
	}
	if obs, ok := g.(Observable); ok {
		es := obs.Engine().State()
		run.LevelID = obs.LevelID()
		run.Coins = es.Coins
		run.MaxCombo = es.MaxCombo
		run.DurationMs = int64(es.ElapsedMs)
		if es.Dead {
			run.DeathCause = es.DeathCause.String()
		}
	}
	return run
}

// saveScreenshot writes the current screen to ~/.skybeat/screenshots.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".skybeat", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	return m.palette.Render(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last observed host state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// Run plays game in the terminal until the player quits or backs out.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewGameModel(game, cfg, opts)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
