package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/games/skybeat"
	"github.com/vovakirdan/skybeat/internal/registry"
	"github.com/vovakirdan/skybeat/internal/storage"
)

// MenuItem is one playable entry: a campaign level or the endless mode.
type MenuItem struct {
	GameID  string
	LevelID string
	Title   string
	Best    int
}

// presets cycled with left/right in the menu.
var presets = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
}

// MenuItems lists the campaign levels followed by the endless mode, with
// best scores filled in from store when it is non-nil.
func MenuItems(env registry.Env, store storage.Store) ([]MenuItem, error) {
	lvls, err := env.Levels.LoadAll()
	if err != nil {
		return nil, err
	}

	items := make([]MenuItem, 0, len(lvls)+1)
	for _, l := range lvls {
		items = append(items, MenuItem{
			GameID:  skybeat.CampaignID,
			LevelID: l.ID,
			Title:   l.Title(),
		})
	}
	items = append(items, MenuItem{
		GameID:  skybeat.EndlessID,
		LevelID: "endless",
		Title:   "Endless",
	})

	if store != nil {
		for i := range items {
			best, err := store.HighScore(items[i].GameID, items[i].LevelID)
			if err == nil {
				items[i].Best = best
			}
		}
	}
	return items, nil
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	preset         int // index into presets
	width          int
	height         int
	env            registry.Env
	store          storage.Store
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	err            error
	quitting       bool
	selected       *MenuItem // Set when user selects an entry
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model.
func NewMenuModel(env registry.Env, store storage.Store, cfg core.RuntimeConfig) MenuModel {
	items, err := MenuItems(env, store)
	return MenuModel{
		items:     items,
		preset:    1,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		env:       env,
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		err:       err,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.preset = (m.preset + len(presets) - 1) % len(presets)

	case MenuActionRight:
		m.preset = (m.preset + 1) % len(presets)

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("  S K Y B E A T  ", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Difficulty: < %s >", m.Preset()), m.width))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(centerText("cannot load levels: "+m.err.Error(), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		best := "-"
		if item.Best > 0 {
			best = fmt.Sprintf("%d", item.Best)
		}
		line := fmt.Sprintf("%s%-24s best %6s", cursor, item.Title, best)
		line = centerText(line, m.width)
		if i == m.cursor {
			line = activeStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Difficulty  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(dimStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Preset returns the chosen difficulty preset.
func (m MenuModel) Preset() config.DifficultyPreset {
	return presets[m.preset]
}

// Config returns the current runtime config, with the selected level when
// an entry was chosen.
func (m MenuModel) Config() core.RuntimeConfig {
	cfg := m.config
	if m.selected != nil && m.selected.GameID == skybeat.CampaignID {
		cfg.LevelID = m.selected.LevelID
	}
	return cfg
}

// Env returns the environment with the chosen difficulty applied.
func (m MenuModel) Env() registry.Env {
	env := m.env
	config.ApplyPreset(&env.Config, m.Preset())
	return env
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Env             registry.Env
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(env registry.Env, store storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(env, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Env: env, Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Env: env, Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Env:    m.Env(),
		Config: m.Config(),
	}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting(), m.Selected() == nil:
		result.Quit = true
	default:
		result.GameID = m.Selected().GameID
	}

	return result, nil
}
