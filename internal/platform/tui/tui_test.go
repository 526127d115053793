package tui

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/feed"
	"github.com/vovakirdan/skybeat/internal/games/skybeat"
	"github.com/vovakirdan/skybeat/internal/registry"
	"github.com/vovakirdan/skybeat/internal/storage"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		key    string
		action core.Action
		quit   bool
	}{
		{" ", core.ActionJump, false},
		{"w", core.ActionJump, false},
		{"up", core.ActionJump, false},
		{"a", core.ActionDashLeft, false},
		{"left", core.ActionDashLeft, false},
		{"d", core.ActionDashRight, false},
		{"right", core.ActionDashRight, false},
		{"p", core.ActionPause, false},
		{"r", core.ActionRestart, false},
		{"esc", core.ActionBack, false},
		{"enter", core.ActionConfirm, false},
		{"q", core.ActionQuit, true},
		{"ctrl+c", core.ActionQuit, true},
		{"x", core.ActionNone, false},
	}
	for _, tt := range tests {
		action, quit := km.MapKey(keyMsg(tt.key))
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.key, action, quit, tt.action, tt.quit)
		}
	}

	frame := core.NewInputFrame()
	if km.MapKeyToFrame(keyMsg("a"), &frame) || !frame.Has(core.ActionDashLeft) {
		t.Error("MapKeyToFrame should set dash left")
	}
}

func TestMenuKeys(t *testing.T) {
	km := NewKeyMapper()
	tests := map[string]MenuAction{
		"up":    MenuActionUp,
		"s":     MenuActionDown,
		"left":  MenuActionLeft,
		"l":     MenuActionRight,
		"enter": MenuActionSelect,
		"esc":   MenuActionBack,
		"tab":   MenuActionScoreboard,
		"q":     MenuActionQuit,
		"z":     MenuActionNone,
	}
	for k, want := range tests {
		if got := km.MapKeyToMenuAction(keyMsg(k)); got != want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", k, got, want)
		}
	}
}

func TestPaletteRenderKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextColored(0, 0, "hello", core.ColorCyan)
	s.DrawText(6, 0, "world")
	s.DrawTextColored(0, 1, "lava", core.ColorOrange)

	for _, p := range []Palette{DefaultPalette(), LevelPalette("#ff00aa", "#101010")} {
		out := p.Render(s)
		for _, want := range []string{"hello", "world", "lava"} {
			if !strings.Contains(out, want) {
				t.Errorf("rendered output missing %q: %q", want, out)
			}
		}
		if n := strings.Count(out, "\n"); n != 1 {
			t.Errorf("want 2 rows, got %d newlines", n)
		}
	}
}

func openStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newGameModel(t *testing.T, id string, opts Options) GameModel {
	t.Helper()
	game, err := registry.Create(id, registry.DefaultEnv())
	if err != nil {
		t.Fatal(err)
	}
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
	m := NewGameModel(game, cfg, opts)
	m.Init()
	return send(m, startedMsg{})
}

func send(m GameModel, msg tea.Msg) GameModel {
	next, _ := m.Update(msg)
	return next.(GameModel)
}

func tick(m GameModel) GameModel {
	return send(m, TickMsg{Epoch: m.epoch})
}

func TestGameModelSavesRunOnce(t *testing.T) {
	store := openStore(t)
	m := newGameModel(t, skybeat.EndlessID, Options{Store: store, Player: "tester"})

	for i := 0; i < 2000 && !m.State().GameOver; i++ {
		if i%40 == 0 {
			m = send(m, keyMsg("left"))
		}
		m = tick(m)
	}
	if !m.State().GameOver {
		t.Fatal("player never fell")
	}
	for i := 0; i < 10; i++ {
		m = tick(m)
	}

	runs, err := store.TopRuns(skybeat.EndlessID, "endless", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("want exactly one saved run, got %d", len(runs))
	}
	r := runs[0]
	if r.Player != "tester" || r.Completed || r.DeathCause == "" || r.Seed != 7 {
		t.Errorf("unexpected run %+v", r)
	}
	if r.DurationMs <= 0 {
		t.Errorf("duration not recorded: %+v", r)
	}
}

func TestStaleTickIgnored(t *testing.T) {
	m := newGameModel(t, skybeat.CampaignID, Options{})
	obs := m.game.(Observable)

	m = send(m, TickMsg{Epoch: m.epoch + 1})
	if obs.Tick() != 0 {
		t.Fatalf("stale tick stepped the game")
	}
	m = tick(m)
	if obs.Tick() != 1 {
		t.Fatalf("tick = %d, want 1", obs.Tick())
	}
}

func TestBackOnlyWhenPaused(t *testing.T) {
	m := newGameModel(t, skybeat.CampaignID, Options{})
	m = tick(m)

	m = send(m, keyMsg("esc"))
	if m.BackToMenu() {
		t.Fatal("back should be ignored while playing")
	}

	m = send(m, keyMsg("p"))
	m = tick(m)
	if !m.State().Paused {
		t.Fatal("game should be paused")
	}
	m = send(m, keyMsg("esc"))
	if !m.BackToMenu() {
		t.Error("back should leave a paused game")
	}
}

func TestResizeKeepsRun(t *testing.T) {
	m := newGameModel(t, skybeat.CampaignID, Options{})
	obs := m.game.(Observable)
	for i := 0; i < 30; i++ {
		m = tick(m)
	}
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if obs.Tick() != 30 {
		t.Errorf("resize reset the run, tick = %d", obs.Tick())
	}
	if !strings.Contains(m.View(), "Score") {
		t.Error("view should draw the HUD after resize")
	}
}

func TestMenuItems(t *testing.T) {
	store := openStore(t)
	_, err := store.SaveRun(storage.Run{GameID: skybeat.CampaignID, LevelID: "01-first-steps", Score: 420})
	if err != nil {
		t.Fatal(err)
	}

	items, err := MenuItems(registry.DefaultEnv(), store)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) < 2 {
		t.Fatalf("want campaign levels and endless, got %d items", len(items))
	}
	if items[0].LevelID != "01-first-steps" || items[0].Best != 420 {
		t.Errorf("first item = %+v", items[0])
	}
	if last := items[len(items)-1]; last.GameID != skybeat.EndlessID {
		t.Errorf("last item should be endless, got %+v", last)
	}
}

func TestMenuSelectionAppliesPreset(t *testing.T) {
	env := registry.DefaultEnv()
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
	m := NewMenuModel(env, nil, cfg)

	next, _ := m.Update(keyMsg("down"))
	m = next.(MenuModel)
	next, _ = m.Update(keyMsg("right"))
	m = next.(MenuModel)
	next, _ = m.Update(keyMsg("enter"))
	m = next.(MenuModel)

	sel := m.Selected()
	if sel == nil {
		t.Fatal("nothing selected")
	}
	if m.Config().LevelID != sel.LevelID {
		t.Errorf("config level %q, want %q", m.Config().LevelID, sel.LevelID)
	}
	if m.Preset() != "hard" {
		t.Errorf("preset = %q, want hard", m.Preset())
	}
	if got, base := m.Env().Config.Physics.AutoScrollSpeed, env.Config.Physics.AutoScrollSpeed; got <= base {
		t.Errorf("hard preset should speed up scrolling: %v <= %v", got, base)
	}
}

func TestSessionFlow(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
	store := openStore(t)
	var m tea.Model = NewSessionModel(registry.DefaultEnv(), cfg, Options{Store: store, Player: "tester"})

	m, _ = m.Update(keyMsg("tab"))
	if s := m.(SessionModel); s.screen != screenScores {
		t.Fatalf("tab should open the scoreboard, screen = %v", s.screen)
	}
	if !strings.Contains(m.View(), "HIGH SCORES") {
		t.Error("scoreboard not shown")
	}

	m, _ = m.Update(keyMsg("esc"))
	if s := m.(SessionModel); s.screen != screenMenu {
		t.Fatalf("esc should return to the menu, screen = %v", s.screen)
	}

	m, _ = m.Update(keyMsg("enter"))
	if s := m.(SessionModel); s.screen != screenGame {
		t.Fatalf("enter should start a game, screen = %v", s.screen)
	}

	m, _ = m.Update(keyMsg("q"))
	if !m.(SessionModel).quitting {
		t.Error("q should end the session")
	}
}

func TestRunRecord(t *testing.T) {
	game, err := registry.Create(skybeat.CampaignID, registry.DefaultEnv())
	if err != nil {
		t.Fatal(err)
	}
	game.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60})
	game.Step(core.NewInputFrame())

	r := RunRecord(game, "ana", 99)
	if r.GameID != skybeat.CampaignID || r.LevelID != "01-first-steps" || r.Player != "ana" || r.Seed != 99 {
		t.Errorf("unexpected record %+v", r)
	}
	if r.DeathCause != "" || r.Completed {
		t.Errorf("running game recorded as finished: %+v", r)
	}
}

func TestFinishedRunIsNotRepublished(t *testing.T) {
	m := newGameModel(t, skybeat.EndlessID, Options{})
	for i := 0; i < 2000 && !m.State().GameOver; i++ {
		if i%40 == 0 {
			m = send(m, keyMsg("left"))
		}
		m = tick(m)
	}
	if !m.State().GameOver {
		t.Fatal("player never fell")
	}

	cfg := feed.DefaultHubConfig()
	cfg.Every = 1
	hub := feed.NewHub(cfg, nil)
	hub.Start()
	defer hub.Stop()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	for deadline := time.Now().Add(2 * time.Second); hub.Count() == 0; {
		if time.Now().After(deadline) {
			t.Fatal("spectator never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	m.opts.Hub = hub

	for i := 0; i < 10; i++ {
		m = tick(m)
	}

	// The first snapshot must come from the restarted run.
	m = send(m, keyMsg("r"))
	m = tick(m)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("restarted run should publish: %v", err)
	}
	snap, err := feed.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Tick != 0 || snap.Dead || len(snap.Events) != 0 {
		t.Errorf("unexpected snapshot after restart %+v", snap)
	}
}
