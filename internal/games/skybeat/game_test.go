package skybeat

import (
	"strings"
	"testing"

	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/entity"
	"github.com/vovakirdan/skybeat/internal/registry"
)

func testConfig(level string) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 12345, LevelID: level}
}

func inputs(n int) []core.InputFrame {
	seq := make([]core.InputFrame, n)
	for i := range seq {
		seq[i] = core.NewInputFrame()
		if i%20 == 0 {
			seq[i].Set(core.ActionJump)
		}
		if i%90 == 45 {
			seq[i].Set(core.ActionDashRight)
		}
	}
	return seq
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{CampaignID, EndlessID} {
		if !registry.Exists(id) {
			t.Errorf("mode %q not registered", id)
		}
	}
	g, err := registry.Create(EndlessID, registry.Env{})
	if err != nil {
		t.Fatal(err)
	}
	if g.Title() != "Skybeat Endless" {
		t.Errorf("title = %q", g.Title())
	}
}

func TestCampaignStartsFirstLevel(t *testing.T) {
	g := New(registry.DefaultEnv(), false)
	g.Reset(testConfig(""))
	if g.Err() != nil {
		t.Fatalf("reset failed: %v", g.Err())
	}
	if g.LevelID() != "01-first-steps" {
		t.Errorf("level = %q, expected the first built-in", g.LevelID())
	}
	if st := g.State(); st.GameOver || st.Score != 0 {
		t.Errorf("fresh run state %+v", st)
	}
}

func TestUnknownLevelReportsError(t *testing.T) {
	g := New(registry.DefaultEnv(), false)
	g.Reset(testConfig("no-such-level"))
	if g.Err() == nil {
		t.Fatal("expected an error for a missing level")
	}
	if !g.State().GameOver {
		t.Error("a run that cannot start should report game over")
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "CANNOT START") {
		t.Error("render should explain the failure")
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() (core.GameState, uint64, float64) {
		g := New(registry.DefaultEnv(), true)
		g.Reset(testConfig(""))
		var st core.GameState
		for _, in := range inputs(600) {
			st = g.Step(in).State
			if st.GameOver {
				break
			}
		}
		return st, g.Tick(), g.Engine().Player().Y
	}

	s1, t1, y1 := run()
	s2, t2, y2 := run()
	if s1 != s2 || t1 != t2 || y1 != y2 {
		t.Errorf("runs differ: %+v/%d/%v vs %+v/%d/%v", s1, t1, y1, s2, t2, y2)
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	g := New(registry.DefaultEnv(), false)
	g.Reset(testConfig(""))

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("expected paused state")
	}

	y := g.Engine().Player().Y
	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.Engine().Player().Y != y || g.Tick() != 0 {
		t.Error("paused game should not advance")
	}

	g.Step(pause)
	if g.State().Paused || g.Tick() != 1 {
		t.Errorf("unpause failed: paused=%v tick=%d", g.State().Paused, g.Tick())
	}
}

func TestJumpReleaseIsSynthesized(t *testing.T) {
	g := New(registry.DefaultEnv(), false)
	g.Reset(testConfig(""))

	jump := core.NewInputFrame()
	jump.Set(core.ActionJump)
	g.Step(jump)
	if !g.LastFrame().Has(entity.EventAirJump) && !g.LastFrame().Has(entity.EventJump) {
		t.Fatal("jump input should reach the engine")
	}
	for i := 0; i < JumpHoldTicks; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.holdFor != 0 {
		t.Errorf("hold should have expired, %d ticks left", g.holdFor)
	}
}

func TestRestartAfterDeath(t *testing.T) {
	g := New(registry.DefaultEnv(), true)
	g.Reset(testConfig(""))

	// Dash off the start platform and fall out of the world.
	for i := 0; i < 2000 && !g.State().GameOver; i++ {
		in := core.NewInputFrame()
		if i%40 == 0 {
			in.Set(core.ActionDashLeft)
		}
		g.Step(in)
	}
	if !g.State().GameOver {
		t.Fatal("player never fell")
	}

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)
	if g.State().GameOver || g.Tick() != 0 {
		t.Errorf("restart should begin a new run, state %+v", g.State())
	}
}

func TestFinishedGameReportsNoEvents(t *testing.T) {
	g := New(registry.DefaultEnv(), true)
	g.Reset(testConfig(""))

	for i := 0; i < 2000 && !g.State().GameOver; i++ {
		in := core.NewInputFrame()
		if i%40 == 0 {
			in.Set(core.ActionDashLeft)
		}
		g.Step(in)
	}
	if !g.State().GameOver {
		t.Fatal("player never fell")
	}
	if !g.LastFrame().Has(entity.EventDeath) {
		t.Fatal("final frame should carry the death")
	}

	tick := g.Tick()
	g.Step(core.NewInputFrame())
	if g.Tick() != tick {
		t.Errorf("finished game advanced to tick %d", g.Tick())
	}
	if n := len(g.LastFrame().Events); n != 0 {
		t.Errorf("idle step repeated %d events: %v", n, g.LastFrame().Events)
	}
}

func TestRenderDrawsWorld(t *testing.T) {
	g := New(registry.DefaultEnv(), false)
	g.Reset(testConfig(""))
	g.Step(core.NewInputFrame())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	if !strings.Contains(screen.Row(0), "Score: 0") {
		t.Errorf("HUD missing: %q", screen.Row(0))
	}
	if !strings.Contains(out, string(PlayerChar)) {
		t.Error("player not drawn")
	}
	if !strings.Contains(out, "█") {
		t.Error("floor not drawn")
	}
	if !strings.Contains(screen.Row(0), "First Steps") {
		t.Errorf("level title missing from HUD: %q", screen.Row(0))
	}
}

func TestPlatformGlyphsCoverAllTypes(t *testing.T) {
	for _, typ := range entity.Types() {
		p := entity.NewPlatform(entity.PlatformSpec{
			Rect:   core.NewRect(0, 0, 10, 10),
			Type:   typ,
			Motion: &entity.Motion{Kind: entity.MotionHorizontal, Distance: 1, Speed: 1},
		}, registry.DefaultEnv().Config.Platforms)
		if r, _ := platformGlyph(p); r == '?' {
			t.Errorf("type %v has no glyph", typ)
		}
	}
}
