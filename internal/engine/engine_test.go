package engine

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/entity"
	"github.com/vovakirdan/skybeat/internal/levels"
)

const frameMs = 16.0

func floorLevel(startY, goalY float64, extra ...levels.PlatformConfig) levels.Level {
	return levels.Level{
		ID:          "test",
		PlayerStart: levels.Point{X: 185, Y: startY},
		GoalY:       goalY,
		Platforms: append([]levels.PlatformConfig{
			{X: 0, Y: 0, Width: 400, Height: 16, Type: "solid"},
		}, extra...),
	}
}

func newEngine(t *testing.T, l levels.Level) *Engine {
	t.Helper()
	e := New(config.DefaultConfig())
	if err := e.LoadLevel(l); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	return e
}

// runUntil steps until done reports true or frames run out.
func runUntil(e *Engine, frames int, done func(Frame) bool) (Frame, bool) {
	var f Frame
	for i := 0; i < frames; i++ {
		f = e.Update(frameMs)
		if done(f) {
			return f, true
		}
	}
	return f, false
}

func TestEndToEndCompletion(t *testing.T) {
	cfg := config.DefaultConfig()
	e := newEngine(t, floorLevel(16, 66))
	if !e.Player().Grounded {
		t.Fatal("player spawned on the floor should start grounded")
	}

	e.OnJumpStart()
	first := e.Update(frameMs)
	if !first.Has(entity.EventJump) || first.Has(entity.EventAirJump) || first.Has(entity.EventLand) {
		t.Fatalf("first frame should be a ground jump, events %v", first.Events)
	}
	if e.Player().AirJumps != cfg.Player.MaxAirJumps {
		t.Errorf("ground jump spent an air jump, left %d", e.Player().AirJumps)
	}
	f, ok := runUntil(e, 120, func(f Frame) bool { return !f.State.Playing })
	if !ok {
		t.Fatal("level never finished")
	}
	if !f.State.Complete || f.State.Dead {
		t.Fatalf("expected completion, got %+v", f.State)
	}
	if !f.Has(entity.EventComplete) {
		t.Error("expected a complete event on the finishing frame")
	}

	after := e.Update(frameMs)
	if len(after.Events) != 0 || after.DtMs != 0 {
		t.Errorf("finished game should not advance, got %+v", after)
	}
}

func TestEndToEndSpike(t *testing.T) {
	e := newEngine(t, floorLevel(16, 1000, levels.PlatformConfig{X: 170, Y: 100, Width: 60, Height: 16, Type: "spike"}))

	e.OnJumpStart()
	f, ok := runUntil(e, 120, func(f Frame) bool { return !f.State.Playing })
	if !ok {
		t.Fatal("player never hit the spike")
	}
	if !f.State.Dead || f.State.Complete {
		t.Fatalf("expected death, got %+v", f.State)
	}
	if f.State.DeathCause != entity.DeathSpike {
		t.Errorf("cause = %v, expected spike", f.State.DeathCause)
	}
	if !f.Has(entity.EventDeath) {
		t.Error("expected a death event")
	}

	x, y := e.Player().X, e.Player().Y
	e.Update(frameMs)
	if e.Player().X != x || e.Player().Y != y {
		t.Error("dead player should be frozen")
	}
}

func TestKeptFrameIsStable(t *testing.T) {
	e := newEngine(t, floorLevel(16, 1000))

	e.OnJumpStart()
	first := e.Update(frameMs)
	want := slices.Clone(first.Events)
	if len(want) == 0 {
		t.Fatal("expected events on the jump frame")
	}
	e.OnDash(1)
	e.Update(frameMs)
	e.Update(frameMs)
	if !slices.Equal(first.Events, want) {
		t.Errorf("kept frame changed from %v to %v", want, first.Events)
	}
}

func TestPhaseOutCollidesUntilNextFrame(t *testing.T) {
	cfg := config.DefaultConfig()
	const switchFrame = 5
	l := floorLevel(16, 1000)
	l.Platforms[0].Type = "phase"
	l.Platforms[0].PhaseOffset = cfg.Platforms.PhaseOnMs - switchFrame*frameMs
	e := newEngine(t, l)
	floor := e.Player().Support()
	if floor == nil {
		t.Fatal("player should start on the phase floor")
	}

	for i := 1; i < switchFrame; i++ {
		e.Update(frameMs)
		if !floor.Collidable() || !e.Player().Grounded {
			t.Fatalf("frame %d: floor on=%v grounded=%v", i, floor.Collidable(), e.Player().Grounded)
		}
	}

	e.Update(frameMs)
	if floor.Collidable() {
		t.Fatalf("floor should phase out on frame %d", switchFrame)
	}
	if !e.Player().Grounded {
		t.Fatal("a platform that phases out this frame still holds the player this frame")
	}

	e.Update(frameMs)
	if e.Player().Grounded || e.Player().VelocityY >= 0 {
		t.Errorf("player should fall the frame after, grounded=%v vy=%v", e.Player().Grounded, e.Player().VelocityY)
	}
}

func TestLoadLevelRejectsInvalid(t *testing.T) {
	e := newEngine(t, floorLevel(16, 200))

	err := e.LoadLevel(levels.Level{ID: "broken", GoalY: 100})
	if !errors.Is(err, levels.ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
	if e.Level() == nil || e.Level().ID != "test" || !e.State().Playing {
		t.Error("failed load should leave the previous level running")
	}
}

func TestUpdateBeforeLoad(t *testing.T) {
	e := New(config.DefaultConfig())
	f := e.Update(frameMs)
	if f.DtMs != 0 || f.State.Playing {
		t.Errorf("unloaded engine should not run, got %+v", f)
	}
	if err := e.Restart(); !errors.Is(err, ErrNoLevel) {
		t.Errorf("Restart without a level = %v", err)
	}
}

func TestDeltaClamp(t *testing.T) {
	e := newEngine(t, floorLevel(16, 1000))

	if f := e.Update(1000); f.DtMs != 32 {
		t.Errorf("large step applied %v ms, expected 32", f.DtMs)
	}
	if f := e.Update(-10); f.DtMs != 0 {
		t.Errorf("negative step applied %v ms, expected 0", f.DtMs)
	}
	if f := e.Update(math.NaN()); f.DtMs != 0 {
		t.Errorf("NaN step applied %v ms, expected 0", f.DtMs)
	}
	if got := e.State().ElapsedMs; got != 32 {
		t.Errorf("elapsed = %v, expected 32", got)
	}
}

func TestFallDeath(t *testing.T) {
	cfg := config.DefaultConfig()
	l := levels.Level{
		ID:          "fall",
		PlayerStart: levels.Point{X: 185, Y: 40},
		GoalY:       1000,
		Platforms:   []levels.PlatformConfig{{X: 0, Y: 500, Width: 50, Height: 16, Type: "solid"}},
	}
	e := newEngine(t, l)

	f, ok := runUntil(e, 600, func(f Frame) bool {
		if e.Player().VelocityY < -cfg.Physics.MaxFallSpeed {
			t.Fatalf("fall speed %v exceeds the clamp", e.Player().VelocityY)
		}
		return !f.State.Playing
	})
	if !ok {
		t.Fatal("player never fell out of the world")
	}
	if f.State.DeathCause != entity.DeathFell {
		t.Errorf("cause = %v, expected fell", f.State.DeathCause)
	}
}

func TestLandingScoreAndCombo(t *testing.T) {
	cfg := config.DefaultConfig()
	e := newEngine(t, floorLevel(40, 1000))

	f, ok := runUntil(e, 120, func(f Frame) bool { return f.Has(entity.EventLand) })
	if !ok {
		t.Fatal("player never landed")
	}
	if f.State.Combo != 1 || f.State.Score != cfg.Scoring.LandingPoints {
		t.Fatalf("after first landing combo=%d score=%d", f.State.Combo, f.State.Score)
	}
	if f.State.Multiplier != 1 {
		t.Errorf("multiplier = %d, expected 1", f.State.Multiplier)
	}

	frames := int(cfg.Scoring.ComboWindowMs/frameMs) + 2
	for i := 0; i < frames; i++ {
		e.Update(frameMs)
	}
	s := e.State()
	if s.Combo != 0 || s.MaxCombo != 1 {
		t.Errorf("combo should lapse after the window, combo=%d max=%d", s.Combo, s.MaxCombo)
	}
	if s.Score != cfg.Scoring.LandingPoints {
		t.Errorf("resting on the same platform should not score, score=%d", s.Score)
	}
}

func TestCoinPickup(t *testing.T) {
	cfg := config.DefaultConfig()
	l := floorLevel(40, 1000)
	l.Coins = []levels.Point{{X: 193, Y: 20}}
	e := newEngine(t, l)

	seen := false
	runUntil(e, 120, func(f Frame) bool {
		if e.CoinCollectedThisFrame() {
			seen = true
			if !f.Has(entity.EventCoin) {
				t.Error("coin frame without a coin event")
			}
		}
		return f.Has(entity.EventLand)
	})
	if !seen {
		t.Fatal("coin was never collected")
	}
	s := e.State()
	if s.Coins != 1 || s.Score != cfg.Scoring.LandingPoints+cfg.Scoring.CoinPoints {
		t.Errorf("coins=%d score=%d", s.Coins, s.Score)
	}

	for i := 0; i < 30; i++ {
		e.Update(frameMs)
	}
	if n := len(e.VisibleCoins()); n != 0 {
		t.Errorf("collected coin should leave after its animation, %d visible", n)
	}
}

func TestDoublePoints(t *testing.T) {
	cfg := config.DefaultConfig()
	l := floorLevel(40, 1000)
	l.PowerUps = []levels.PowerUpConfig{{X: 190, Y: 45, Type: "doublePoints"}}
	e := newEngine(t, l)

	e.Update(frameMs)
	if !e.PowerUpCollectedThisFrame() {
		t.Fatal("power-up under the player should be collected on the first frame")
	}
	s := e.State()
	if s.ActivePowerUp != entity.PowerUpDoublePoints || s.PowerUpRemaining <= 0 {
		t.Fatalf("active=%v remaining=%v", s.ActivePowerUp, s.PowerUpRemaining)
	}

	runUntil(e, 120, func(f Frame) bool { return f.Has(entity.EventLand) })
	if got := e.State().Score; got != 2*cfg.Scoring.LandingPoints {
		t.Errorf("score = %d, expected %d", got, 2*cfg.Scoring.LandingPoints)
	}
}

func TestPowerUpsAreExclusiveAndExpire(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PowerUps.MagnetMs = 100
	l := floorLevel(40, 1000)
	l.PowerUps = []levels.PowerUpConfig{
		{X: 190, Y: 45, Type: "slowmo"},
		{X: 190, Y: 45, Type: "magnet"},
		{X: 190, Y: 45, Type: "shield"},
	}
	e := New(cfg)
	if err := e.LoadLevel(l); err != nil {
		t.Fatal(err)
	}

	e.Update(frameMs)
	s := e.State()
	if s.ActivePowerUp != entity.PowerUpMagnet {
		t.Errorf("later pickup should replace the earlier one, active=%v", s.ActivePowerUp)
	}
	if !s.HasShield {
		t.Error("shield should be held next to a timed power-up")
	}

	for i := 0; i < 10; i++ {
		e.Update(frameMs)
	}
	s = e.State()
	if s.ActivePowerUp != entity.PowerUpNone || s.PowerUpRemaining != 0 {
		t.Errorf("magnet should expire, active=%v remaining=%v", s.ActivePowerUp, s.PowerUpRemaining)
	}
}

func TestSecretReveal(t *testing.T) {
	cfg := config.DefaultConfig()
	e := newEngine(t, floorLevel(40, 1000, levels.PlatformConfig{X: 200, Y: 100, Width: 40, Height: 16, Type: "secret"}))

	f := e.Update(frameMs)
	if !f.Has(entity.EventSecret) {
		t.Fatal("nearby secret should be revealed")
	}
	if f.State.Score != cfg.Scoring.SecretPoints {
		t.Errorf("score = %d, expected %d", f.State.Score, cfg.Scoring.SecretPoints)
	}
	if f2 := e.Update(frameMs); f2.Has(entity.EventSecret) {
		t.Error("a secret is revealed only once")
	}
}

func TestConveyorPushesStandingPlayer(t *testing.T) {
	l := floorLevel(40, 1000)
	l.Platforms[0].Type = "conveyor"
	l.Platforms[0].ConveyorSpeed = 60
	e := newEngine(t, l)

	if _, ok := runUntil(e, 120, func(f Frame) bool { return f.Has(entity.EventLand) }); !ok {
		t.Fatal("player never landed")
	}
	x := e.Player().X
	for i := 0; i < 60; i++ {
		e.Update(frameMs)
	}
	if dx := e.Player().X - x; dx < 50 || dx > 70 {
		t.Errorf("conveyor moved the player %v, expected about 57.6", dx)
	}
}

func TestMovingPlatformCarriesPlayer(t *testing.T) {
	l := floorLevel(40, 1000)
	l.Platforms[0] = levels.PlatformConfig{
		X: 100, Y: 0, Width: 200, Height: 16, Type: "moving",
		MovePattern: &levels.MovePattern{Kind: "horizontal", Distance: 50, Speed: 1.5},
	}
	e := newEngine(t, l)

	if _, ok := runUntil(e, 120, func(f Frame) bool { return f.Has(entity.EventLand) }); !ok {
		t.Fatal("player never landed")
	}
	support := e.Player().Support()
	offset := e.Player().X - support.Bounds().X
	for i := 0; i < 30; i++ {
		e.Update(frameMs)
	}
	if got := e.Player().X - support.Bounds().X; math.Abs(got-offset) > 1e-6 {
		t.Errorf("player drifted on the platform: offset %v, expected %v", got, offset)
	}
}

func TestCameraNeverMovesDown(t *testing.T) {
	e := newEngine(t, floorLevel(16, 5000))

	prev := e.CameraY()
	for i := 0; i < 200; i++ {
		if i%20 == 0 {
			e.OnJumpStart()
		}
		e.Update(frameMs)
		if e.CameraY() < prev {
			t.Fatalf("camera moved down from %v to %v", prev, e.CameraY())
		}
		prev = e.CameraY()
	}
}

func TestWorldToScreen(t *testing.T) {
	cfg := config.DefaultConfig()
	e := newEngine(t, floorLevel(16, 1000))

	cam := e.CameraY()
	if cam != 16-cfg.Camera.Offset {
		t.Fatalf("initial camera = %v", cam)
	}
	if x, y := e.WorldToScreen(10, cam); x != 10 || y != cfg.Camera.ViewportHeight {
		t.Errorf("camera bottom maps to (%v, %v)", x, y)
	}
	if _, y := e.WorldToScreen(0, cam+cfg.Camera.ViewportHeight); y != 0 {
		t.Errorf("camera top maps to y=%v", y)
	}
}

func TestVisiblePlatforms(t *testing.T) {
	e := newEngine(t, floorLevel(16, 5000, levels.PlatformConfig{X: 0, Y: 3000, Width: 50, Height: 16, Type: "solid"}))

	vis := e.VisiblePlatforms()
	if len(vis) != 1 || vis[0].Bounds().Y != 0 {
		t.Errorf("expected only the floor to be visible, got %d platforms", len(vis))
	}
	if e.PlatformCount() != 2 {
		t.Errorf("platform count = %d", e.PlatformCount())
	}
}

func TestRestartReloadsLevel(t *testing.T) {
	e := newEngine(t, floorLevel(40, 1000))
	runUntil(e, 120, func(f Frame) bool { return f.Has(entity.EventLand) })
	if e.State().Score == 0 {
		t.Fatal("expected a landing score before restart")
	}

	if err := e.Restart(); err != nil {
		t.Fatal(err)
	}
	s := e.State()
	if s.Score != 0 || !s.Playing || e.Player().Y != 40 {
		t.Errorf("restart should reset the run, got %+v y=%v", s, e.Player().Y)
	}
}

type sample struct {
	x, y  float64
	score int
	n     int
}

func runEndless(seed int64, frames int) ([]sample, State) {
	e := New(config.DefaultConfig())
	_ = e.LoadEndless(seed)
	out := make([]sample, 0, frames)
	for i := 0; i < frames; i++ {
		switch {
		case i%25 == 0:
			e.OnJumpStart()
		case i%25 == 12:
			e.OnJumpEnd()
		}
		if i%97 == 50 {
			e.OnDash(1 - 2*(i/97%2))
		}
		f := e.Update(frameMs)
		out = append(out, sample{x: e.Player().X, y: e.Player().Y, score: f.State.Score, n: len(f.Events)})
	}
	return out, e.State()
}

func TestEndlessDeterminism(t *testing.T) {
	a, sa := runEndless(42, 900)
	b, sb := runEndless(42, 900)

	if sa != sb {
		t.Fatalf("final states differ: %+v vs %+v", sa, sb)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs diverged at frame %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestEndlessMaterializesAhead(t *testing.T) {
	cfg := config.DefaultConfig()
	e := New(cfg)
	if err := e.LoadEndless(7); err != nil {
		t.Fatal(err)
	}
	if !e.Endless() || !math.IsInf(e.GoalY(), 1) {
		t.Fatal("endless mode should have no goal")
	}
	if e.PlatformCount() < 2 {
		t.Fatalf("expected generated platforms around the start, got %d", e.PlatformCount())
	}

	for i := 0; i < 120; i++ {
		e.Update(frameMs)
	}
	if f := e.Generator().Frontier(); f < e.CameraY()+cfg.Camera.ViewportHeight {
		t.Errorf("frontier %v is below the top of the view", f)
	}
	for _, p := range e.VisiblePlatforms() {
		b := p.Bounds()
		if b.X < 0 || b.Right() > cfg.World.Width {
			t.Errorf("platform %v outside the world", b)
		}
	}
}

func TestPruneReleasesDedupKeys(t *testing.T) {
	cfg := config.DefaultConfig()
	e := New(cfg)
	if err := e.LoadEndless(3); err != nil {
		t.Fatal(err)
	}
	for _, c := range e.coins {
		c.Collect()
	}
	e.animateCollected(cfg.PowerUps.CollectAnimMs + 1)
	if len(e.coins) != 0 {
		t.Fatalf("collected coins should leave after their animation, %d left", len(e.coins))
	}

	e.cameraY += cfg.World.PruneDistance + 10*cfg.Camera.ViewportHeight
	e.prune()
	line := e.cameraY - cfg.World.PruneDistance
	for k := range e.coinKeys {
		if k.Y+cfg.Generator.CoinSize < line {
			t.Errorf("coin key %v below the prune line %v survived", k, line)
		}
	}
	if len(e.known) != e.PlatformCount() {
		t.Errorf("known keys %d, platforms %d", len(e.known), e.PlatformCount())
	}
}

func TestNearbyReachCoversEveryLaunch(t *testing.T) {
	cfg := config.DefaultConfig()
	if got, want := New(cfg).maxLaunch(), cfg.Physics.JumpForce*cfg.Physics.BounceMultiplier; got != want {
		t.Errorf("default maxLaunch = %v, expected the bounce launch %v", got, want)
	}

	cfg.Physics.GravityBoost = 4
	if got, want := New(cfg).maxLaunch(), cfg.Physics.JumpForce*4; got != want {
		t.Errorf("maxLaunch = %v, expected the boosted jump %v", got, want)
	}

	cfg.Physics.ShieldRescueVelocity = cfg.Physics.JumpForce * 6
	if got := New(cfg).maxLaunch(); got != cfg.Physics.ShieldRescueVelocity {
		t.Errorf("maxLaunch = %v, expected the shield rescue %v", got, cfg.Physics.ShieldRescueVelocity)
	}
}
