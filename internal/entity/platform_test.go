package entity

import (
	"math"
	"testing"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/core"
)

func testTiming() config.PlatformsConfig {
	return config.DefaultConfig().Platforms
}

func newTestPlatform(t Type, r core.Rect) *Platform {
	return NewPlatform(PlatformSpec{Rect: r, Type: t}, testTiming())
}

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, ok := ParseType(typ.String())
		if !ok || got != typ {
			t.Errorf("ParseType(%q) = %v, %v", typ.String(), got, ok)
		}
	}
	if _, ok := ParseType("trampoline"); ok {
		t.Error("unknown type should not parse")
	}
	if len(Types()) != 15 {
		t.Errorf("expected 15 platform types, got %d", len(Types()))
	}
}

func TestCrumbleLifecycle(t *testing.T) {
	timing := testTiming()
	total := timing.CrumbleDelayMs + timing.CrumbleDurationMs
	p := newTestPlatform(TypeCrumble, core.NewRect(0, 0, 100, 16))

	// Untouched crumble platforms never decay
	for i := 0; i < 200; i++ {
		p.Update(0.01)
	}
	if !p.Collidable() {
		t.Fatal("crumble should stay solid until StartCrumble")
	}

	if !p.StartCrumble() {
		t.Fatal("first StartCrumble should arm the timer")
	}
	if p.StartCrumble() {
		t.Error("StartCrumble should be idempotent")
	}

	const frameMs = 10.0
	elapsed := 0.0
	for p.Collidable() {
		if !p.Shaking() && p.CrumbleProgress() == 0 && elapsed > timing.CrumbleDelayMs {
			t.Fatal("platform should be shrinking after the delay")
		}
		p.Update(frameMs / 1000)
		elapsed += frameMs
		if elapsed > total*2 {
			t.Fatal("crumble never completed")
		}
	}

	if elapsed < total-1e-6 || elapsed > total+frameMs {
		t.Errorf("became non-collidable after %vms, expected within one frame of %vms", elapsed, total)
	}
	if !p.Gone() || p.CrumbleProgress() != 1 {
		t.Error("destroyed crumble should report Gone with full progress")
	}

	p.Update(1)
	if p.Collidable() {
		t.Error("destroyed crumble must stay non-collidable")
	}
}

func TestGlassThreshold(t *testing.T) {
	hits := testTiming().GlassHits
	p := newTestPlatform(TypeGlass, core.NewRect(0, 0, 100, 16))

	for i := 1; i < hits; i++ {
		if p.Hit() {
			t.Fatalf("hit %d should not break glass", i)
		}
		if !p.Collidable() {
			t.Fatalf("glass broke early at hit %d", i)
		}
	}
	if !p.Hit() {
		t.Fatal("threshold hit should break glass")
	}
	if p.Collidable() {
		t.Error("broken glass should not be collidable")
	}
	if p.Hit() {
		t.Error("broken glass should ignore further hits")
	}
	if p.GlassHits() != hits {
		t.Errorf("hits = %d, expected %d", p.GlassHits(), hits)
	}
}

func TestPhaseCycle(t *testing.T) {
	timing := testTiming()
	period := timing.PhaseOnMs + timing.PhaseOffMs

	for _, offset := range []float64{0, 300, -700} {
		p := NewPlatform(PlatformSpec{
			Rect:        core.NewRect(0, 0, 100, 16),
			Type:        TypePhase,
			PhaseOffset: offset,
		}, timing)

		const frameMs = 10.0
		for k := 0; k <= int(3*period/frameMs); k++ {
			clock := float64(k) * frameMs
			phase := math.Mod(clock+offset, period)
			if phase < 0 {
				phase += period
			}
			want := phase < timing.PhaseOnMs
			if p.Collidable() != want {
				t.Fatalf("offset %v, clock %vms: collidable = %v, expected %v", offset, clock, p.Collidable(), want)
			}
			p.Update(frameMs / 1000)
		}
	}
}

func TestSecretReveal(t *testing.T) {
	p := newTestPlatform(TypeSecret, core.NewRect(0, 0, 100, 16))
	if p.Collidable() || p.Revealed() {
		t.Fatal("secret should start hidden")
	}
	if !p.Reveal() {
		t.Fatal("first Reveal should succeed")
	}
	if p.Reveal() {
		t.Error("Reveal should be irreversible and fire once")
	}
	p.Update(5)
	if !p.Collidable() {
		t.Error("revealed secret should be collidable")
	}
}

func TestMotionPatterns(t *testing.T) {
	tests := []struct {
		kind   MotionKind
		wantDX func(a float64) float64
		wantDY func(a float64) float64
	}{
		{MotionHorizontal, func(a float64) float64 { return math.Sin(a) * 40 }, func(float64) float64 { return 0 }},
		{MotionVertical, func(float64) float64 { return 0 }, func(a float64) float64 { return math.Sin(a) * 40 }},
		{MotionCircular, func(a float64) float64 { return math.Cos(a) * 40 }, func(a float64) float64 { return math.Sin(a) * 40 }},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			m := &Motion{Kind: tc.kind, Distance: 40, Speed: 2, StartOffset: 0.5}
			p := NewPlatform(PlatformSpec{Rect: core.NewRect(100, 200, 60, 16), Type: TypeMoving, Motion: m}, testTiming())

			before := p.Bounds()
			p.Update(0.25)
			a := 2*0.25 + 0.5
			b := p.Bounds()

			if math.Abs(b.X-(100+tc.wantDX(a))) > 1e-9 || math.Abs(b.Y-(200+tc.wantDY(a))) > 1e-9 {
				t.Errorf("position = (%v, %v), expected (%v, %v)", b.X, b.Y, 100+tc.wantDX(a), 200+tc.wantDY(a))
			}
			dx, dy := p.Delta()
			if math.Abs(dx-(b.X-before.X)) > 1e-9 || math.Abs(dy-(b.Y-before.Y)) > 1e-9 {
				t.Errorf("Delta() = (%v, %v) does not match movement", dx, dy)
			}
			if p.Key().X != 100 || p.Key().Y != 200 {
				t.Error("key must keep the authored origin")
			}
		})
	}
}

func TestPlatformBandCoversMotion(t *testing.T) {
	m := &Motion{Kind: MotionVertical, Distance: 30, Speed: 3}
	p := NewPlatform(PlatformSpec{Rect: core.NewRect(0, 100, 60, 16), Type: TypeSolid, Motion: m}, testTiming())

	lo, hi := p.Band()
	for i := 0; i < 500; i++ {
		p.Update(0.01)
		b := p.Bounds()
		if b.Y < lo-1e-9 || b.Top() > hi+1e-9 {
			t.Fatalf("platform left its band: [%v, %v] outside [%v, %v]", b.Y, b.Top(), lo, hi)
		}
	}
}

func TestConveyorDefaultSpeed(t *testing.T) {
	p := newTestPlatform(TypeConveyor, core.NewRect(0, 0, 100, 16))
	if p.ConveyorSpeed() != testTiming().ConveyorSpeed {
		t.Errorf("conveyor speed = %v, expected configured default", p.ConveyorSpeed())
	}

	custom := NewPlatform(PlatformSpec{Rect: core.NewRect(0, 0, 100, 16), Type: TypeConveyor, ConveyorSpeed: -40}, testTiming())
	if custom.ConveyorSpeed() != -40 {
		t.Errorf("conveyor speed = %v, expected -40", custom.ConveyorSpeed())
	}
}

func TestLavaGlow(t *testing.T) {
	p := newTestPlatform(TypeLava, core.NewRect(0, 0, 100, 16))
	for i := 0; i < 100; i++ {
		p.Update(0.05)
		if g := p.Glow(); g < 0 || g > 1 {
			t.Fatalf("Glow() = %v out of [0, 1]", g)
		}
	}
	if !p.Collidable() {
		t.Error("lava is always collidable")
	}
}
