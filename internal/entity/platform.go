package entity

import (
	"math"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/core"
)

// Key identifies a platform by its authored origin.
type Key struct {
	X, Y float64
	Type Type
	W    float64
}

// Motion is an oscillating path around the platform's origin.
type Motion struct {
	Kind        MotionKind
	Distance    float64
	Speed       float64 // Radians per second
	StartOffset float64 // Radians
}

// Reach returns how far the path strays from the origin on each axis.
func (m Motion) Reach() (dx, dy float64) {
	d := math.Abs(m.Distance)
	switch m.Kind {
	case MotionHorizontal:
		return d, 0
	case MotionVertical:
		return 0, d
	default:
		return d, d
	}
}

// offset returns the displacement from the origin at the given phase.
func (m Motion) offset(phase float64) (dx, dy float64) {
	a := phase + m.StartOffset
	switch m.Kind {
	case MotionHorizontal:
		return math.Sin(a) * m.Distance, 0
	case MotionVertical:
		return 0, math.Sin(a) * m.Distance
	default:
		return math.Cos(a) * m.Distance, math.Sin(a) * m.Distance
	}
}

// PlatformSpec is everything needed to build a platform.
type PlatformSpec struct {
	Rect          core.Rect
	Type          Type
	Motion        *Motion
	ConveyorSpeed float64 // 0 uses the configured default
	PhaseOffset   float64 // Milliseconds
}

// Key returns the identity the spec will have once built.
func (s PlatformSpec) Key() Key {
	return Key{X: s.Rect.X, Y: s.Rect.Y, Type: s.Type, W: s.Rect.W}
}

// variant is the per-type mutable state of a platform.
type variant interface {
	isVariant()
}

// CrumbleState tracks a crumbling platform. Elapsed counts from StartCrumble.
type CrumbleState struct {
	Started   bool
	Elapsed   float64
	Destroyed bool
}

// PhaseState tracks a phasing platform's duty cycle.
type PhaseState struct {
	Clock  float64
	Offset float64
	On     bool
}

// GlassState tracks landings on a glass platform.
type GlassState struct {
	Hits   int
	Broken bool
}

// SecretState tracks whether a hidden platform has been found.
type SecretState struct {
	Revealed bool
}

// LavaState drives the cosmetic pulse.
type LavaState struct {
	Pulse float64
}

// ConveyorState holds the horizontal push applied to a standing player.
type ConveyorState struct {
	Speed float64
}

func (*CrumbleState) isVariant()  {}
func (*PhaseState) isVariant()    {}
func (*GlassState) isVariant()    {}
func (*SecretState) isVariant()   {}
func (*LavaState) isVariant()     {}
func (*ConveyorState) isVariant() {}

// Platform is a stateful obstacle.
type Platform struct {
	Type Type

	key    Key
	bounds core.Rect
	motion *Motion
	phase  float64
	dx, dy float64
	state  variant
	timing config.PlatformsConfig
}

// NewPlatform builds a platform from its spec.
// Moving platforms without a path get a default horizontal one.
func NewPlatform(spec PlatformSpec, timing config.PlatformsConfig) *Platform {
	p := &Platform{
		Type:   spec.Type,
		key:    spec.Key(),
		bounds: core.NewRect(spec.Rect.X, spec.Rect.Y, spec.Rect.W, spec.Rect.H),
		timing: timing,
	}

	if spec.Motion != nil {
		m := *spec.Motion
		p.motion = &m
	} else if spec.Type == TypeMoving {
		p.motion = &Motion{Kind: MotionHorizontal, Distance: 50, Speed: 1.5}
	}
	if p.motion != nil {
		ox, oy := p.motion.offset(0)
		p.bounds = p.bounds.Translate(ox, oy)
	}

	switch spec.Type {
	case TypeCrumble:
		p.state = &CrumbleState{}
	case TypePhase:
		ps := &PhaseState{Offset: spec.PhaseOffset}
		ps.On = phaseOn(0, ps.Offset, timing)
		p.state = ps
	case TypeGlass:
		p.state = &GlassState{}
	case TypeSecret:
		p.state = &SecretState{}
	case TypeLava:
		p.state = &LavaState{}
	case TypeConveyor:
		speed := spec.ConveyorSpeed
		if speed == 0 {
			speed = timing.ConveyorSpeed
		}
		p.state = &ConveyorState{Speed: speed}
	}
	return p
}

// Key returns the platform's identity.
func (p *Platform) Key() Key {
	return p.key
}

// Bounds returns the current world rectangle.
func (p *Platform) Bounds() core.Rect {
	return p.bounds
}

// Origin returns the authored rectangle before any motion.
func (p *Platform) Origin() core.Rect {
	return core.Rect{X: p.key.X, Y: p.key.Y, W: p.bounds.W, H: p.bounds.H}
}

// Motion returns the platform's path, or nil when static.
func (p *Platform) Motion() *Motion {
	return p.motion
}

// Delta returns how far the last Update moved the platform.
func (p *Platform) Delta() (dx, dy float64) {
	return p.dx, p.dy
}

// Band returns the vertical extent the platform can ever occupy.
func (p *Platform) Band() (lo, hi float64) {
	lo, hi = p.key.Y, p.key.Y+p.bounds.H
	if p.motion != nil {
		_, ry := p.motion.Reach()
		lo -= ry
		hi += ry
	}
	return lo, hi
}

// Gone reports whether the platform has been permanently removed from play.
func (p *Platform) Gone() bool {
	switch s := p.state.(type) {
	case *CrumbleState:
		return s.Destroyed
	case *GlassState:
		return s.Broken
	default:
		return false
	}
}

// Collidable reports whether the platform takes part in collision this frame.
func (p *Platform) Collidable() bool {
	switch s := p.state.(type) {
	case *CrumbleState:
		return !s.Destroyed
	case *GlassState:
		return !s.Broken
	case *PhaseState:
		return s.On
	case *SecretState:
		return s.Revealed
	default:
		return true
	}
}

// Update advances motion and the type's state machine by dt seconds.
func (p *Platform) Update(dt float64) {
	p.dx, p.dy = 0, 0
	if p.Gone() {
		return
	}
	ms := dt * 1000

	if p.motion != nil {
		prevX, prevY := p.bounds.X, p.bounds.Y
		p.phase += p.motion.Speed * dt
		ox, oy := p.motion.offset(p.phase)
		p.bounds.X = p.key.X + ox
		p.bounds.Y = p.key.Y + oy
		p.dx, p.dy = p.bounds.X-prevX, p.bounds.Y-prevY
	}

	switch s := p.state.(type) {
	case *CrumbleState:
		if s.Started {
			s.Elapsed += ms
			if s.Elapsed >= p.timing.CrumbleDelayMs+p.timing.CrumbleDurationMs {
				s.Destroyed = true
			}
		}
	case *PhaseState:
		s.Clock += ms
		s.On = phaseOn(s.Clock, s.Offset, p.timing)
	case *LavaState:
		s.Pulse = math.Mod(s.Pulse+p.timing.LavaPulseSpeed*dt, 2*math.Pi)
	}
}

// phaseOn reports whether a phase platform is solid at clock ms.
func phaseOn(clock, offset float64, timing config.PlatformsConfig) bool {
	period := timing.PhaseOnMs + timing.PhaseOffMs
	if period <= 0 {
		return true
	}
	t := math.Mod(clock+offset, period)
	if t < 0 {
		t += period
	}
	return t < timing.PhaseOnMs
}

// StartCrumble arms the crumble timer. Repeated calls are ignored.
// Returns true only on the call that armed it.
func (p *Platform) StartCrumble() bool {
	s, ok := p.state.(*CrumbleState)
	if !ok || s.Started || s.Destroyed {
		return false
	}
	s.Started = true
	return true
}

// Hit records a landing on glass. Returns true on the hit that breaks it.
func (p *Platform) Hit() bool {
	s, ok := p.state.(*GlassState)
	if !ok || s.Broken {
		return false
	}
	s.Hits++
	if s.Hits >= p.timing.GlassHits {
		s.Broken = true
		return true
	}
	return false
}

// Reveal uncovers a secret platform. Returns true the first time.
func (p *Platform) Reveal() bool {
	s, ok := p.state.(*SecretState)
	if !ok || s.Revealed {
		return false
	}
	s.Revealed = true
	return true
}

// Revealed reports whether a secret platform is visible; other types always are.
func (p *Platform) Revealed() bool {
	if s, ok := p.state.(*SecretState); ok {
		return s.Revealed
	}
	return true
}

// CrumbleProgress returns the shrink progress in [0, 1], 0 before and during the delay.
func (p *Platform) CrumbleProgress() float64 {
	s, ok := p.state.(*CrumbleState)
	if !ok || !s.Started {
		return 0
	}
	if s.Destroyed {
		return 1
	}
	if p.timing.CrumbleDurationMs <= 0 {
		return core.ClampF(s.Elapsed-p.timing.CrumbleDelayMs, 0, 1)
	}
	return core.ClampF((s.Elapsed-p.timing.CrumbleDelayMs)/p.timing.CrumbleDurationMs, 0, 1)
}

// Shaking reports whether a crumble platform is in its warning delay.
func (p *Platform) Shaking() bool {
	s, ok := p.state.(*CrumbleState)
	return ok && s.Started && !s.Destroyed && s.Elapsed < p.timing.CrumbleDelayMs
}

// GlassHits returns how many landings a glass platform has taken.
func (p *Platform) GlassHits() int {
	if s, ok := p.state.(*GlassState); ok {
		return s.Hits
	}
	return 0
}

// ConveyorSpeed returns the push speed, 0 for other types.
func (p *Platform) ConveyorSpeed() float64 {
	if s, ok := p.state.(*ConveyorState); ok {
		return s.Speed
	}
	return 0
}

// Glow returns the lava glow intensity in [0, 1].
func (p *Platform) Glow() float64 {
	if s, ok := p.state.(*LavaState); ok {
		return (math.Sin(s.Pulse) + 1) / 2
	}
	return 0
}
