package entity

import (
	"math"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/core"
)

// Input is the per-frame control state fed to the player.
type Input struct {
	JumpPressed bool // Rising edge, consumed by this frame
	JumpHeld    bool // Level signal for variable jump height
}

// DashState tracks the dash ability.
type DashState struct {
	Active     bool
	Elapsed    float64 // ms into the current dash
	Direction  int     // -1 left, +1 right
	Cooldown   float64 // ms until the next dash is allowed
	sinceImage float64
	started    bool
}

// TrailSample is one slot of the motion trail.
type TrailSample struct {
	X, Y     float64
	Alpha    float64
	Rotation float64
	Active   bool
}

// Player is the controlled actor. The world Y axis points up and (X, Y) is
// the bottom-left corner of the hitbox.
type Player struct {
	X, Y      float64
	W, H      float64
	VelocityX float64
	VelocityY float64
	Grounded  bool
	Dead      bool
	Cause     DeathCause
	Rotation  float64 // Degrees in [0, 360)
	AirJumps  int
	Shield    bool
	Dash      DashState

	support    *Platform
	boost      bool
	graceMs    float64
	trail      []TrailSample
	trailHead  int
	events     []Event
	physics    config.PhysicsConfig
	body       config.PlayerConfig
	dash       config.DashConfig
	worldWidth float64
}

// NewPlayer creates a player standing at (x, y).
func NewPlayer(x, y float64, cfg config.GameConfig) *Player {
	length := cfg.Player.TrailLength
	if length < 1 {
		length = 1
	}
	return &Player{
		X:          x,
		Y:          y,
		W:          cfg.Player.Width,
		H:          cfg.Player.Height,
		AirJumps:   cfg.Player.MaxAirJumps,
		trail:      make([]TrailSample, length),
		physics:    cfg.Physics,
		body:       cfg.Player,
		dash:       cfg.Dash,
		worldWidth: cfg.World.Width,
	}
}

// Rect returns the player's hitbox.
func (p *Player) Rect() core.Rect {
	return core.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Support returns the platform the player is standing on, or nil.
func (p *Player) Support() *Platform {
	if !p.Grounded {
		return nil
	}
	return p.support
}

// Events returns the events emitted by the last Update.
func (p *Player) Events() []Event {
	return p.events
}

// Trail returns the trail ring buffer; the newest sample is at TrailHead.
func (p *Player) Trail() []TrailSample {
	return p.trail
}

// TrailHead returns the index of the newest trail sample.
func (p *Player) TrailHead() int {
	return p.trailHead
}

// Invulnerable reports whether a shield rescue grace period is running.
func (p *Player) Invulnerable() bool {
	return p.graceMs > 0
}

// BoostArmed reports whether the next ground jump is boosted.
func (p *Player) BoostArmed() bool {
	return p.boost
}

// ArmBoost makes the next ground jump use the gravity boost multiplier.
func (p *Player) ArmBoost() {
	p.boost = true
}

// StartDash begins a dash in dir (-1 or +1).
// It fails while dashing, on cooldown, when dead, or for a zero direction.
func (p *Player) StartDash(dir int) bool {
	if p.Dead || p.Dash.Active || p.Dash.Cooldown > 0 || dir == 0 {
		return false
	}
	if dir > 0 {
		dir = 1
	} else {
		dir = -1
	}
	p.Dash = DashState{Active: true, Direction: dir, started: true}
	p.VelocityX = 0
	p.VelocityY = 0
	return true
}

// Hurt applies a lethal hit. A shield absorbs it once and a running grace
// period ignores it. Returns true if the player died.
func (p *Player) Hurt(cause DeathCause) bool {
	if p.Dead {
		return true
	}
	if p.graceMs > 0 {
		return false
	}
	if p.Shield {
		p.Shield = false
		p.VelocityY = p.physics.ShieldRescueVelocity
		p.Grounded = false
		p.support = nil
		p.graceMs = p.physics.ShieldGraceMs
		p.emit(EventShieldBreak, Key{})
		return false
	}
	p.Dead = true
	p.Cause = cause
	p.Grounded = false
	p.events = append(p.events, Event{Kind: EventDeath, X: p.X, Y: p.Y, Cause: cause})
	return true
}

// Update advances the player by dt seconds and resolves collisions against nearby.
func (p *Player) Update(dt float64, in Input, nearby []*Platform) {
	if p.Dead {
		return
	}
	p.events = p.events[:0]
	ms := dt * 1000

	if p.graceMs > 0 {
		p.graceMs = math.Max(p.graceMs-ms, 0)
	}
	if p.Dash.Cooldown > 0 {
		p.Dash.Cooldown = math.Max(p.Dash.Cooldown-ms, 0)
	}
	if p.Dash.started {
		p.Dash.started = false
		p.emit(EventDash, Key{})
	}

	// Dash
	if p.Dash.Active {
		p.Dash.Elapsed += ms
		p.X = p.clampX(p.X + float64(p.Dash.Direction)*p.dash.Speed*dt)
		p.Dash.sinceImage += ms
		for p.Dash.sinceImage >= p.dash.AfterimageMs {
			p.Dash.sinceImage -= p.dash.AfterimageMs
			p.emit(EventAfterimage, Key{})
		}
		if p.Dash.Elapsed >= p.dash.DurationMs {
			p.endDash(true)
		}
	}
	dashing := p.Dash.Active

	// Auto-scroll
	p.Y += p.physics.AutoScrollSpeed * dt

	prevGrounded := p.Grounded
	prevSupport := p.support

	// Jump
	if in.JumpPressed && !dashing {
		switch {
		case p.Grounded:
			p.VelocityY = p.physics.JumpForce * p.jumpMultiplier()
			p.Grounded = false
			p.support = nil
			p.boost = false
			p.emit(EventJump, Key{})
		case p.AirJumps > 0:
			p.AirJumps--
			p.VelocityY = p.physics.JumpForce * p.physics.AirJumpMultiplier
			p.emit(EventAirJump, Key{})
		}
	}

	// Gravity
	if !dashing {
		g := p.physics.Gravity
		if p.VelocityY > 0 && !in.JumpHeld {
			g *= p.physics.JumpCutMultiplier
		}
		p.VelocityY = math.Max(p.VelocityY-g*dt, -p.physics.MaxFallSpeed)
	}

	// Integrate
	p.Y += p.VelocityY * dt
	if p.VelocityX != 0 {
		p.VelocityX *= math.Max(0, 1-p.frictionRate()*dt)
		if math.Abs(p.VelocityX) < 1 {
			p.VelocityX = 0
		}
		x := p.X + p.VelocityX*dt
		p.X = p.clampX(x)
		if p.X != x {
			p.VelocityX = 0
		}
	}

	p.writeTrail(ms)

	// Rotation
	if p.Grounded {
		p.Rotation = math.Mod(math.Round(p.Rotation/90)*90, 360)
	} else {
		p.Rotation = math.Mod(p.Rotation+p.body.RotationSpeed*dt, 360)
	}

	p.resolve(dt, nearby, prevGrounded, prevSupport)

	if p.Grounded && !prevGrounded {
		p.emit(EventLand, p.support.Key())
	}
}

// jumpMultiplier returns the ground jump scale for the current surface.
func (p *Player) jumpMultiplier() float64 {
	if p.boost {
		return p.physics.GravityBoost
	}
	if p.support != nil && p.support.Type == TypeSticky {
		return p.physics.StickyJumpMultiplier
	}
	return 1
}

// frictionRate returns the horizontal decay rate for the current surface.
func (p *Player) frictionRate() float64 {
	if !p.Grounded {
		return p.physics.AirFriction
	}
	if p.support != nil && p.support.Type == TypeIce {
		return p.physics.IceFriction
	}
	return p.physics.GroundFriction
}

// endDash stops a dash; carry keeps part of the dash speed as sliding velocity.
func (p *Player) endDash(carry bool) {
	if carry {
		p.VelocityX = float64(p.Dash.Direction) * p.dash.Speed * p.dash.CarryFraction
	}
	p.Dash.Active = false
	p.Dash.Elapsed = 0
	p.Dash.sinceImage = 0
	p.Dash.Cooldown = p.dash.CooldownMs
}

func (p *Player) clampX(x float64) float64 {
	return core.ClampF(x, 0, math.Max(p.worldWidth-p.W, 0))
}

// writeTrail writes the newest sample then fades the rest.
func (p *Player) writeTrail(ms float64) {
	p.trailHead = (p.trailHead + 1) % len(p.trail)
	p.trail[p.trailHead] = TrailSample{X: p.X, Y: p.Y, Alpha: 1, Rotation: p.Rotation, Active: true}

	fade := ms / p.body.TrailLifetimeMs
	for i := range p.trail {
		if i == p.trailHead || !p.trail[i].Active {
			continue
		}
		p.trail[i].Alpha -= fade
		if p.trail[i].Alpha <= 0 {
			p.trail[i] = TrailSample{}
		}
	}
}

func (p *Player) emit(kind EventKind, key Key) {
	p.events = append(p.events, Event{Kind: kind, X: p.X, Y: p.Y, Platform: key})
}
