package entity

import (
	"math"

	"github.com/vovakirdan/skybeat/internal/core"
)

// resolve runs the collision pass for one frame.
// It reads collidability as it was before platforms advance this frame.
func (p *Player) resolve(dt float64, nearby []*Platform, prevGrounded bool, prevSupport *Platform) {
	p.Grounded = false
	p.support = nil

	// Resting contact: auto-scroll lifts a standing player by a few units every
	// frame, so a grounded player stays seated while within that lift.
	if prevGrounded && prevSupport != nil && p.VelocityY <= 0 && prevSupport.Collidable() {
		sb := prevSupport.Bounds()
		gap := p.Y - sb.Top()
		if p.Rect().OverlapsX(sb) && gap >= 0 && gap <= p.physics.AutoScrollSpeed*dt+p.physics.RestEpsilon {
			p.Y = sb.Top()
			p.VelocityY = 0
			p.Grounded = true
			p.support = prevSupport
		}
	}

	for _, plat := range nearby {
		if p.Dead {
			return
		}
		if !plat.Collidable() {
			continue
		}
		side := core.Classify(p.Rect(), plat.Bounds())
		if side == core.SideNone {
			continue
		}
		p.dispatch(plat, side, prevGrounded, prevSupport)
	}
}

// dispatch applies the per-type rule for one contact.
func (p *Player) dispatch(plat *Platform, side core.Side, prevGrounded bool, prevSupport *Platform) {
	switch plat.Type {
	case TypeSpike:
		p.Hurt(DeathSpike)
	case TypeLava:
		p.Hurt(DeathLava)
	case TypeBounce:
		if side == core.SideBottom {
			p.Y = plat.Bounds().Top()
			p.VelocityY = p.physics.JumpForce * p.physics.BounceMultiplier
			p.AirJumps = p.body.MaxAirJumps
			p.emit(EventBounce, plat.Key())
			return
		}
		p.generic(plat, side, prevGrounded, prevSupport)
	case TypeWall:
		if side.Vertical() {
			p.generic(plat, side, prevGrounded, prevSupport)
			return
		}
		p.pushOut(plat, side)
	default:
		p.generic(plat, side, prevGrounded, prevSupport)
	}
}

// generic lands, bumps or kills depending on the side.
func (p *Player) generic(plat *Platform, side core.Side, prevGrounded bool, prevSupport *Platform) {
	b := plat.Bounds()
	switch side {
	case core.SideBottom:
		p.Y = b.Top()
		p.VelocityY = 0
		p.Grounded = true
		p.AirJumps = p.body.MaxAirJumps
		p.support = plat
		if !prevGrounded || prevSupport != plat {
			p.onLanding(plat)
		}
	case core.SideTop:
		p.Y = b.Y - p.H
		p.VelocityY = math.Min(p.VelocityY, 0)
	case core.SideLeft, core.SideRight:
		if p.Dash.Active && plat.Type.DashPassable() {
			return
		}
		p.Hurt(DeathSide)
	}
}

// onLanding triggers the platform reactions to a fresh landing.
func (p *Player) onLanding(plat *Platform) {
	switch plat.Type {
	case TypeCrumble:
		if plat.StartCrumble() {
			p.emit(EventCrumbleStart, plat.Key())
		}
	case TypeGlass:
		if plat.Hit() {
			p.emit(EventGlassBreak, plat.Key())
		} else {
			p.emit(EventGlassHit, plat.Key())
		}
	}
}

// pushOut moves the player clear of a wall's face and stops horizontal motion.
func (p *Player) pushOut(plat *Platform, side core.Side) {
	b := plat.Bounds()
	if side == core.SideLeft {
		p.X = b.X - p.W
	} else {
		p.X = b.Right()
	}
	p.X = p.clampX(p.X)
	p.VelocityX = 0
	if p.Dash.Active {
		p.endDash(false)
	}
}

// Seat puts the player at rest on plat when its feet are within eps of the
// top surface. No landing is reported. Lethal platforms never seat.
func (p *Player) Seat(plat *Platform, eps float64) bool {
	b := plat.Bounds()
	if p.Dead || plat.Type.Lethal() || !plat.Collidable() || !p.Rect().OverlapsX(b) || math.Abs(p.Y-b.Top()) > eps {
		return false
	}
	p.Y = b.Top()
	p.VelocityY = 0
	p.Grounded = true
	p.support = plat
	p.AirJumps = p.body.MaxAirJumps
	return true
}
