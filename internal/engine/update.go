package engine

import (
	"math"
	"slices"

	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/entity"
)

// Update advances the game by dtMs milliseconds and returns what happened.
// dtMs is clamped to [0, MaxDeltaMs]. A finished or unloaded game does not advance.
func (e *Engine) Update(dtMs float64) Frame {
	e.events = e.events[:0]
	e.coinFrame = false
	e.upFrame = false

	if !e.loaded || !e.state.Playing {
		return e.frame(0)
	}
	if math.IsNaN(dtMs) {
		dtMs = 0
	}
	dtMs = core.ClampF(dtMs, 0, e.cfg.World.MaxDeltaMs)

	// Slow motion dilates the world; timers keep real time.
	worldMs := dtMs
	if e.state.ActivePowerUp == entity.PowerUpSlowmo {
		worldMs *= e.cfg.PowerUps.SlowmoFactor
	}
	dt := worldMs / 1000
	p := e.player

	if e.dashDir != 0 {
		p.StartDash(e.dashDir)
		e.dashDir = 0
	}
	if e.gen != nil {
		e.materialize()
	}

	reach := p.H + (math.Abs(p.VelocityY)+e.maxLaunch()+e.cfg.Physics.AutoScrollSpeed)*dt + e.cfg.Physics.RestEpsilon
	e.nearby = e.index.Query(e.nearby[:0], p.Y-reach, p.Y+reach)

	in := entity.Input{JumpPressed: e.jumpPressed, JumpHeld: e.jumpHeld}
	e.jumpPressed = false
	p.Update(dt, in, e.nearby)

	for _, it := range e.index.items {
		it.p.Update(dt)
	}

	e.applyStanding(dt)
	if !p.Dead && p.Rect().Top() < e.cameraY-e.cfg.Physics.FallDeathMargin {
		p.Hurt(entity.DeathFell)
	}
	e.events = append(e.events, p.Events()...)

	e.revealSecrets()
	e.scoreEvents(dtMs)
	e.collect(dt)
	e.animateCollected(dtMs)
	e.tickPowerUp(dtMs)

	e.state.ElapsedMs += dtMs
	switch {
	case p.Dead:
		e.state.Dead = true
		e.state.Playing = false
		e.state.DeathCause = p.Cause
		e.log.Debug("player died", "cause", p.Cause, "y", p.Y, "score", e.state.Score)
	case p.Y >= e.goalY:
		e.state.Complete = true
		e.state.Playing = false
		e.events = append(e.events, entity.Event{Kind: entity.EventComplete, X: p.X, Y: p.Y})
		e.log.Debug("level complete", "score", e.state.Score, "elapsed", e.state.ElapsedMs)
	}

	e.cameraY = math.Max(e.cameraY, p.Y-e.cfg.Camera.Offset)
	e.prune()
	return e.frame(dtMs)
}

// frame copies the events so a kept Frame is not rewritten by later updates.
// maxLaunch is the largest vertical speed any single event can set this frame.
func (e *Engine) maxLaunch() float64 {
	ph := e.cfg.Physics
	scale := max(1, ph.BounceMultiplier, ph.GravityBoost, ph.AirJumpMultiplier, ph.StickyJumpMultiplier)
	return max(math.Abs(ph.JumpForce)*scale, math.Abs(ph.ShieldRescueVelocity))
}

func (e *Engine) frame(dtMs float64) Frame {
	return Frame{Events: slices.Clone(e.events), DtMs: dtMs, State: e.State(), CameraY: e.cameraY}
}

// applyStanding carries the player with a moving support and applies surface effects.
func (e *Engine) applyStanding(dt float64) {
	p := e.player
	support := p.Support()
	if p.Dead || support == nil || !support.Collidable() {
		return
	}
	dx, dy := support.Delta()
	p.X += dx
	p.Y += dy

	if math.Abs(p.Y-support.Bounds().Top()) > e.cfg.Physics.RestEpsilon {
		return
	}
	switch support.Type {
	case entity.TypeConveyor:
		p.X += support.ConveyorSpeed() * dt
	case entity.TypeGravity:
		p.ArmBoost()
	case entity.TypeLava:
		p.Hurt(entity.DeathLava)
	case entity.TypeSlowmo:
		e.activate(entity.PowerUpSlowmo)
	}
	p.X = core.ClampF(p.X, 0, math.Max(e.cfg.World.Width-p.W, 0))
}

// revealSecrets uncovers secret platforms near the player.
func (e *Engine) revealSecrets() {
	p := e.player
	if p.Dead {
		return
	}
	d := e.cfg.Platforms.SecretRevealDistance
	px, py := p.Rect().Center()
	for _, plat := range e.index.Query(e.nearby[:0], py-d, py+d) {
		if plat.Type != entity.TypeSecret {
			continue
		}
		cx, cy := plat.Bounds().Center()
		if math.Hypot(cx-px, cy-py) > d || !plat.Reveal() {
			continue
		}
		e.award(e.cfg.Scoring.SecretPoints)
		e.events = append(e.events, entity.Event{Kind: entity.EventSecret, X: cx, Y: cy, Platform: plat.Key()})
	}
}

// scoreEvents applies landing combos and shield breaks, then the combo window.
func (e *Engine) scoreEvents(dtMs float64) {
	s := &e.state
	landed := false
	for _, ev := range e.events {
		switch ev.Kind {
		case entity.EventLand, entity.EventBounce:
			landed = true
			if e.visited[ev.Platform] {
				continue
			}
			e.visited[ev.Platform] = true
			s.Combo++
			s.MaxCombo = max(s.MaxCombo, s.Combo)
			s.Multiplier = e.multiplier()
			e.award(e.cfg.Scoring.LandingPoints * s.Multiplier)
		case entity.EventShieldBreak:
			s.Combo = 0
			e.comboMs = 0
		}
	}

	if landed {
		e.comboMs = 0
	} else if s.Combo > 0 {
		e.comboMs += dtMs
		if e.comboMs >= e.cfg.Scoring.ComboWindowMs {
			s.Combo = 0
			e.comboMs = 0
		}
	}
	s.Multiplier = e.multiplier()
}

func (e *Engine) multiplier() int {
	step := max(e.cfg.Scoring.ComboStep, 1)
	return min(1+e.state.Combo/step, max(e.cfg.Scoring.MaxMultiplier, 1))
}

// award adds points, doubled while double points is active.
func (e *Engine) award(points int) {
	if e.state.ActivePowerUp == entity.PowerUpDoublePoints {
		points *= 2
	}
	e.state.Score += points
}

// collect pulls coins under the magnet and picks up whatever the player touches.
func (e *Engine) collect(dt float64) {
	p := e.player
	if p.Dead {
		return
	}
	body := p.Rect()
	px, py := body.Center()
	pu := e.cfg.PowerUps

	for _, c := range e.coins {
		if c.Collected {
			continue
		}
		if e.state.ActivePowerUp == entity.PowerUpMagnet {
			cx, cy := c.Rect.Center()
			if math.Hypot(cx-px, cy-py) <= pu.MagnetRadius {
				c.Pull(px, py, pu.MagnetPull*dt)
			}
		}
		if c.Rect.Intersects(body) && c.Collect() {
			e.state.Coins++
			e.award(e.cfg.Scoring.CoinPoints * e.state.Multiplier)
			e.coinFrame = true
			e.events = append(e.events, entity.Event{Kind: entity.EventCoin, X: c.Rect.X, Y: c.Rect.Y})
		}
	}

	for _, u := range e.powerUps {
		if u.Collected || !u.Rect.Intersects(body) || !u.Collect() {
			continue
		}
		if u.Kind == entity.PowerUpShield {
			p.Shield = true
		} else {
			e.activate(u.Kind)
		}
		e.upFrame = true
		e.events = append(e.events, entity.Event{Kind: entity.EventPowerUp, X: u.Rect.X, Y: u.Rect.Y, PowerUp: u.Kind})
	}
}

// activate starts a timed power-up, replacing any other.
func (e *Engine) activate(kind entity.PowerUpKind) {
	pu := e.cfg.PowerUps
	var ms float64
	switch kind {
	case entity.PowerUpMagnet:
		ms = pu.MagnetMs
	case entity.PowerUpSlowmo:
		ms = pu.SlowmoMs
	case entity.PowerUpDoublePoints:
		ms = pu.DoublePointsMs
	default:
		return
	}
	e.state.ActivePowerUp = kind
	e.state.PowerUpRemaining = ms
}

func (e *Engine) tickPowerUp(dtMs float64) {
	s := &e.state
	if s.ActivePowerUp == entity.PowerUpNone {
		return
	}
	s.PowerUpRemaining = math.Max(s.PowerUpRemaining-dtMs, 0)
	if s.PowerUpRemaining == 0 {
		s.ActivePowerUp = entity.PowerUpNone
	}
}

// animateCollected advances pickup animations and drops finished ones.
func (e *Engine) animateCollected(dtMs float64) {
	anim := e.cfg.PowerUps.CollectAnimMs
	coins := e.coins[:0]
	for _, c := range e.coins {
		if !c.Animate(dtMs, anim) {
			coins = append(coins, c)
		}
	}
	clear(e.coins[len(coins):])
	e.coins = coins

	ups := e.powerUps[:0]
	for _, u := range e.powerUps {
		if !u.Animate(dtMs, anim) {
			ups = append(ups, u)
		}
	}
	clear(e.powerUps[len(ups):])
	e.powerUps = ups
}

// materialize pulls generated platforms and coins near the camera into play.
func (e *Engine) materialize() {
	lo := e.cameraY - e.cfg.Camera.VisibleMargin
	hi := e.cameraY + e.cfg.Camera.ViewportHeight + e.cfg.Camera.VisibleMargin
	hi = math.Max(hi, e.player.Y+e.cfg.Camera.ViewportHeight)
	e.gen.EnsureGeneratedTo(hi)
	for _, spec := range e.gen.PlatformsInRange(lo, hi) {
		e.addPlatform(spec)
	}
	for _, r := range e.gen.CoinsInRange(lo, hi) {
		e.addCoin(r)
	}
}

// prune drops entities far below the camera.
func (e *Engine) prune() {
	line := e.cameraY - e.cfg.World.PruneDistance
	n := e.index.PruneBelow(line, func(p *entity.Platform) {
		delete(e.known, p.Key())
		delete(e.visited, p.Key())
	})

	coins := e.coins[:0]
	for _, c := range e.coins {
		if c.Rect.Top() >= line {
			coins = append(coins, c)
		}
	}
	clear(e.coins[len(coins):])
	e.coins = coins

	// Keys of collected coins outlive the coin so it is not materialized again.
	size := e.cfg.Generator.CoinSize
	for k := range e.coinKeys {
		if k.Y+size < line {
			delete(e.coinKeys, k)
		}
	}

	ups := e.powerUps[:0]
	for _, u := range e.powerUps {
		if u.Rect.Top() >= line {
			ups = append(ups, u)
		}
	}
	clear(e.powerUps[len(ups):])
	e.powerUps = ups

	if e.gen != nil {
		e.gen.Prune(line)
	}
	if n > 0 {
		e.log.Debug("pruned platforms", "count", n, "below", line)
	}
}
