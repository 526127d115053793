// Package skybeat adapts the simulation engine to the arcade host: it maps
// actions to engine input, steps one engine frame per tick and draws the
// world into a character screen.
package skybeat

import (
	"fmt"

	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/engine"
	"github.com/vovakirdan/skybeat/internal/entity"
	"github.com/vovakirdan/skybeat/internal/levels"
	"github.com/vovakirdan/skybeat/internal/registry"
)

// Mode IDs.
const (
	CampaignID = "skybeat"
	EndlessID  = "skybeat_endless"
)

// JumpHoldTicks is how long a jump counts as held after the key press.
// Terminals report presses only, so release is synthesized.
const JumpHoldTicks = 12

// Game is one playable skybeat mode.
type Game struct {
	env     registry.Env
	endless bool
	eng     *engine.Engine
	config  core.RuntimeConfig
	level   levels.Level
	err     error
	paused  bool
	tick    uint64
	holdFor int
	last    engine.Frame
}

// New creates a campaign (endless=false) or endless mode.
func New(env registry.Env, endless bool) *Game {
	return &Game{
		env:     env,
		endless: endless,
		eng:     engine.New(env.Config, engine.WithLogger(env.Logger)),
	}
}

// ID returns the unique identifier for this mode.
func (g *Game) ID() string {
	if g.endless {
		return EndlessID
	}
	return CampaignID
}

// Title returns the display name for this mode.
func (g *Game) Title() string {
	if g.endless {
		return "Skybeat Endless"
	}
	return "Skybeat"
}

// Reset loads the configured level or starts a fresh endless run.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.config = cfg
	g.paused = false
	g.tick = 0
	g.holdFor = 0
	g.last = engine.Frame{}
	g.err = nil

	if g.endless {
		g.err = g.eng.LoadEndless(cfg.Seed)
		return
	}

	lvl, err := g.pickLevel(cfg.LevelID)
	if err == nil {
		err = g.eng.LoadLevel(lvl)
	}
	if err != nil {
		g.err = err
		g.env.Logger.Error("cannot start level", "level", cfg.LevelID, "error", err)
		return
	}
	g.level = lvl
}

func (g *Game) pickLevel(id string) (levels.Level, error) {
	if id != "" {
		return g.env.Levels.LoadByID(id)
	}
	all, err := g.env.Levels.LoadAll()
	if err != nil {
		return levels.Level{}, err
	}
	if len(all) == 0 {
		return levels.Level{}, fmt.Errorf("skybeat: no levels available")
	}
	return all[0], nil
}

// Step maps actions onto the engine and advances it by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	// Ticks that do not advance the engine report no events.
	g.last.Events = nil
	if g.err != nil {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionRestart) && g.finished() {
		g.Reset(g.config)
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) && !g.finished() {
		g.paused = !g.paused
	}
	if g.paused || g.finished() {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	if in.Has(core.ActionJump) {
		g.eng.OnJumpStart()
		g.holdFor = JumpHoldTicks
	} else if g.holdFor > 0 {
		g.holdFor--
		if g.holdFor == 0 {
			g.eng.OnJumpEnd()
		}
	}
	switch {
	case in.Has(core.ActionDashLeft):
		g.eng.OnDash(-1)
	case in.Has(core.ActionDashRight):
		g.eng.OnDash(1)
	}

	g.last = g.eng.Update(g.config.FrameMillis())
	return core.StepResult{State: g.State()}
}

func (g *Game) finished() bool {
	s := g.eng.State()
	return s.Dead || s.Complete
}

// State returns the host-facing state.
func (g *Game) State() core.GameState {
	s := g.eng.State()
	return core.GameState{
		Score:    s.Score,
		GameOver: s.Dead || s.Complete || g.err != nil,
		Won:      s.Complete,
		Paused:   g.paused,
	}
}

// Engine exposes the running engine for spectators and run records.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// Tick returns the number of simulated ticks since the last reset.
func (g *Game) Tick() uint64 {
	return g.tick
}

// LastFrame returns the result of the most recent engine update.
func (g *Game) LastFrame() engine.Frame {
	return g.last
}

// LevelID returns the running level ID, or "endless".
func (g *Game) LevelID() string {
	if g.endless {
		return "endless"
	}
	return g.level.ID
}

// Err returns the error that prevented the run from starting, if any.
func (g *Game) Err() error {
	return g.err
}

func deathText(c entity.DeathCause) string {
	switch c {
	case entity.DeathSpike:
		return "impaled"
	case entity.DeathLava:
		return "burned"
	case entity.DeathSide:
		return "crashed"
	case entity.DeathFell:
		return "fell"
	default:
		return "lost"
	}
}

func init() {
	registry.Register(CampaignID, func(env registry.Env) registry.Game {
		return New(env, false)
	})
	registry.Register(EndlessID, func(env registry.Env) registry.Game {
		return New(env, true)
	})
}
