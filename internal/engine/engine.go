// Package engine orchestrates a skybeat run: it owns the player, the platform
// and collectible collections, the camera and the score, and advances them
// one frame per Update call.
package engine

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/entity"
	"github.com/vovakirdan/skybeat/internal/generator"
	"github.com/vovakirdan/skybeat/internal/levels"
)

// ErrNoLevel is returned when an operation needs a loaded level.
var ErrNoLevel = errors.New("engine: no level loaded")

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine runs one game at a time. It is not safe for concurrent use.
type Engine struct {
	cfg config.GameConfig
	log *log.Logger

	player    *entity.Player
	index     platformIndex
	known     map[entity.Key]bool
	visited   map[entity.Key]bool
	coins     []*entity.Coin
	coinKeys  map[entity.CollectibleKey]bool
	powerUps  []*entity.PowerUp
	gen       *generator.Generator
	level     *levels.Level
	seed      int64
	goalY     float64
	cameraY   float64
	state     State
	comboMs   float64
	nearby    []*entity.Platform
	events    []entity.Event
	loaded    bool
	coinFrame bool
	upFrame   bool

	jumpPressed bool
	jumpHeld    bool
	dashDir     int
}

// New creates an engine with the given configuration.
func New(cfg config.GameConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg: cfg,
		log: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() config.GameConfig {
	return e.cfg
}

// LoadLevel validates a level and resets all state to its start.
// On error the engine is left untouched.
func (e *Engine) LoadLevel(l levels.Level) error {
	if err := levels.Validate(l); err != nil {
		e.log.Warn("rejected level", "id", l.ID, "error", err)
		return fmt.Errorf("engine: load level %s: %w", l.ID, err)
	}

	lvl := l
	e.reset()
	e.level = &lvl
	e.goalY = l.GoalY
	e.player = entity.NewPlayer(l.PlayerStart.X, l.PlayerStart.Y, e.cfg)

	for _, pc := range l.Platforms {
		e.addPlatform(platformSpec(pc))
	}
	size := e.cfg.Generator.CoinSize
	for _, c := range l.Coins {
		e.addCoin(core.NewRect(c.X, c.Y, size, size))
	}
	for _, u := range l.PowerUps {
		kind, _ := entity.ParsePowerUpKind(u.Type)
		e.powerUps = append(e.powerUps, entity.NewPowerUp(u.X, u.Y, size*1.5, kind))
	}

	e.start()
	e.log.Info("level loaded", "id", l.ID, "platforms", len(l.Platforms), "coins", len(l.Coins), "goal", l.GoalY)
	return nil
}

// LoadEndless resets the engine into endless mode with a seeded generator.
func (e *Engine) LoadEndless(seed int64) error {
	e.reset()
	e.seed = seed
	e.gen = generator.New(e.cfg, seed, generator.WithLogger(e.log))
	e.goalY = math.Inf(1)

	start, x, y := e.gen.Start()
	e.player = entity.NewPlayer(x, y, e.cfg)
	e.addPlatform(start)

	e.start()
	e.materialize()
	e.log.Info("endless run started", "seed", seed, "difficulty", e.gen.Difficulty())
	return nil
}

// Restart reloads the current level or endless seed.
func (e *Engine) Restart() error {
	switch {
	case e.level != nil:
		return e.LoadLevel(*e.level)
	case e.gen != nil:
		return e.LoadEndless(e.seed)
	default:
		return ErrNoLevel
	}
}

func (e *Engine) reset() {
	e.index.Reset()
	e.known = make(map[entity.Key]bool)
	e.visited = make(map[entity.Key]bool)
	e.coinKeys = make(map[entity.CollectibleKey]bool)
	e.coins = nil
	e.powerUps = nil
	e.gen = nil
	e.level = nil
	e.seed = 0
	e.state = State{}
	e.comboMs = 0
	e.events = nil
	e.coinFrame = false
	e.upFrame = false
	e.jumpPressed = false
	e.jumpHeld = false
	e.dashDir = 0
}

func (e *Engine) start() {
	for _, it := range e.index.items {
		if e.player.Seat(it.p, e.cfg.Physics.RestEpsilon) {
			break
		}
	}
	e.loaded = true
	e.state.Playing = true
	e.state.Multiplier = 1
	e.cameraY = e.player.Y - e.cfg.Camera.Offset
}

func platformSpec(pc levels.PlatformConfig) entity.PlatformSpec {
	typ, _ := entity.ParseType(pc.Type)
	spec := entity.PlatformSpec{
		Rect:          core.NewRect(pc.X, pc.Y, pc.Width, pc.Height),
		Type:          typ,
		ConveyorSpeed: pc.ConveyorSpeed,
		PhaseOffset:   pc.PhaseOffset,
	}
	if m := pc.MovePattern; m != nil {
		kind, _ := entity.ParseMotionKind(m.Kind)
		spec.Motion = &entity.Motion{Kind: kind, Distance: m.Distance, Speed: m.Speed, StartOffset: m.StartOffset}
	}
	return spec
}

func (e *Engine) addPlatform(spec entity.PlatformSpec) {
	key := spec.Key()
	if e.known[key] {
		return
	}
	e.known[key] = true
	e.index.Insert(entity.NewPlatform(spec, e.cfg.Platforms))
}

func (e *Engine) addCoin(r core.Rect) {
	c := entity.NewCoin(r.X, r.Y, r.W)
	if e.coinKeys[c.Key()] {
		return
	}
	e.coinKeys[c.Key()] = true
	e.coins = append(e.coins, c)
}

// OnJumpStart records a jump press for the next Update and holds the button.
func (e *Engine) OnJumpStart() {
	e.jumpPressed = true
	e.jumpHeld = true
}

// OnJumpEnd releases the jump button.
func (e *Engine) OnJumpEnd() {
	e.jumpHeld = false
}

// OnDash requests a dash in dir (-1 left, +1 right) on the next Update.
func (e *Engine) OnDash(dir int) {
	e.dashDir = dir
}

// State returns the current game state.
func (e *Engine) State() State {
	s := e.state
	if e.player != nil {
		s.HasShield = e.player.Shield
	}
	return s
}

// Player returns the player. Callers must treat it as read-only.
func (e *Engine) Player() *entity.Player {
	return e.player
}

// CameraY returns the world Y at the bottom of the viewport.
func (e *Engine) CameraY() float64 {
	return e.cameraY
}

// GoalY returns the completion line; +Inf in endless mode.
func (e *Engine) GoalY() float64 {
	return e.goalY
}

// Level returns the loaded level, or nil in endless mode.
func (e *Engine) Level() *levels.Level {
	return e.level
}

// Endless reports whether the engine runs a generated level.
func (e *Engine) Endless() bool {
	return e.gen != nil
}

// Generator returns the endless generator, or nil for campaign levels.
func (e *Engine) Generator() *generator.Generator {
	return e.gen
}

// Events returns the events of the last Update.
func (e *Engine) Events() []entity.Event {
	return e.events
}

// CoinCollectedThisFrame reports whether the last Update collected a coin.
func (e *Engine) CoinCollectedThisFrame() bool {
	return e.coinFrame
}

// PowerUpCollectedThisFrame reports whether the last Update collected a power-up.
func (e *Engine) PowerUpCollectedThisFrame() bool {
	return e.upFrame
}

// WorldToScreen converts world coordinates into viewport coordinates with Y down.
func (e *Engine) WorldToScreen(x, y float64) (float64, float64) {
	return x, e.cfg.Camera.ViewportHeight - (y - e.cameraY)
}

// visibleRange returns the world Y window shown by the camera plus margin.
func (e *Engine) visibleRange() (float64, float64) {
	m := e.cfg.Camera.VisibleMargin
	return e.cameraY - m, e.cameraY + e.cfg.Camera.ViewportHeight + m
}

// VisiblePlatforms returns platforms inside the camera window, including
// destroyed ones so renderers can animate them out.
func (e *Engine) VisiblePlatforms() []*entity.Platform {
	lo, hi := e.visibleRange()
	var out []*entity.Platform
	for _, p := range e.index.Query(nil, lo, hi) {
		b := p.Bounds()
		if b.Top() >= lo && b.Y <= hi {
			out = append(out, p)
		}
	}
	return out
}

// VisibleCoins returns coins inside the camera window.
func (e *Engine) VisibleCoins() []*entity.Coin {
	lo, hi := e.visibleRange()
	var out []*entity.Coin
	for _, c := range e.coins {
		if c.Rect.Top() >= lo && c.Rect.Y <= hi {
			out = append(out, c)
		}
	}
	return out
}

// VisiblePowerUps returns power-ups inside the camera window.
func (e *Engine) VisiblePowerUps() []*entity.PowerUp {
	lo, hi := e.visibleRange()
	var out []*entity.PowerUp
	for _, u := range e.powerUps {
		if u.Rect.Top() >= lo && u.Rect.Y <= hi {
			out = append(out, u)
		}
	}
	return out
}

// PlatformCount returns how many platforms are live in the engine.
func (e *Engine) PlatformCount() int {
	return e.index.Len()
}
