// Package generator builds endless-mode levels ahead of the player.
// Output depends only on the configuration and the seed.
package generator

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/entity"
)

// Section is a difficulty tier controlling the type weight table.
type Section int

const (
	SectionEasy Section = iota
	SectionMedium
	SectionHard
	SectionBonus
)

// String returns the section name.
func (s Section) String() string {
	switch s {
	case SectionEasy:
		return "easy"
	case SectionMedium:
		return "medium"
	case SectionHard:
		return "hard"
	case SectionBonus:
		return "bonus"
	default:
		return "unknown"
	}
}

// drawOrder is the fixed enumeration order of the weighted type draw.
var drawOrder = [...]entity.Type{
	entity.TypeSolid,
	entity.TypeBounce,
	entity.TypeMoving,
	entity.TypeCrumble,
	entity.TypeSpike,
	entity.TypePhase,
	entity.TypeGlass,
	entity.TypeConveyor,
	entity.TypeIce,
}

// Weights holds one weight per entry of drawOrder.
type Weights [len(drawOrder)]int

// Total returns the sum of all weights.
func (w Weights) Total() int {
	total := 0
	for _, v := range w {
		total += v
	}
	return total
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for progression messages.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// Generator emits platforms and coins above a rising frontier.
type Generator struct {
	cfg config.GameConfig
	dm  *config.DifficultyManager
	rng *core.RNG
	log *log.Logger

	difficulty int
	count      int
	section    Section
	frontier   float64 // Bottom of the last safe platform
	lastX      float64
	lastW      float64

	platforms []entity.PlatformSpec
	coins     []core.Rect
	keys      map[entity.Key]bool
}

// New creates a generator and emits the starting platform.
func New(cfg config.GameConfig, seed int64, opts ...Option) *Generator {
	g := &Generator{
		cfg:  cfg,
		dm:   config.NewDifficultyManager(cfg.Difficulty, cfg.Generator),
		rng:  core.NewRNG(seed),
		log:  log.New(io.Discard),
		keys: make(map[entity.Key]bool),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.difficulty = g.dm.Initial()
	g.section = SectionEasy
	if g.difficulty >= 2 {
		g.section = g.rollSection()
	}

	w := math.Min(cfg.World.Width-2*cfg.World.Margin, cfg.Generator.MaxWidth*2)
	start := entity.PlatformSpec{
		Rect: core.NewRect((cfg.World.Width-w)/2, 0, w, cfg.Generator.PlatformHeight),
		Type: entity.TypeSolid,
	}
	g.add(start)
	g.frontier = start.Rect.Y
	g.lastX = start.Rect.X
	g.lastW = start.Rect.W
	return g
}

// Start returns the starting platform and the player spawn on top of it.
func (g *Generator) Start() (entity.PlatformSpec, float64, float64) {
	s := g.platforms[0]
	x := s.Rect.X + (s.Rect.W-g.cfg.Player.Width)/2
	return s, x, s.Rect.Top()
}

// Difficulty returns the current difficulty (0..MaxDifficulty).
func (g *Generator) Difficulty() int { return g.difficulty }

// Section returns the current section type.
func (g *Generator) Section() Section { return g.section }

// PlatformCount returns how many platforms have been emitted after the start.
func (g *Generator) PlatformCount() int { return g.count }

// Frontier returns the highest world Y generated so far.
func (g *Generator) Frontier() float64 { return g.frontier }

// EnsureGeneratedTo generates until the frontier is Lookahead above y.
func (g *Generator) EnsureGeneratedTo(y float64) {
	for g.frontier < y+g.cfg.Generator.Lookahead {
		g.step()
	}
}

// PlatformsInRange returns every stored platform whose extent overlaps [minY, maxY].
func (g *Generator) PlatformsInRange(minY, maxY float64) []entity.PlatformSpec {
	var out []entity.PlatformSpec
	for _, p := range g.platforms {
		lo, hi := p.Rect.Y, p.Rect.Top()
		if p.Motion != nil {
			_, ry := p.Motion.Reach()
			lo, hi = lo-ry, hi+ry
		}
		if hi >= minY && lo <= maxY {
			out = append(out, p)
		}
	}
	return out
}

// CoinsInRange returns every stored coin overlapping [minY, maxY].
func (g *Generator) CoinsInRange(minY, maxY float64) []core.Rect {
	var out []core.Rect
	for _, c := range g.coins {
		if c.Top() >= minY && c.Y <= maxY {
			out = append(out, c)
		}
	}
	return out
}

// Prune drops stored entities entirely below y along with their dedup keys.
// Generation only moves up, so a pruned key cannot come back.
func (g *Generator) Prune(y float64) {
	kept := g.platforms[:0]
	for _, p := range g.platforms {
		if p.Rect.Top() >= y {
			kept = append(kept, p)
		} else {
			delete(g.keys, p.Key())
		}
	}
	clear(g.platforms[len(kept):])
	g.platforms = kept

	coins := g.coins[:0]
	for _, c := range g.coins {
		if c.Top() >= y {
			coins = append(coins, c)
		}
	}
	g.coins = coins
}

// step emits one main platform and its secondary spawns.
func (g *Generator) step() {
	gc := g.cfg.Generator
	margin := g.cfg.World.Margin
	width := g.cfg.World.Width

	typ := g.pickType()

	gapLo, gapHi := g.dm.GapRange(g.difficulty)
	gap := g.rng.Range(gapLo, gapHi)
	wLo, wHi := g.dm.Width(g.difficulty)
	w := g.rng.Range(wLo, wHi)
	maxShift := g.dm.MaxShift(g.difficulty)
	shift := g.rng.Range(-maxShift, maxShift)

	var motion *entity.Motion
	reach := 0.0
	if typ == entity.TypeMoving {
		reach = math.Min(gc.MoveDistance, math.Max((width-2*margin-w)/2, 0))
		motion = &entity.Motion{
			Kind:        entity.MotionHorizontal,
			Distance:    reach,
			Speed:       gc.MoveSpeed,
			StartOffset: g.rng.Range(0, 2*math.Pi),
		}
	}

	x := g.lastX + g.lastW/2 + shift - w/2
	x = core.ClampF(x, margin+reach, width-margin-w-reach)

	h := gc.PlatformHeight
	if typ == entity.TypeSpike {
		// Hazards sit mid-gap and do not move the frontier.
		g.add(entity.PlatformSpec{Rect: core.NewRect(x, g.frontier+gap/2, w, h), Type: typ})
		g.advance()
		return
	}

	y := g.frontier + gap
	main := entity.PlatformSpec{Rect: core.NewRect(x, y, w, h), Type: typ, Motion: motion}
	g.add(main)
	g.frontier = y
	g.lastX, g.lastW = x, w

	if g.rng.Chance(gc.CoinChance) {
		size := gc.CoinSize
		g.coins = append(g.coins, core.NewRect(x+w/2-size/2, y+h+gc.CoinLift, size, size))
	}

	if g.difficulty >= gc.SpikeMinDifficulty && g.rng.Chance(gc.SpikeChance) {
		sw := gc.SpikeWidth
		sx := x + w + sw/2
		if g.rng.Chance(0.5) {
			sx = x - sw - sw/2
		}
		sx = core.ClampF(sx, margin, width-margin-sw)
		spike := core.NewRect(sx, y, sw, h)
		swept := main.Rect
		swept.X -= reach
		swept.W += 2 * reach
		if !spike.Intersects(swept) {
			g.add(entity.PlatformSpec{Rect: spike, Type: entity.TypeSpike})
		}
	}

	g.advance()
}

// advance counts a platform and applies difficulty progression.
func (g *Generator) advance() {
	g.count++
	if g.count%g.cfg.Generator.PlatformsPerLevel != 0 {
		return
	}
	prev := g.difficulty
	g.difficulty = g.dm.Next(g.difficulty)
	g.section = SectionEasy
	if g.difficulty >= 2 {
		g.section = g.rollSection()
	}
	g.log.Debug("section change", "platforms", g.count, "difficulty", g.difficulty, "from", prev, "section", g.section)
}

// add stores a platform unless one with the same key exists.
func (g *Generator) add(spec entity.PlatformSpec) bool {
	key := spec.Key()
	if g.keys[key] {
		return false
	}
	g.keys[key] = true
	g.platforms = append(g.platforms, spec)
	return true
}

// pickType draws the next platform type from the current table.
func (g *Generator) pickType() entity.Type {
	weights := g.Weights()
	total := weights.Total()
	if total <= 0 {
		return entity.TypeSolid
	}
	return pick(weights, g.rng.Float64()*float64(total))
}

// pick subtracts weights from r in drawOrder until r <= 0. Zero weights are skipped.
func pick(weights Weights, r float64) entity.Type {
	for i, w := range weights {
		if w == 0 {
			continue
		}
		r -= float64(w)
		if r <= 0 {
			return drawOrder[i]
		}
	}
	return entity.TypeSolid
}

// Weights returns the current weight table, indexed like drawOrder.
func (g *Generator) Weights() Weights {
	return WeightsFor(g.section, g.difficulty)
}

// WeightsFor returns the table for a section, shifted toward hazards by difficulty.
func WeightsFor(section Section, difficulty int) Weights {
	//               solid bounce moving crumble spike phase glass conveyor ice
	var w Weights
	switch section {
	case SectionEasy:
		w = Weights{80, 15, 5, 0, 0, 0, 0, 0, 0}
	case SectionMedium:
		w = Weights{50, 15, 12, 10, 5, 8, 0, 0, 0}
	case SectionHard:
		w = Weights{30, 10, 15, 15, 12, 10, 8, 0, 0}
	case SectionBonus:
		return Weights{40, 30, 10, 0, 0, 0, 0, 10, 10}
	}
	if difficulty <= 0 || section == SectionEasy && difficulty < 2 {
		return w
	}

	shift := core.Min(difficulty*3, w[0]-10)
	w[0] -= shift
	w[3] += shift / 3           // crumble
	w[4] += shift / 3           // spike
	w[5] += shift - 2*(shift/3) // phase
	return w
}

// rollSection draws the next section; the hard share grows with difficulty.
func (g *Generator) rollSection() Section {
	d := g.difficulty
	weights := [4]int{core.Max(30-2*d, 5), 40, 15 + 3*d, 10}
	total := 0
	for _, w := range weights {
		total += w
	}
	r := g.rng.Float64() * float64(total)
	for i, w := range weights {
		r -= float64(w)
		if r <= 0 {
			return Section(i)
		}
	}
	return SectionMedium
}
