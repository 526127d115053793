package levels

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/entity"
)

// Warning is a content problem that does not stop a level from loading.
type Warning struct {
	Code    string
	Field   string
	Message string
}

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("[%s] %s", w.Code, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Field, w.Message)
}

// Lint reports degenerate content in a structurally valid level.
// Checks:
//   - platforms outside the world
//   - hazards overlapping a standable platform
//   - duplicate platforms
//   - a start position that is unsupported or already inside a platform
//   - vertical gaps larger than the player can climb
func Lint(l Level, cfg config.GameConfig) []Warning {
	var out []Warning
	add := func(code, field, format string, args ...any) {
		out = append(out, Warning{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	type placed struct {
		idx  int
		typ  entity.Type
		rect core.Rect
	}
	plats := make([]placed, 0, len(l.Platforms))
	seen := make(map[entity.Key]int)

	for i, p := range l.Platforms {
		typ, ok := entity.ParseType(p.Type)
		if !ok {
			continue
		}
		r := core.NewRect(p.X, p.Y, p.Width, p.Height)
		field := fmt.Sprintf("platforms[%d]", i)

		reach := 0.0
		if p.MovePattern != nil && p.MovePattern.Kind != "vertical" {
			reach = p.MovePattern.Distance
		}
		if r.X-reach < 0 || r.Right()+reach > cfg.World.Width {
			add("OUT_OF_BOUNDS", field, "spans x [%v, %v] outside world width %v", r.X-reach, r.Right()+reach, cfg.World.Width)
		}

		key := entity.Key{X: p.X, Y: p.Y, Type: typ, W: p.Width}
		if first, dup := seen[key]; dup {
			add("DUPLICATE", field, "duplicates platforms[%d]", first)
		} else {
			seen[key] = i
		}
		plats = append(plats, placed{idx: i, typ: typ, rect: r})
	}

	for _, h := range plats {
		if !h.typ.Lethal() {
			continue
		}
		for _, s := range plats {
			if s.typ.Lethal() || !h.rect.Intersects(s.rect) {
				continue
			}
			add("HAZARD_OVERLAP", fmt.Sprintf("platforms[%d]", h.idx), "%s overlaps %s platforms[%d]", h.typ, s.typ, s.idx)
		}
	}

	start := core.NewRect(l.PlayerStart.X, l.PlayerStart.Y, cfg.Player.Width, cfg.Player.Height)
	supported := false
	for _, p := range plats {
		r := p.rect
		if r.Intersects(start) {
			add("START_BLOCKED", "playerStart", "start overlaps platforms[%d]", p.idx)
		}
		if !p.typ.Lethal() && r.OverlapsX(start) && r.Top() <= start.Y && start.Y-r.Top() <= cfg.Physics.RestEpsilon {
			supported = true
		}
	}
	if !supported {
		add("NO_START_SUPPORT", "playerStart", "no platform under the start position")
	}

	// Climb check over the tops of standable platforms between start and goal.
	reach := ClimbHeight(cfg)
	tops := []float64{l.PlayerStart.Y}
	for _, p := range plats {
		if p.typ.Lethal() || p.typ == entity.TypeSecret {
			continue
		}
		top := p.rect.Top()
		if top > l.PlayerStart.Y && top < l.GoalY {
			tops = append(tops, top)
		}
	}
	tops = append(tops, l.GoalY)
	sort.Float64s(tops)
	for i := 1; i < len(tops); i++ {
		if gap := tops[i] - tops[i-1]; gap > reach {
			add("UNREACHABLE", "goalY", "climb of %.0f at y=%.0f exceeds reach %.0f", gap, tops[i-1], reach)
			break
		}
	}

	return out
}

// ClimbHeight estimates the highest rise from a standing start using the
// ground jump, every air jump, and auto-scroll during those ascents.
func ClimbHeight(cfg config.GameConfig) float64 {
	ph := cfg.Physics
	if ph.Gravity <= 0 {
		return ph.JumpForce
	}
	rise := func(v float64) float64 {
		return v*v/(2*ph.Gravity) + ph.AutoScrollSpeed*v/ph.Gravity
	}
	total := rise(ph.JumpForce)
	for i := 0; i < cfg.Player.MaxAirJumps; i++ {
		total += rise(ph.JumpForce * ph.AirJumpMultiplier)
	}
	return total
}
