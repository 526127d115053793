package levels

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/skybeat/internal/entity"
)

// ErrInvalidLevel is matched by every validation failure.
var ErrInvalidLevel = errors.New("invalid level")

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Is makes errors.Is(err, ErrInvalidLevel) hold for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidLevel
}

func invalid(code, field, format string, args ...any) error {
	return &ValidationError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks the structural contract of a level.
// Checks:
//   - goal above the start, at least one platform
//   - finite coordinates, positive platform sizes
//   - known platform, motion and power-up types
//   - moving platforms carry a path
func Validate(l Level) error {
	if !finite(l.PlayerStart.X, l.PlayerStart.Y, l.GoalY) {
		return invalid("NOT_FINITE", "playerStart", "coordinates must be finite")
	}
	if l.GoalY <= l.PlayerStart.Y {
		return invalid("NO_GOAL", "goalY", "goal %v must be above the start %v", l.GoalY, l.PlayerStart.Y)
	}
	if len(l.Platforms) == 0 {
		return invalid("NO_PLATFORMS", "platforms", "level needs at least one platform")
	}

	for i, p := range l.Platforms {
		field := fmt.Sprintf("platforms[%d]", i)
		if !finite(p.X, p.Y, p.Width, p.Height, p.ConveyorSpeed, p.PhaseOffset) {
			return invalid("NOT_FINITE", field, "values must be finite")
		}
		if p.Width <= 0 || p.Height <= 0 {
			return invalid("BAD_SIZE", field, "size %vx%v must be positive", p.Width, p.Height)
		}
		typ, ok := entity.ParseType(p.Type)
		if !ok {
			return invalid("UNKNOWN_TYPE", field+".type", "unknown platform type %q", p.Type)
		}
		if typ == entity.TypeMoving && p.MovePattern == nil {
			return invalid("NO_PATH", field+".movePattern", "moving platform needs a movePattern")
		}
		if m := p.MovePattern; m != nil {
			if _, ok := entity.ParseMotionKind(m.Kind); !ok {
				return invalid("UNKNOWN_MOTION", field+".movePattern.kind", "unknown motion kind %q", m.Kind)
			}
			if !finite(m.Distance, m.Speed, m.StartOffset) || m.Distance < 0 {
				return invalid("BAD_PATH", field+".movePattern", "distance must be finite and non-negative")
			}
		}
	}

	for i, c := range l.Coins {
		if !finite(c.X, c.Y) {
			return invalid("NOT_FINITE", fmt.Sprintf("coins[%d]", i), "coordinates must be finite")
		}
	}

	for i, u := range l.PowerUps {
		field := fmt.Sprintf("powerUps[%d]", i)
		if !finite(u.X, u.Y) {
			return invalid("NOT_FINITE", field, "coordinates must be finite")
		}
		if _, ok := entity.ParsePowerUpKind(u.Type); !ok {
			return invalid("UNKNOWN_POWERUP", field+".type", "unknown power-up %q", u.Type)
		}
	}

	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
