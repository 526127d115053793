// Package entity implements the simulated bodies of skybeat: platforms with
// per-type state machines, the player with its collision resolver, and the
// collectibles. Everything here is deterministic and free of I/O.
package entity

// Type enumerates platform behaviours.
type Type int

const (
	TypeSolid Type = iota
	TypeBounce
	TypeCrumble
	TypeMoving
	TypeSpike
	TypePhase
	TypeConveyor
	TypeGravity
	TypeSticky
	TypeGlass
	TypeSlowmo
	TypeWall
	TypeSecret
	TypeIce
	TypeLava
)

// Types returns every platform type in declaration order.
func Types() []Type {
	return []Type{
		TypeSolid, TypeBounce, TypeCrumble, TypeMoving, TypeSpike,
		TypePhase, TypeConveyor, TypeGravity, TypeSticky, TypeGlass,
		TypeSlowmo, TypeWall, TypeSecret, TypeIce, TypeLava,
	}
}

// String returns the configuration name of the type.
func (t Type) String() string {
	switch t {
	case TypeSolid:
		return "solid"
	case TypeBounce:
		return "bounce"
	case TypeCrumble:
		return "crumble"
	case TypeMoving:
		return "moving"
	case TypeSpike:
		return "spike"
	case TypePhase:
		return "phase"
	case TypeConveyor:
		return "conveyor"
	case TypeGravity:
		return "gravity"
	case TypeSticky:
		return "sticky"
	case TypeGlass:
		return "glass"
	case TypeSlowmo:
		return "slowmo"
	case TypeWall:
		return "wall"
	case TypeSecret:
		return "secret"
	case TypeIce:
		return "ice"
	case TypeLava:
		return "lava"
	default:
		return "unknown"
	}
}

// ParseType converts a configuration name into a Type.
func ParseType(s string) (Type, bool) {
	for _, t := range Types() {
		if t.String() == s {
			return t, true
		}
	}
	return TypeSolid, false
}

// Lethal reports whether touching the type kills on any side.
func (t Type) Lethal() bool {
	return t == TypeSpike || t == TypeLava
}

// DashPassable reports whether a dashing player passes through the type's sides.
func (t Type) DashPassable() bool {
	switch t {
	case TypeSpike, TypeLava, TypeWall:
		return false
	default:
		return true
	}
}

// MotionKind is the path shape of a moving platform.
type MotionKind int

const (
	MotionHorizontal MotionKind = iota
	MotionVertical
	MotionCircular
)

// String returns the configuration name of the motion kind.
func (k MotionKind) String() string {
	switch k {
	case MotionHorizontal:
		return "horizontal"
	case MotionVertical:
		return "vertical"
	case MotionCircular:
		return "circular"
	default:
		return "unknown"
	}
}

// ParseMotionKind converts a configuration name into a MotionKind.
func ParseMotionKind(s string) (MotionKind, bool) {
	switch s {
	case "horizontal":
		return MotionHorizontal, true
	case "vertical":
		return MotionVertical, true
	case "circular":
		return MotionCircular, true
	default:
		return MotionHorizontal, false
	}
}

// PowerUpKind enumerates pickups. PowerUpNone marks "no active power-up".
type PowerUpKind int

const (
	PowerUpNone PowerUpKind = iota
	PowerUpMagnet
	PowerUpSlowmo
	PowerUpDoublePoints
	PowerUpShield
)

// String returns the configuration name of the power-up.
func (k PowerUpKind) String() string {
	switch k {
	case PowerUpNone:
		return "none"
	case PowerUpMagnet:
		return "magnet"
	case PowerUpSlowmo:
		return "slowmo"
	case PowerUpDoublePoints:
		return "doublePoints"
	case PowerUpShield:
		return "shield"
	default:
		return "unknown"
	}
}

// ParsePowerUpKind converts a configuration name into a PowerUpKind.
// PowerUpNone is not a valid pickup and is rejected.
func ParsePowerUpKind(s string) (PowerUpKind, bool) {
	switch s {
	case "magnet":
		return PowerUpMagnet, true
	case "slowmo":
		return PowerUpSlowmo, true
	case "doublePoints", "double_points":
		return PowerUpDoublePoints, true
	case "shield":
		return PowerUpShield, true
	default:
		return PowerUpNone, false
	}
}

// Timed reports whether the power-up occupies the exclusive timed slot.
func (k PowerUpKind) Timed() bool {
	return k == PowerUpMagnet || k == PowerUpSlowmo || k == PowerUpDoublePoints
}
