package entity

// EventKind identifies something that happened during one frame.
type EventKind int

const (
	EventJump EventKind = iota
	EventAirJump
	EventLand
	EventBounce
	EventDash
	EventAfterimage
	EventDeath
	EventShieldBreak
	EventCrumbleStart
	EventGlassHit
	EventGlassBreak
	EventCoin
	EventPowerUp
	EventSecret
	EventComplete
)

// String returns a short name for logs and the feed.
func (k EventKind) String() string {
	switch k {
	case EventJump:
		return "jump"
	case EventAirJump:
		return "air_jump"
	case EventLand:
		return "land"
	case EventBounce:
		return "bounce"
	case EventDash:
		return "dash"
	case EventAfterimage:
		return "afterimage"
	case EventDeath:
		return "death"
	case EventShieldBreak:
		return "shield_break"
	case EventCrumbleStart:
		return "crumble_start"
	case EventGlassHit:
		return "glass_hit"
	case EventGlassBreak:
		return "glass_break"
	case EventCoin:
		return "coin"
	case EventPowerUp:
		return "powerup"
	case EventSecret:
		return "secret"
	case EventComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// DeathCause records why a run ended.
type DeathCause int

const (
	DeathNone DeathCause = iota
	DeathSpike
	DeathLava
	DeathSide // ran into the side of a platform
	DeathFell
)

// String returns a human-readable cause.
func (c DeathCause) String() string {
	switch c {
	case DeathNone:
		return "none"
	case DeathSpike:
		return "spike"
	case DeathLava:
		return "lava"
	case DeathSide:
		return "side"
	case DeathFell:
		return "fell"
	default:
		return "unknown"
	}
}

// Event is one entry of a frame's event list.
// Platform is set for events caused by a platform; X and Y locate the event.
type Event struct {
	Kind     EventKind
	X, Y     float64
	Platform Key
	Cause    DeathCause
	PowerUp  PowerUpKind
}
