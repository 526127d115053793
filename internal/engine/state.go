package engine

import "github.com/vovakirdan/skybeat/internal/entity"

// State is the engine's score and life-cycle record.
// At most one of Dead and Complete is ever true; either one clears Playing.
type State struct {
	Score            int
	Coins            int
	Combo            int
	MaxCombo         int
	Multiplier       int
	ActivePowerUp    entity.PowerUpKind
	PowerUpRemaining float64 // ms, never negative
	HasShield        bool
	Playing          bool
	Dead             bool
	Complete         bool
	DeathCause       entity.DeathCause
	ElapsedMs        float64
}

// Frame is the result of one Update.
type Frame struct {
	Events  []entity.Event // Owned by the caller
	DtMs    float64 // Step actually applied after clamping
	State   State
	CameraY float64
}

// Has reports whether an event of the given kind happened this frame.
func (f Frame) Has(kind entity.EventKind) bool {
	for _, e := range f.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
