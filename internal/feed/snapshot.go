// Package feed streams per-frame game snapshots to WebSocket spectators.
// Snapshots are msgpack-encoded binary messages.
package feed

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/skybeat/internal/engine"
)

// PlayerState is the player part of a snapshot.
type PlayerState struct {
	X        float64 `msgpack:"x"`
	Y        float64 `msgpack:"y"`
	W        float64 `msgpack:"w"`
	H        float64 `msgpack:"h"`
	VX       float64 `msgpack:"vx"`
	VY       float64 `msgpack:"vy"`
	Rotation float64 `msgpack:"rot"`
	Grounded bool    `msgpack:"grounded"`
	Dashing  bool    `msgpack:"dashing"`
	Shield   bool    `msgpack:"shield"`
	Dead     bool    `msgpack:"dead"`
}

// PlatformState is one visible platform.
type PlatformState struct {
	Type       string  `msgpack:"type"`
	X          float64 `msgpack:"x"`
	Y          float64 `msgpack:"y"`
	W          float64 `msgpack:"w"`
	H          float64 `msgpack:"h"`
	Collidable bool    `msgpack:"solid"`
	Crumble    float64 `msgpack:"crumble,omitempty"`
	Glow       float64 `msgpack:"glow,omitempty"`
}

// PickupState is one visible coin or power-up.
type PickupState struct {
	Kind string  `msgpack:"kind"`
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
	Size float64 `msgpack:"size"`
}

// Snapshot is everything a spectator needs to draw one frame.
type Snapshot struct {
	Tick       uint64          `msgpack:"tick"`
	Game       string          `msgpack:"game"`
	Level      string          `msgpack:"level"`
	CameraY    float64         `msgpack:"camera"`
	Player     PlayerState     `msgpack:"player"`
	Platforms  []PlatformState `msgpack:"platforms"`
	Pickups    []PickupState   `msgpack:"pickups"`
	Events     []string        `msgpack:"events,omitempty"`
	Score      int             `msgpack:"score"`
	Combo      int             `msgpack:"combo"`
	Multiplier int             `msgpack:"mult"`
	PowerUp    string          `msgpack:"powerup,omitempty"`
	Dead       bool            `msgpack:"dead"`
	Complete   bool            `msgpack:"complete"`
}

// Capture builds a snapshot of the engine's visible world after a frame.
func Capture(tick uint64, game, level string, e *engine.Engine, frame engine.Frame) Snapshot {
	st := e.State()
	s := Snapshot{
		Tick:       tick,
		Game:       game,
		Level:      level,
		CameraY:    e.CameraY(),
		Score:      st.Score,
		Combo:      st.Combo,
		Multiplier: st.Multiplier,
		Dead:       st.Dead,
		Complete:   st.Complete,
	}
	if st.ActivePowerUp.Timed() {
		s.PowerUp = st.ActivePowerUp.String()
	}

	if p := e.Player(); p != nil {
		s.Player = PlayerState{
			X: p.X, Y: p.Y, W: p.W, H: p.H,
			VX: p.VelocityX, VY: p.VelocityY,
			Rotation: p.Rotation,
			Grounded: p.Grounded,
			Dashing:  p.Dash.Active,
			Shield:   p.Shield,
			Dead:     p.Dead,
		}
	}

	for _, p := range e.VisiblePlatforms() {
		if p.Gone() || !p.Revealed() {
			continue
		}
		b := p.Bounds()
		s.Platforms = append(s.Platforms, PlatformState{
			Type: p.Type.String(), X: b.X, Y: b.Y, W: b.W, H: b.H,
			Collidable: p.Collidable(),
			Crumble:    p.CrumbleProgress(),
			Glow:       p.Glow(),
		})
	}
	for _, c := range e.VisibleCoins() {
		if !c.Collected {
			s.Pickups = append(s.Pickups, PickupState{Kind: "coin", X: c.Rect.X, Y: c.Rect.Y, Size: c.Rect.W})
		}
	}
	for _, u := range e.VisiblePowerUps() {
		if !u.Collected {
			s.Pickups = append(s.Pickups, PickupState{Kind: u.Kind.String(), X: u.Rect.X, Y: u.Rect.Y, Size: u.Rect.W})
		}
	}
	for _, ev := range frame.Events {
		s.Events = append(s.Events, ev.Kind.String())
	}
	return s
}

// Encode serializes a snapshot.
func Encode(s Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("feed: encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("feed: decode snapshot: %w", err)
	}
	return s, nil
}
