package entity

import (
	"math"

	"github.com/vovakirdan/skybeat/internal/core"
)

// CollectibleKey identifies a coin or power-up by its spawn position.
type CollectibleKey struct {
	X, Y float64
	Kind PowerUpKind // PowerUpNone for coins
}

// Coin is a score pickup. Magnet pull moves it; the key keeps its spawn point.
type Coin struct {
	Rect             core.Rect
	Collected        bool
	CollectAnimation float64 // 0..1 after collection

	key CollectibleKey
}

// NewCoin creates a coin at (x, y).
func NewCoin(x, y, size float64) *Coin {
	return &Coin{
		Rect: core.NewRect(x, y, size, size),
		key:  CollectibleKey{X: x, Y: y},
	}
}

// Key returns the coin's identity.
func (c *Coin) Key() CollectibleKey {
	return c.key
}

// Collect marks the coin as taken. Returns false if it already was.
func (c *Coin) Collect() bool {
	if c.Collected {
		return false
	}
	c.Collected = true
	return true
}

// Pull moves the coin toward (x, y) by at most step units.
func (c *Coin) Pull(x, y, step float64) {
	cx, cy := c.Rect.Center()
	dx, dy := x-cx, y-cy
	dist := math.Hypot(dx, dy)
	if dist == 0 || step <= 0 {
		return
	}
	if step >= dist {
		c.Rect = c.Rect.Translate(dx, dy)
		return
	}
	c.Rect = c.Rect.Translate(dx/dist*step, dy/dist*step)
}

// Animate advances the collect animation; true once it has finished.
func (c *Coin) Animate(dtMs, animMs float64) bool {
	return animate(&c.CollectAnimation, c.Collected, dtMs, animMs)
}

// PowerUp is a timed or shield pickup.
type PowerUp struct {
	Rect             core.Rect
	Kind             PowerUpKind
	Collected        bool
	CollectAnimation float64
}

// NewPowerUp creates a power-up at (x, y).
func NewPowerUp(x, y, size float64, kind PowerUpKind) *PowerUp {
	return &PowerUp{Rect: core.NewRect(x, y, size, size), Kind: kind}
}

// Key returns the power-up's identity.
func (u *PowerUp) Key() CollectibleKey {
	return CollectibleKey{X: u.Rect.X, Y: u.Rect.Y, Kind: u.Kind}
}

// Collect marks the power-up as taken. Returns false if it already was.
func (u *PowerUp) Collect() bool {
	if u.Collected {
		return false
	}
	u.Collected = true
	return true
}

// Animate advances the collect animation; true once it has finished.
func (u *PowerUp) Animate(dtMs, animMs float64) bool {
	return animate(&u.CollectAnimation, u.Collected, dtMs, animMs)
}

func animate(progress *float64, collected bool, dtMs, animMs float64) bool {
	if !collected {
		return false
	}
	if animMs <= 0 {
		*progress = 1
		return true
	}
	*progress = core.ClampF(*progress+dtMs/animMs, 0, 1)
	return *progress >= 1
}
