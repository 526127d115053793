// Package core provides fundamental types and utilities shared by the simulation
// and the hosts that drive it. It contains no external dependencies (especially
// no Bubble Tea) to keep game logic pure and testable.
package core

import "math"

// Rect is an axis-aligned box in world space.
// The world Y axis points up, so Y is the bottom edge and Top() the upper one.
type Rect struct {
	X, Y float64 // Bottom-left corner
	W, H float64 // Width and height, never negative
}

// NewRect creates a rectangle, clamping negative dimensions to zero.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: math.Max(w, 0), H: math.Max(h, 0)}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Top returns the y-coordinate of the upper edge.
func (r Rect) Top() float64 {
	return r.Y + r.H
}

// Intersects reports whether two rectangles overlap with positive area.
// Rectangles that only share an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Top() || other.Y >= r.Top() {
		return false
	}
	return true
}

// OverlapsX reports whether the horizontal extents overlap.
func (r Rect) OverlapsX(other Rect) bool {
	return r.X < other.Right() && other.X < r.Right()
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Top()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Side identifies which side of the moving box took the hit.
type Side int

const (
	SideNone   Side = iota
	SideBottom      // feet hit the top surface of the obstacle
	SideTop         // head hit the underside of the obstacle
	SideLeft        // right flank pushed into the obstacle's left face
	SideRight       // left flank pushed into the obstacle's right face
)

// String returns a human-readable name for the side.
func (s Side) String() string {
	switch s {
	case SideNone:
		return "none"
	case SideBottom:
		return "bottom"
	case SideTop:
		return "top"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Vertical reports whether the side belongs to the vertical pair.
func (s Side) Vertical() bool {
	return s == SideBottom || s == SideTop
}

// Penetration holds the four directional overlap depths between a mover and an obstacle.
type Penetration struct {
	Bottom float64 // obstacle top minus mover bottom
	Top    float64 // mover top minus obstacle bottom
	Left   float64 // mover right minus obstacle left
	Right  float64 // obstacle right minus mover left
}

// Penetrate computes the directional overlaps of mover against obstacle.
// Values are only meaningful when the rectangles intersect.
func Penetrate(mover, obstacle Rect) Penetration {
	return Penetration{
		Bottom: obstacle.Top() - mover.Y,
		Top:    mover.Top() - obstacle.Y,
		Left:   mover.Right() - obstacle.X,
		Right:  obstacle.Right() - mover.X,
	}
}

// Side classifies the collision with the shallow-axis rule.
// The vertical pair wins only when strictly shallower, so ties go horizontal.
// Inside a pair the strictly smaller depth wins; ties go to SideTop or SideRight.
func (p Penetration) Side() Side {
	minV := math.Min(p.Bottom, p.Top)
	minH := math.Min(p.Left, p.Right)
	if minV < minH {
		if p.Bottom < p.Top {
			return SideBottom
		}
		return SideTop
	}
	if p.Left < p.Right {
		return SideLeft
	}
	return SideRight
}

// Classify returns the collision side of mover against obstacle,
// or SideNone when they do not intersect.
func Classify(mover, obstacle Rect) Side {
	if !mover.Intersects(obstacle) {
		return SideNone
	}
	return Penetrate(mover, obstacle).Side()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
