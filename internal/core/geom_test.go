package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"overlapping rects", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), true},
		{"non-overlapping horizontal", NewRect(0, 0, 10, 10), NewRect(15, 0, 10, 10), false},
		{"non-overlapping vertical", NewRect(0, 0, 10, 10), NewRect(0, 15, 10, 10), false},
		{"adjacent horizontal (no overlap)", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), false},
		{"adjacent vertical (no overlap)", NewRect(0, 0, 10, 10), NewRect(0, 10, 10, 10), false},
		{"contained rect", NewRect(0, 0, 20, 20), NewRect(5, 5, 5, 5), true},
		{"sliver overlap", NewRect(0, 0, 10, 10), NewRect(9.5, 9.5, 10, 10), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestNewRectClampsNegativeSize(t *testing.T) {
	r := NewRect(1, 2, -5, -1)
	if r.W != 0 || r.H != 0 {
		t.Errorf("negative dimensions should clamp to 0, got %vx%v", r.W, r.H)
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 20, 30, 5)

	if r.Right() != 40 {
		t.Errorf("Right() = %v, expected 40", r.Right())
	}
	if r.Top() != 25 {
		t.Errorf("Top() = %v, expected 25", r.Top())
	}
	cx, cy := r.Center()
	if cx != 25 || cy != 22.5 {
		t.Errorf("Center() = (%v, %v), expected (25, 22.5)", cx, cy)
	}
	if !r.Contains(10, 20) || r.Contains(40, 25) {
		t.Error("Contains should include the origin and exclude the far corner")
	}
}

func TestClassify(t *testing.T) {
	platform := NewRect(0, 0, 100, 20)

	tests := []struct {
		name   string
		mover  Rect
		expect Side
	}{
		{"landing on top", NewRect(40, 18, 10, 10), SideBottom},
		{"head under platform", NewRect(40, -8, 10, 10), SideTop},
		{"running into left face", NewRect(-8, 5, 10, 10), SideLeft},
		{"running into right face", NewRect(98, 5, 10, 10), SideRight},
		{"disjoint", NewRect(200, 0, 10, 10), SideNone},
		{"touching edge only", NewRect(40, 20, 10, 10), SideNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.mover, platform); got != tc.expect {
				t.Errorf("Classify() = %v, expected %v", got, tc.expect)
			}
		})
	}
}

func TestPenetrationTieBreaks(t *testing.T) {
	// Equal vertical and horizontal depth: horizontal wins.
	p := Penetration{Bottom: 2, Top: 30, Left: 2, Right: 30}
	if got := p.Side(); got != SideLeft {
		t.Errorf("vertical/horizontal tie should go horizontal, got %v", got)
	}

	// Equal bottom/top depth: top wins.
	p = Penetration{Bottom: 3, Top: 3, Left: 50, Right: 50}
	if got := p.Side(); got != SideTop {
		t.Errorf("bottom/top tie should go to top, got %v", got)
	}

	// Equal left/right depth: right wins.
	p = Penetration{Bottom: 50, Top: 50, Left: 4, Right: 4}
	if got := p.Side(); got != SideRight {
		t.Errorf("left/right tie should go to right, got %v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}
	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
	if got := ClampF(-0.5, 0, 1); got != 0 {
		t.Errorf("ClampF(-0.5, 0, 1) = %v, expected 0", got)
	}
}

func TestRNGDeterminism(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("same seed diverged at draw %d", i)
		}
	}

	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		f := r.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v out of [0, 1)", f)
		}
		if n := r.Intn(5); n < 0 || n >= 5 {
			t.Fatalf("Intn(5) = %d out of range", n)
		}
	}
}
