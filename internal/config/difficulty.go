package config

import "math"

// DifficultyManager maps the generator's integer difficulty onto placement ranges.
type DifficultyManager struct {
	cfg DifficultyConfig
	gen GeneratorConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig, gen GeneratorConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg, gen: gen}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled
}

// Initial returns the starting difficulty, clamped to the valid range.
func (d *DifficultyManager) Initial() int {
	return d.clampLevel(d.cfg.InitialLevel)
}

// Max returns the difficulty cap.
func (d *DifficultyManager) Max() int {
	return d.gen.MaxDifficulty
}

// Next returns the difficulty after a completed run of platforms.
func (d *DifficultyManager) Next(current int) int {
	if !d.IsEnabled() {
		return current
	}
	return d.clampLevel(current + 1)
}

// Level returns the difficulty as a fraction in [0, 1].
func (d *DifficultyManager) Level(difficulty int) float64 {
	if d.gen.MaxDifficulty <= 0 {
		return 0
	}
	return clampF(float64(difficulty)/float64(d.gen.MaxDifficulty), 0.0, 1.0)
}

// GapRange returns the vertical gap bounds for a difficulty.
// Gaps widen as difficulty increases.
func (d *DifficultyManager) GapRange(difficulty int) (lo, hi float64) {
	grow := d.Level(difficulty) * d.gen.GapGrowth
	return d.gen.MinGap + grow, d.gen.MaxGap + grow
}

// MaxShift returns the largest horizontal displacement between consecutive platforms.
func (d *DifficultyManager) MaxShift(difficulty int) float64 {
	return d.gen.MaxShift + d.Level(difficulty)*d.gen.ShiftGrowth
}

// Width returns the platform width bounds for a difficulty.
// Platforms narrow toward MinWidth as difficulty increases.
func (d *DifficultyManager) Width(difficulty int) (lo, hi float64) {
	span := d.gen.MaxWidth - d.gen.MinWidth
	hi = d.gen.MaxWidth - d.Level(difficulty)*span*0.5
	return d.gen.MinWidth, math.Max(hi, d.gen.MinWidth)
}

func (d *DifficultyManager) clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > d.gen.MaxDifficulty {
		return d.gen.MaxDifficulty
	}
	return level
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
