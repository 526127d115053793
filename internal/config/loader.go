package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the skybeat configuration.
// Search order: customPath -> ~/.skybeat/configs/skybeat.yaml -> ./configs/skybeat.yaml -> embedded default.
// Files are decoded over DefaultConfig, so partial files only override what they name.
func Load(customPath string) (GameConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return GameConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return GameConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("skybeat.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "skybeat.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultSkybeatYAML)
	if err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and sanitizes the result.
func Parse(data []byte) (GameConfig, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GameConfig{}, err
	}
	cfg.Sanitize()
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".skybeat", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust forgiveness based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Player.MaxAirJumps = 2
		cfg.Physics.AutoScrollSpeed *= 0.8
	case DifficultyHard:
		cfg.Player.MaxAirJumps = 1
		cfg.Physics.AutoScrollSpeed *= 1.25
	}
}

// Sanitize clamps every field into a range the simulation can run with.
// Negative values become zero and paired bounds are reordered.
func (c *GameConfig) Sanitize() {
	d := DefaultConfig()

	positive := func(v *float64, fallback float64) {
		if *v <= 0 {
			*v = fallback
		}
	}
	nonNegative := func(v *float64) {
		if *v < 0 {
			*v = 0
		}
	}
	ordered := func(lo, hi *float64) {
		if *lo > *hi {
			*lo, *hi = *hi, *lo
		}
	}

	positive(&c.World.Width, d.World.Width)
	positive(&c.World.MaxDeltaMs, d.World.MaxDeltaMs)
	nonNegative(&c.World.Margin)
	if c.World.Margin*2 >= c.World.Width {
		c.World.Margin = 0
	}
	nonNegative(&c.World.PruneDistance)

	positive(&c.Physics.MaxFallSpeed, d.Physics.MaxFallSpeed)
	nonNegative(&c.Physics.Gravity)
	nonNegative(&c.Physics.JumpForce)
	nonNegative(&c.Physics.AirJumpMultiplier)
	nonNegative(&c.Physics.AutoScrollSpeed)
	nonNegative(&c.Physics.BounceMultiplier)
	if c.Physics.JumpCutMultiplier < 1 {
		c.Physics.JumpCutMultiplier = 1
	}
	nonNegative(&c.Physics.GravityBoost)
	nonNegative(&c.Physics.StickyJumpMultiplier)
	nonNegative(&c.Physics.GroundFriction)
	nonNegative(&c.Physics.IceFriction)
	nonNegative(&c.Physics.AirFriction)
	nonNegative(&c.Physics.RestEpsilon)
	nonNegative(&c.Physics.ShieldRescueVelocity)
	nonNegative(&c.Physics.ShieldGraceMs)
	nonNegative(&c.Physics.FallDeathMargin)

	positive(&c.Player.Width, d.Player.Width)
	positive(&c.Player.Height, d.Player.Height)
	if c.Player.MaxAirJumps < 0 {
		c.Player.MaxAirJumps = 0
	}
	if c.Player.TrailLength < 1 {
		c.Player.TrailLength = 1
	}
	positive(&c.Player.TrailLifetimeMs, d.Player.TrailLifetimeMs)

	nonNegative(&c.Dash.Speed)
	nonNegative(&c.Dash.DurationMs)
	nonNegative(&c.Dash.CooldownMs)
	c.Dash.CarryFraction = clampF(c.Dash.CarryFraction, 0, 1)
	positive(&c.Dash.AfterimageMs, d.Dash.AfterimageMs)

	nonNegative(&c.Platforms.CrumbleDelayMs)
	nonNegative(&c.Platforms.CrumbleDurationMs)
	nonNegative(&c.Platforms.PhaseOnMs)
	nonNegative(&c.Platforms.PhaseOffMs)
	if c.Platforms.PhaseOnMs+c.Platforms.PhaseOffMs <= 0 {
		c.Platforms.PhaseOnMs, c.Platforms.PhaseOffMs = d.Platforms.PhaseOnMs, d.Platforms.PhaseOffMs
	}
	if c.Platforms.GlassHits < 1 {
		c.Platforms.GlassHits = 1
	}
	nonNegative(&c.Platforms.SecretRevealDistance)

	if c.Scoring.ComboStep < 1 {
		c.Scoring.ComboStep = 1
	}
	if c.Scoring.MaxMultiplier < 1 {
		c.Scoring.MaxMultiplier = 1
	}
	nonNegative(&c.Scoring.ComboWindowMs)

	nonNegative(&c.PowerUps.MagnetMs)
	nonNegative(&c.PowerUps.SlowmoMs)
	nonNegative(&c.PowerUps.DoublePointsMs)
	nonNegative(&c.PowerUps.MagnetRadius)
	nonNegative(&c.PowerUps.MagnetPull)
	c.PowerUps.SlowmoFactor = clampF(c.PowerUps.SlowmoFactor, 0.05, 1)
	positive(&c.PowerUps.CollectAnimMs, d.PowerUps.CollectAnimMs)

	nonNegative(&c.Camera.Offset)
	positive(&c.Camera.ViewportHeight, d.Camera.ViewportHeight)
	nonNegative(&c.Camera.VisibleMargin)

	g := &c.Generator
	positive(&g.Lookahead, d.Generator.Lookahead)
	if g.PlatformsPerLevel < 1 {
		g.PlatformsPerLevel = d.Generator.PlatformsPerLevel
	}
	if g.MaxDifficulty < 0 {
		g.MaxDifficulty = 0
	}
	positive(&g.PlatformHeight, d.Generator.PlatformHeight)
	positive(&g.MinWidth, d.Generator.MinWidth)
	positive(&g.MaxWidth, d.Generator.MaxWidth)
	ordered(&g.MinWidth, &g.MaxWidth)
	if usable := c.World.Width - 2*c.World.Margin; g.MaxWidth > usable {
		g.MaxWidth = usable
		g.MinWidth = math.Min(g.MinWidth, usable)
	}
	positive(&g.MinGap, d.Generator.MinGap)
	positive(&g.MaxGap, d.Generator.MaxGap)
	ordered(&g.MinGap, &g.MaxGap)
	nonNegative(&g.GapGrowth)
	nonNegative(&g.MaxShift)
	nonNegative(&g.ShiftGrowth)
	g.CoinChance = clampF(g.CoinChance, 0, 1)
	nonNegative(&g.CoinLift)
	positive(&g.CoinSize, d.Generator.CoinSize)
	g.SpikeChance = clampF(g.SpikeChance, 0, 1)
	positive(&g.SpikeWidth, d.Generator.SpikeWidth)
	nonNegative(&g.MoveDistance)
	nonNegative(&g.MoveSpeed)

	if c.Difficulty.InitialLevel < 0 {
		c.Difficulty.InitialLevel = 0
	}
	if c.Difficulty.InitialLevel > g.MaxDifficulty {
		c.Difficulty.InitialLevel = g.MaxDifficulty
	}
}
